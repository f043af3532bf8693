package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/dto"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
	"github.com/noah-isme/sma-adp-api/pkg/export"
	"github.com/noah-isme/sma-adp-api/pkg/jobs"
	"github.com/noah-isme/sma-adp-api/pkg/storage"
)

// ExportTarget selects which table of a solve response gets rendered.
type ExportTarget string

const (
	ExportTargetTeachers  ExportTarget = "teachers"
	ExportTargetStudents  ExportTarget = "students"
	ExportTargetShortages ExportTarget = "shortages"
)

// ExportFormat selects the rendered file's encoding.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportJob is the unit of work handed to the render queue: render one
// solve's table to disk and make it available through a signed URL.
type ExportJob struct {
	CampaignID string
	SolveID    string
	Target     ExportTarget
	Format     ExportFormat
	Solve      *dto.SolveResponse
}

// ExportResult names the file an export produced and whether it has finished
// rendering yet. The token and URL are valid as soon as Render returns:
// the filename is derived deterministically from the job, so the signed
// link can be handed out before the worker pool has written the bytes.
type ExportResult struct {
	RelPath string
	Token   string
	URL     string
	Expires time.Time
	Pending bool
}

// ExportService renders solved shift/shortage tables to CSV or PDF and backs
// the download with a signed URL, mirroring the solve endpoint's tabular
// outputs for offline distribution (printable teacher schedules, spreadsheet
// imports of student schedules, shortage follow-up lists).
type ExportService struct {
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	queue     *jobs.Queue
	apiPrefix string
	logger    *zap.Logger
}

// ExportConfig configures URL construction and queue concurrency.
type ExportConfig struct {
	APIPrefix string
	Workers   int
}

// NewExportService wires the CSV/PDF renderers to durable storage and a
// background queue so rendering never blocks the HTTP response.
func NewExportService(store *storage.LocalStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ExportService{
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		store:     store,
		signer:    signer,
		apiPrefix: cfg.APIPrefix,
		logger:    logger,
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 2
	}
	svc.queue = jobs.NewQueue("exports", svc.render, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: workers * 4,
		MaxRetries: 2,
		RetryDelay: time.Second,
		Logger:     logger,
	})
	return svc
}

// Start launches the background render queue and a periodic sweep of
// rendered files past their signed-URL lifetime.
func (s *ExportService) Start(ctx context.Context, sweepInterval, fileTTL time.Duration) {
	s.queue.Start(ctx)
	if sweepInterval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed, err := s.store.CleanupOlderThan(fileTTL); err != nil {
					s.logger.Sugar().Warnw("export cleanup failed", "error", err)
				} else if len(removed) > 0 {
					s.logger.Sugar().Infow("swept expired exports", "count", len(removed))
				}
			}
		}
	}()
}

// Stop drains the background render queue.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Render hands a solve table off to the background render queue and returns
// a signed download link immediately. The link is valid before the file
// exists on disk: its path is derived deterministically from the job, so
// the worker pool can write it later without changing the token. Callers
// poll Open until the file appears; a failed render retries on the queue
// per QueueConfig.MaxRetries before giving up.
func (s *ExportService) Render(ctx context.Context, req ExportJob) (*ExportResult, error) {
	if s.store == nil || s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export storage is not configured")
	}

	relPath := exportFilename(req)
	jobID := req.SolveID + ":" + string(req.Target)

	token, expires, err := s.signer.Generate(jobID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export url")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: jobID, Type: "export.render", Payload: req}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export render")
	}

	url := fmt.Sprintf("%s/export/%s", s.apiPrefix, token)
	return &ExportResult{RelPath: relPath, Token: token, URL: url, Expires: expires, Pending: true}, nil
}

// render is the queue handler that does the actual rendering work off the
// request path, retried by the queue on failure.
func (s *ExportService) render(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(ExportJob)
	if !ok {
		return fmt.Errorf("export job: unexpected payload type %T", job.Payload)
	}
	_, err := s.renderToFile(req)
	return err
}

func (s *ExportService) renderToFile(req ExportJob) (string, error) {
	dataset := datasetFor(req.Target, req.Solve)

	var bytesOut []byte
	var err error
	switch req.Format {
	case ExportFormatPDF:
		bytesOut, err = s.pdf.Render(dataset, string(req.Target)+" — "+req.CampaignID)
	default:
		bytesOut, err = s.csv.Render(dataset)
	}
	if err != nil {
		return "", err
	}

	return s.store.Save(exportFilename(req), bytesOut)
}

// exportFilename derives the storage-relative path for a job. It depends
// only on the job's fields, not its rendered contents, so Render can hand
// out a signed link before the file is written.
func exportFilename(req ExportJob) string {
	return fmt.Sprintf("%s-%s-%s.%s", req.CampaignID, req.SolveID, req.Target, req.Format)
}

// Open resolves a signed token back to the absolute path of the rendered
// file. ready is false when the token is valid but the worker pool hasn't
// written the file yet; callers should treat that as "try again shortly"
// rather than a missing export.
func (s *ExportService) Open(token string) (path string, ready bool, err error) {
	_, relPath, _, parseErr := s.signer.Parse(token, false)
	if parseErr != nil {
		return "", false, appErrors.Clone(appErrors.ErrNotFound, "export link expired or invalid")
	}
	path = s.store.Path(relPath)
	if _, statErr := os.Stat(path); statErr != nil {
		return path, false, nil
	}
	return path, true, nil
}

func datasetFor(target ExportTarget, solve *dto.SolveResponse) export.Dataset {
	switch target {
	case ExportTargetStudents:
		rows := make([]map[string]string, 0, len(solve.Students))
		for _, row := range solve.Students {
			rows = append(rows, map[string]string{
				"student_name": row.StudentName,
				"teacher_name": row.TeacherName,
				"subject_name": row.SubjectName,
				"date":         row.Date,
				"period_index": strconv.Itoa(row.PeriodIndex),
			})
		}
		return export.Dataset{Headers: []string{"student_name", "teacher_name", "subject_name", "date", "period_index"}, Rows: rows}
	case ExportTargetShortages:
		rows := make([]map[string]string, 0, len(solve.Shortages))
		for _, row := range solve.Shortages {
			rows = append(rows, map[string]string{
				"student_name": row.StudentName,
				"subject_name": row.SubjectName,
				"amount":       strconv.Itoa(row.Amount),
			})
		}
		return export.Dataset{Headers: []string{"student_name", "subject_name", "amount"}, Rows: rows}
	default:
		rows := make([]map[string]string, 0, len(solve.Teachers))
		for _, row := range solve.Teachers {
			names := ""
			for i, st := range row.Students {
				if i > 0 {
					names += "|"
				}
				names += st.FullName
			}
			rows = append(rows, map[string]string{
				"teacher_name": row.TeacherName,
				"subject_name": row.SubjectName,
				"date":         row.Date,
				"period_index": strconv.Itoa(row.PeriodIndex),
				"students":     names,
			})
		}
		return export.Dataset{Headers: []string{"teacher_name", "subject_name", "date", "period_index", "students"}, Rows: rows}
	}
}
