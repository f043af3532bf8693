package scheduler

import "github.com/noah-isme/sma-adp-api/internal/models"

// Weights is the objective's weight vector (spec §4.3/§6 constraint_weights).
// A missing key defaults to 0, meaning that term is not posted at all rather
// than posted with a zero coefficient — a zero-weight term would still cost
// model size for no benefit.
type Weights map[string]int

// Get returns the weight for key, or 0 if the key is absent — mirroring the
// source's constraint_weights.get(key, 0).
func (w Weights) Get(key string) int {
	return w[key]
}

// Sanitize drops any key not in models.RecognizedWeightKeys, per §6's
// "unknown keys are ignored".
func (w Weights) Sanitize() Weights {
	recognized := make(map[string]bool, len(models.RecognizedWeightKeys))
	for _, k := range models.RecognizedWeightKeys {
		recognized[k] = true
	}
	clean := make(Weights, len(w))
	for k, v := range w {
		if recognized[k] {
			clean[k] = v
		}
	}
	return clean
}
