package neural

import "time"

// EpochMetrics records the metrics of one training epoch.
type EpochMetrics struct {
	Epoch       int           `json:"epoch"`
	Loss        float64       `json:"loss"`
	Accuracy    float64       `json:"accuracy"`
	ValLoss     float64       `json:"val_loss"`
	ValAccuracy float64       `json:"val_accuracy"`
	Duration    time.Duration `json:"duration"`
}

// History is the append-only record of per-epoch training metrics.
// Fit appends exactly one entry per completed epoch.
type History struct {
	entries []EpochMetrics
}

// Append adds one epoch record.
func (h *History) Append(m EpochMetrics) {
	h.entries = append(h.entries, m)
}

// Len returns the number of recorded epochs.
func (h *History) Len() int {
	return len(h.entries)
}

// At returns the record of epoch index i (0-based).
func (h *History) At(i int) EpochMetrics {
	return h.entries[i]
}

// Entries returns a copy of all records in epoch order.
func (h *History) Entries() []EpochMetrics {
	out := make([]EpochMetrics, len(h.entries))
	copy(out, h.entries)
	return out
}

// Last returns the most recent record, if any.
func (h *History) Last() (EpochMetrics, bool) {
	if len(h.entries) == 0 {
		return EpochMetrics{}, false
	}
	return h.entries[len(h.entries)-1], true
}
