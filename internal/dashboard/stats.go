package dashboard

import (
	"github.com/Talal-Sharaa/ReceIT/internal/model"
)

// Stats summarizes completion progress for one owner's records.
// EffortDone/EffortTotal weight the done/to-do ratio by estimated effort
// points; CompletedByCategory counts only records marked Done.
type Stats struct {
	Total int `json:"total"`
	Done  int `json:"done"`
	Todo  int `json:"todo"`

	EffortTotal    float64        `json:"effortTotal"`
	EffortDone     float64        `json:"effortDone"`
	PercentEffort  float64        `json:"percentEffort"`
	CompletedByCat map[string]int `json:"completedByCategory"`
}

// Compute derives stats from a record list. Pure; the list is not retained.
func Compute(records []model.Receit) Stats {
	stats := Stats{CompletedByCat: map[string]int{}}

	for _, r := range records {
		stats.Total++
		stats.EffortTotal += r.Effort
		if r.Status == model.StatusDone {
			stats.Done++
			stats.EffortDone += r.Effort
			stats.CompletedByCat[r.Category]++
		} else {
			stats.Todo++
		}
	}

	if stats.EffortTotal > 0 {
		stats.PercentEffort = stats.EffortDone / stats.EffortTotal * 100
	}
	return stats
}
