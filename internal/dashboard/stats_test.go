package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Talal-Sharaa/ReceIT/internal/model"
)

func rec(category string, effort float64, status model.Status) model.Receit {
	return model.Receit{Category: category, Effort: effort, Status: status}
}

func TestCompute_WeightsByEffort(t *testing.T) {
	stats := Compute([]model.Receit{
		rec("Development", 5, model.StatusDone),
		rec("Development", 3, model.StatusTodo),
		rec("Marketing", 2, model.StatusDone),
	})

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Done)
	assert.Equal(t, 1, stats.Todo)
	assert.Equal(t, 10.0, stats.EffortTotal)
	assert.Equal(t, 7.0, stats.EffortDone)
	assert.InDelta(t, 70.0, stats.PercentEffort, 0.001)
	assert.Equal(t, map[string]int{"Development": 1, "Marketing": 1}, stats.CompletedByCat)
}

func TestCompute_EmptyListIsAllZero(t *testing.T) {
	stats := Compute(nil)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.PercentEffort, "no effort must not divide by zero")
	assert.NotNil(t, stats.CompletedByCat)
}

func TestCompute_ZeroEffortRecords(t *testing.T) {
	stats := Compute([]model.Receit{
		rec("Personal", 0, model.StatusDone),
		rec("Personal", 0, model.StatusTodo),
	})

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 0.0, stats.PercentEffort)
	assert.Equal(t, 1, stats.CompletedByCat["Personal"])
}
