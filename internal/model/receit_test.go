package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReceit_NormalizeDefaults(t *testing.T) {
	r := Receit{Title: "write report"}
	r.Normalize()

	assert.Equal(t, StatusTodo, r.Status)
	assert.NotNil(t, r.LinkedReceits)
	assert.NotNil(t, r.Notes)
	assert.Empty(t, r.LinkedReceits)
}

func TestReceit_NormalizeKeepsStatus(t *testing.T) {
	r := Receit{Status: StatusDone}
	r.Normalize()
	assert.Equal(t, StatusDone, r.Status)
}

func TestReceit_CloneDoesNotShareSlices(t *testing.T) {
	r := Receit{
		ID:            "a",
		LinkedReceits: []string{"b"},
		Notes:         []string{"first"},
	}
	c := r.Clone()
	c.LinkedReceits[0] = "changed"
	c.Notes[0] = "changed"

	assert.Equal(t, "b", r.LinkedReceits[0])
	assert.Equal(t, "first", r.Notes[0])
}

func TestReceit_HasLink(t *testing.T) {
	r := Receit{LinkedReceits: []string{"x", "y"}}
	assert.True(t, r.HasLink("x"))
	assert.False(t, r.HasLink("z"))
}

func TestPriority_Valid(t *testing.T) {
	assert.True(t, PriorityLow.Valid())
	assert.True(t, PriorityMedium.Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("Urgent").Valid())
	assert.False(t, Priority("").Valid())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, StatusTodo.Valid())
	assert.True(t, StatusDone.Valid())
	assert.False(t, Status("In Progress").Valid())
}
