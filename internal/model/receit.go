package model

import (
	"slices"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Status string

const (
	StatusTodo Status = "To-Do"
	StatusDone Status = "Done"
)

func (s Status) Valid() bool {
	return s == StatusTodo || s == StatusDone
}

// Receit is a single task record. All records belong to one owner and
// reference each other through LinkedReceits, a directed, one-hop link
// relation. Links are not required to be symmetric and cycles are allowed.
type Receit struct {
	ID            string   `json:"id"`
	OwnerID       string   `json:"ownerId"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Priority      Priority `json:"priority"`
	Category      string   `json:"category"`
	Effort        float64  `json:"effort"`
	StartDate     Date     `json:"startDate"`
	DueDate       Date     `json:"dueDate"`
	Status        Status   `json:"status"`
	LinkedReceits []string `json:"linkedReceits"`
	Notes         []string `json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Receit) Normalize() {
	if r.Status == "" {
		r.Status = StatusTodo
	}
	if r.LinkedReceits == nil {
		r.LinkedReceits = []string{}
	}
	if r.Notes == nil {
		r.Notes = []string{}
	}
}

func (r Receit) HasLink(id string) bool {
	return slices.Contains(r.LinkedReceits, id)
}

// Clone returns a copy that shares no slices with the original.
func (r Receit) Clone() Receit {
	out := r
	out.LinkedReceits = slices.Clone(r.LinkedReceits)
	out.Notes = slices.Clone(r.Notes)
	out.Normalize()
	return out
}
