package receit

import (
	"time"

	"github.com/google/uuid"

	"github.com/Talal-Sharaa/ReceIT/internal/model"
)

// DefaultSeedCategories stay selectable even when no record uses them.
var DefaultSeedCategories = []string{"Development", "Marketing", "Personal"}

// seedReceits is the starter dataset used when no state was ever
// persisted for an owner, or when rehydration fails. It is generated
// fresh so ids never collide across owners.
func seedReceits(ownerID string) []model.Receit {
	now := time.Now()
	today := model.Today()

	design := model.Receit{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       "Design landing page",
		Description: "Wireframes and a first visual pass for the new landing page.",
		Priority:    model.PriorityHigh,
		Category:    "Development",
		Effort:      5,
		StartDate:   today,
		DueDate:     today.AddDays(7),
		Status:      model.StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	launch := model.Receit{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Title:         "Draft launch announcement",
		Description:   "Blog post and social copy for the release.",
		Priority:      model.PriorityMedium,
		Category:      "Marketing",
		Effort:        3,
		StartDate:     today,
		DueDate:       today.AddDays(10),
		Status:        model.StatusTodo,
		LinkedReceits: []string{design.ID},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	groceries := model.Receit{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     "Weekly grocery run",
		Priority:  model.PriorityLow,
		Category:  "Personal",
		Effort:    1,
		StartDate: today.AddDays(-1),
		DueDate:   today,
		Status:    model.StatusDone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	out := []model.Receit{design, launch, groceries}
	for i := range out {
		out[i].Normalize()
	}
	return out
}
