package receit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Talal-Sharaa/ReceIT/internal/model"
)

// Number unmarshals from a JSON number or a numeric string, mirroring the
// coercion the record form applies to the effort field.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", str)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Input carries the editable fields of a record. ID, owner and timestamps
// are assigned by the store; status defaults to To-Do when omitted.
type Input struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority"`
	Category      string     `json:"category"`
	Effort        Number     `json:"effort"`
	StartDate     model.Date `json:"startDate"`
	DueDate       model.Date `json:"dueDate"`
	Status        string     `json:"status"`
	LinkedReceits []string   `json:"linkedReceits"`
	Notes         []string   `json:"notes"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every violated field; it never reaches the store.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validate is the only gate between raw input and the store. It is pure:
// either every constraint holds and a normalized record comes back, or the
// full list of violations does. The store itself does not re-validate.
func Validate(in Input) (model.Receit, error) {
	var violations ValidationErrors

	if utf8.RuneCountInString(in.Title) < 3 {
		violations = append(violations, FieldError{"title", "Title must be at least 3 characters."})
	}
	if in.Description != "" && utf8.RuneCountInString(in.Description) < 3 {
		violations = append(violations, FieldError{"description", "Description must be at least 3 characters."})
	}
	if !model.Priority(in.Priority).Valid() {
		violations = append(violations, FieldError{"priority", "Priority must be one of Low, Medium, High."})
	}
	if len(in.Category) < 1 {
		violations = append(violations, FieldError{"category", "Category is required."})
	}
	if in.Effort < 0 {
		violations = append(violations, FieldError{"effort", "Effort must be a positive number."})
	}
	if in.StartDate.IsZero() {
		violations = append(violations, FieldError{"startDate", "Start date is required."})
	}
	if in.DueDate.IsZero() {
		violations = append(violations, FieldError{"dueDate", "Due date is required."})
	}
	if !in.StartDate.IsZero() && !in.DueDate.IsZero() && in.DueDate.Before(in.StartDate) {
		violations = append(violations, FieldError{"dueDate", "Due date cannot be earlier than start date."})
	}

	status := model.Status(in.Status)
	if in.Status == "" {
		status = model.StatusTodo
	} else if !status.Valid() {
		violations = append(violations, FieldError{"status", "Status must be To-Do or Done."})
	}

	if len(violations) > 0 {
		return model.Receit{}, violations
	}

	rec := model.Receit{
		Title:         in.Title,
		Description:   in.Description,
		Priority:      model.Priority(in.Priority),
		Category:      in.Category,
		Effort:        float64(in.Effort),
		StartDate:     in.StartDate,
		DueDate:       in.DueDate,
		Status:        status,
		LinkedReceits: in.LinkedReceits,
		Notes:         in.Notes,
	}
	rec.Normalize()
	return rec, nil
}
