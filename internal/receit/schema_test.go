package receit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Talal-Sharaa/ReceIT/internal/model"
)

func validInput() Input {
	return Input{
		Title:     "Ship the quarterly report",
		Priority:  "High",
		Category:  "Development",
		Effort:    3,
		StartDate: model.NewDate(2026, time.April, 1),
		DueDate:   model.NewDate(2026, time.April, 8),
	}
}

func TestValidate_AcceptsAndNormalizes(t *testing.T) {
	rec, err := Validate(validInput())
	assert.NoError(t, err)

	assert.Equal(t, "Ship the quarterly report", rec.Title)
	assert.Equal(t, model.PriorityHigh, rec.Priority)
	assert.Equal(t, model.StatusTodo, rec.Status)
	assert.NotNil(t, rec.LinkedReceits)
	assert.NotNil(t, rec.Notes)
	assert.Empty(t, rec.ID, "id is assigned by the store, not the schema")
}

func TestValidate_ShortTitleAndDueBeforeStart(t *testing.T) {
	in := validInput()
	in.Title = "ab"
	in.StartDate = model.NewDate(2026, time.April, 8)
	in.DueDate = model.NewDate(2026, time.April, 1)

	_, err := Validate(in)
	assert.Error(t, err)

	verr, ok := err.(ValidationErrors)
	assert.True(t, ok)
	assert.Len(t, verr, 2)

	fields := []string{verr[0].Field, verr[1].Field}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "dueDate")
}

func TestValidate_DueEqualStartIsFine(t *testing.T) {
	in := validInput()
	in.DueDate = in.StartDate

	_, err := Validate(in)
	assert.NoError(t, err)
}

func TestValidate_EmptyDescriptionAllowed(t *testing.T) {
	in := validInput()
	in.Description = ""
	_, err := Validate(in)
	assert.NoError(t, err)

	in.Description = "ok"
	_, err = Validate(in)
	assert.Error(t, err, "a non-empty description still needs 3 characters")
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	_, err := Validate(Input{Title: "x", Priority: "Urgent", Effort: -1})
	verr, ok := err.(ValidationErrors)
	assert.True(t, ok)

	fields := map[string]bool{}
	for _, fe := range verr {
		fields[fe.Field] = true
	}
	assert.True(t, fields["title"])
	assert.True(t, fields["priority"])
	assert.True(t, fields["category"])
	assert.True(t, fields["effort"])
	assert.True(t, fields["startDate"])
	assert.True(t, fields["dueDate"])
}

func TestValidate_StatusRoundTrip(t *testing.T) {
	in := validInput()
	in.Status = "Done"
	rec, err := Validate(in)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusDone, rec.Status)

	in.Status = "Finished"
	_, err = Validate(in)
	assert.Error(t, err)
}

func TestNumber_CoercesStrings(t *testing.T) {
	var in Input
	payload := `{"title":"Plan sprint","priority":"Low","category":"Development","effort":"2.5","startDate":"2026-04-01","dueDate":"2026-04-02"}`
	assert.NoError(t, json.Unmarshal([]byte(payload), &in))
	assert.Equal(t, Number(2.5), in.Effort)

	rec, err := Validate(in)
	assert.NoError(t, err)
	assert.Equal(t, 2.5, rec.Effort)
}

func TestNumber_RejectsGarbage(t *testing.T) {
	var n Number
	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &n))
	assert.NoError(t, json.Unmarshal([]byte(`""`), &n))
	assert.Equal(t, Number(0), n)
}
