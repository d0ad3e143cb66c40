package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-15", d.String())
}

func TestParseDate_AcceptsFullTimestamp(t *testing.T) {
	d, err := ParseDate("2026-03-15T22:45:00+05:00")
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-15", d.String())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("15/03/2026")
	assert.Error(t, err)
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2026, time.March, 15)

	b, err := json.Marshal(d)
	assert.NoError(t, err)
	assert.Equal(t, `"2026-03-15"`, string(b))

	var back Date
	assert.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, d.Equal(back))
}

func TestDate_ZeroMarshalsEmpty(t *testing.T) {
	b, err := json.Marshal(Date{})
	assert.NoError(t, err)
	assert.Equal(t, `""`, string(b))

	var back Date
	assert.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.IsZero())
}

func TestDate_Ordering(t *testing.T) {
	early := NewDate(2026, time.January, 1)
	late := NewDate(2026, time.January, 2)

	assert.True(t, early.Before(late))
	assert.True(t, late.After(early))
	assert.False(t, early.After(late))
}

func TestDateOf_TruncatesClock(t *testing.T) {
	d := DateOf(time.Date(2026, time.July, 4, 23, 59, 58, 0, time.UTC))
	assert.Equal(t, "2026-07-04", d.String())
}

func TestDate_AddDays(t *testing.T) {
	d := NewDate(2026, time.January, 30)
	assert.Equal(t, "2026-02-01", d.AddDays(2).String())
}
