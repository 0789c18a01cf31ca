package leitner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/wordbox/internal/leitner"
)

func TestBoxSymbol(t *testing.T) {
	tests := map[int]string{
		0:  "☆☆☆☆☆",
		1:  "★☆☆☆☆",
		2:  "★★☆☆☆",
		3:  "★★★☆☆",
		4:  "★★★★☆",
		5:  "★★★★★",
		6:  "☆☆☆☆☆",
		-1: "☆☆☆☆☆",
	}
	for box, want := range tests {
		assert.Equal(t, want, leitner.BoxSymbol(box), "box %d", box)
	}
}

func TestRelativeDate(t *testing.T) {
	// Monday 6 May 2024.
	today := time.Date(2024, time.May, 6, 9, 30, 0, 0, time.Local)
	day := func(offset int) time.Time { return today.AddDate(0, 0, offset) }

	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{"past", -1, ""},
		{"today", 0, "Today"},
		{"tomorrow", 1, "Tomorrow"},
		{"later this week", 3, "Thu"},
		{"sunday same week", 6, "Sun"},
		{"next monday", 7, "Next week"},
		{"eight days", 8, "In 8 days"},
		{"ten days", 10, "In 10 days"},
		{"eleven days", 11, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leitner.RelativeDate(day(tt.offset), today))
		})
	}
}

func TestRelativeDate_EndOfWeek(t *testing.T) {
	// Saturday: two days out crosses into the next ISO week.
	saturday := time.Date(2024, time.May, 11, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "Next week", leitner.RelativeDate(saturday.AddDate(0, 0, 2), saturday))
	assert.Equal(t, "Tomorrow", leitner.RelativeDate(saturday.AddDate(0, 0, 1), saturday))
}
