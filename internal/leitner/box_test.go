package leitner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/wordbox/internal/leitner"
)

func TestInterval(t *testing.T) {
	want := map[int]int{1: 1, 2: 2, 3: 4, 4: 6, 5: 10}
	for box, days := range want {
		assert.Equal(t, days, leitner.Interval(box), "box %d", box)
	}
}

func TestInterval_PanicsOutsideRange(t *testing.T) {
	assert.Panics(t, func() { leitner.Interval(0) })
	assert.Panics(t, func() { leitner.Interval(leitner.GraduationBox) })
}

func TestApplyReview(t *testing.T) {
	tests := []struct {
		name     string
		box      int
		attempts int
		success  bool
		want     leitner.Step
	}{
		{
			name: "success promotes and clears attempts",
			box:  3, attempts: 1, success: true,
			want: leitner.Step{Box: 4, Attempts: 0, Kind: leitner.Promoted},
		},
		{
			name: "success from box 5 graduates",
			box:  5, attempts: 0, success: true,
			want: leitner.Step{Box: 6, Attempts: 0, Kind: leitner.Graduated},
		},
		{
			name: "first failure above box 1 holds",
			box:  3, attempts: 0, success: false,
			want: leitner.Step{Box: 3, Attempts: 1, Kind: leitner.Retained},
		},
		{
			name: "second failure demotes",
			box:  3, attempts: 1, success: false,
			want: leitner.Step{Box: 2, Attempts: 0, Kind: leitner.Demoted},
		},
		{
			name: "failures at box 1 keep counting",
			box:  1, attempts: 4, success: false,
			want: leitner.Step{Box: 1, Attempts: 5, Kind: leitner.Retained},
		},
		{
			name: "second failure from box 2 lands in box 1",
			box:  2, attempts: 1, success: false,
			want: leitner.Step{Box: 1, Attempts: 0, Kind: leitner.Demoted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leitner.ApplyReview(tt.box, tt.attempts, tt.success))
		})
	}
}

func TestApplyReview_SingleFailureNeverDemotes(t *testing.T) {
	for box := leitner.MinBox; box <= leitner.MaxBox; box++ {
		step := leitner.ApplyReview(box, 0, false)
		assert.Equal(t, box, step.Box)
		assert.Equal(t, 1, step.Attempts)
	}
}

func TestApplyReview_BoxChangeResetsAttempts(t *testing.T) {
	for box := leitner.MinBox; box <= leitner.MaxBox; box++ {
		for attempts := 0; attempts < 4; attempts++ {
			for _, success := range []bool{true, false} {
				step := leitner.ApplyReview(box, attempts, success)
				if step.Box != box {
					assert.Zero(t, step.Attempts, "box %d attempts %d success %t", box, attempts, success)
				} else {
					assert.Equal(t, attempts+1, step.Attempts)
				}
			}
		}
	}
}

func TestStepKind_String(t *testing.T) {
	assert.Equal(t, "promoted", leitner.Promoted.String())
	assert.Equal(t, "graduated", leitner.Graduated.String())
	assert.Equal(t, "unknown", leitner.StepKind(42).String())
}
