package models

import "time"

// Card is a persisted word/definition pair and its Leitner schedule.
// NextReview is a calendar date at local midnight.
type Card struct {
	ID         int64     `json:"id"`
	Word       string    `json:"word"`
	Definition string    `json:"definition"`
	Box        int       `json:"box"`
	NextReview time.Time `json:"next_review"`
	Attempts   int       `json:"attempts"`
}

// ReviewEvent is one applied review, appended to the review history.
type ReviewEvent struct {
	SessionID     string    `json:"session_id"`
	Word          string    `json:"word"`
	BoxBefore     int       `json:"box_before"`
	BoxAfter      int       `json:"box_after"`
	AttemptsAfter int       `json:"attempts_after"`
	Success       bool      `json:"success"`
	Graduated     bool      `json:"graduated"`
	ReviewedOn    time.Time `json:"reviewed_on"`
}
