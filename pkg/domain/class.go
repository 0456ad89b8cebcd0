package domain

import (
	"time"

	"github.com/google/uuid"
)

// Class is a scheduled tutoring or prep session.
type Class struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Course          string    `json:"course"`
	Tutor           string    `json:"tutor"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
	MeetingURL      string    `json:"meeting_url,omitempty"`
}
