package domain

import (
	"time"

	"github.com/google/uuid"
)

// Resource is a study or application material shared with students.
type Resource struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	AddedAt     time.Time `json:"added_at"`
}
