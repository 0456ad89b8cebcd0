package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContactSubmission is a message left through the public contact form,
// visible to admins only.
type ContactSubmission struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Pagination describes the window returned by paginated list endpoints.
type Pagination struct {
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}
