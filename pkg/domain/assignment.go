package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentStatus is the backend's lifecycle label for an assignment.
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentSubmitted AssignmentStatus = "submitted"
	AssignmentGraded    AssignmentStatus = "graded"
)

// Assignment is a piece of coursework assigned to the student.
type Assignment struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Course      string           `json:"course"`
	Status      AssignmentStatus `json:"status"`
	DueAt       time.Time        `json:"due_date"`
	Grade       string           `json:"grade,omitempty"`
	Feedback    string           `json:"feedback,omitempty"`
	Description string           `json:"description,omitempty"`
}
