// Package events publishes domain events about relationship changes and cascading deletes.
package events

import (
	"context"
	"time"
)

// Routing keys
const (
	StudentCreated     = "student.created"
	StudentEnrolled    = "student.enrolled"
	StudentDropped     = "student.dropped"
	StudentAssigned    = "student.department_assigned"
	LecturerCreated    = "lecturer.created"
	LecturerAssigned   = "lecturer.course_assigned"
	LecturerUnassigned = "lecturer.course_unassigned"
	LecturerDepartment = "lecturer.department_assigned"
	LecturerLIC        = "lecturer.lic_changed"
	DepartmentDeleted  = "department.deleted"
	CourseDeleted      = "course.deleted"
)

// Event is the envelope of every published message.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// New wraps data in an Event of the given type.
func New(eventType string, data interface{}) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: data}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop discards every event. It is used when events are disabled.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

func (Noop) Close() error { return nil }
