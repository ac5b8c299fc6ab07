package models

import "github.com/google/uuid"

// NewID returns a fresh store identifier.
func NewID() string {
	return uuid.NewString()
}

// All lists every model in parent -> child migration order.
func All() []interface{} {
	return []interface{}{
		&Hotel{},
		&Room{},
		&Booking{},
		&ContactSubmission{},
	}
}
