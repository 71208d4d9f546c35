package domain

import "time"

// Notification is a backend-sourced notice attached to a customer.
// When the notification backend produces nothing for an ON_HOLD
// customer whose follow-up date has elapsed, the alert engine
// synthesizes a local fallback instead.
type Notification struct {
	ID         string
	CustomerID string
	Message    string
	CreatedAt  time.Time
}
