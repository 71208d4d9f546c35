package dto

import "time"

// NotificationResponse is one backend-sourced customer notice.
type NotificationResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
