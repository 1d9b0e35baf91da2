package notification

import "time"

// RetentionWindow is how long a notification survives before Sweep removes it.
const RetentionWindow = 24 * time.Hour

// ListLimit caps how many notifications a single listing returns.
const ListLimit = 50

type Notification struct {
	ID         int64     `json:"id"`
	CustomerID uint      `json:"customer_id"`
	Message    string    `json:"message"`
	Kind       string    `json:"type"`
	RelatedID  *int64    `json:"related_id,omitempty"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}
