package payment

import "time"

type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusCompleted SessionStatus = "completed"
	StatusFailed    SessionStatus = "failed"
	StatusExpired   SessionStatus = "expired"
)

// Session is one intent to pay a specific amount. The fingerprint is the only
// identifier guaranteed to survive a server restart: it is derived from the
// QR payload alone.
type Session struct {
	SessionID          string        `json:"session_id"`
	Fingerprint        string        `json:"fingerprint"`
	BillNumber         string        `json:"bill_number"`
	Amount             float64       `json:"amount"`
	Currency           string        `json:"currency"`
	Reference          string        `json:"reference,omitempty"`
	OrderID            *int64        `json:"order_id,omitempty"`
	CustomerID         *uint         `json:"customer_id,omitempty"`
	Status             SessionStatus `json:"status"`
	CreatedAt          time.Time     `json:"created_at"`
	ExpiresAt          time.Time     `json:"expires_at"`
	CompletedAt        *time.Time    `json:"completed_at,omitempty"`
	EvidencePath       *string       `json:"evidence_path,omitempty"`
	EvidenceUploadedAt *time.Time    `json:"evidence_uploaded_at,omitempty"`
}

// Terminal reports whether the session is in a sticky state.
func (s *Session) Terminal() bool {
	return s.Status != StatusPending
}

// CreateSessionResult is what a caller needs to render the QR code.
type CreateSessionResult struct {
	SessionID   string    `json:"session_id"`
	Fingerprint string    `json:"fingerprint"`
	BillNumber  string    `json:"bill_number"`
	QRPayload   string    `json:"qr_payload"`
	ExpiresAt   time.Time `json:"expires_at"`
}
