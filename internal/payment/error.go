package payment

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound = errors.New("payment session not found")
	ErrSessionExpired  = errors.New("payment session expired")
	ErrSessionClosed   = errors.New("payment session already closed")
)

// EvidenceRejectedError reports an upload that failed validation.
type EvidenceRejectedError struct {
	Reason string
}

func (e *EvidenceRejectedError) Error() string {
	return fmt.Sprintf("evidence rejected: %s", e.Reason)
}
