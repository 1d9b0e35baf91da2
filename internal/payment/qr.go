package payment

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// BuildQRPayload encodes the payment tuple as a compact textual payload. The
// encoding is a wire contract: the fingerprint must be re-derivable from the
// same inputs after losing all in-memory state.
func BuildQRPayload(billNumber string, amount float64, currency, reference string) string {
	return fmt.Sprintf("CSQR|v1|%s|%.2f|%s|%s", billNumber, amount, currency, reference)
}

// Fingerprint is the lowercase hex md5 digest of the exact payload bytes.
func Fingerprint(payload string) string {
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
