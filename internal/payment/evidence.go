package payment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	maxEvidenceSize  = 5 << 20 // 5 MiB
	screenshotSubdir = "payment_screenshots"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// EvidenceStore writes uploaded payment screenshots to local disk under a
// per-session-prefixed filename.
type EvidenceStore struct {
	root string
}

func NewEvidenceStore(root string) *EvidenceStore {
	return &EvidenceStore{root: root}
}

// ValidateUpload checks extension and size before anything touches the disk.
func ValidateUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return &EvidenceRejectedError{Reason: fmt.Sprintf("extension %q not allowed", ext)}
	}
	if size > maxEvidenceSize {
		return &EvidenceRejectedError{Reason: fmt.Sprintf("file too large: %d bytes", size)}
	}
	if size <= 0 {
		return &EvidenceRejectedError{Reason: "empty file"}
	}
	return nil
}

// Save stores the upload and returns its path relative to the upload root.
func (e *EvidenceStore) Save(sessionID, filename string, src io.Reader, size int64) (string, error) {
	if err := ValidateUpload(filename, size); err != nil {
		return "", err
	}

	dir := filepath.Join(e.root, screenshotSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create evidence dir: %w", err)
	}

	name := evidenceFilename(sessionID, filename, time.Now())
	fullPath := filepath.Join(dir, name)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create evidence file: %w", err)
	}

	if _, err := io.Copy(dst, io.LimitReader(src, maxEvidenceSize)); err != nil {
		dst.Close()
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write evidence file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(fullPath)
		return "", err
	}

	return filepath.Join(screenshotSubdir, name), nil
}

// Remove deletes a previously saved evidence file.
func (e *EvidenceStore) Remove(relPath string) error {
	return os.Remove(filepath.Join(e.root, relPath))
}

func evidenceFilename(sessionID, original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "_"), "_")
	if base == "" {
		base = "screenshot"
	}

	return fmt.Sprintf("%s_%s_%s%s", sessionID, now.Format("20060102_150405"), base, ext)
}
