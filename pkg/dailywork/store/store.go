// Package store opens and saves student documents by identifier.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/docx"
)

// DocumentExt is the file extension of stored documents.
const DocumentExt = ".docx"

var (
	// ErrDocumentNotFound indicates no document exists for the identifier.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrAccessDenied indicates the document exists but cannot be read or written.
	ErrAccessDenied = errors.New("access denied")
)

// Provider opens student documents by identifier.
type Provider interface {
	// Open reads and parses the document.
	Open(ctx context.Context, id string) (*docx.Document, error)
	// Save writes doc back under id.
	Save(ctx context.Context, id string, doc *docx.Document) error
	// Modified returns the document's last modification time.
	Modified(ctx context.Context, id string) (time.Time, error)
}

// normalizeID validates a document identifier and strips the extension.
// Identifiers never contain path separators.
func normalizeID(id string) (string, error) {
	id = strings.TrimSuffix(strings.TrimSpace(id), DocumentExt)
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: invalid identifier %q", ErrDocumentNotFound, id)
	}
	return id, nil
}
