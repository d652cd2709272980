// Package docstore abstracts the hosted document database the back office
// runs against. Collections are addressed by slash-separated paths; every
// path is tenant-scoped under a base prefix supplied by the caller.
package docstore

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by Update when the document path does not exist.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrUnsupportedOperator is returned by Query for operators other than "==".
	ErrUnsupportedOperator = errors.New("docstore: unsupported query operator")
)

// Document is one record in the store: a generated id plus a flat field map.
type Document struct {
	ID     string
	Fields map[string]any
}

// Store is the collaborator interface the import core writes through.
type Store interface {
	// ListAll fetches every document in a collection, in creation order.
	ListAll(ctx context.Context, collection string) ([]Document, error)
	// Create inserts a new document and returns its generated id.
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	// Update merges partial fields into the document at docPath.
	Update(ctx context.Context, docPath string, partial map[string]any) error
	// Query returns documents whose field matches value under op ("==" only).
	Query(ctx context.Context, collection string, field, op string, value any) ([]Document, error)
}

// Join builds a collection or document path from segments.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "/")
}

// SplitPath separates a document path into its collection and document id.
func SplitPath(docPath string) (collection, id string) {
	trimmed := strings.Trim(docPath, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return "", trimmed
	}
	return trimmed[:idx], trimmed[idx+1:]
}
