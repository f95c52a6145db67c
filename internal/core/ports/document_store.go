package ports

import "go.trai.ch/devpipe/internal/core/domain"

// DocumentStore reads and writes configuration documents.
//
//go:generate go run go.uber.org/mock/mockgen -source=document_store.go -destination=mocks/mock_document_store.go -package=mocks
type DocumentStore interface {
	// Read parses the document at path. A missing file yields an empty document.
	Read(path string) (*domain.Document, error)

	// ReadRequired parses the document at path and fails with domain.ErrMissingFile
	// when it does not exist.
	ReadRequired(path string) (*domain.Document, error)

	// Write serializes doc to path. Identical documents produce identical bytes.
	Write(path string, doc *domain.Document) error
}
