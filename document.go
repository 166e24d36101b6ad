package ragchat

import (
	"context"
	"io"
	"time"
)

// DocumentStatus is the processing state of an uploaded document.
type DocumentStatus string

const (
	DocumentProcessing DocumentStatus = "processing"
	DocumentReady      DocumentStatus = "ready"
	DocumentError      DocumentStatus = "error"
)

// Document is a document record held by the document service.
type Document struct {
	ID         string
	Filename   string
	FileSize   int64
	PageCount  int
	Status     DocumentStatus
	ChunkCount int
	CreatedAt  time.Time
}

// DocumentPage is one page of a document listing.
type DocumentPage struct {
	Documents []Document
	Total     int
	Page      int
	Limit     int
}

// ListOptions filters and paginates a document listing.
// Zero values mean the service defaults.
type ListOptions struct {
	Status DocumentStatus
	Page   int
	Limit  int
}

// Upload is a file to be uploaded.
type Upload struct {
	Filename string
	Body     io.Reader
}

// DocumentService manages the documents queries can be scoped to.
type DocumentService interface {
	ListDocuments(ctx context.Context, opts ListOptions) (DocumentPage, error)
	UploadDocuments(ctx context.Context, uploads []Upload) ([]Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// SelectedIDs returns the IDs of documents that are both selected and
// ready, in listing order. It returns nil when nothing qualifies, which
// scopes a query to all documents.
func SelectedIDs(docs []Document, selected map[string]bool) []string {
	var ids []string
	for _, d := range docs {
		if selected[d.ID] && d.Status == DocumentReady {
			ids = append(ids, d.ID)
		}
	}
	return ids
}
