package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/ragchat"
	"github.com/fwojciec/ragchat/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDocuments(t *testing.T) {
	t.Parallel()

	t.Run("walks all pages", func(t *testing.T) {
		t.Parallel()
		var pages []int
		svc := &mock.DocumentService{
			ListDocumentsFn: func(ctx context.Context, opts ragchat.ListOptions) (ragchat.DocumentPage, error) {
				pages = append(pages, opts.Page)
				doc := ragchat.Document{
					ID:        "d" + string(rune('0'+opts.Page)),
					Filename:  "file.pdf",
					Status:    ragchat.DocumentReady,
					PageCount: opts.Page,
					CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
				}
				return ragchat.DocumentPage{Documents: []ragchat.Document{doc}, Total: 2, Page: opts.Page, Limit: 1}, nil
			},
		}
		var out bytes.Buffer
		require.NoError(t, listDocuments(context.Background(), svc, &out))
		assert.Equal(t, []int{1, 2}, pages)
		assert.Contains(t, out.String(), "ID")
		assert.Contains(t, out.String(), "d1")
		assert.Contains(t, out.String(), "d2")
		assert.Contains(t, out.String(), "ready")
	})

	t.Run("empty listing", func(t *testing.T) {
		t.Parallel()
		svc := &mock.DocumentService{
			ListDocumentsFn: func(ctx context.Context, opts ragchat.ListOptions) (ragchat.DocumentPage, error) {
				return ragchat.DocumentPage{}, nil
			},
		}
		var out bytes.Buffer
		require.NoError(t, listDocuments(context.Background(), svc, &out))
		assert.Equal(t, "No documents uploaded.\n", out.String())
	})

	t.Run("service error", func(t *testing.T) {
		t.Parallel()
		svc := &mock.DocumentService{
			ListDocumentsFn: func(ctx context.Context, opts ragchat.ListOptions) (ragchat.DocumentPage, error) {
				return ragchat.DocumentPage{}, errors.New("HTTP error: 500")
			},
		}
		err := listDocuments(context.Background(), svc, io.Discard)
		assert.EqualError(t, err, "list documents: HTTP error: 500")
	})
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("%PDF-"+name), 0o644))
	}
}

func TestExpandPatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, "a.pdf", "notes.txt", "reports/q1.pdf", "reports/2024/q2.pdf")

	t.Run("recursive glob", func(t *testing.T) {
		t.Parallel()
		paths, err := expandPatterns([]string{filepath.Join(dir, "**", "*.pdf")})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(dir, "a.pdf"),
			filepath.Join(dir, "reports", "q1.pdf"),
			filepath.Join(dir, "reports", "2024", "q2.pdf"),
		}, paths)
	})

	t.Run("overlapping patterns are deduplicated", func(t *testing.T) {
		t.Parallel()
		paths, err := expandPatterns([]string{
			filepath.Join(dir, "a.pdf"),
			filepath.Join(dir, "*.pdf"),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.pdf")}, paths)
	})

	t.Run("directories are not matched", func(t *testing.T) {
		t.Parallel()
		paths, err := expandPatterns([]string{filepath.Join(dir, "*")})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{filepath.Join(dir, "a.pdf"), filepath.Join(dir, "notes.txt")}, paths)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()
		_, err := expandPatterns([]string{filepath.Join(dir, "*.docx")})
		assert.ErrorIs(t, err, ragchat.ErrValidation)
	})

	t.Run("no patterns", func(t *testing.T) {
		t.Parallel()
		_, err := expandPatterns(nil)
		assert.ErrorIs(t, err, ragchat.ErrValidation)
	})
}

func TestUploadDocuments(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, "terms.pdf", "faq.pdf")

	t.Run("uploads matched files", func(t *testing.T) {
		t.Parallel()
		var got map[string]string
		svc := &mock.DocumentService{
			UploadDocumentsFn: func(ctx context.Context, uploads []ragchat.Upload) ([]ragchat.Document, error) {
				got = make(map[string]string)
				var docs []ragchat.Document
				for i, u := range uploads {
					body, err := io.ReadAll(u.Body)
					require.NoError(t, err)
					got[u.Filename] = string(body)
					docs = append(docs, ragchat.Document{ID: string(rune('a' + i)), Filename: u.Filename, Status: ragchat.DocumentProcessing})
				}
				return docs, nil
			},
		}
		var out bytes.Buffer
		require.NoError(t, uploadDocuments(context.Background(), svc, []string{filepath.Join(dir, "*.pdf")}, &out))
		assert.Equal(t, map[string]string{"terms.pdf": "%PDF-terms.pdf", "faq.pdf": "%PDF-faq.pdf"}, got)
		assert.Contains(t, out.String(), "uploaded terms.pdf")
		assert.Contains(t, out.String(), "processing")
	})

	t.Run("service error", func(t *testing.T) {
		t.Parallel()
		svc := &mock.DocumentService{
			UploadDocumentsFn: func(ctx context.Context, uploads []ragchat.Upload) ([]ragchat.Document, error) {
				return nil, errors.New("HTTP error: 413")
			},
		}
		err := uploadDocuments(context.Background(), svc, []string{filepath.Join(dir, "terms.pdf")}, io.Discard)
		assert.EqualError(t, err, "upload: HTTP error: 413")
	})
}

func TestDeleteDocuments(t *testing.T) {
	t.Parallel()

	t.Run("reports each result", func(t *testing.T) {
		t.Parallel()
		svc := &mock.DocumentService{
			DeleteDocumentFn: func(ctx context.Context, id string) error {
				if id == "missing" {
					return ragchat.ErrDocumentNotFound
				}
				return nil
			},
		}
		var out bytes.Buffer
		err := deleteDocuments(context.Background(), svc, []string{"d1", "missing", "d2"}, &out)
		assert.ErrorIs(t, err, ragchat.ErrDocumentNotFound)
		assert.Contains(t, err.Error(), "1 of 3 failed")
		assert.Contains(t, out.String(), "deleted d1")
		assert.Contains(t, out.String(), "failed missing")
		assert.Contains(t, out.String(), "deleted d2")
	})

	t.Run("no IDs", func(t *testing.T) {
		t.Parallel()
		err := deleteDocuments(context.Background(), &mock.DocumentService{}, nil, io.Discard)
		assert.ErrorIs(t, err, ragchat.ErrValidation)
	})
}
