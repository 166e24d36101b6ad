package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/fwojciec/ragchat"
)

var (
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	muted   = color.New(color.Faint)
)

// listDocuments prints every document page by page.
func listDocuments(ctx context.Context, svc ragchat.DocumentService, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFILE\tSTATUS\tPAGES\tCHUNKS\tUPLOADED")
	count := 0
	for page := 1; ; page++ {
		p, err := svc.ListDocuments(ctx, ragchat.ListOptions{Page: page, Limit: 100})
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		for _, d := range p.Documents {
			uploaded := ""
			if !d.CreatedAt.IsZero() {
				uploaded = d.CreatedAt.Local().Format("2006-01-02 15:04")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n", d.ID, d.Filename, d.Status, d.PageCount, d.ChunkCount, uploaded)
		}
		count += len(p.Documents)
		if len(p.Documents) == 0 || count >= p.Total {
			break
		}
	}
	if count == 0 {
		muted.Fprintln(w, "No documents uploaded.")
		return nil
	}
	return tw.Flush()
}

// uploadDocuments expands the glob patterns and uploads every match in one
// request.
func uploadDocuments(ctx context.Context, svc ragchat.DocumentService, patterns []string, w io.Writer) error {
	paths, err := expandPatterns(patterns)
	if err != nil {
		return err
	}

	uploads := make([]ragchat.Upload, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		uploads = append(uploads, ragchat.Upload{Filename: filepath.Base(path), Body: f})
	}

	docs, err := svc.UploadDocuments(ctx, uploads)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	for _, d := range docs {
		success.Fprintf(w, "uploaded %s", d.Filename)
		muted.Fprintf(w, " (%s, %s)\n", d.ID, d.Status)
	}
	return nil
}

// expandPatterns resolves glob patterns to file paths, keeping their order
// and dropping duplicates. A pattern without glob characters must name an
// existing file.
func expandPatterns(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("upload: no files given: %w", ragchat.ErrValidation)
	}
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files: %w", pattern, ragchat.ErrValidation)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

// deleteDocuments deletes each document, reporting per-document results.
// It fails if any deletion failed.
func deleteDocuments(ctx context.Context, svc ragchat.DocumentService, ids []string, w io.Writer) error {
	if len(ids) == 0 {
		return fmt.Errorf("delete: no document IDs given: %w", ragchat.ErrValidation)
	}
	var errs []error
	for _, id := range ids {
		if err := svc.DeleteDocument(ctx, id); err != nil {
			failure.Fprintf(w, "failed %s: %v\n", id, err)
			errs = append(errs, err)
			continue
		}
		success.Fprintf(w, "deleted %s\n", id)
	}
	if len(errs) > 0 {
		return fmt.Errorf("delete: %d of %d failed: %w", len(errs), len(ids), errors.Join(errs...))
	}
	return nil
}
