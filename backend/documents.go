package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/fwojciec/ragchat"
	ragjson "github.com/fwojciec/ragchat/json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ListDocuments fetches one page of the document listing.
func (c *Client) ListDocuments(ctx context.Context, opts ragchat.ListOptions) (page ragchat.DocumentPage, err error) {
	ctx, span := c.tracer.Start(ctx, "ragchat.documents.list", trace.WithSpanKind(trace.SpanKindClient))
	defer func() { endSpan(span, err) }()
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Status != "" {
		q.Set("status", string(opts.Status))
	}
	u := c.baseURL + documentsPath
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return ragchat.DocumentPage{}, fmt.Errorf("backend: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.roundTrip(ctx, req)
	if err != nil {
		return ragchat.DocumentPage{}, err
	}
	page, err = ragjson.UnmarshalDocumentPage(body)
	if err != nil {
		return ragchat.DocumentPage{}, fmt.Errorf("backend: %w", err)
	}
	span.SetAttributes(attribute.Int("ragchat.documents", len(page.Documents)))
	return page, nil
}

// UploadDocuments sends the files as one multipart request, each under the
// "files" field.
func (c *Client) UploadDocuments(ctx context.Context, uploads []ragchat.Upload) (docs []ragchat.Document, err error) {
	if len(uploads) == 0 {
		return nil, fmt.Errorf("backend: no files to upload: %w", ragchat.ErrValidation)
	}
	ctx, span := c.tracer.Start(ctx, "ragchat.documents.upload",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("ragchat.files", len(uploads))),
	)
	defer func() { endSpan(span, err) }()
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for i, up := range uploads {
		name := filepath.Base(up.Filename)
		if up.Filename == "" || up.Body == nil {
			return nil, fmt.Errorf("backend: upload %d: %w", i, ragchat.ErrValidation)
		}
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			return nil, fmt.Errorf("backend: %w", err)
		}
		if _, err := io.Copy(part, up.Body); err != nil {
			return nil, fmt.Errorf("backend: read %s: %w", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, &buf)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	body, err := c.roundTrip(ctx, req)
	if err != nil {
		return nil, err
	}
	docs, err = ragjson.UnmarshalUploadResponse(body)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document and its indexed content. A missing
// document returns an error wrapping [ragchat.ErrDocumentNotFound].
func (c *Client) DeleteDocument(ctx context.Context, id string) (err error) {
	if id == "" {
		return fmt.Errorf("backend: document id must not be empty: %w", ragchat.ErrValidation)
	}
	ctx, span := c.tracer.Start(ctx, "ragchat.documents.delete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("ragchat.document.id", id)),
	)
	defer func() { endSpan(span, err) }()
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+documentsPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}

	_, err = c.roundTrip(ctx, req)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("backend: %s: %w", id, ragchat.ErrDocumentNotFound)
	}
	return err
}

// roundTrip sends req and returns the body of a successful response.
func (c *Client) roundTrip(ctx context.Context, req *http.Request) ([]byte, error) {
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	defer resp.Body.Close()
	if !isSuccess(resp.StatusCode) {
		return nil, parseHTTPError(resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	return body, nil
}
