package json

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/ragchat"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type documentDTO struct {
	ID         string `json:"id" validate:"required"`
	Filename   string `json:"filename" validate:"required"`
	FileSize   int64  `json:"file_size" validate:"gte=0"`
	PageCount  int    `json:"page_count" validate:"gte=0"`
	Status     string `json:"status" validate:"oneof=processing ready error"`
	ChunkCount int    `json:"chunk_count" validate:"gte=0"`
	CreatedAt  string `json:"created_at"`
}

type documentPageDTO struct {
	Documents []documentDTO `json:"documents"`
	Total     int           `json:"total" validate:"gte=0"`
	Page      int           `json:"page" validate:"gte=0"`
	Limit     int           `json:"limit" validate:"gte=0"`
}

type uploadResponseDTO struct {
	Documents []documentDTO `json:"documents"`
}

// UnmarshalDocumentPage decodes a GET /documents response. A record that
// fails validation fails the whole page with an error wrapping
// ragchat.ErrValidation.
func UnmarshalDocumentPage(data []byte) (ragchat.DocumentPage, error) {
	var dto documentPageDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return ragchat.DocumentPage{}, fmt.Errorf("unmarshal document page: %w", err)
	}
	if err := validate.Struct(dto); err != nil {
		return ragchat.DocumentPage{}, fmt.Errorf("document page: %w: %w", ragchat.ErrValidation, err)
	}
	docs, err := convertDocuments(dto.Documents)
	if err != nil {
		return ragchat.DocumentPage{}, err
	}
	return ragchat.DocumentPage{
		Documents: docs,
		Total:     dto.Total,
		Page:      dto.Page,
		Limit:     dto.Limit,
	}, nil
}

// UnmarshalUploadResponse decodes a POST /upload response.
func UnmarshalUploadResponse(data []byte) ([]ragchat.Document, error) {
	var dto uploadResponseDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("unmarshal upload response: %w", err)
	}
	return convertDocuments(dto.Documents)
}

func convertDocuments(dtos []documentDTO) ([]ragchat.Document, error) {
	docs := make([]ragchat.Document, len(dtos))
	for i, d := range dtos {
		if err := validate.Struct(d); err != nil {
			return nil, fmt.Errorf("documents[%d]: %w: %w", i, ragchat.ErrValidation, err)
		}
		created, err := parseTimestamp(d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("documents[%d]: %w: %w", i, ragchat.ErrValidation, err)
		}
		docs[i] = ragchat.Document{
			ID:         d.ID,
			Filename:   d.Filename,
			FileSize:   d.FileSize,
			PageCount:  d.PageCount,
			Status:     ragchat.DocumentStatus(d.Status),
			ChunkCount: d.ChunkCount,
			CreatedAt:  created,
		}
	}
	return docs, nil
}

// Timestamps are ISO 8601, with or without a zone offset. A missing offset
// is read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid created_at %q", s)
}
