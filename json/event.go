package json

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fwojciec/ragchat"
)

// ErrMalformedEvent indicates a frame payload that does not describe a
// known event.
var ErrMalformedEvent = errors.New("malformed event")

// eventDTO is the payload of one stream frame. Pointer fields distinguish a
// missing field from an empty one.
type eventDTO struct {
	Type    string         `json:"type"`
	Content *string        `json:"content,omitempty"`
	Sources *[]citationDTO `json:"sources,omitempty"`
}

type citationDTO struct {
	SourceFile string `json:"source_file"`
	PageNumber int    `json:"page_number"`
}

// UnmarshalEvent decodes one frame payload into an event.
//
// Token frames require content, citations frames require sources. An error
// frame without content carries nothing to show and is malformed too. All
// such frames, and frames of unknown type, return an error wrapping
// ErrMalformedEvent.
func UnmarshalEvent(data []byte) (ragchat.Event, error) {
	var dto eventDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	switch dto.Type {
	case "token":
		if dto.Content == nil {
			return nil, fmt.Errorf("%w: token without content", ErrMalformedEvent)
		}
		return ragchat.EventToken{Text: *dto.Content}, nil
	case "citations":
		if dto.Sources == nil {
			return nil, fmt.Errorf("%w: citations without sources", ErrMalformedEvent)
		}
		sources := make([]ragchat.Citation, len(*dto.Sources))
		for i, c := range *dto.Sources {
			sources[i] = ragchat.Citation{SourceFile: c.SourceFile, PageNumber: c.PageNumber}
		}
		return ragchat.EventCitations{Sources: sources}, nil
	case "error":
		if dto.Content == nil || *dto.Content == "" {
			return nil, fmt.Errorf("%w: error without content", ErrMalformedEvent)
		}
		return ragchat.EventError{Message: *dto.Content}, nil
	case "done":
		return ragchat.EventDone{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, dto.Type)
	}
}

// MarshalEvent encodes an event as a frame payload. It is the inverse of
// UnmarshalEvent and is used by test servers.
func MarshalEvent(evt ragchat.Event) ([]byte, error) {
	var dto eventDTO
	switch e := evt.(type) {
	case ragchat.EventToken:
		dto = eventDTO{Type: "token", Content: &e.Text}
	case ragchat.EventCitations:
		sources := make([]citationDTO, len(e.Sources))
		for i, c := range e.Sources {
			sources[i] = citationDTO{SourceFile: c.SourceFile, PageNumber: c.PageNumber}
		}
		dto = eventDTO{Type: "citations", Sources: &sources}
	case ragchat.EventError:
		dto = eventDTO{Type: "error", Content: &e.Message}
	case ragchat.EventDone:
		dto = eventDTO{Type: "done"}
	default:
		return nil, fmt.Errorf("marshal event: unsupported type %T", evt)
	}
	return json.Marshal(dto)
}
