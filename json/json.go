// Package json implements the wire format of the answering service.
//
// It converts between ragchat domain types and the JSON bodies exchanged
// with the service: chat requests, stream frame payloads, document records
// and error details. It has no knowledge of HTTP or of frame delimiting.
package json

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/ragchat"
)

// chatRequestDTO is the body of POST /chat.
type chatRequestDTO struct {
	Query       string            `json:"query"`
	DocumentIDs []string          `json:"document_ids,omitempty"`
	ChatHistory []historyEntryDTO `json:"chat_history"`
}

type historyEntryDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MarshalRequest serializes a chat request. document_ids is omitted when no
// documents are selected, so the service searches all of them.
func MarshalRequest(req ragchat.Request) ([]byte, error) {
	dto := chatRequestDTO{
		Query:       req.Query,
		DocumentIDs: req.DocumentIDs,
		ChatHistory: make([]historyEntryDTO, len(req.History)),
	}
	for i, h := range req.History {
		dto.ChatHistory[i] = historyEntryDTO{Role: string(h.Role), Content: h.Content}
	}
	data, err := json.Marshal(dto)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return data, nil
}

// errorDTO is the body FastAPI-style services return for failed requests.
// Detail is a string for handled errors and a list of objects for request
// validation failures.
type errorDTO struct {
	Detail json.RawMessage `json:"detail"`
}

// UnmarshalErrorDetail extracts the human-readable detail from an error
// response body. It returns "" when the body carries no detail.
func UnmarshalErrorDetail(data []byte) string {
	var dto errorDTO
	if err := json.Unmarshal(data, &dto); err != nil || len(dto.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(dto.Detail, &s); err == nil {
		return s
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(dto.Detail, &items); err == nil && len(items) > 0 && items[0].Msg != "" {
		return items[0].Msg
	}
	return string(dto.Detail)
}
