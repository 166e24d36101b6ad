package ragchat

import (
	"fmt"
	"strings"
)

// Validate checks universal constraints on Request.
// Transport implementations may apply additional validation.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return fmt.Errorf("query must not be empty: %w", ErrValidation)
	}
	for i, id := range r.DocumentIDs {
		if id == "" {
			return fmt.Errorf("document_ids[%d] must not be empty: %w", i, ErrValidation)
		}
	}
	for i, h := range r.History {
		if h.Role != RoleUser && h.Role != RoleAssistant {
			return fmt.Errorf("chat_history[%d] has unknown role %q: %w", i, h.Role, ErrValidation)
		}
	}
	return nil
}
