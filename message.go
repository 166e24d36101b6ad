package ragchat

import "slices"

// Citation points from an answer to a page of a source document.
type Citation struct {
	SourceFile string
	PageNumber int // 1-based
}

// Turn is one transcript entry. Citations are only populated on assistant
// turns.
type Turn struct {
	Role      Role
	Content   string
	Citations []Citation
}

// UserTurn returns an immutable user turn with the given content.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn returns an assistant turn with the given content and no
// citations.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content, Citations: []Citation{}}
}

// Clone returns a deep copy of t so the citation slice is not shared.
func (t Turn) Clone() Turn {
	t.Citations = slices.Clone(t.Citations)
	return t
}
