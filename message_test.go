package ragchat_test

import (
	"testing"

	"github.com/fwojciec/ragchat"
	"github.com/stretchr/testify/assert"
)

func TestUserTurn(t *testing.T) {
	t.Parallel()
	turn := ragchat.UserTurn("What is X?")
	assert.Equal(t, ragchat.RoleUser, turn.Role)
	assert.Equal(t, "What is X?", turn.Content)
	assert.Nil(t, turn.Citations)
}

func TestAssistantTurn(t *testing.T) {
	t.Parallel()
	turn := ragchat.AssistantTurn("")
	assert.Equal(t, ragchat.RoleAssistant, turn.Role)
	assert.Empty(t, turn.Content)
	assert.NotNil(t, turn.Citations)
	assert.Empty(t, turn.Citations)
}

func TestTurn_Clone(t *testing.T) {
	t.Parallel()
	orig := ragchat.Turn{
		Role:      ragchat.RoleAssistant,
		Content:   "answer",
		Citations: []ragchat.Citation{{SourceFile: "a.pdf", PageNumber: 1}},
	}
	clone := orig.Clone()
	clone.Citations[0].PageNumber = 99

	assert.Equal(t, 1, orig.Citations[0].PageNumber, "clone must not share the citation array")
	assert.Equal(t, orig.Content, clone.Content)
}
