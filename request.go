package ragchat

// Request is an outbound query to the answering service.
type Request struct {
	Query string
	// DocumentIDs scopes the search. Nil means all documents, not none.
	DocumentIDs []string
	// History holds prior turns, oldest first, bounded by the session's
	// history window.
	History []HistoryEntry
}

// HistoryEntry is one prior turn sent as conversational context.
type HistoryEntry struct {
	Role    Role
	Content string
}

// historyOf returns the last n turns as history entries, oldest first.
func historyOf(turns []Turn, n int) []HistoryEntry {
	if n <= 0 {
		return nil
	}
	start := max(len(turns)-n, 0)
	out := make([]HistoryEntry, 0, len(turns)-start)
	for _, t := range turns[start:] {
		out = append(out, HistoryEntry{Role: t.Role, Content: t.Content})
	}
	return out
}
