// Package bubbletea provides a Bubble Tea TUI for chatting with the
// document question-answering service.
package bubbletea

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/ragchat"
)

// Run creates and runs the Bubble Tea TUI program. It blocks until the program
// exits. The context is used for graceful shutdown: when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// Feed carries session snapshots from the goroutine running an exchange to
// the TUI. Publish never blocks. A slow reader skips intermediate snapshots
// and always receives the newest one.
type Feed struct {
	mu     sync.Mutex
	latest ragchat.Snapshot
	notify chan struct{}
}

// NewFeed creates an empty Feed.
func NewFeed() *Feed {
	return &Feed{notify: make(chan struct{}, 1)}
}

// Publish records snap if it is newer than the last one. Pass it to
// ragchat.WithObserver.
func (f *Feed) Publish(snap ragchat.Snapshot) {
	f.mu.Lock()
	if snap.Version <= f.latest.Version {
		f.mu.Unlock()
		return
	}
	f.latest = snap
	f.mu.Unlock()
	select {
	case f.notify <- struct{}{}:
	default:
	}
}

// Latest returns the newest published snapshot.
func (f *Feed) Latest() ragchat.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest
}

// SnapshotMsg delivers a session snapshot to the model.
type SnapshotMsg struct {
	Snapshot ragchat.Snapshot
}

// SendDoneMsg signals that an exchange has ended.
type SendDoneMsg struct {
	Err error
}

// DocumentsMsg delivers a document listing.
type DocumentsMsg struct {
	Page ragchat.DocumentPage
	Err  error
}

// pollMsg triggers a periodic document refresh.
type pollMsg struct{}

// listenForSnapshot waits for the next published snapshot.
func listenForSnapshot(f *Feed) tea.Cmd {
	return func() tea.Msg {
		<-f.notify
		return SnapshotMsg{Snapshot: f.Latest()}
	}
}
