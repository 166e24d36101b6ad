package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/ragchat"
	"github.com/fwojciec/ragchat/command"
)

var _ tea.Model = Model{}

// DefaultPollInterval is how often the document listing is refreshed.
const DefaultPollInterval = 5 * time.Second

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable output area. Exported for test access.
	Viewport viewport.Model
	// Spinner animates while an answer has not started. Exported for test access.
	Spinner spinner.Model

	session      *ragchat.Session
	feed         *Feed
	docs         ragchat.DocumentService
	pollInterval time.Duration
	theme        ragchat.Theme
	styles       Styles

	blocks []MessageBlock
	// answers holds the answer block of each assistant turn by transcript
	// index so streamed text is appended instead of re-rendered.
	answers  []*AssistantTextBlock
	version  uint64
	awaiting bool // the trailing answer is streaming and still empty

	documents []ragchat.Document
	selected  map[string]bool
	showDocs  bool
	docsErr   error

	running bool
	cancel  context.CancelFunc
	err     error
	notice  string
	ready   bool
}

// Option configures a Model.
type Option func(*Model)

// WithDocuments enables the document panel and scoped queries.
func WithDocuments(svc ragchat.DocumentService) Option {
	return func(m *Model) { m.docs = svc }
}

// WithPollInterval sets how often the document listing is refreshed.
func WithPollInterval(d time.Duration) Option {
	return func(m *Model) { m.pollInterval = d }
}

// New creates a TUI Model for session. feed must be registered as the
// session's observer.
func New(session *ragchat.Session, feed *Feed, theme ragchat.Theme, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about your documents..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	styles := NewStyles(theme)
	sp.Style = styles.Accent

	m := Model{
		Input:        ti,
		Spinner:      sp,
		session:      session,
		feed:         feed,
		pollInterval: DefaultPollInterval,
		theme:        theme,
		styles:       styles,
		selected:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Running returns whether an exchange is in flight.
func (m Model) Running() bool { return m.running }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Selected returns the IDs of documents the next query is scoped to.
func (m Model) Selected() []string { return ragchat.SelectedIDs(m.documents, m.selected) }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, listenForSnapshot(m.feed)}
	if m.docs != nil {
		cmds = append(cmds, fetchDocuments(m.docs))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SnapshotMsg:
		m = m.applySnapshot(msg.Snapshot)
		m = m.refresh()
		return m, listenForSnapshot(m.feed)

	case SendDoneMsg:
		m.running = false
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m = m.refresh()
		return m, m.Input.Focus()

	case DocumentsMsg:
		m = m.applyDocuments(msg)
		m = m.refresh()
		if m.docs == nil || m.pollInterval <= 0 {
			return m, nil
		}
		return m, tea.Tick(m.pollInterval, func(time.Time) tea.Msg { return pollMsg{} })

	case pollMsg:
		if m.docs == nil {
			return m, nil
		}
		return m, fetchDocuments(m.docs)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		if m.awaiting {
			m = m.refresh()
		}
		return m, cmd
	}

	// Viewport always receives remaining messages for scrolling.
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := max(msg.Height-inputH-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m = m.applySnapshot(m.session.Snapshot())
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = msg.Width
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.running {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyCtrlL:
		m.err = nil
		m.notice = ""
		m.session.ClearMessages()
		return m, nil

	case tea.KeyEnter:
		if m.running {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		m.Input.SetValue("")
		if command.IsCommand(text) {
			return m.runCommand(text)
		}
		return m.submitQuery(text)
	}

	// When idle, pass keys to both input (for typing) and viewport (for
	// scrolling). Only non-character keys reach the viewport so that 'j'
	// and 'k' type instead of scroll.
	if !m.running {
		var cmd tea.Cmd
		var cmds []tea.Cmd

		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)

		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitQuery(text string) (tea.Model, tea.Cmd) {
	m.err = nil
	m.notice = ""

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.Input.Blur()

	ids := ragchat.SelectedIDs(m.documents, m.selected)
	return m, tea.Batch(
		sendMessage(ctx, m.session, text, ids),
		m.Spinner.Tick,
	)
}

func (m Model) runCommand(text string) (tea.Model, tea.Cmd) {
	m.err = nil
	m.notice = ""

	cmd, err := command.Parse(text)
	if err != nil {
		m.err = err
		return m, nil
	}

	switch c := cmd.(type) {
	case command.Clear:
		m.session.ClearMessages()
		return m, nil

	case command.Docs:
		m.showDocs = !m.showDocs
		m = m.refresh()
		if m.showDocs && m.docs != nil {
			return m, fetchDocuments(m.docs)
		}
		return m, nil

	case command.Refresh:
		if m.docs == nil {
			m.err = errors.New("no document service configured")
			return m, nil
		}
		if inv, ok := m.docs.(interface{ Invalidate() }); ok {
			inv.Invalidate()
		}
		m.notice = "Refreshing documents..."
		return m, fetchDocuments(m.docs)

	case command.Select:
		m = m.toggleSelection(c.Positions)
		m = m.refresh()
		return m, nil

	case command.Help:
		m.notice = command.Usage
		return m, nil

	case command.Quit:
		return m, tea.Quit
	}
	return m, nil
}

// toggleSelection flips the selection of the documents at the given
// 1-based positions. No positions clears the selection.
func (m Model) toggleSelection(positions []int) Model {
	if len(positions) == 0 {
		clear(m.selected)
		m.notice = "Searching all documents."
		return m
	}
	var skipped []string
	for _, p := range positions {
		if p > len(m.documents) {
			m.err = fmt.Errorf("no document number %d", p)
			return m
		}
		d := m.documents[p-1]
		if m.selected[d.ID] {
			delete(m.selected, d.ID)
			continue
		}
		m.selected[d.ID] = true
		if d.Status != ragchat.DocumentReady {
			skipped = append(skipped, d.Filename)
		}
	}
	if len(skipped) > 0 {
		m.notice = fmt.Sprintf("Not ready yet, skipped until processed: %s", strings.Join(skipped, ", "))
	}
	return m
}

// applySnapshot rebuilds the transcript blocks from snap. Snapshots older
// than the last applied one are ignored.
func (m Model) applySnapshot(snap ragchat.Snapshot) Model {
	if snap.Version != 0 && snap.Version <= m.version {
		return m
	}
	m.version = snap.Version

	blocks := make([]MessageBlock, 0, len(snap.Turns)+1)
	answers := make([]*AssistantTextBlock, len(snap.Turns))
	for i, turn := range snap.Turns {
		switch turn.Role {
		case ragchat.RoleUser:
			blocks = append(blocks, NewUserMessageBlock(turn.Content, m.styles))
		case ragchat.RoleAssistant:
			if strings.HasPrefix(turn.Content, ragchat.FailurePrefix) {
				blocks = append(blocks, NewErrorBlock(turn.Content, m.styles))
				continue
			}
			if turn.Content != "" {
				answers[i] = m.answerBlock(i, turn.Content)
				blocks = append(blocks, answers[i])
			}
			if len(turn.Citations) > 0 {
				blocks = append(blocks, NewSourcesBlock(turn.Citations, m.styles))
			}
		}
	}
	m.blocks = blocks
	m.answers = answers

	last := len(snap.Turns) - 1
	m.awaiting = snap.Streaming && last >= 0 &&
		snap.Turns[last].Role == ragchat.RoleAssistant && snap.Turns[last].Content == ""
	return m
}

// answerBlock returns the block for the assistant turn at index i, reusing
// the previous block when content only grew.
func (m Model) answerBlock(i int, content string) *AssistantTextBlock {
	if i < len(m.answers) {
		if prev := m.answers[i]; prev != nil && strings.HasPrefix(content, prev.Content()) {
			prev.Append(content[len(prev.Content()):])
			return prev
		}
	}
	b := NewAssistantTextBlock(m.theme)
	b.Append(content)
	return b
}

func (m Model) applyDocuments(msg DocumentsMsg) Model {
	m.docsErr = msg.Err
	if msg.Err != nil {
		return m
	}
	m.documents = msg.Page.Documents
	present := make(map[string]bool, len(m.documents))
	for _, d := range m.documents {
		present[d.ID] = true
	}
	for id := range m.selected {
		if !present[id] {
			delete(m.selected, id)
		}
	}
	return m
}

// refresh re-renders the viewport content, keeping it scrolled to the
// bottom while the user has not scrolled up.
func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	atBottom := m.Viewport.AtBottom()
	m.Viewport.SetContent(m.renderContent())
	if atBottom || m.running {
		m.Viewport.GotoBottom()
	}
	return m
}

func (m Model) renderContent() string {
	width := m.Viewport.Width
	var b strings.Builder
	var prev MessageBlock
	write := func(block MessageBlock) {
		if prev != nil {
			b.WriteString(blockSeparator(prev, block))
		}
		b.WriteString(block.View(width))
		prev = block
	}
	for _, block := range m.blocks {
		write(block)
	}
	if m.awaiting {
		write(&spinnerBlock{spinner: m.Spinner.View(), styles: m.styles})
	}
	if m.showDocs {
		write(NewDocumentsBlock(m.documents, m.selected, m.docsErr, m.styles))
	}
	return b.String()
}

func (m Model) statusLine() string {
	width := m.Viewport.Width
	if m.err != nil {
		return m.styles.Error.Render(truncate(fmt.Sprintf("Error: %v", m.err), width))
	}
	if m.notice != "" {
		return m.styles.Muted.Render(truncate(m.notice, width))
	}
	if m.running {
		return m.styles.Muted.Render("Generating...")
	}
	scope := "all documents"
	if n := len(m.Selected()); n > 0 {
		scope = fmt.Sprintf("%d selected document", n)
		if n > 1 {
			scope += "s"
		}
	}
	return m.styles.Muted.Render(truncate("Enter to send · searching "+scope+" · /help · Ctrl+L clear · Ctrl+C quit", width))
}

// spinnerBlock stands in for an answer that has not produced text yet.
type spinnerBlock struct {
	spinner string
	styles  Styles
}

func (b *spinnerBlock) Update(msg tea.Msg) (MessageBlock, tea.Cmd) {
	return b, nil
}

func (b *spinnerBlock) View(width int) string {
	return b.spinner + " " + b.styles.Muted.Render("Searching documents...")
}

// sendMessage runs one exchange in a goroutine and reports its end.
// Progress arrives separately through the session's Feed.
func sendMessage(ctx context.Context, s *ragchat.Session, text string, ids []string) tea.Cmd {
	return func() tea.Msg {
		return SendDoneMsg{Err: s.SendMessage(ctx, text, ids)}
	}
}

func fetchDocuments(svc ragchat.DocumentService) tea.Cmd {
	return func() tea.Msg {
		page, err := svc.ListDocuments(context.Background(), ragchat.ListOptions{Page: 1, Limit: 100})
		return DocumentsMsg{Page: page, Err: err}
	}
}
