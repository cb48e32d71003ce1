package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"semsi/internal/domain"
	"semsi/internal/service"
	"semsi/internal/similarity"
)

// ReloadMsg carries a freshly recomputed pipeline result into the model,
// typically after the watched contents file changed.
type ReloadMsg struct {
	Result *service.Result
	Err    error
}

// Model is the Bubble Tea model for the similarity explorer.
type Model struct {
	result   *service.Result
	topN     int
	decimals int

	input     textinput.Model
	viewport  viewport.Model
	scores    []domain.Score
	target    string
	status    string
	errBanner string
	cursor    int
	ready     bool
	showDocs  bool
}

// New creates an explorer over a computed pipeline result. topN bounds
// similarity queries; decimals controls score formatting.
func New(result *service.Result, topN, decimals int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a document identifier and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		result:   result,
		topN:     topN,
		decimals: decimals,
		input:    ti,
		viewport: vp,
		status:   fmt.Sprintf("%d documents loaded. Tab toggles document list.", len(result.Documents)),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, resize and reload events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + banner, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderBody())
		return m, nil
	case ReloadMsg:
		if msg.Err != nil {
			m.errBanner = "Reload failed: " + msg.Err.Error()
			return m, nil
		}
		m.result = msg.Result
		m.errBanner = ""
		m.status = fmt.Sprintf("Contents changed on disk; %d documents reloaded.", len(msg.Result.Documents))
		if m.target != "" {
			m.runQuery(m.target)
		}
		m.viewport.SetContent(m.renderBody())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			target := strings.TrimSpace(m.input.Value())
			if target != "" {
				m.runQuery(target)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "tab":
			m.showDocs = !m.showDocs
			m.viewport.SetContent(m.renderBody())
			return m, nil
		case "down":
			if len(m.scores) > 0 {
				m.cursor = (m.cursor + 1) % len(m.scores)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "up":
			if len(m.scores) > 0 {
				m.cursor = (m.cursor - 1 + len(m.scores)) % len(m.scores)
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the explorer layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Semsi Similarity Explorer")
	banner := ""
	if m.errBanner != "" {
		banner = errorStyle.Render(m.errBanner)
	}
	body := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + banner + "\n" + body + "\n" + input + "\n" + status
}

func (m *Model) runQuery(target string) {
	scores, err := similarity.TopSimilar(m.result.Matrix, target, m.topN, false)
	if err != nil {
		m.errBanner = err.Error()
		m.scores = nil
		m.target = ""
		return
	}
	m.errBanner = ""
	m.target = target
	m.scores = scores
	m.cursor = 0
	m.status = fmt.Sprintf("Top %d matches for %q", len(scores), target)
	m.showDocs = false
}

func (m Model) renderBody() string {
	if m.showDocs {
		return m.renderDocuments()
	}
	if len(m.scores) == 0 {
		return m.result.Matrix.Preview(previewLimit, m.decimals)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Most similar to %s\n\n", m.target)
	for i, s := range m.scores {
		line := fmt.Sprintf("%s: %.*f", s.Label, m.decimals, s.Value)
		if i == m.cursor {
			line = highlightStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) renderDocuments() string {
	var b strings.Builder
	b.WriteString("Parsed documents\n\n")
	for _, doc := range m.result.Documents {
		fmt.Fprintf(&b, "%s\t%s\n", doc.Identifier, strings.Join(doc.Tags, ", "))
	}
	if len(m.result.Diagnostics) > 0 {
		fmt.Fprintf(&b, "\n%d lines skipped:\n", len(m.result.Diagnostics))
		for _, d := range m.result.Diagnostics {
			b.WriteString(d.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

const previewLimit = 10

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
