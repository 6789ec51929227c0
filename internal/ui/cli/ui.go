package cli

import (
	"fmt"
	"time"

	"unusedvar/internal/engine/unused"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	unusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + " " + i.desc }

type model struct {
	list         list.Model
	findings     []unused.Finding
	fileCount    int
	declarations int
	lastUpdate   time.Time
}

type updateMsg struct {
	findings     []unused.Finding
	fileCount    int
	declarations int
	timestamp    time.Time
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Unused Variables"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}

func findingItems(findings []unused.Finding) []list.Item {
	items := make([]list.Item, 0, len(findings))
	for _, f := range findings {
		items = append(items, item{
			title: f.Name,
			desc:  fmt.Sprintf("%s:%d:%d", f.Path, f.Line+1, f.StartColumn+1),
		})
	}
	return items
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Let the list consume q while the filter prompt is open.
		if msg.String() == "ctrl+c" || (msg.String() == "q" && m.list.FilterState() != list.Filtering) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.findings = msg.findings
		m.fileCount = msg.fileCount
		m.declarations = msg.declarations
		m.lastUpdate = msg.timestamp
		if m.lastUpdate.IsZero() {
			m.lastUpdate = time.Now()
		}
		cmd := m.list.SetItems(findingItems(msg.findings))
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %s | %d files | %d declarations",
		m.lastUpdate.Local().Format("15:04:05"), m.fileCount, m.declarations))

	var summary string
	if len(m.findings) == 0 {
		summary = successStyle.Render("No unused variables")
	} else {
		summary = unusedStyle.Render(fmt.Sprintf("%d unused", len(m.findings)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Unused Variable Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}
