// Package tui is the interactive terminal browser for commit graphs.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mvollmer/lanegraph/pkg/checkpoint"
	"github.com/mvollmer/lanegraph/pkg/layout"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
	headStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
)

// Model browses one computed layout. Rows map one to one onto layout
// rows; the graph column is drawn from the same connection spans the
// SVG sink uses.
type Model struct {
	Title   string
	Result  layout.Result
	Records []checkpoint.Record

	Cursor int
	Height int
	Offset int
}

// NewModel creates a browser over a layout and its records.
func NewModel(title string, res layout.Result, records []checkpoint.Record) Model {
	return Model{Title: title, Result: res, Records: records, Height: 20}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Result.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g", "home":
			m.Cursor, m.Offset = 0, 0
		case "G", "end":
			m.Cursor = len(m.Result.Nodes) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 4
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("up/down navigate  g/G jump  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Result.Nodes) {
		end = len(m.Result.Nodes)
	}

	for row := m.Offset; row < end; row++ {
		n := m.Result.Nodes[row]

		line := fmt.Sprintf("%s %s", m.graphCell(row), shortHash(n.Hash))
		if n.IsHead {
			line += " " + headStyle.Background(lipgloss.Color(n.Color)).Render(" "+n.BranchName+" ")
		}
		if n.IsCurrent {
			line += dimStyle.Render(" (HEAD)")
		}
		if row < len(m.Records) {
			rec := m.Records[row]
			if rec.Description != "" {
				line += " " + rec.Description
			}
			meta := metaSuffix(rec)
			if meta != "" {
				line += " " + dimStyle.Render(meta)
			}
		}

		if row == m.Cursor {
			b.WriteString(selectedStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Result.Nodes))))
	return b.String()
}

// graphCell draws the lane markers for one row, each colored with its
// branch color.
func (m Model) graphCell(row int) string {
	n := m.Result.Nodes[row]
	cells := make([]string, 0, m.Result.MaxColumns)
	for lane := 0; lane < m.Result.MaxColumns; lane++ {
		switch {
		case lane == n.ColumnIndex && n.IsMergeCommit:
			cells = append(cells, lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color)).Render("◉"))
		case lane == n.ColumnIndex:
			cells = append(cells, lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color)).Render("●"))
		default:
			if color, ok := m.laneColorAt(row, lane); ok {
				cells = append(cells, lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("│"))
			} else {
				cells = append(cells, " ")
			}
		}
	}
	return strings.Join(cells, " ")
}

// laneColorAt reports whether a vertical line passes through row and
// lane, and its color.
func (m Model) laneColorAt(row, lane int) (string, bool) {
	for _, c := range m.Result.Connections {
		if c.From.Column != lane || c.To.Column != lane {
			continue
		}
		if c.From.Row < row && row < c.To.Row {
			return c.Color, true
		}
	}
	return "", false
}

func metaSuffix(rec checkpoint.Record) string {
	parts := []string{}
	if rec.Author != "" {
		parts = append(parts, rec.Author)
	}
	if !rec.Timestamp.IsZero() {
		parts = append(parts, formatRelativeTime(rec.Timestamp))
	}
	return strings.Join(parts, ", ")
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
