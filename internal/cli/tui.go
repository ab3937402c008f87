package cli

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arborview/arborview/pkg/layout"
	"github.com/arborview/arborview/pkg/tree"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// treeEntry is one visible row of the browser: a node plus its display
// state.
type treeEntry struct {
	node      *tree.Node
	collapsed bool
}

// TreeModel is the bubbletea model for interactive hierarchy browsing.
// Nodes are listed in depth-first order, indented and colored by depth
// with the same palette the SVG renderer uses. Subtrees collapse and
// expand in place; the selected node's description shows in a footer.
type TreeModel struct {
	Root      *tree.Node
	Cursor    int
	Height    int
	Offset    int
	collapsed map[string]bool
	entries   []treeEntry
	quitting  bool
}

// NewTreeModel creates a browser model over the given hierarchy.
func NewTreeModel(root *tree.Node) TreeModel {
	m := TreeModel{
		Root:      root,
		Height:    15,
		collapsed: make(map[string]bool),
	}
	m.rebuild()
	return m
}

// rebuild recomputes the visible entry list, skipping collapsed subtrees.
func (m *TreeModel) rebuild() {
	m.entries = m.entries[:0]
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		m.entries = append(m.entries, treeEntry{node: n, collapsed: m.collapsed[n.ID]})
		if m.collapsed[n.ID] {
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	if m.Root != nil {
		walk(m.Root)
	}
	if m.Cursor >= len(m.entries) {
		m.Cursor = len(m.entries) - 1
	}
}

func (m TreeModel) Init() tea.Cmd {
	return nil
}

func (m TreeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			n := m.entries[m.Cursor].node
			if !n.IsLeaf() {
				m.collapsed[n.ID] = !m.collapsed[n.ID]
				m.rebuild()
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TreeModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Browse Hierarchy"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ collapse/expand  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.entries) {
		end = len(m.entries)
	}

	for i := m.Offset; i < end; i++ {
		e := m.entries[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		marker := "  "
		if !e.node.IsLeaf() {
			marker = "▾ "
			if e.collapsed {
				marker = "▸ "
			}
		}

		depthStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(layout.ColorToken(e.node.Depth)))
		label := strings.Repeat("  ", e.node.Depth) + marker + depthStyle.Render(e.node.ID)
		if i == m.Cursor {
			label = strings.Repeat("  ", e.node.Depth) + marker + listSelectedStyle.Render(e.node.ID)
		}
		b.WriteString(cursor + label + "\n")
	}

	if len(m.entries) > 0 {
		n := m.entries[m.Cursor].node
		desc := n.Description
		if desc == "" {
			desc = "(no description)"
		}
		b.WriteString("\n")
		b.WriteString(listNormalStyle.Render(n.ID) + listDimStyle.Render("  depth "+strconv.Itoa(n.Depth)))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(desc))
		b.WriteString("\n")
	}
	return b.String()
}
