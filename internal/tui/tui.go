// Package tui is a terminal browser for products saved in the local store.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trendscout/internal/core"
	"trendscout/internal/render"
)

// model holds the product browser state: the stored products on the
// left, the selected product's analysis on the right.
type model struct {
	products    []core.StoredProduct
	selectedIdx int
	width       int
	height      int
	quitting    bool
}

// InitialModel returns the browser state for the given products.
func InitialModel(products []core.StoredProduct) model {
	return model{
		products:    products,
		selectedIdx: 0,
	}
}

// Init is the first command that will be run. We don't need any for now.
func (m model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model accordingly.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.selectedIdx > 0 {
				m.selectedIdx--
			}
		case "down", "j":
			if m.selectedIdx < len(m.products)-1 {
				m.selectedIdx++
			}
		}
	}

	return m, cmd
}

// View renders the TUI.
func (m model) View() string {
	if m.quitting {
		return "Quitting...\n"
	}

	docStyle := lipgloss.NewStyle().Margin(1, 2)
	listStyle := lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(1).Width(m.width/2 - 5)
	detailStyle := lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(1).Width(m.width/2 - 5)

	listContent := "Saved Products\n\n"
	if len(m.products) == 0 {
		listContent += "No products saved yet. Run a recommendation first."
	} else {
		for i, p := range m.products {
			cursor := " "
			if i == m.selectedIdx {
				cursor = ">"
			}
			listContent += fmt.Sprintf("%s %.0f  %s\n", cursor, p.Score, truncate(p.Title, 40))
		}
	}

	detailContent := "Product Detail\n\n"
	if len(m.products) == 0 || m.selectedIdx >= len(m.products) {
		detailContent += "Nothing selected."
	} else {
		selected := m.products[m.selectedIdx]
		detailContent += render.ProductInfo(selected.Product)
	}

	leftPane := listStyle.Render(listContent)
	rightPane := detailStyle.Render(detailContent)

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	help := "\n\n[↑/k] Up | [↓/j] Down | [q] Quit"

	return docStyle.Render(mainContent + help)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

// StartTUI initializes and starts the Bubble Tea application.
func StartTUI(products []core.StoredProduct) {
	p := tea.NewProgram(InitialModel(products), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
