package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fwilhelm/nimbus/pkg/cloud"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listFailedStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// ResultListModel is the bubbletea model for browsing placement results.
type ResultListModel struct {
	Config  cloud.Config
	Results []cloud.Result
	Cursor  int
	Height  int
	Offset  int
}

// NewResultListModel creates a result browser over a finished layout.
func NewResultListModel(cfg cloud.Config, results []cloud.Result) ResultListModel {
	return ResultListModel{
		Config:  cfg,
		Results: results,
		Height:  15,
	}
}

func (m ResultListModel) Init() tea.Cmd {
	return nil
}

func (m ResultListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Results)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ResultListModel) View() string {
	var b strings.Builder

	placed := 0
	for _, r := range m.Results {
		if r.Rendered {
			placed++
		}
	}

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Layout %dx%d", m.Config.Width, m.Config.Height)))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d placed", placed, len(m.Results))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Results) {
		end = len(m.Results)
	}
	for i := m.Offset; i < end; i++ {
		r := m.Results[i]
		line := m.resultLine(r)
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render("> " + line))
		case !r.Rendered:
			b.WriteString(listFailedStyle.Render("  " + line))
		default:
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m ResultListModel) resultLine(r cloud.Result) string {
	if !r.Rendered {
		return fmt.Sprintf("%-20s %6.1f  (not placed)", truncate(r.Text, 20), r.Weight)
	}
	return fmt.Sprintf("%-20s %6.1f  %4.0fpt  (%.0f, %.0f)  %s",
		truncate(r.Text, 20), r.Weight, r.FontSize, r.X, r.Y, r.Color)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [file]",
		Short: "Lay out a tag cloud and browse the placements interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, tags, err := loadLayoutFile(args[0])
			if err != nil {
				return err
			}
			cl, err := cloud.New(cfg, cloud.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			results, err := cl.Draw(cmd.Context(), tags)
			if err != nil {
				return err
			}

			model := NewResultListModel(cl.Config(), results)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
}
