// ABOUTME: Defines lipgloss style constants for the editor panels, entity state colors and badges.
// ABOUTME: Provides StyleForState to map rulings states to their corresponding display styles.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vtes-biased/rulings-website/rulings"
)

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	FocusedBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("170"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Entity state colors
	OriginalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	NewStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ModifiedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	DeletedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Strikethrough(true)

	// Reference badges and inline tokens
	BadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")).
			Underline(true)
	CardTokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("141")).
			Italic(true)

	// Warnings and toasts
	WarningStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	ToastStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	ToastErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("124")).Padding(0, 1)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)

	// Labels and values in the proposal panel
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// Modal dialogs
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 2)

	// Toolbar
	ToolbarStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ToolbarSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)

	// Inline errors inside modals
	InlineErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// StyleForState returns the appropriate lipgloss style for an entity state.
func StyleForState(state rulings.State) lipgloss.Style {
	switch state {
	case rulings.Original:
		return OriginalStyle
	case rulings.New:
		return NewStyle
	case rulings.Modified:
		return ModifiedStyle
	case rulings.Deleted:
		return DeletedStyle
	default:
		return OriginalStyle
	}
}

// StateDot renders the colored marker shown next to group members.
func StateDot(state rulings.State) string {
	return StyleForState(state).Strikethrough(false).Render("●")
}
