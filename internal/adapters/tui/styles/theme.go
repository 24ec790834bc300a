package styles

import (
	"github.com/charmbracelet/lipgloss"

	"kinetic/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")
	Black     = lipgloss.Color("#000000")

	// Type colors
	ColorAOR          = lipgloss.Color("#6366F1") // Indigo
	ColorGoal         = lipgloss.Color("#8B5CF6") // Violet
	ColorRelationship = lipgloss.Color("#EC4899") // Pink
	ColorProject      = lipgloss.Color("#60A5FA") // Blue
	ColorTask         = lipgloss.Color("#10B981") // Green
	ColorCard         = lipgloss.Color("#F97316") // Orange

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	RowSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	RowComplete = lipgloss.NewStyle().
			Foreground(Muted).
			Strikethrough(true)

	TagBadge = lipgloss.NewStyle().
			Foreground(Warning)

	PersonBadge = lipgloss.NewStyle().
			Foreground(ColorRelationship)

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	StatusKey = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Padding(0, 1).
			MarginRight(1)

	// Detail pane
	DetailBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	DetailLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// TypeColor returns the color for an object type
func TypeColor(t domain.ObjectType) lipgloss.Color {
	switch t {
	case domain.TypeAOR:
		return ColorAOR
	case domain.TypeGoal:
		return ColorGoal
	case domain.TypeRelationship:
		return ColorRelationship
	case domain.TypeProject:
		return ColorProject
	case domain.TypeTask:
		return ColorTask
	case domain.TypeCard:
		return ColorCard
	default:
		return Primary
	}
}
