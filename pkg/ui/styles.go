package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			MarginLeft(2)

	cardStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("255")).
			Padding(0, 1).
			Margin(0, 1).
			Border(lipgloss.RoundedBorder())

	emptySlotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1).
			Margin(0, 1).
			Border(lipgloss.HiddenBorder())

	tokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	countdownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("140")).
			MarginTop(1)

	warnCountdownStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("196")).
				Bold(true).
				MarginTop(1)

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Margin(0, 1)

	frozenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Margin(0, 1)

	winnerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("22")).
			Foreground(lipgloss.Color("46")).
			Bold(true).
			Padding(1, 2).
			Margin(1, 0).
			Border(lipgloss.DoubleBorder())

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Margin(1, 0)

	// cardColors maps the card's color feature to a foreground color.
	cardColors = []lipgloss.Color{"196", "28", "90"}
)

// cardGlyphs maps the card's shape feature to a glyph.
var cardGlyphs = []string{"●", "▲", "■"}
