// Package ui is the terminal front-end of the game. It consumes the core's
// game events and renders the table grid, tokens, timer, scores and freezes;
// key presses are routed back into the player agents.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gmoalemm/setgame/pkg/set"
)

// Event-driven message types
type eventMsg set.GameEvent
type eventsClosedMsg struct{}

// Config holds everything the UI model needs from the game wiring.
type Config struct {
	Players   int
	TableSize int
	// Columns is the number of grid columns; rows follow from TableSize.
	Columns int

	// Keys[player][i] is the key mapped to slot i for that player.
	Keys [][]string

	// Events is the stream published by the core's EventUI sink.
	Events <-chan set.GameEvent

	// Oracle renders card features; the UI never judges sets itself.
	Oracle set.Oracle

	// OnKey routes a pressed slot to a player agent.
	OnKey func(player, slot int)
	// OnQuit requests game termination before the program exits.
	OnQuit func()
}

// DefaultKeys returns the classic two-player key layout: the left hand block
// qwer/asdf/zxcv for player 0 and uiop/jkl;/m,./ for player 1, row by row.
func DefaultKeys() [][]string {
	return [][]string{
		{"q", "w", "e", "r", "a", "s", "d", "f", "z", "x", "c", "v"},
		{"u", "i", "o", "p", "j", "k", "l", ";", "m", ",", ".", "/"},
	}
}

// Model contains all the state for the game UI.
type Model struct {
	cfg Config

	// cards[slot] is the card shown in a slot, -1 when empty.
	cards  []int
	tokens [][]bool // tokens[slot][player]

	scores  []int
	freezes []time.Duration

	countdown     time.Duration
	warn          bool
	elapsed       time.Duration
	showElapsed   bool
	showCountdown bool

	winners  []int
	gameOver bool
}

// New creates the UI model.
func New(cfg Config) Model {
	if cfg.Columns <= 0 {
		cfg.Columns = 4
	}

	m := Model{
		cfg:     cfg,
		cards:   make([]int, cfg.TableSize),
		tokens:  make([][]bool, cfg.TableSize),
		scores:  make([]int, cfg.Players),
		freezes: make([]time.Duration, cfg.Players),
	}
	for slot := range m.cards {
		m.cards[slot] = -1
		m.tokens[slot] = make([]bool, cfg.Players)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent blocks on the next game event.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.cfg.Events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			if m.cfg.OnQuit != nil {
				m.cfg.OnQuit()
			}
			return m, tea.Quit
		}
		if player, slot, ok := m.lookupKey(msg.String()); ok && m.cfg.OnKey != nil {
			m.cfg.OnKey(player, slot)
		}
		return m, nil

	case eventMsg:
		m.apply(set.GameEvent(msg))
		return m, m.waitForEvent()

	case eventsClosedMsg:
		return m, nil
	}

	return m, nil
}

func (m *Model) lookupKey(key string) (player, slot int, ok bool) {
	for player, keys := range m.cfg.Keys {
		if player >= m.cfg.Players {
			break
		}
		for slot, k := range keys {
			if slot >= m.cfg.TableSize {
				break
			}
			if k == key {
				return player, slot, true
			}
		}
	}
	return 0, 0, false
}

func (m *Model) apply(ev set.GameEvent) {
	switch ev.Type {
	case set.GameEventTypeCardPlaced:
		m.cards[ev.Slot] = int(ev.Card)
	case set.GameEventTypeCardRemoved:
		m.cards[ev.Slot] = -1
	case set.GameEventTypeTokenPlaced:
		m.tokens[ev.Slot][ev.Player] = true
	case set.GameEventTypeTokenRemoved:
		m.tokens[ev.Slot][ev.Player] = false
	case set.GameEventTypeScoreChanged:
		m.scores[ev.Player] = ev.Score
	case set.GameEventTypeFreezeChanged:
		m.freezes[ev.Player] = ev.Remaining
	case set.GameEventTypeCountdown:
		m.showCountdown = true
		m.showElapsed = false
		m.countdown = ev.Remaining
		m.warn = ev.Warn
	case set.GameEventTypeElapsed:
		m.showElapsed = true
		m.showCountdown = false
		m.elapsed = ev.Remaining
	case set.GameEventTypeWinners:
		m.winners = ev.Winners
		m.gameOver = true
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("SET"))
	b.WriteString("\n\n")

	for row := 0; row*m.cfg.Columns < m.cfg.TableSize; row++ {
		cells := make([]string, 0, m.cfg.Columns)
		for col := 0; col < m.cfg.Columns; col++ {
			slot := row*m.cfg.Columns + col
			if slot >= m.cfg.TableSize {
				break
			}
			cells = append(cells, m.renderSlot(slot))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	switch {
	case m.showCountdown && m.warn:
		b.WriteString(warnCountdownStyle.Render(
			fmt.Sprintf("time left: %s", formatDuration(m.countdown))))
		b.WriteString("\n")
	case m.showCountdown:
		b.WriteString(countdownStyle.Render(
			fmt.Sprintf("time left: %s", formatDuration(m.countdown))))
		b.WriteString("\n")
	case m.showElapsed:
		b.WriteString(countdownStyle.Render(
			fmt.Sprintf("elapsed: %s", formatDuration(m.elapsed))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for player := 0; player < m.cfg.Players; player++ {
		line := fmt.Sprintf("player %d: %d points", player, m.scores[player])
		if m.freezes[player] > 0 {
			b.WriteString(frozenStyle.Render(
				fmt.Sprintf("%s (frozen %s)", line, formatDuration(m.freezes[player]))))
		} else {
			b.WriteString(scoreStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if m.gameOver {
		b.WriteString(winnerStyle.Render(fmt.Sprintf("winners: %v", m.winners)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("press your slot keys to place tokens, esc to quit"))
	b.WriteString("\n")

	return b.String()
}

// renderSlot draws one grid cell: the card's face (or an empty slot) with
// the players' token markers underneath.
func (m Model) renderSlot(slot int) string {
	markers := make([]string, 0, m.cfg.Players)
	for player := range m.tokens[slot] {
		if m.tokens[slot][player] {
			markers = append(markers, fmt.Sprintf("%d", player))
		}
	}
	tokenLine := tokenStyle.Render(strings.Join(markers, " "))

	if m.cards[slot] < 0 {
		return emptySlotStyle.Render("  ·  \n" + tokenLine)
	}

	face, color := m.cardFace(set.Card(m.cards[slot]))
	style := cardStyle
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(face + "\n" + tokenLine)
}

// cardFace renders a card from its features: the count feature repeats the
// shape glyph, the color feature picks the foreground. Decks with other
// feature geometries fall back to the raw card id.
func (m Model) cardFace(card set.Card) (string, lipgloss.Color) {
	features := m.cfg.Oracle.CardsToFeatures([]set.Card{card})[0]
	if len(features) < 3 {
		return fmt.Sprintf("#%d", card), ""
	}

	count := features[0] + 1
	glyph := cardGlyphs[features[1]%len(cardGlyphs)]
	color := cardColors[features[2]%len(cardColors)]

	return strings.Repeat(glyph, count), color
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Round(100 * time.Millisecond).String()
}
