package set

import (
	"time"

	"github.com/decred/slog"
)

// UI receives the game's display callbacks. Implementations must be safe for
// concurrent use; the dealer, the players and the table all call into the
// sink from their own goroutines.
type UI interface {
	PlaceCard(card Card, slot int)
	RemoveCard(slot int)
	PlaceToken(player, slot int)
	RemoveToken(player, slot int)
	SetScore(player, score int)
	// SetFreeze shows the remaining freeze time for a player; zero or less
	// clears the freeze display.
	SetFreeze(player int, remaining time.Duration)
	SetCountdown(remaining time.Duration, warn bool)
	SetElapsed(elapsed time.Duration)
	AnnounceWinner(players []int)
}

// LogUI writes every callback to a logger. It is the sink for headless runs.
type LogUI struct {
	log slog.Logger
}

// NewLogUI creates a UI sink backed by the given logger.
func NewLogUI(log slog.Logger) *LogUI {
	return &LogUI{log: log}
}

func (u *LogUI) PlaceCard(card Card, slot int) {
	u.log.Debugf("card %d placed in slot %d", card, slot)
}

func (u *LogUI) RemoveCard(slot int) {
	u.log.Debugf("card removed from slot %d", slot)
}

func (u *LogUI) PlaceToken(player, slot int) {
	u.log.Debugf("player %d placed a token on slot %d", player, slot)
}

func (u *LogUI) RemoveToken(player, slot int) {
	u.log.Debugf("player %d removed its token from slot %d", player, slot)
}

func (u *LogUI) SetScore(player, score int) {
	u.log.Infof("player %d score is now %d", player, score)
}

func (u *LogUI) SetFreeze(player int, remaining time.Duration) {
	if remaining <= 0 {
		u.log.Tracef("player %d unfrozen", player)
		return
	}
	u.log.Tracef("player %d frozen for %v", player, remaining)
}

func (u *LogUI) SetCountdown(remaining time.Duration, warn bool) {
	u.log.Tracef("countdown %v warn=%v", remaining, warn)
}

func (u *LogUI) SetElapsed(elapsed time.Duration) {
	u.log.Tracef("elapsed %v", elapsed)
}

func (u *LogUI) AnnounceWinner(players []int) {
	u.log.Infof("winners: %v", players)
}

// MultiUI fans every callback out to several sinks in order.
type MultiUI []UI

func (m MultiUI) PlaceCard(card Card, slot int) {
	for _, u := range m {
		u.PlaceCard(card, slot)
	}
}

func (m MultiUI) RemoveCard(slot int) {
	for _, u := range m {
		u.RemoveCard(slot)
	}
}

func (m MultiUI) PlaceToken(player, slot int) {
	for _, u := range m {
		u.PlaceToken(player, slot)
	}
}

func (m MultiUI) RemoveToken(player, slot int) {
	for _, u := range m {
		u.RemoveToken(player, slot)
	}
}

func (m MultiUI) SetScore(player, score int) {
	for _, u := range m {
		u.SetScore(player, score)
	}
}

func (m MultiUI) SetFreeze(player int, remaining time.Duration) {
	for _, u := range m {
		u.SetFreeze(player, remaining)
	}
}

func (m MultiUI) SetCountdown(remaining time.Duration, warn bool) {
	for _, u := range m {
		u.SetCountdown(remaining, warn)
	}
}

func (m MultiUI) SetElapsed(elapsed time.Duration) {
	for _, u := range m {
		u.SetElapsed(elapsed)
	}
}

func (m MultiUI) AnnounceWinner(players []int) {
	for _, u := range m {
		u.AnnounceWinner(players)
	}
}
