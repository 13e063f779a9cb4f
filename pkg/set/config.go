package set

import (
	"fmt"
	"time"
)

// Config holds the game parameters. All components receive the parts they
// need through their own config structs; Config is the single source the
// entry point populates from flags.
type Config struct {
	// Players is the total number of player agents.
	Players int
	// Humans is the number of human players. Players [0, Humans) are human,
	// the rest are driven by bots.
	Humans int
	// DeckSize is the number of distinct cards.
	DeckSize int
	// TableSize is the number of slots on the table.
	TableSize int
	// FeatureSize is the number of cards in a legal set.
	FeatureSize int

	// TurnTimeout selects the timer regime: positive runs a countdown to the
	// next reshuffle, zero displays time elapsed since the last action, and
	// negative disables the timer display.
	TurnTimeout time.Duration
	// TurnTimeoutWarning is the remaining time below which the countdown is
	// displayed in its warning state.
	TurnTimeoutWarning time.Duration

	// PointFreeze and PenaltyFreeze are the per-player freeze durations after
	// a legal and an illegal set.
	PointFreeze   time.Duration
	PenaltyFreeze time.Duration

	// TableDelay is the pause before each card placement or removal, giving
	// an external reveal animation time to run.
	TableDelay time.Duration

	// Hints enables printing the legal sets on the table once after each deal
	// or accepted set, a third of the turn timer later (30 seconds when no
	// countdown runs).
	Hints bool

	// Seed fixes the shuffle order; zero seeds from the clock.
	Seed int64
}

// Validate checks the configuration for values the game cannot run with.
func (c *Config) Validate() error {
	if c.Players < 1 {
		return fmt.Errorf("players must be at least 1, got %d", c.Players)
	}
	if c.Humans < 0 || c.Humans > c.Players {
		return fmt.Errorf("humans must be in [0, %d], got %d", c.Players, c.Humans)
	}
	if c.FeatureSize < 2 {
		return fmt.Errorf("feature size must be at least 2, got %d", c.FeatureSize)
	}
	if c.TableSize < c.FeatureSize {
		return fmt.Errorf("table size %d cannot hold a %d-card set", c.TableSize, c.FeatureSize)
	}
	if c.DeckSize < c.TableSize {
		return fmt.Errorf("deck size %d smaller than table size %d", c.DeckSize, c.TableSize)
	}
	return nil
}

// DefaultConfig returns the classic game: two players, a 3x4 table and the
// 81-card deck of four 3-valued features.
func DefaultConfig() Config {
	return Config{
		Players:            2,
		Humans:             2,
		DeckSize:           81,
		TableSize:          12,
		FeatureSize:        3,
		TurnTimeout:        60 * time.Second,
		TurnTimeoutWarning: 5 * time.Second,
		PointFreeze:        time.Second,
		PenaltyFreeze:      3 * time.Second,
		TableDelay:         100 * time.Millisecond,
	}
}
