package set

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
)

// TokenResult is the outcome of a PlaceToken call.
type TokenResult int

const (
	// TokenRejected means the token could not be placed: the player already
	// holds the maximum number of tokens or the slot is empty.
	TokenRejected TokenResult = iota
	// TokenPlaced means a new token is now on the slot.
	TokenPlaced
	// TokenRemoved means the player's existing token was toggled off.
	TokenRemoved
)

// TableConfig holds the construction parameters of a Table.
type TableConfig struct {
	Players     int
	DeckSize    int
	TableSize   int
	FeatureSize int
	// TableDelay is the interruptible pause before each card mutation.
	TableDelay time.Duration
	Log        slog.Logger
	UI         UI
	Oracle     Oracle
	// Quit cancels in-flight table delays on termination. May be nil.
	Quit <-chan struct{}
}

// Table is the shared grid of the game: which card sits in which slot, and
// which tokens each player has placed. Each slot has its own mutex; an
// operation touching a slot's card or tokens runs under that slot's lock.
// Per-player token counts are atomics so that mutations under two different
// slot locks never tear a count.
//
// Invariants between guarded operations:
//   - slotToCard[s] == c iff cardToSlot[c] == s
//   - a token on slot s implies slotToCard[s] holds a card
//   - no player holds more than FeatureSize tokens
type Table struct {
	cfg TableConfig
	log slog.Logger
	ui  UI

	slotToCard []atomic.Int32
	cardToSlot []atomic.Int32

	// tokens[slot][player], guarded by slotMu[slot].
	tokens [][]bool
	slotMu []sync.Mutex

	tokensPerPlayer []atomic.Int32

	quit <-chan struct{}
}

// NewTable creates an empty table.
func NewTable(cfg TableConfig) *Table {
	if cfg.UI == nil || cfg.Oracle == nil {
		panic("set: table requires a UI sink and an oracle")
	}

	t := &Table{
		cfg:             cfg,
		log:             cfg.Log,
		ui:              cfg.UI,
		slotToCard:      make([]atomic.Int32, cfg.TableSize),
		cardToSlot:      make([]atomic.Int32, cfg.DeckSize),
		tokens:          make([][]bool, cfg.TableSize),
		slotMu:          make([]sync.Mutex, cfg.TableSize),
		tokensPerPlayer: make([]atomic.Int32, cfg.Players),
		quit:            cfg.Quit,
	}

	for slot := range t.slotToCard {
		t.slotToCard[slot].Store(noCard)
		t.tokens[slot] = make([]bool, cfg.Players)
	}
	for card := range t.cardToSlot {
		t.cardToSlot[card].Store(noSlot)
	}

	return t
}

// pause waits for the configured table delay, or returns early when the game
// is shutting down.
func (t *Table) pause() {
	if t.cfg.TableDelay <= 0 {
		return
	}
	select {
	case <-time.After(t.cfg.TableDelay):
	case <-t.quit:
	}
}

// PlaceCard puts a card in an empty slot. The card must not already be on the
// table; violating either precondition is a bug in the dealer.
func (t *Table) PlaceCard(card Card, slot int) {
	t.pause()

	t.slotMu[slot].Lock()
	defer t.slotMu[slot].Unlock()

	if t.slotToCard[slot].Load() != noCard {
		panic(fmt.Sprintf("set: slot %d is already occupied", slot))
	}
	if t.cardToSlot[card].Load() != noSlot {
		panic(fmt.Sprintf("set: card %d is already on the table", card))
	}

	t.cardToSlot[card].Store(int32(slot))
	t.slotToCard[slot].Store(int32(card))

	t.ui.PlaceCard(card, slot)
}

// RemoveCard takes the card out of a slot, dropping every token that was on
// it. The slot must hold a card.
func (t *Table) RemoveCard(slot int) {
	t.pause()

	t.slotMu[slot].Lock()
	defer t.slotMu[slot].Unlock()

	card := t.slotToCard[slot].Load()
	if card == noCard {
		panic(fmt.Sprintf("set: slot %d is already empty", slot))
	}

	t.cardToSlot[card].Store(noSlot)
	t.slotToCard[slot].Store(noCard)

	for player := range t.tokens[slot] {
		if t.tokens[slot][player] {
			t.removeTokenLocked(player, slot)
		}
	}

	t.ui.RemoveCard(slot)
}

// PlaceToken toggles a player's token on a slot. A token already on the slot
// is removed; otherwise a new one is placed, provided the player is below its
// token cap and the slot holds a card.
func (t *Table) PlaceToken(player, slot int) TokenResult {
	t.slotMu[slot].Lock()
	defer t.slotMu[slot].Unlock()

	if t.tokens[slot][player] {
		t.removeTokenLocked(player, slot)
		return TokenRemoved
	}

	if int(t.tokensPerPlayer[player].Load()) < t.cfg.FeatureSize &&
		t.slotToCard[slot].Load() != noCard {
		t.tokens[slot][player] = true
		t.tokensPerPlayer[player].Add(1)
		t.ui.PlaceToken(player, slot)
		return TokenPlaced
	}

	return TokenRejected
}

// RemoveToken clears a player's token from a slot. It reports whether a token
// was actually there.
func (t *Table) RemoveToken(player, slot int) bool {
	t.slotMu[slot].Lock()
	defer t.slotMu[slot].Unlock()

	if !t.tokens[slot][player] {
		return false
	}
	t.removeTokenLocked(player, slot)
	return true
}

func (t *Table) removeTokenLocked(player, slot int) {
	t.tokens[slot][player] = false
	t.tokensPerPlayer[player].Add(-1)
	t.ui.RemoveToken(player, slot)
}

// CardAt returns the card in a slot, if any.
func (t *Table) CardAt(slot int) (Card, bool) {
	card := t.slotToCard[slot].Load()
	if card == noCard {
		return 0, false
	}
	return Card(card), true
}

// SlotOf returns the slot holding a card, if the card is on the table.
func (t *Table) SlotOf(card Card) (int, bool) {
	slot := t.cardToSlot[card].Load()
	if slot == noSlot {
		return 0, false
	}
	return int(slot), true
}

// HasToken reports whether a player has a token on a slot.
func (t *Table) HasToken(player, slot int) bool {
	t.slotMu[slot].Lock()
	defer t.slotMu[slot].Unlock()
	return t.tokens[slot][player]
}

// TokenCount returns how many tokens a player currently holds.
func (t *Table) TokenCount(player int) int {
	return int(t.tokensPerPlayer[player].Load())
}

// PlayerCards returns the cards under a player's tokens. Each slot is read
// under its own lock, so a token is never paired with a stale card.
func (t *Table) PlayerCards(player int) []Card {
	cards := make([]Card, 0, t.cfg.FeatureSize)
	for slot := 0; slot < t.cfg.TableSize; slot++ {
		t.slotMu[slot].Lock()
		if t.tokens[slot][player] {
			if card := t.slotToCard[slot].Load(); card != noCard {
				cards = append(cards, Card(card))
			}
		}
		t.slotMu[slot].Unlock()
	}
	return cards
}

// CountCards returns the number of cards currently on the table.
func (t *Table) CountCards() int {
	cards := 0
	for slot := range t.slotToCard {
		if t.slotToCard[slot].Load() != noCard {
			cards++
		}
	}
	return cards
}

// CardsOnTable returns the cards currently on the table.
func (t *Table) CardsOnTable() []Card {
	cards := make([]Card, 0, t.cfg.TableSize)
	for slot := range t.slotToCard {
		if card := t.slotToCard[slot].Load(); card != noCard {
			cards = append(cards, Card(card))
		}
	}
	return cards
}

// Hints logs every legal set currently on the table together with its slots
// and feature matrix.
func (t *Table) Hints() {
	cards := t.CardsOnTable()
	for _, found := range t.cfg.Oracle.FindSets(cards, len(cards)*len(cards)) {
		slots := make([]int, 0, len(found))
		for _, card := range found {
			if slot, ok := t.SlotOf(card); ok {
				slots = append(slots, slot)
			}
		}
		sort.Ints(slots)

		features := t.cfg.Oracle.CardsToFeatures(found)
		t.log.Infof("hint: set found at slots %v features %s", slots,
			spew.Sdump(features))
	}
}
