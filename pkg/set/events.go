package set

import "time"

// GameEventType represents the type of game event
type GameEventType string

const (
	GameEventTypeCardPlaced    GameEventType = "card_placed"
	GameEventTypeCardRemoved   GameEventType = "card_removed"
	GameEventTypeTokenPlaced   GameEventType = "token_placed"
	GameEventTypeTokenRemoved  GameEventType = "token_removed"
	GameEventTypeScoreChanged  GameEventType = "score_changed"
	GameEventTypeFreezeChanged GameEventType = "freeze_changed"
	GameEventTypeCountdown     GameEventType = "countdown"
	GameEventTypeElapsed       GameEventType = "elapsed"
	GameEventTypeWinners       GameEventType = "winners"
)

// GameEvent is an immutable snapshot of a single UI callback.
type GameEvent struct {
	Type      GameEventType
	Player    int
	Slot      int
	Card      Card
	Score     int
	Remaining time.Duration
	Warn      bool
	Winners   []int
	Timestamp time.Time
}

// EventUI converts UI callbacks into GameEvent values published to a channel.
// Publishing is non-blocking; when the consumer falls behind, events are
// dropped rather than stalling the game loop.
type EventUI struct {
	events chan<- GameEvent
}

// NewEventUI creates an event-publishing UI sink.
func NewEventUI(events chan<- GameEvent) *EventUI {
	return &EventUI{events: events}
}

func (u *EventUI) publish(ev GameEvent) {
	if u.events == nil {
		return
	}
	ev.Timestamp = time.Now()
	select {
	case u.events <- ev:
	default:
		// Channel is full, event is dropped
	}
}

func (u *EventUI) PlaceCard(card Card, slot int) {
	u.publish(GameEvent{Type: GameEventTypeCardPlaced, Card: card, Slot: slot})
}

func (u *EventUI) RemoveCard(slot int) {
	u.publish(GameEvent{Type: GameEventTypeCardRemoved, Slot: slot, Card: noCard})
}

func (u *EventUI) PlaceToken(player, slot int) {
	u.publish(GameEvent{Type: GameEventTypeTokenPlaced, Player: player, Slot: slot})
}

func (u *EventUI) RemoveToken(player, slot int) {
	u.publish(GameEvent{Type: GameEventTypeTokenRemoved, Player: player, Slot: slot})
}

func (u *EventUI) SetScore(player, score int) {
	u.publish(GameEvent{Type: GameEventTypeScoreChanged, Player: player, Score: score})
}

func (u *EventUI) SetFreeze(player int, remaining time.Duration) {
	u.publish(GameEvent{Type: GameEventTypeFreezeChanged, Player: player, Remaining: remaining})
}

func (u *EventUI) SetCountdown(remaining time.Duration, warn bool) {
	u.publish(GameEvent{Type: GameEventTypeCountdown, Remaining: remaining, Warn: warn})
}

func (u *EventUI) SetElapsed(elapsed time.Duration) {
	u.publish(GameEvent{Type: GameEventTypeElapsed, Remaining: elapsed})
}

func (u *EventUI) AnnounceWinner(players []int) {
	winners := make([]int, len(players))
	copy(winners, players)
	u.publish(GameEvent{Type: GameEventTypeWinners, Winners: winners})
}
