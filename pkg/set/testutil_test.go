package set

import (
	"sync"
	"time"
)

// recordingUI captures every callback for later inspection.
type recordingUI struct {
	mu sync.Mutex

	placedCards   map[int]Card // slot -> card
	removedCards  []int
	placedTokens  [][2]int // (player, slot)
	removedTokens [][2]int
	scores        map[int]int
	freezes       map[int]time.Duration
	countdowns    []time.Duration
	warns         []bool
	elapsed       []time.Duration
	winners       [][]int
}

func newRecordingUI() *recordingUI {
	return &recordingUI{
		placedCards: make(map[int]Card),
		scores:      make(map[int]int),
		freezes:     make(map[int]time.Duration),
	}
}

func (u *recordingUI) PlaceCard(card Card, slot int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.placedCards[slot] = card
}

func (u *recordingUI) RemoveCard(slot int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.removedCards = append(u.removedCards, slot)
}

func (u *recordingUI) PlaceToken(player, slot int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.placedTokens = append(u.placedTokens, [2]int{player, slot})
}

func (u *recordingUI) RemoveToken(player, slot int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.removedTokens = append(u.removedTokens, [2]int{player, slot})
}

func (u *recordingUI) SetScore(player, score int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.scores[player] = score
}

func (u *recordingUI) SetFreeze(player int, remaining time.Duration) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.freezes[player] = remaining
}

func (u *recordingUI) SetCountdown(remaining time.Duration, warn bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.countdowns = append(u.countdowns, remaining)
	u.warns = append(u.warns, warn)
}

func (u *recordingUI) SetElapsed(elapsed time.Duration) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.elapsed = append(u.elapsed, elapsed)
}

func (u *recordingUI) AnnounceWinner(players []int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	winners := make([]int, len(players))
	copy(winners, players)
	u.winners = append(u.winners, winners)
}

func (u *recordingUI) score(player int) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.scores[player]
}

func (u *recordingUI) removedCardCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.removedCards)
}

func (u *recordingUI) announcedWinners() [][]int {
	u.mu.Lock()
	defer u.mu.Unlock()
	winners := make([][]int, len(u.winners))
	copy(winners, u.winners)
	return winners
}
