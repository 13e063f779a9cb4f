package set

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/decred/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Players:            2,
		Humans:             2,
		DeckSize:           81,
		TableSize:          12,
		FeatureSize:        3,
		TurnTimeout:        60 * time.Second,
		TurnTimeoutWarning: 5 * time.Second,
		PointFreeze:        10 * time.Millisecond,
		PenaltyFreeze:      10 * time.Millisecond,
		TableDelay:         0,
	}
}

func newTestDealer(t *testing.T, cfg Config, ui UI) (*Dealer, *Table) {
	t.Helper()

	oracle := NewOracle(cfg.FeatureSize, cfg.DeckSize)
	quit := make(chan struct{})

	table := NewTable(TableConfig{
		Players:     cfg.Players,
		DeckSize:    cfg.DeckSize,
		TableSize:   cfg.TableSize,
		FeatureSize: cfg.FeatureSize,
		TableDelay:  cfg.TableDelay,
		Log:         slog.Disabled,
		UI:          ui,
		Oracle:      oracle,
		Quit:        quit,
	})

	dealer := NewDealer(DealerConfig{
		Config:    cfg,
		Table:     table,
		Oracle:    oracle,
		UI:        ui,
		Log:       slog.Disabled,
		PlayerLog: slog.Disabled,
		Rand:      rand.New(rand.NewSource(42)),
		Quit:      quit,
	})

	return dealer, table
}

// submit enqueues a player the way its agent would.
func submit(t *testing.T, q *ProposalQueue, player int) {
	t.Helper()
	require.NoError(t, q.Acquire(context.Background()))
	q.SubmitLocked(player)
	q.Release()
}

func TestDrainAndValidateLegalSet(t *testing.T) {
	ui := newRecordingUI()
	d, table := newTestDealer(t, testConfig(), ui)

	// Slots 0..2 hold the legal set {0,1,2}.
	for slot := 0; slot < 3; slot++ {
		table.PlaceCard(Card(slot), slot)
		require.Equal(t, TokenPlaced, table.PlaceToken(0, slot))
	}
	submit(t, d.queue, 0)

	d.drainAndValidate(context.Background())

	player := d.players[0]
	assert.Equal(t, VerdictLegal, Verdict(player.verdict.Load()))
	assert.Equal(t, 0, table.CountCards(), "the set's cards must leave the table")
	assert.False(t, d.freezeUntil[0].IsZero(), "point freeze must be armed")
	assert.True(t, d.queue.Empty())

	// The verdict wakeup is pending for the player.
	select {
	case <-player.verdictWake:
	default:
		t.Fatal("verdict notification missing")
	}

	// A found set re-arms the round timer.
	ui.mu.Lock()
	defer ui.mu.Unlock()
	require.NotEmpty(t, ui.countdowns)
	assert.Equal(t, 60*time.Second, ui.countdowns[len(ui.countdowns)-1])
}

func TestDrainAndValidateIllegalSet(t *testing.T) {
	ui := newRecordingUI()
	d, table := newTestDealer(t, testConfig(), ui)

	// {0,1,3} is not a set.
	table.PlaceCard(0, 0)
	table.PlaceCard(1, 1)
	table.PlaceCard(3, 2)
	for slot := 0; slot < 3; slot++ {
		require.Equal(t, TokenPlaced, table.PlaceToken(1, slot))
	}
	submit(t, d.queue, 1)

	d.drainAndValidate(context.Background())

	player := d.players[1]
	assert.Equal(t, VerdictIllegal, Verdict(player.verdict.Load()))
	assert.Equal(t, 3, table.CountCards(), "an illegal set leaves the table alone")
	assert.Equal(t, 3, table.TokenCount(1), "an illegal set leaves the tokens alone")
	assert.False(t, d.freezeUntil[1].IsZero(), "penalty freeze must be armed")
}

func TestDrainAndValidateCollapsedProposal(t *testing.T) {
	ui := newRecordingUI()
	d, table := newTestDealer(t, testConfig(), ui)

	// The player proposed three cards, but a racing removal took one before
	// validation: only two tokens survive.
	table.PlaceCard(0, 0)
	table.PlaceCard(1, 1)
	require.Equal(t, TokenPlaced, table.PlaceToken(0, 0))
	require.Equal(t, TokenPlaced, table.PlaceToken(0, 1))
	submit(t, d.queue, 0)

	d.drainAndValidate(context.Background())

	player := d.players[0]
	assert.Equal(t, VerdictNeutral, Verdict(player.verdict.Load()),
		"a collapsed snapshot gets no verdict")
	assert.True(t, d.freezeUntil[0].IsZero(), "no freeze for a collapsed proposal")

	// The wakeup still fires so the player resumes.
	select {
	case <-player.verdictWake:
	default:
		t.Fatal("collapsed proposal must still wake the player")
	}
}

func TestFIFOTieBreak(t *testing.T) {
	ui := newRecordingUI()
	d, table := newTestDealer(t, testConfig(), ui)

	// Players 0 and 1 share the card in slot 2. {0,1,2} and {2,5,8} are both
	// legal; player 0 submitted first.
	table.PlaceCard(0, 0)
	table.PlaceCard(1, 1)
	table.PlaceCard(2, 2)
	table.PlaceCard(5, 3)
	table.PlaceCard(8, 4)

	for _, slot := range []int{0, 1, 2} {
		require.Equal(t, TokenPlaced, table.PlaceToken(0, slot))
	}
	for _, slot := range []int{2, 3, 4} {
		require.Equal(t, TokenPlaced, table.PlaceToken(1, slot))
	}
	submit(t, d.queue, 0)
	submit(t, d.queue, 1)

	d.drainAndValidate(context.Background())

	// FIFO order wins: player 0 scores, player 1's snapshot collapsed to two
	// cards when slot 2 was emptied, so it resumes with no verdict.
	assert.Equal(t, VerdictLegal, Verdict(d.players[0].verdict.Load()))
	assert.Equal(t, VerdictNeutral, Verdict(d.players[1].verdict.Load()))
	assert.Equal(t, 2, table.CountCards())
	assert.Equal(t, 2, table.TokenCount(1))
}

func TestRemoveAllAndPlaceRoundTrip(t *testing.T) {
	cfg := testConfig()
	d, table := newTestDealer(t, cfg, newRecordingUI())

	d.placeCardsOnTable()
	assert.Equal(t, cfg.TableSize, table.CountCards())
	assert.Equal(t, cfg.DeckSize-cfg.TableSize, d.deck.Size())
	assert.False(t, d.placingCards.Load())

	d.removeAllCardsFromTable()
	assert.Equal(t, 0, table.CountCards())
	assert.Equal(t, cfg.DeckSize, d.deck.Size())
	assert.True(t, d.placingCards.Load(), "redeal flag must be up after clearing")

	d.placeCardsOnTable()
	assert.Equal(t, cfg.TableSize, table.CountCards())
	assert.False(t, d.placingCards.Load())
}

func TestPlaceCardsWithShortDeck(t *testing.T) {
	cfg := testConfig()
	d, table := newTestDealer(t, cfg, newRecordingUI())

	// Deplete the deck below the table size.
	for d.deck.Size() > 5 {
		d.deck.Draw()
	}

	d.placeCardsOnTable()
	assert.Equal(t, 5, table.CountCards())
	assert.Equal(t, 0, d.deck.Size())
}

func TestElapsedModeGuaranteesTableSet(t *testing.T) {
	cfg := testConfig()
	cfg.TurnTimeout = 0
	ui := newRecordingUI()
	d, table := newTestDealer(t, cfg, ui)

	d.placeCardsOnTable()

	oracle := NewOracle(cfg.FeatureSize, cfg.DeckSize)
	assert.NotEmpty(t, oracle.FindSets(table.CardsOnTable(), 1),
		"elapsed mode must never leave a setless table")
	assert.False(t, d.placingCards.Load())
}

func TestShouldFinish(t *testing.T) {
	d, _ := newTestDealer(t, testConfig(), newRecordingUI())

	assert.False(t, d.shouldFinish(), "a full deck still holds sets")

	for d.deck.Size() > 0 {
		d.deck.Draw()
	}
	assert.True(t, d.shouldFinish(), "an empty deck ends the game")
}

func TestShouldFinishOnTerminate(t *testing.T) {
	d, _ := newTestDealer(t, testConfig(), newRecordingUI())

	d.terminate.Store(true)
	assert.True(t, d.shouldFinish())
}

func TestAnnounceWinnersAscendingOrder(t *testing.T) {
	cfg := testConfig()
	cfg.Players = 3
	ui := newRecordingUI()
	d, _ := newTestDealer(t, cfg, ui)

	d.players[0].score.Store(2)
	d.players[1].score.Store(1)
	d.players[2].score.Store(2)

	d.announceWinners()

	winners := ui.announcedWinners()
	require.Len(t, winners, 1)
	assert.Equal(t, []int{0, 2}, winners[0])
}

func TestDealerRunAndTerminate(t *testing.T) {
	cfg := testConfig()
	cfg.Humans = 0 // bots drive the whole game
	ui := newRecordingUI()
	d, _ := newTestDealer(t, cfg, ui)

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(context.Background())
	}()

	// Let a round spin up, then pull the plug.
	time.Sleep(200 * time.Millisecond)
	d.Terminate()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("dealer did not shut down")
	}

	for id, p := range d.players {
		assert.Equal(t, "TERMINATED", p.State(), "player %d still running", id)
	}

	winners := ui.announcedWinners()
	require.Len(t, winners, 1, "winners must be announced exactly once")
}

func TestDealerRunCanceledContext(t *testing.T) {
	cfg := testConfig()
	cfg.Humans = 0
	d, _ := newTestDealer(t, cfg, newRecordingUI())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("dealer did not stop on context cancellation")
	}
}
