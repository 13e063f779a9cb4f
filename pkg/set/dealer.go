package set

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/decred/slog"
)

// dealerBreak bounds the dealer's sleep between timer ticks; a queue submit
// wakes it earlier.
const dealerBreak = 25 * time.Millisecond

// untimedHintDelay replaces the third-of-the-timer hint delay when no
// countdown is running.
const untimedHintDelay = 30 * time.Second

// DealerConfig holds the construction parameters of a Dealer.
type DealerConfig struct {
	Config Config

	Table  *Table
	Oracle Oracle
	UI     UI

	Log       slog.Logger
	PlayerLog slog.Logger

	// Rand drives deck shuffles and seeds the bots. Nil seeds from Config.Seed
	// (or the clock when that is zero too).
	Rand *rand.Rand

	// Quit is closed by the dealer on termination; the table's delay pauses
	// select on it. Pass the same channel to TableConfig. May be nil.
	Quit chan struct{}
}

// Dealer owns the game lifecycle: it creates and runs the player agents,
// deals cards, runs the turn timer, validates proposals in submission order,
// reshuffles, announces the winners and tears everything down.
type Dealer struct {
	cfg    Config
	table  *Table
	oracle Oracle
	ui     UI
	log    slog.Logger

	deck  *Deck
	queue *ProposalQueue
	rng   *rand.Rand

	players []*Player
	cancels []context.CancelFunc
	started atomic.Bool

	// placingCards is true while the dealer is redealing; players drop input
	// events for its duration. Shared with every player.
	placingCards atomic.Bool

	terminate atomic.Bool

	// wake is pinged by every proposal submission.
	wake chan struct{}

	// freezeUntil drives the per-player freeze display. Dealer-only.
	freezeUntil []time.Time

	// reshuffleAt is when the current round ends; meaningful only in
	// countdown mode.
	reshuffleAt time.Time

	// lastAction anchors the elapsed display and the hint timer: the moment
	// of the last reshuffle or accepted set.
	lastAction time.Time
	hintAt     time.Time
	hintArmed  bool

	quit     chan struct{}
	quitOnce sync.Once
}

// NewDealer creates the dealer together with its player agents. Player ids
// [0, Humans) are human; the rest run bots.
func NewDealer(cfg DealerConfig) *Dealer {
	rng := cfg.Rand
	if rng == nil {
		seed := cfg.Config.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	d := &Dealer{
		cfg:         cfg.Config,
		table:       cfg.Table,
		oracle:      cfg.Oracle,
		ui:          cfg.UI,
		log:         cfg.Log,
		deck:        NewDeck(cfg.Config.DeckSize, rng),
		rng:         rng,
		players:     make([]*Player, cfg.Config.Players),
		cancels:     make([]context.CancelFunc, cfg.Config.Players),
		wake:        make(chan struct{}, 1),
		freezeUntil: make([]time.Time, cfg.Config.Players),
		quit:        cfg.Quit,
	}

	d.queue = NewProposalQueue(cfg.Config.Players, d.wake)

	for id := range d.players {
		d.players[id] = NewPlayer(PlayerConfig{
			ID:            id,
			Human:         id < cfg.Config.Humans,
			Table:         cfg.Table,
			Queue:         d.queue,
			UI:            cfg.UI,
			Log:           cfg.PlayerLog,
			Rand:          rand.New(rand.NewSource(rng.Int63())),
			FeatureSize:   cfg.Config.FeatureSize,
			TableSize:     cfg.Config.TableSize,
			PointFreeze:   cfg.Config.PointFreeze,
			PenaltyFreeze: cfg.Config.PenaltyFreeze,
			PlacingCards:  &d.placingCards,
		})
	}

	return d
}

// Players returns the player agents in id order, for routing input events.
func (d *Dealer) Players() []*Player { return d.players }

// Run is the dealer's main loop. It returns once the winners have been
// announced and every player has exited.
func (d *Dealer) Run(ctx context.Context) {
	d.log.Infof("dealer starting")
	defer d.log.Infof("dealer terminated")

	d.startPlayers()

	for !d.shouldFinish() {
		d.placeCardsOnTable()
		d.updateTimerDisplay(true)
		d.timerLoop(ctx)
		d.removeAllCardsFromTable()
	}

	d.terminatePlayers()
	d.closeQuit()
	d.announceWinners()
}

// Terminate requests an orderly shutdown from outside the dealer's thread:
// in-flight table delays are aborted, players are stopped in reverse id
// order, and the dealer is woken to finish its loop.
func (d *Dealer) Terminate() {
	d.closeQuit()
	d.terminatePlayers()
	d.terminate.Store(true)

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Dealer) startPlayers() {
	for id, p := range d.players {
		ctx, cancel := context.WithCancel(context.Background())
		d.cancels[id] = cancel
		go p.Run(ctx)
	}
	d.started.Store(true)
}

// terminatePlayers stops the players in reverse id order, waiting for each
// one to fully exit before stopping the next. Safe to call more than once.
func (d *Dealer) terminatePlayers() {
	if !d.started.Load() {
		return
	}

	for id := len(d.players) - 1; id >= 0; id-- {
		d.cancels[id]()
		<-d.players[id].Exited()
		d.log.Debugf("player %d exited", id)
	}
}

func (d *Dealer) closeQuit() {
	d.quitOnce.Do(func() {
		if d.quit != nil {
			close(d.quit)
		}
	})
}

// shouldFinish reports whether the game is over: termination was requested,
// or the deck holds no further set. The deck-only probe can miss a final set
// still on the table; that matches the behavior this game has always had.
func (d *Dealer) shouldFinish() bool {
	return d.terminate.Load() || len(d.oracle.FindSets(d.deck.Cards(), 1)) == 0
}

// timerLoop runs one round: it ticks until the round times out, the table
// empties, or termination is requested.
func (d *Dealer) timerLoop(ctx context.Context) {
	for !d.terminate.Load() && !d.roundExpired() && d.table.CountCards() > 0 {
		d.sleepUntilWokenOrTimeout(ctx)
		d.updateTimerDisplay(false)
		d.drainAndValidate(ctx)
		d.placeCardsOnTable()
	}
}

func (d *Dealer) roundExpired() bool {
	return d.cfg.TurnTimeout > 0 && !time.Now().Before(d.reshuffleAt)
}

func (d *Dealer) sleepUntilWokenOrTimeout(ctx context.Context) {
	select {
	case <-ctx.Done():
		d.terminate.Store(true)
	case <-d.wake:
	case <-time.After(dealerBreak):
	}
}

// updateTimerDisplay refreshes the countdown or elapsed display, ticks the
// per-player freeze displays, and emits a hint once the hint time passes.
// reset re-arms the round after a deal or an accepted set.
func (d *Dealer) updateTimerDisplay(reset bool) {
	now := time.Now()

	if reset {
		d.lastAction = now

		switch {
		case d.cfg.TurnTimeout > 0:
			d.reshuffleAt = now.Add(d.cfg.TurnTimeout)
			d.ui.SetCountdown(d.cfg.TurnTimeout, false)
		case d.cfg.TurnTimeout == 0:
			d.ui.SetElapsed(0)
		}

		if d.cfg.Hints {
			delay := untimedHintDelay
			if d.cfg.TurnTimeout > 0 {
				delay = d.cfg.TurnTimeout / 3
			}
			d.hintAt = now.Add(delay)
			d.hintArmed = true
		}
		return
	}

	switch {
	case d.cfg.TurnTimeout > 0:
		left := d.reshuffleAt.Sub(now)
		if left < 0 {
			left = 0
		}
		d.ui.SetCountdown(left, left < d.cfg.TurnTimeoutWarning)
	case d.cfg.TurnTimeout == 0:
		d.ui.SetElapsed(now.Sub(d.lastAction))
	}

	for player := range d.freezeUntil {
		if d.freezeUntil[player].IsZero() {
			continue
		}
		remaining := d.freezeUntil[player].Sub(now)
		if remaining <= 0 {
			d.ui.SetFreeze(player, 0)
			d.freezeUntil[player] = time.Time{}
			continue
		}
		d.ui.SetFreeze(player, remaining)
	}

	if d.hintArmed && !now.Before(d.hintAt) {
		d.table.Hints()
		d.hintArmed = false
	}
}

// drainAndValidate empties the proposal queue in FIFO order under the
// queue's exclusivity token. The submitter's tokens are re-read under the
// slot locks; a snapshot that collapsed below the set size (a racing removal
// took one of its cards) gets no verdict change, only the wakeup.
func (d *Dealer) drainAndValidate(ctx context.Context) {
	if err := d.queue.Acquire(ctx); err != nil {
		return
	}
	defer d.queue.Release()

	for {
		id, ok := d.queue.DrainOneLocked()
		if !ok {
			return
		}

		player := d.players[id]
		cards := d.table.PlayerCards(id)

		if len(cards) == d.cfg.FeatureSize {
			if d.oracle.TestSet(cards) {
				player.setVerdict(VerdictLegal)

				for _, card := range cards {
					if slot, ok := d.table.SlotOf(card); ok {
						d.table.RemoveCard(slot)
					}
				}

				d.freezeUntil[id] = time.Now().Add(d.cfg.PointFreeze)
				d.log.Infof("player %d found a set", id)

				// A found set extends the round.
				d.updateTimerDisplay(true)
			} else {
				player.setVerdict(VerdictIllegal)
				d.freezeUntil[id] = time.Now().Add(d.cfg.PenaltyFreeze)
				d.log.Infof("player %d proposed an illegal set", id)
			}
		}

		player.notifyVerdict()
	}
}

// placeCardsOnTable deals from the deck into every empty slot. In elapsed
// mode it additionally guarantees the table holds at least one legal set.
// The redeal flag is cleared once dealing is done.
func (d *Dealer) placeCardsOnTable() {
	defer d.placingCards.Store(false)

	d.deck.Shuffle()

	for slot := 0; slot < d.cfg.TableSize; slot++ {
		if _, ok := d.table.CardAt(slot); ok {
			continue
		}
		card, ok := d.deck.Draw()
		if !ok {
			break
		}
		d.table.PlaceCard(card, slot)
	}

	if d.cfg.TurnTimeout == 0 {
		d.ensureTableSet()
	}
}

// ensureTableSet rebuilds a setless table: every card goes back into the
// deck, the oracle picks a set from the deck, those cards are reserved as
// the first placements and the rest of the table is filled from the deck.
// When the deck has no set either, the game is over.
func (d *Dealer) ensureTableSet() {
	if len(d.oracle.FindSets(d.table.CardsOnTable(), 1)) > 0 {
		return
	}

	d.log.Infof("no set on the table, rebuilding with a reserved set")
	d.placingCards.Store(true)

	for slot := 0; slot < d.cfg.TableSize; slot++ {
		if card, ok := d.table.CardAt(slot); ok {
			d.deck.Add(card)
			d.table.RemoveCard(slot)
		}
	}

	sets := d.oracle.FindSets(d.deck.Cards(), 1)
	if len(sets) == 0 {
		d.terminate.Store(true)
		return
	}

	reserved := sets[0]
	for _, card := range reserved {
		d.deck.Remove(card)
	}
	d.deck.Shuffle()

	slot := 0
	for _, card := range reserved {
		d.table.PlaceCard(card, slot)
		slot++
	}
	for ; slot < d.cfg.TableSize; slot++ {
		card, ok := d.deck.Draw()
		if !ok {
			break
		}
		d.table.PlaceCard(card, slot)
	}

	// The rebuild is an action; the elapsed display restarts.
	d.updateTimerDisplay(true)
}

// removeAllCardsFromTable returns every card on the table to the deck. The
// redeal flag goes up first so players stop feeding inputs.
func (d *Dealer) removeAllCardsFromTable() {
	d.placingCards.Store(true)

	for slot := 0; slot < d.cfg.TableSize; slot++ {
		if card, ok := d.table.CardAt(slot); ok {
			d.deck.Add(card)
			d.table.RemoveCard(slot)
		}
	}
}

// announceWinners emits the ids holding the top score, in ascending order.
func (d *Dealer) announceWinners() {
	maxScore := 0
	for _, p := range d.players {
		if p.Score() > maxScore {
			maxScore = p.Score()
		}
	}

	winners := make([]int, 0, len(d.players))
	for _, p := range d.players {
		if p.Score() == maxScore {
			winners = append(winners, p.ID())
		}
	}

	d.log.Infof("winners: %v", winners)
	d.ui.AnnounceWinner(winners)
}
