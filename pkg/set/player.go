package set

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/decred/slog"

	"github.com/gmoalemm/setgame/pkg/statemachine"
)

// Verdict is the dealer's answer to a proposal.
type Verdict int32

const (
	// VerdictNeutral means no answer: either no proposal is pending, or the
	// proposal collapsed because a racing removal took one of its cards.
	VerdictNeutral Verdict = iota
	// VerdictLegal means the proposed cards form a set.
	VerdictLegal
	// VerdictIllegal means they do not.
	VerdictIllegal
)

// PlayerStateFn is a player lifecycle state function.
type PlayerStateFn = statemachine.StateFn[Player]

// Lifecycle states. Transitions are driven by the player loop; the state
// functions only persist so the current state can be observed.

func playerStateIdle(*Player) PlayerStateFn       { return playerStateIdle }
func playerStateProcessing(*Player) PlayerStateFn { return playerStateProcessing }
func playerStateAwaitingVerdict(*Player) PlayerStateFn {
	return playerStateAwaitingVerdict
}
func playerStateFrozen(*Player) PlayerStateFn     { return playerStateFrozen }
func playerStateTerminated(*Player) PlayerStateFn { return nil }

// PlayerConfig holds the construction parameters of a Player.
type PlayerConfig struct {
	ID    int
	Human bool

	Table *Table
	Queue *ProposalQueue
	UI    UI
	Log   slog.Logger

	// Rand drives the bot's slot picks for non-human players.
	Rand *rand.Rand

	FeatureSize int
	TableSize   int

	PointFreeze   time.Duration
	PenaltyFreeze time.Duration

	// PlacingCards is the dealer's redeal flag; key presses arriving while it
	// is set are dropped.
	PlacingCards *atomic.Bool
}

// Player is one player agent. Its main loop drains the input queue into
// token placements, submits a proposal when the last token lands, sleeps
// until the dealer's verdict and serves the resulting freeze.
//
// A bot player additionally runs a driver goroutine that synthesizes random
// key presses.
type Player struct {
	id    int
	human bool

	table *Table
	queue *ProposalQueue
	ui    UI
	log   slog.Logger
	rng   *rand.Rand

	featureSize   int
	tableSize     int
	pointFreeze   time.Duration
	penaltyFreeze time.Duration

	placingCards *atomic.Bool

	// input holds the pressed slots not yet turned into token moves. Bots
	// never need more pending presses than the set size; humans get room for
	// every slot.
	input chan int

	// keyWake and verdictWake are single-slot signal channels; a buffered
	// signal means a wakeup is never lost between check and sleep.
	keyWake     chan struct{}
	verdictWake chan struct{}

	verdict atomic.Int32
	score   atomic.Int32

	// waitingToBeTested is set on submit and cleared after the verdict is
	// served. Only the player loop touches it; it is what stops the loop
	// from mutating its own tokens between queueing and verdict.
	waitingToBeTested bool

	exited chan struct{}

	sm *statemachine.Machine[Player]
}

// NewPlayer creates a player agent. It does not start any goroutine; the
// dealer runs the agent.
func NewPlayer(cfg PlayerConfig) *Player {
	capacity := cfg.FeatureSize
	if cfg.Human {
		capacity = cfg.TableSize * cfg.FeatureSize
	}

	p := &Player{
		id:            cfg.ID,
		human:         cfg.Human,
		table:         cfg.Table,
		queue:         cfg.Queue,
		ui:            cfg.UI,
		log:           cfg.Log,
		rng:           cfg.Rand,
		featureSize:   cfg.FeatureSize,
		tableSize:     cfg.TableSize,
		pointFreeze:   cfg.PointFreeze,
		penaltyFreeze: cfg.PenaltyFreeze,
		placingCards:  cfg.PlacingCards,
		input:         make(chan int, capacity),
		keyWake:       make(chan struct{}, 1),
		verdictWake:   make(chan struct{}, 1),
		exited:        make(chan struct{}),
	}

	p.sm = statemachine.New(p, playerStateIdle)

	return p
}

// ID returns the player's id.
func (p *Player) ID() int { return p.id }

// Human reports whether the player is driven by key input rather than a bot.
func (p *Player) Human() bool { return p.human }

// Score returns the player's current score.
func (p *Player) Score() int { return int(p.score.Load()) }

// Exited is closed once the player's main loop has fully unwound.
func (p *Player) Exited() <-chan struct{} { return p.exited }

// State returns the player's lifecycle state name.
func (p *Player) State() string {
	current := p.sm.Current()
	switch {
	case current == nil:
		return "TERMINATED"
	case statemachine.Same(current, playerStateIdle):
		return "IDLE"
	case statemachine.Same(current, playerStateProcessing):
		return "PROCESSING"
	case statemachine.Same(current, playerStateAwaitingVerdict):
		return "AWAITING_VERDICT"
	case statemachine.Same(current, playerStateFrozen):
		return "FROZEN"
	default:
		return "UNKNOWN"
	}
}

// KeyPressed routes one input event to the player. Events are dropped while
// the dealer is redealing, while another participant holds the queue's
// exclusivity token, and when the input queue is full.
func (p *Player) KeyPressed(slot int) {
	if !p.placingCards.Load() && p.queue.TryAcquire() {
		select {
		case p.input <- slot:
		default:
			// queue full, drop
		}
		p.queue.Release()
	}

	select {
	case p.keyWake <- struct{}{}:
	default:
	}
}

// Run is the player's main loop. It returns when the context is canceled;
// every blocking wait inside is interruptible.
func (p *Player) Run(ctx context.Context) {
	defer close(p.exited)
	defer p.sm.Dispatch(playerStateTerminated)
	defer p.log.Infof("player %d terminated", p.id)

	p.log.Infof("player %d starting (human=%v)", p.id, p.human)

	if !p.human {
		go p.runBot(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.keyWake:
		}

		if err := p.queue.Acquire(ctx); err != nil {
			return
		}
		p.sm.Dispatch(playerStateProcessing)

	process:
		for !p.waitingToBeTested {
			select {
			case slot := <-p.input:
				before := p.table.TokenCount(p.id)
				result := p.table.PlaceToken(p.id, slot)

				// The last token completes a proposal. Submitting happens
				// while the exclusivity token is still held, so the dealer
				// cannot observe the queue entry before the presses that
				// produced it are fully applied.
				if result == TokenPlaced && before == p.featureSize-1 {
					p.waitingToBeTested = true
					p.queue.SubmitLocked(p.id)
				}
			default:
				break process
			}
		}

		p.queue.Release()

		if p.waitingToBeTested {
			p.sm.Dispatch(playerStateAwaitingVerdict)

			select {
			case <-ctx.Done():
				return
			case <-p.verdictWake:
			}

			switch Verdict(p.verdict.Load()) {
			case VerdictLegal:
				p.point(ctx)
			case VerdictIllegal:
				p.penalty(ctx)
			}

			p.verdict.Store(int32(VerdictNeutral))
			p.drainInput()
			p.waitingToBeTested = false
		}

		p.sm.Dispatch(playerStateIdle)
	}
}

// point rewards the player for a legal set and serves the point freeze.
func (p *Player) point(ctx context.Context) {
	score := p.score.Add(1)
	p.ui.SetScore(p.id, int(score))
	p.ui.SetFreeze(p.id, p.pointFreeze)

	p.sm.Dispatch(playerStateFrozen)
	p.freeze(ctx, p.pointFreeze)
}

// penalty serves the penalty freeze after an illegal set.
func (p *Player) penalty(ctx context.Context) {
	p.ui.SetFreeze(p.id, p.penaltyFreeze)

	p.sm.Dispatch(playerStateFrozen)
	p.freeze(ctx, p.penaltyFreeze)
}

// freeze sleeps for the given duration, aborting on termination.
func (p *Player) freeze(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// drainInput discards the presses that accumulated before the verdict; they
// refer to a table that may no longer exist.
func (p *Player) drainInput() {
	for {
		select {
		case <-p.input:
		default:
			return
		}
	}
}

// setVerdict records the dealer's answer.
func (p *Player) setVerdict(v Verdict) {
	p.verdict.Store(int32(v))
}

// notifyVerdict wakes the player waiting on its verdict. It must fire even
// when the verdict stays neutral, or the player would sleep forever.
func (p *Player) notifyVerdict() {
	select {
	case p.verdictWake <- struct{}{}:
	default:
	}
}
