package set

import (
	"context"
	"time"
)

// botBreak is how long a bot backs off after each synthesized press, so the
// dealer and human players are never starved of CPU.
const botBreak = 500 * time.Millisecond

// runBot synthesizes key presses for a non-human player: a uniformly random
// occupied slot, redrawn while the picked slot is empty.
func (p *Player) runBot(ctx context.Context) {
	p.log.Infof("bot %d starting", p.id)
	defer p.log.Infof("bot %d terminated", p.id)

	for {
		slot := p.rng.Intn(p.tableSize)
		for {
			if _, ok := p.table.CardAt(slot); ok {
				break
			}
			if ctx.Err() != nil {
				return
			}
			slot = p.rng.Intn(p.tableSize)
		}

		p.KeyPressed(slot)

		select {
		case <-ctx.Done():
			return
		case <-time.After(botBreak):
		}
	}
}
