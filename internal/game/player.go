package game

import (
	"time"

	"github.com/feltd/feltd/poker"
)

// SchedAction is an action a client scheduled for its next turn. The
// betting state consumes it when the turn arrives; illegal requests are
// rejected there, not at submission time.
type SchedAction struct {
	Valid  bool
	Action Action
	Amount int
}

// Player is a registered participant of one game. Seats reference
// players; a player without an occupied seat is out of the hand but
// still listed (broke players keep spectating until they leave).
type Player struct {
	ClientID    int
	Stake       int
	StakeBefore int // stake at the start of the current hand
	RebuyStake  int // queued rebuy, applied between hands

	Hole poker.HoleCards

	Next       SchedAction
	LastAction Action

	Sitout     bool
	WannaLeave bool

	TimedOut int           // consecutive betting timeouts
	Timeout  time.Duration // per-turn allowance, grows with respite

	Insurance [2]InsuranceInfo // flop and turn rounds
}

// ResetLastAction clears the published last action.
func (p *Player) ResetLastAction() {
	p.LastAction = ActionNone
}

// ClearInsurance drops both insurance rounds.
func (p *Player) ClearInsurance() {
	p.Insurance[0] = InsuranceInfo{}
	p.Insurance[1] = InsuranceInfo{}
}
