// Package game implements the hold'em game controller: per-table state
// machine, betting rounds, pot construction and payout, plus the cash
// and sit-and-go rule sets layered on top. A Game is single-goroutine;
// the server calls Tick from its loop and forwards player commands
// between ticks.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltd/feltd/internal/protocol"
)

// Status is the lifecycle state of a game.
type Status int

const (
	StatusCreated Status = iota
	StatusStarted
	StatusPaused
	StatusEnded
	StatusExpired
	StatusFinished
)

func (s Status) String() string {
	names := [...]string{"created", "started", "paused", "ended", "expired", "finished"}
	if s < 0 || int(s) >= len(names) {
		return "unknown"
	}
	return names[s]
}

func (s Status) terminal() bool { return s >= StatusEnded }

// Sink receives everything a game emits. The game resolves fan-out
// itself, so cid is always a concrete client. Implementations must not
// block; a slow client is the session layer's problem.
type Sink interface {
	Snap(cid, gid, tid int, code protocol.SnapCode, payload string)
	Chat(cid, gid, tid int, text string)
}

var (
	ErrGameFull          = errors.New("game is full")
	ErrGameStarted       = errors.New("game already started")
	ErrGameEnded         = errors.New("game has ended")
	ErrNotAPlayer        = errors.New("not a player in this game")
	ErrAlreadyPlaying    = errors.New("already registered in this game")
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrNotSubscribed     = errors.New("not subscribed")
	ErrInvalidAmount     = errors.New("invalid amount")
)

type blindLevel struct {
	amount    int // current big blind
	level     int
	changedAt time.Time
}

// Game is one poker game: its players, spectators, table and rules.
type Game struct {
	id  int
	cfg Config

	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand
	sink   Sink

	variant variant

	status Status
	owner  int

	players    map[int]*Player
	spectators map[int]struct{}

	tables  map[int]*Table
	nextTID int

	finish []*Player // busted players, first out first; winner last

	handNo int
	handID string

	blinds blindLevel

	createdAt time.Time
	startedAt time.Time
	endedAt   time.Time
}

// New creates a game in Created state. The clock and rng are injected
// so tests can drive time and rig shuffles.
func New(id int, cfg Config, logger *log.Logger, clock quartz.Clock, rng *rand.Rand, sink Sink) *Game {
	return &Game{
		id:         id,
		cfg:        cfg,
		logger:     logger.With("gid", id),
		clock:      clock,
		rng:        rng,
		sink:       sink,
		variant:    variantFor(cfg.Mode),
		owner:      -1,
		players:    make(map[int]*Player),
		spectators: make(map[int]struct{}),
		tables:     make(map[int]*Table),
		createdAt:  clock.Now(),
	}
}

func (g *Game) ID() int          { return g.id }
func (g *Game) Name() string     { return g.cfg.Name }
func (g *Game) Owner() int       { return g.owner }
func (g *Game) Status() Status   { return g.status }
func (g *Game) Config() Config   { return g.cfg }
func (g *Game) PlayerCount() int { return len(g.players) }
func (g *Game) HandNo() int      { return g.handNo }

// Players returns the registered client ids in ascending order.
func (g *Game) Players() []int {
	out := make([]int, 0, len(g.players))
	for cid := range g.players {
		out = append(out, cid)
	}
	sort.Ints(out)
	return out
}

func (g *Game) IsPlayer(cid int) bool {
	_, ok := g.players[cid]
	return ok
}

func (g *Game) IsSpectator(cid int) bool {
	_, ok := g.spectators[cid]
	return ok
}

// SetOwner hands the game to a client, usually its creator. The owner
// may start, pause and resume the game without being authed.
func (g *Game) SetOwner(cid int) { g.owner = cid }

// SetRestart toggles whether the game respawns after it ends.
func (g *Game) SetRestart(restart bool) { g.cfg.Restart = restart }

// Listeners returns everyone receiving this game's snapshots, players
// and spectators both.
func (g *Game) Listeners() []int {
	out := make([]int, 0, len(g.players)+len(g.spectators))
	for cid := range g.players {
		out = append(out, cid)
	}
	for cid := range g.spectators {
		out = append(out, cid)
	}
	sort.Ints(out)
	return out
}

// PlayerEntry is one PLAYERLIST row: a player and where they sit.
// Table and Seat are -1 until the player is placed.
type PlayerEntry struct {
	ClientID int
	Table    int
	Seat     int
	Stake    int
}

// PlayerList reports the registered players with their seating. Cash
// players already on their way out are not listed.
func (g *Game) PlayerList() []PlayerEntry {
	out := make([]PlayerEntry, 0, len(g.players))
	for _, cid := range g.Players() {
		p := g.players[cid]
		if p.WannaLeave {
			continue
		}
		e := PlayerEntry{ClientID: cid, Table: -1, Seat: -1, Stake: p.Stake}
		if t, seat := g.seatOf(p); t != nil {
			e.Table = t.id
			e.Seat = seat
		}
		out = append(out, e)
	}
	return out
}

// InfoState maps the status onto the GAMEINFO state field.
func (g *Game) InfoState() int {
	switch g.status {
	case StatusCreated:
		return protocol.GameInfoWaiting
	case StatusPaused:
		return protocol.GameInfoPaused
	case StatusStarted:
		return protocol.GameInfoStarted
	default:
		return protocol.GameInfoEnded
	}
}

// AddPlayer registers a client as a player, handing them the buy-in.
// The first player to join owns the game.
func (g *Game) AddPlayer(cid int) error {
	return g.AddPlayerWithStake(cid, g.cfg.Stake)
}

// AddPlayerWithStake registers a client with an explicit buy-in, as
// granted by the REGISTER command. A non-positive buy-in falls back to
// the configured stake.
func (g *Game) AddPlayerWithStake(cid, stake int) error {
	if _, ok := g.players[cid]; ok {
		return ErrAlreadyPlaying
	}
	if err := g.variant.canJoin(g); err != nil {
		return err
	}
	if stake <= 0 {
		stake = g.cfg.Stake
	}
	p := &Player{
		ClientID: cid,
		Stake:    stake,
		Timeout:  g.cfg.Timeout,
	}
	g.players[cid] = p
	delete(g.spectators, cid) // playing implies watching
	if g.owner == -1 {
		g.owner = cid
	}
	g.variant.onPlayerJoin(g, p)
	g.logger.Info("player registered", "cid", cid, "count", len(g.players))
	return nil
}

// RemovePlayer unregisters a client. In a running cash game the
// removal is deferred: the player folds out and the seat is released
// before the next hand.
func (g *Game) RemovePlayer(cid int) error {
	p, ok := g.players[cid]
	if !ok {
		return ErrNotAPlayer
	}
	return g.variant.removePlayer(g, p)
}

// ResumePlayer cancels a pending leave or sitout, for players that
// re-registered or reconnected before their seat was released. A
// player still in a running hand gets their hole cards again.
func (g *Game) ResumePlayer(cid int) error {
	p, ok := g.players[cid]
	if !ok {
		return ErrNotAPlayer
	}
	p.WannaLeave = false
	p.Sitout = false
	p.TimedOut = 0
	if p.Next.Valid && p.Next.Action == ActionFold {
		p.Next = SchedAction{}
	}

	t, seat := g.seatOf(p)
	if t == nil || t.state <= StateBlinds || t.state >= StateEndRound {
		return nil
	}
	if t.seats[seat].Occupied && t.seats[seat].InRound && len(p.Hole.Cards()) == 2 {
		g.snapTo(cid, t.id, protocol.SnapCards,
			fmt.Sprintf("%d %s", protocol.CardsHole, joinCards(p.Hole.Cards(), " ")))
	}
	return nil
}

// AddSpectator subscribes a client to the game's snapshot stream.
func (g *Game) AddSpectator(cid int) error {
	if _, ok := g.players[cid]; ok {
		return ErrAlreadyPlaying
	}
	if _, ok := g.spectators[cid]; ok {
		return ErrAlreadySubscribed
	}
	g.spectators[cid] = struct{}{}
	return nil
}

func (g *Game) RemoveSpectator(cid int) error {
	if _, ok := g.spectators[cid]; !ok {
		return ErrNotSubscribed
	}
	delete(g.spectators, cid)
	return nil
}

// Rebuy queues chips to be added to the player's stake between hands.
// A second rebuy before the next hand replaces the first.
func (g *Game) Rebuy(cid, amount int) error {
	p, ok := g.players[cid]
	if !ok {
		return ErrNotAPlayer
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	p.RebuyStake = amount
	return nil
}

// AddTimeout grants the acting player extra time on their clock.
func (g *Game) AddTimeout(cid int, add time.Duration) error {
	p, ok := g.players[cid]
	if !ok {
		return ErrNotAPlayer
	}
	if add <= 0 {
		return ErrInvalidAmount
	}
	t, _ := g.seatOf(p)
	if t == nil {
		return ErrNotAPlayer
	}
	p.Timeout += add
	left := p.Timeout - g.clock.Now().Sub(t.timeoutStart)
	if left < 0 {
		left = 0
	}
	g.snap(t.id, protocol.SnapRespite,
		fmt.Sprintf("%d %d %d", cid, int(add.Seconds()), int(left.Seconds())))
	return nil
}

// SetPlayerAction schedules the player's next betting action. The
// betting state consumes and validates it on the player's turn.
func (g *Game) SetPlayerAction(cid int, action Action, amount int) error {
	p, ok := g.players[cid]
	if !ok {
		return ErrNotAPlayer
	}
	switch action {
	case ActionReset:
		p.Next = SchedAction{}
	case ActionSitout:
		p.Sitout = true
	case ActionBack:
		p.Sitout = false
	default:
		p.Next = SchedAction{Valid: true, Action: action, Amount: amount}
		p.TimedOut = 0
	}
	return nil
}

// Start deals the game in: players are seated and the first hand is
// scheduled. Tournaments need at least two players.
func (g *Game) Start() {
	if g.status != StatusCreated {
		return
	}
	if len(g.players) == 0 {
		return
	}
	if g.cfg.Mode == protocol.GameModeSNG && len(g.players) < 2 {
		return
	}
	g.placePlayers()
	g.blinds = blindLevel{
		amount:    g.cfg.BlindsStart,
		level:     1,
		changedAt: g.clock.Now(),
	}
	g.status = StatusStarted
	g.startedAt = g.clock.Now()
	g.logger.Info("game started", "players", len(g.players))
}

// Pause stops table handling after the current hand state. Only a
// running game can be paused.
func (g *Game) Pause() {
	if g.status != StatusStarted {
		return
	}
	g.snap(-1, protocol.SnapGameState, fmt.Sprintf("%d", protocol.GameStatePause))
	g.status = StatusPaused
	g.logger.Info("game paused")
}

// Resume continues a paused game.
func (g *Game) Resume() {
	if g.status != StatusPaused {
		return
	}
	g.snap(-1, protocol.SnapGameState, fmt.Sprintf("%d", protocol.GameStateResume))
	g.status = StatusStarted
	g.logger.Info("game resumed")
}

// Finish marks an over game as drained. The server calls it right
// before dropping the game so a final GAMEINFO renders as ended.
func (g *Game) Finish() {
	if g.status.terminal() {
		g.status = StatusFinished
	}
}

// Tick advances the game by one server tick. It reports false once
// the game is over and can be dropped.
func (g *Game) Tick() bool {
	switch g.status {
	case StatusCreated:
		if g.variant.shouldExpire(g) {
			g.expire()
			return false
		}
		if !g.variant.shouldStart(g) {
			return true
		}
		g.Start()
	case StatusEnded, StatusExpired, StatusFinished:
		return false
	case StatusPaused:
		return true
	}

	for _, t := range g.tableList() {
		g.handleTable(t)
	}

	if g.status == StatusStarted && g.variant.shouldExpire(g) {
		g.expire()
	}
	return !g.status.terminal()
}

func (g *Game) handleTable(t *Table) {
	if !t.ready() {
		return
	}
	if g.variant.tableFinished(g, t) {
		g.closeTable(t)
		return
	}
	switch t.state {
	case StateNewRound:
		g.stateNewRound(t)
	case StateBlinds:
		g.stateBlinds(t)
	case StateBetting:
		g.stateBetting(t)
	case StateBettingEnd:
		g.stateBettingEnd(t)
	case StateAskShow:
		g.stateAskShow(t)
	case StateAllFolded:
		g.stateAllFolded(t)
	case StateShowdown:
		g.stateShowdown(t)
	case StateEndRound:
		g.stateEndRound(t)
	case StateSuspend:
		g.stateSuspend(t)
	case StateResume:
		g.stateResume(t)
	}
}

// tableList returns the tables in id order so ticks are deterministic.
func (g *Game) tableList() []*Table {
	out := make([]*Table, 0, len(g.tables))
	for _, t := range g.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// closeTable ends the game when its last table is down to one player.
func (g *Game) closeTable(t *Table) {
	for i := 0; i < MaxSeats; i++ {
		if t.seats[i].Occupied {
			g.finish = append(g.finish, t.seats[i].Player)
			break
		}
	}
	delete(g.tables, t.id)
	g.status = StatusEnded
	g.endedAt = g.clock.Now()
	g.snap(-1, protocol.SnapGameState, fmt.Sprintf("%d", protocol.GameStateEnd))
	g.logger.Info("game ended", "hands", g.handNo)
}

func (g *Game) expire() {
	g.status = StatusExpired
	g.endedAt = g.clock.Now()
	g.snap(-1, protocol.SnapGameState, fmt.Sprintf("%d", protocol.GameStateEnd))
	g.logger.Info("game expired")
}

// seatPlacement[n-1] lists the seats used for n starting players, in
// placement order. The first placed player holds the dealer button.
var seatPlacement = [MaxSeats][]int{
	{4},
	{4, 9},
	{4, 8, 0},
	{3, 5, 8, 0},
	{4, 6, 8, 0, 2},
	{1, 2, 4, 6, 7, 9},
	{4, 6, 2, 7, 1, 8, 0},
	{1, 2, 3, 5, 6, 7, 8, 0},
	{4, 6, 2, 7, 1, 8, 0, 5, 3},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
}

func (g *Game) placePlayers() {
	if len(g.tables) > 0 {
		return
	}
	g.placeTable()
}

func (g *Game) placeTable() {
	t := NewTable(g.nextTID, g.clock, g.rng)
	g.nextTID++
	g.tables[t.id] = t

	list := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ClientID < list[j].ClientID })
	g.rng.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })

	row := seatPlacement[len(list)-1]
	for i, p := range list {
		s := &t.seats[row[i]]
		s.Occupied = true
		s.Player = p
	}
	t.dealer = row[0]

	g.snap(t.id, protocol.SnapGameState, fmt.Sprintf("%d", protocol.GameStateStart))
	g.sendTableSnapshot(t)
	t.ScheduleState(StateNewRound, 5*time.Second)
	g.logger.Info("table opened", "tid", t.id, "players", len(list))
}

// arrangeSeat puts a late joiner on a random free seat of the running
// table. They sit out until the next hand is dealt.
func (g *Game) arrangeSeat(p *Player) {
	t := g.mainTable()
	if t == nil {
		return
	}
	free := make([]int, 0, MaxSeats)
	for i := 0; i < MaxSeats; i++ {
		if !t.seats[i].Occupied {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return
	}
	no := free[g.rng.Intn(len(free))]
	s := &t.seats[no]
	s.Occupied = true
	s.Player = p
	s.InRound = false
	s.Bet = 0
	s.ShowCards = false
	g.logger.Info("player seated", "cid", p.ClientID, "tid", t.id, "seat", no)
}

func (g *Game) mainTable() *Table {
	for _, t := range g.tables {
		return t
	}
	return nil
}

// seatOf finds the table and seat referencing p, released seats
// included (broke players keep their seat reference for rebuys).
func (g *Game) seatOf(p *Player) (*Table, int) {
	for _, t := range g.tables {
		if no := t.SeatOf(p); no >= 0 {
			return t, no
		}
	}
	return nil, -1
}

func (g *Game) tableOf(p *Player) *Table {
	t, _ := g.seatOf(p)
	return t
}

// dropPlayer removes a player immediately, clearing any seat still
// referencing them.
func (g *Game) dropPlayer(p *Player) {
	if t, seat := g.seatOf(p); t != nil {
		t.ClearSeat(seat)
	}
	delete(g.players, p.ClientID)
	if g.owner == p.ClientID {
		g.selectNewOwner(p.ClientID)
	}
	g.logger.Info("player removed", "cid", p.ClientID, "count", len(g.players))
}

// selectNewOwner hands the game to the lowest remaining client id.
func (g *Game) selectNewOwner(except int) {
	g.owner = -1
	for cid := range g.players {
		if cid == except {
			continue
		}
		if g.owner == -1 || cid < g.owner {
			g.owner = cid
		}
	}
}

// applyRebuys folds queued rebuys into stakes between hands. A broke
// player whose rebuy covers the next hand's cost takes their old seat
// back, or any free one if it was taken meanwhile.
func (g *Game) applyRebuys(t *Table) {
	need := g.blinds.amount + g.cfg.anteAmount(g.blinds.amount)
	for _, p := range g.players {
		if p.RebuyStake <= 0 {
			continue
		}
		p.Stake += p.RebuyStake
		g.logger.Info("rebuy applied", "cid", p.ClientID, "amount", p.RebuyStake, "stake", p.Stake)
		p.RebuyStake = 0
		if p.Stake < need {
			continue
		}
		no := t.SeatOf(p)
		switch {
		case no >= 0 && !t.seats[no].Occupied:
			t.seats[no].Occupied = true
		case no < 0:
			g.arrangeSeat(p)
		}
	}
}

// processLeavers releases the seats of players that unregistered and
// drops them from the game. Runs between hands.
func (g *Game) processLeavers(t *Table) {
	left := false
	for cid, p := range g.players {
		if !p.WannaLeave {
			continue
		}
		if no := t.SeatOf(p); no >= 0 {
			t.ClearSeat(no)
		}
		delete(g.players, cid)
		if g.owner == cid {
			g.selectNewOwner(cid)
		}
		g.logger.Info("player left", "cid", cid, "count", len(g.players))
		left = true
	}
	if !left {
		return
	}
	switch {
	case t.CountSeats() <= 3:
		t.lastStraddle = -1
		t.straddleChain = 0
	case g.cfg.MandatoryStraddle:
		// re-anchor the mandatory straddle behind the new blinds
		pos := t.dealer
		for i := 0; i < 3; i++ {
			pos = t.NextSeat(pos)
		}
		t.lastStraddle = pos
		t.straddleChain = 1
	case t.lastStraddle >= 0 && !t.seats[t.lastStraddle].Occupied:
		// the armed straddler was among the leavers
		t.lastStraddle = -1
		t.straddleChain = 0
	}
}

// postAntes charges every seated player the ante before the blinds.
func (g *Game) postAntes(t *Table) {
	ante := g.cfg.anteAmount(g.blinds.amount)
	if ante <= 0 {
		return
	}
	for i := 0; i < MaxSeats; i++ {
		s := &t.seats[i]
		if !s.Occupied {
			continue
		}
		s.Bet += ante
		s.Player.Stake -= ante
	}
}

// advanceBlindLevel climbs the schedule once the level interval has
// passed. Level 1 plays the configured start; the schedule takes over
// from level 2.
func (g *Game) advanceBlindLevel() {
	if g.blinds.level >= len(sngBlindSchedule) {
		return
	}
	now := g.clock.Now()
	if now.Sub(g.blinds.changedAt) <= g.cfg.BlindsTime {
		return
	}
	g.blinds.level++
	g.blinds.amount = sngBlindSchedule[g.blinds.level-1]
	g.blinds.changedAt = now
	g.logger.Info("blinds raised", "level", g.blinds.level, "amount", g.blinds.amount)
}

// nextBlind returns the upcoming level and amount, zero at the top of
// the schedule and always zero for ring games.
func (g *Game) nextBlind() (level, amount int) {
	if g.cfg.Mode != protocol.GameModeSNG {
		return 0, 0
	}
	if g.blinds.level >= len(sngBlindSchedule) {
		return 0, 0
	}
	return g.blinds.level + 1, sngBlindSchedule[g.blinds.level]
}

// snap sends a snapshot to every player and spectator.
func (g *Game) snap(tid int, code protocol.SnapCode, payload string) {
	for cid := range g.players {
		g.sink.Snap(cid, g.id, tid, code, payload)
	}
	for cid := range g.spectators {
		g.sink.Snap(cid, g.id, tid, code, payload)
	}
}

// snapTo sends a snapshot to one client.
func (g *Game) snapTo(cid, tid int, code protocol.SnapCode, payload string) {
	g.sink.Snap(cid, g.id, tid, code, payload)
}

// chatTo sends a table chat line to one client.
func (g *Game) chatTo(cid, tid int, text string) {
	g.sink.Chat(cid, g.id, tid, text)
}
