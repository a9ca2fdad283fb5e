package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/feltd/feltd/internal/game"
	"github.com/feltd/feltd/internal/protocol"
)

const (
	tickInterval         = 100 * time.Millisecond
	archiveSweepInterval = 5 * time.Minute
	sendBuffer           = 256
	maxLineLength        = 1024
)

// command pairs a session with one line read from its transport.
type command struct {
	sess *Session
	line string
}

// Server owns every session and every game. All state is mutated by
// the single loop goroutine; transport goroutines only feed the
// connect, command and hangup channels.
type Server struct {
	cfg    *Config
	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand

	games   map[int]*game.Game
	nextGID int

	all     map[*Session]struct{}
	byCID   map[int]*Session
	nextCID int

	archive   *conArchive
	lastSweep time.Time

	stats stats

	connects chan *Session
	commands chan command
	hangups  chan *Session
}

func New(cfg *Config, logger *log.Logger, clock quartz.Clock, rng *rand.Rand) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger.WithPrefix("server"),
		clock:    clock,
		rng:      rng,
		games:    make(map[int]*game.Game),
		all:      make(map[*Session]struct{}),
		byCID:    make(map[int]*Session),
		archive:  newConArchive(),
		connects: make(chan *Session),
		commands: make(chan command, sendBuffer),
		hangups:  make(chan *Session),
	}
	s.stats.serverStarted = clock.Now()
	s.lastSweep = clock.Now()
	return s
}

// CreateGame validates and registers a new game. A negative id asks
// the server to allocate the next free one; an explicit id that is
// already taken is an error.
func (s *Server) CreateGame(gid int, cfg game.Config) (*game.Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if gid < 0 {
		for {
			gid = s.nextGID
			s.nextGID++
			if _, taken := s.games[gid]; !taken {
				break
			}
		}
	} else if _, taken := s.games[gid]; taken {
		return nil, fmt.Errorf("game %d already exists", gid)
	}

	g := game.New(gid, cfg, s.logger, s.clock, s.rng, s)
	s.games[gid] = g
	s.stats.gamesCreated++
	return g, nil
}

// Run serves TCP clients, and websocket clients when ws_listen is
// configured, until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.logger.Info("listening", "addr", ln.Addr().String())

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-ctx.Done()
		ln.Close()
		return nil
	})
	eg.Go(func() error {
		return s.acceptLoop(ctx, ln)
	})

	if s.cfg.Server.WSListen != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", s.handleWS)
		httpSrv := &http.Server{Addr: s.cfg.Server.WSListen, Handler: mux}

		eg.Go(func() error {
			<-ctx.Done()
			httpSrv.Close()
			return nil
		})
		eg.Go(func() error {
			s.logger.Info("websocket listening", "addr", s.cfg.Server.WSListen)
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	eg.Go(func() error {
		return s.loop(ctx)
	})

	return eg.Wait()
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		sess := newSession(newTCPTransport(conn), s.logger)
		select {
		case s.connects <- sess:
			sess.start(s.commands, s.hangups)
		case <-ctx.Done():
			sess.close()
			return nil
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  maxLineLength,
	WriteBufferSize: maxLineLength,
	CheckOrigin:     func(*http.Request) bool { return true },
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}
	sess := newSession(newWSTransport(conn), s.logger)
	select {
	case s.connects <- sess:
		sess.start(s.commands, s.hangups)
	case <-r.Context().Done():
		sess.close()
	}
}

// loop is the owner of all mutable server state.
func (s *Server) loop(ctx context.Context) error {
	ticker := s.clock.NewTicker(tickInterval, "loop")
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case sess := <-s.connects:
			s.admit(sess)
		case cmd := <-s.commands:
			s.execute(cmd.sess, cmd.line)
		case sess := <-s.hangups:
			s.dropSession(sess)
		case <-ticker.C:
			s.Tick()
		}
	}
}

func (s *Server) admit(sess *Session) {
	s.all[sess] = struct{}{}
	s.stats.clientsConnected++
	s.logger.Info("client connected", "addr", sess.tr.RemoteAddr())
}

// dropSession disconnects a client and unwinds its game memberships.
// Ring games keep a seated player around until the hand lets them go;
// their removal is deferred inside the game. Safe to call twice since
// a hangup can race a QUIT.
func (s *Server) dropSession(sess *Session) {
	if _, ok := s.all[sess]; !ok {
		return
	}
	delete(s.all, sess)
	if cur, ok := s.byCID[sess.cid]; ok && cur == sess {
		delete(s.byCID, sess.cid)
	}

	if sess.is(stateSentInfo) {
		for _, g := range s.gameList() {
			if g.IsSpectator(sess.cid) {
				g.RemoveSpectator(sess.cid)
			}
			if !g.IsPlayer(sess.cid) {
				continue
			}
			if err := g.RemovePlayer(sess.cid); err != nil {
				s.logger.Debug("remove on disconnect", "game", g.ID(), "cid", sess.cid, "err", err)
			}
		}
		if sess.uuid != "" {
			s.archive.logout(sess.uuid, s.clock.Now())
		}
		s.foyerBroadcast(fmt.Sprintf("%d %d %s",
			protocol.FoyerLeave, sess.cid, protocol.Quote(sess.name)))
	}

	sess.close()
	s.logger.Info("client disconnected", "cid", sess.cid, "addr", sess.tr.RemoteAddr())
}

func (s *Server) shutdown() {
	for sess := range s.all {
		sess.close()
	}
	s.logger.Info("server stopped")
}

// Tick advances every game one step and runs periodic housekeeping.
func (s *Server) Tick() {
	for _, g := range s.gameList() {
		if !g.Tick() {
			s.finalizeGame(g)
		}
	}

	now := s.clock.Now()
	if now.Sub(s.lastSweep) > archiveSweepInterval {
		expire := time.Duration(s.cfg.Server.ConArchiveExpire) * time.Second
		if removed := s.archive.sweep(now, expire); removed > 0 {
			s.logger.Debug("expired archived connections", "removed", removed)
		}
		s.lastSweep = now
	}
}

// finalizeGame retires a game that reported itself done. Players get
// a last GAMEINFO so they see the final state; a restartable game is
// respawned fresh under the same id.
func (s *Server) finalizeGame(g *game.Game) {
	g.Finish()
	gid := g.ID()

	for _, cid := range g.Players() {
		if sess, ok := s.byCID[cid]; ok {
			sess.enqueue(s.gameInfoLine(g, cid))
		}
	}

	if g.Config().Restart {
		s.games[gid] = game.New(gid, g.Config(), s.logger, s.clock, s.rng, s)
		s.logger.Info("restarted game", "game", gid)
	} else {
		delete(s.games, gid)
		s.logger.Info("deleted game", "game", gid)
	}
}

// gameList returns the games sorted by id, the order every listing
// and broadcast walks them in.
func (s *Server) gameList() []*game.Game {
	ids := make([]int, 0, len(s.games))
	for gid := range s.games {
		ids = append(ids, gid)
	}
	sort.Ints(ids)
	out := make([]*game.Game, len(ids))
	for i, gid := range ids {
		out[i] = s.games[gid]
	}
	return out
}
