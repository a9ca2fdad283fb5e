package server

import (
	"strconv"
	"time"

	"github.com/feltd/feltd/internal/game"
	"github.com/feltd/feltd/internal/protocol"
)

// cmdRequest serves the read-only queries plus the owner controls:
// REQUEST <what> [args].
func (s *Server) cmdRequest(sess *Session, t *protocol.Tokenizer) {
	what, ok := t.Next()
	if !ok {
		s.sendErr(sess, protocol.ErrParameters, "")
		return
	}

	handled := false
	switch what {
	case "clientinfo":
		handled = s.requestClientInfo(sess, t)
	case "gameinfo":
		handled = s.requestGameInfo(sess, t)
	case "gamelist":
		sess.enqueue(s.gameListLine())
		handled = true
	case "playerlist":
		gid, ok := t.NextInt()
		handled = ok && s.sendPlayerList(sess, gid)
	case "serverinfo":
		sess.enqueue(s.serverInfoLine())
		handled = true
	case "start":
		handled = s.requestStart(sess, t)
	case "restart":
		handled = s.requestRestart(sess, t)
	case "pause":
		handled = s.requestPause(sess, t)
	case "resume":
		handled = s.requestResume(sess, t)
	}
	if !handled {
		s.cmdErr(sess, "")
	}
}

// requestGameInfo answers one GAMEINFO line per requested game.
// Unknown ids are skipped, not answered.
func (s *Server) requestGameInfo(sess *Session, t *protocol.Tokenizer) bool {
	for {
		gid, ok := t.NextInt()
		if !ok {
			return true
		}
		s.sendGameInfo(sess, gid)
	}
}

func (s *Server) requestClientInfo(sess *Session, t *protocol.Tokenizer) bool {
	for {
		cid, ok := t.NextInt()
		if !ok {
			return true
		}
		if line, ok := s.clientInfoLine(cid); ok {
			sess.enqueue(line)
		}
	}
}

// requestStart launches a waiting game. Only the owner or an authed
// client may start it; the reply carries the game id.
func (s *Server) requestStart(sess *Session, t *protocol.Tokenizer) bool {
	gid, ok := t.NextInt()
	if !ok {
		return false
	}
	g, found := s.games[gid]
	if !found {
		return false
	}
	if g.Owner() != sess.cid && !sess.is(stateAuthed) {
		return false
	}
	g.Start()
	s.sendOKMsg(sess, strconv.Itoa(gid))
	return true
}

// requestRestart toggles the respawn flag: REQUEST restart <gid> <0|1>.
// Authed clients only; no reply on success.
func (s *Server) requestRestart(sess *Session, t *protocol.Tokenizer) bool {
	gid, ok := t.NextInt()
	restart, ok2 := t.NextInt()
	if !ok || !ok2 {
		return false
	}
	g, found := s.games[gid]
	if !found {
		return false
	}
	if !sess.is(stateAuthed) {
		return false
	}
	g.SetRestart(restart != 0)
	return true
}

func (s *Server) requestPause(sess *Session, t *protocol.Tokenizer) bool {
	gid, ok := t.NextInt()
	if !ok {
		return false
	}
	g, found := s.games[gid]
	if !found {
		return false
	}
	if g.Owner() != sess.cid && !sess.is(stateAuthed) {
		return false
	}
	g.Pause()
	return true
}

func (s *Server) requestResume(sess *Session, t *protocol.Tokenizer) bool {
	gid, ok := t.NextInt()
	if !ok {
		return false
	}
	g, found := s.games[gid]
	if !found {
		return false
	}
	if g.Owner() != sess.cid && !sess.is(stateAuthed) {
		return false
	}
	g.Resume()
	return true
}

// cmdRegister joins a game: REGISTER <gid> <stake> [password]. A ring
// player who is already registered is resumed instead, so a reconnect
// can pick the seat back up.
func (s *Server) cmdRegister(sess *Session, t *protocol.Tokenizer) {
	gid, ok := t.NextInt()
	stake, ok2 := t.NextInt()
	if !ok || !ok2 {
		s.sendErr(sess, protocol.ErrParameters, "")
		return
	}
	passwd, _ := t.Next()

	g, found := s.games[gid]
	if !found {
		s.cmdErr(sess, "game does not exist")
		return
	}
	cfg := g.Config()

	if g.Status() != game.StatusCreated && cfg.Mode != protocol.GameModeRingGame {
		s.cmdErr(sess, "cannot join game after it's started")
		return
	}

	if g.IsPlayer(sess.cid) {
		if cfg.Mode != protocol.GameModeRingGame {
			s.cmdErr(sess, "you are already registered")
			return
		}
		if err := g.ResumePlayer(sess.cid); err != nil {
			s.cmdErr(sess, "Could not resume player")
			return
		}
		s.sendOKMsg(sess, strconv.Itoa(gid))
		s.sendGameInfo(sess, gid)
		s.sendPlayerListAll(gid)
		return
	}

	if cfg.Password != "" && passwd != cfg.Password {
		s.cmdErr(sess, "wrong password")
		return
	}

	count := 0
	for _, other := range s.gameList() {
		if other.IsPlayer(sess.cid) {
			count++
			if count == s.cfg.Server.MaxRegisterPerPlayer {
				s.cmdErr(sess, "register limit per player is reached")
				return
			}
		}
	}

	if err := g.AddPlayerWithStake(sess.cid, stake); err != nil {
		s.cmdErr(sess, err.Error())
		return
	}

	s.logger.Info("player joined game", "name", sess.name, "cid", sess.cid,
		"game", gid, "players", g.PlayerCount(), "max", cfg.MaxPlayers)

	s.sendOKMsg(sess, strconv.Itoa(gid))
	s.sendGameInfo(sess, gid)
	s.sendPlayerListAll(gid)
}

// unregisterGame removes the client from one game. Leaving a non-ring
// game is only possible while it still waits for players.
func (s *Server) unregisterGame(sess *Session, gid int) {
	g, found := s.games[gid]
	if !found {
		s.cmdErr(sess, "game does not exist")
		return
	}
	if !g.IsPlayer(sess.cid) {
		s.cmdErr(sess, "you are not registered")
		return
	}
	if g.Status() != game.StatusCreated && g.Config().Mode != protocol.GameModeRingGame {
		s.cmdErr(sess, "leaving game is not allowed for non-Sit&Go games when the game is not in Waiting state")
		return
	}

	if err := g.RemovePlayer(sess.cid); err != nil {
		s.cmdErr(sess, err.Error())
		return
	}

	s.logger.Info("player parted game", "name", sess.name, "cid", sess.cid,
		"game", gid, "players", g.PlayerCount(), "max", g.Config().MaxPlayers)

	s.sendPlayerListAll(gid)
	s.sendOK(sess)
}

// cmdUnregister leaves a game, or every game when the id is -1.
func (s *Server) cmdUnregister(sess *Session, t *protocol.Tokenizer) {
	gid, ok := t.NextInt()
	if !ok {
		s.sendErr(sess, protocol.ErrParameters, "")
		return
	}

	if gid != -1 {
		s.unregisterGame(sess, gid)
		return
	}

	left := 0
	for _, g := range s.gameList() {
		if !g.IsPlayer(sess.cid) {
			continue
		}
		s.unregisterGame(sess, g.ID())
		left++
	}
	if left == 0 {
		s.sendOK(sess)
	}
}

// cmdSubscribe adds the client as a spectator: SUBSCRIBE <gid>.
func (s *Server) cmdSubscribe(sess *Session, t *protocol.Tokenizer) {
	gid, ok := t.NextInt()
	if !ok {
		s.sendErr(sess, protocol.ErrParameters, "")
		return
	}

	g, found := s.games[gid]
	if !found {
		s.cmdErr(sess, "game does not exist")
		return
	}
	if g.IsSpectator(sess.cid) {
		s.cmdErr(sess, "you are already subscribed")
		return
	}

	count := 0
	for _, other := range s.gameList() {
		if other.IsSpectator(sess.cid) {
			count++
			if count == s.cfg.Server.MaxSubscribePerPlayer {
				s.cmdErr(sess, "subscribe limit per player is reached")
				return
			}
		}
	}

	if err := g.AddSpectator(sess.cid); err != nil {
		s.cmdErr(sess, err.Error())
		return
	}

	s.logger.Debug("client subscribed game", "cid", sess.cid, "game", gid)
	s.sendOK(sess)
}

func (s *Server) cmdUnsubscribe(sess *Session, t *protocol.Tokenizer) {
	gid, ok := t.NextInt()
	if !ok {
		s.sendErr(sess, protocol.ErrParameters, "")
		return
	}

	g, found := s.games[gid]
	if !found {
		s.cmdErr(sess, "game does not exist")
		return
	}
	if !g.IsSpectator(sess.cid) {
		s.cmdErr(sess, "you are not subscribed")
		return
	}
	if err := g.RemoveSpectator(sess.cid); err != nil {
		s.cmdErr(sess, err.Error())
		return
	}

	s.logger.Debug("client unsubscribed game", "cid", sess.cid, "game", gid)
	s.sendOK(sess)
}

// cmdCreate spawns a game from k:v parameters, every knob optional:
// CREATE name:mygame type:1 players:6 stake:5000 …  The creator
// becomes the owner; the reply is the GAMEINFO of the new game.
func (s *Server) cmdCreate(sess *Session, t *protocol.Tokenizer) {
	if !s.cfg.PermCreate() && !sess.is(stateAuthed) {
		s.sendErr(sess, protocol.ErrNoPermission, "no permission")
		return
	}
	if len(s.games) >= s.cfg.Server.MaxGames {
		s.cmdErr(sess, "server games count reached")
		return
	}
	count := 0
	for _, other := range s.gameList() {
		if other.Owner() == sess.cid {
			count++
			if count == s.cfg.Server.MaxCreatePerPlayer {
				s.cmdErr(sess, "create limit per player is reached")
				return
			}
		}
	}

	cfg := game.DefaultConfig()
	gid := -1
	cmderr := false

	for {
		tok, ok := t.Next()
		if !ok {
			break
		}
		key, value, ok := protocol.Pair(tok)
		if !ok || value == "" {
			continue
		}
		n, nerr := strconv.Atoi(value)
		switch key {
		case "type":
			cfg.Mode = n
			cmderr = cmderr || nerr != nil
		case "game_id":
			gid = n
			cmderr = cmderr || nerr != nil || n < 0
		case "players":
			cfg.MaxPlayers = n
			cmderr = cmderr || nerr != nil
		case "stake":
			cfg.Stake = n
			cmderr = cmderr || nerr != nil
		case "timeout":
			cfg.Timeout = time.Duration(n) * time.Second
			cmderr = cmderr || nerr != nil
		case "name":
			if len(value) > 50 {
				value = value[:50]
			}
			cfg.Name = value
		case "blinds_start":
			cfg.BlindsStart = n
			cmderr = cmderr || nerr != nil
		case "blinds_factor":
			cfg.BlindsFactor = n
			cmderr = cmderr || nerr != nil
		case "blinds_time":
			cfg.BlindsTime = time.Duration(n) * time.Second
			cmderr = cmderr || nerr != nil
		case "ante":
			cfg.Ante = n
			cmderr = cmderr || nerr != nil
		case "mandatory_straddle":
			cfg.MandatoryStraddle = n != 0
			cmderr = cmderr || nerr != nil
		case "password":
			if len(value) > 16 {
				value = value[:16]
			}
			cfg.Password = value
		case "restart":
			// only admins may create self-respawning games
			if !sess.is(stateAuthed) {
				cmderr = true
				break
			}
			cfg.Restart = n != 0
			cmderr = cmderr || nerr != nil
		case "expire_in":
			cfg.ExpireIn = time.Duration(n) * time.Second
			cmderr = cmderr || nerr != nil || n < 0
		case "enable_insurance":
			cfg.Insurance = n != 0
			cmderr = cmderr || nerr != nil
		}
	}

	if cmderr {
		s.cmdErr(sess, "")
		return
	}

	g, err := s.CreateGame(gid, cfg)
	if err != nil {
		s.cmdErr(sess, err.Error())
		return
	}
	g.SetOwner(sess.cid)

	s.logger.Info("game created", "game", g.ID(), "owner", sess.cid, "name", g.Name())

	sess.enqueue(s.gameInfoLine(g, sess.cid))
	sess.enqueue(playerListLine(g))
}
