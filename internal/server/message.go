package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/feltd/feltd/internal/game"
	"github.com/feltd/feltd/internal/protocol"
)

// reply sends an OK or ERR line, echoing the msgid of the command
// being answered when the client supplied one.
func (s *Server) reply(sess *Session, success bool, code int, text string) {
	verdict := "OK"
	if !success {
		verdict = "ERR"
	}
	if sess.lastMsgID == -1 {
		sess.enqueue(fmt.Sprintf("%s %d %s", verdict, code, text))
		return
	}
	sess.enqueue(fmt.Sprintf("%d %s %d %s", sess.lastMsgID, verdict, code, text))
}

func (s *Server) sendOK(sess *Session) {
	s.reply(sess, true, protocol.CodeOK, "")
}

func (s *Server) sendOKMsg(sess *Session, text string) {
	s.reply(sess, true, protocol.CodeOK, text)
}

func (s *Server) sendErr(sess *Session, code int, text string) {
	s.reply(sess, false, code, text)
}

// cmdErr is the catch-all failure reply used by command handlers.
// Carries no specific code, only the reason text.
func (s *Server) cmdErr(sess *Session, text string) {
	s.reply(sess, false, 0, text)
}

// foyerChat delivers a server notice to one client.
func (s *Server) foyerChat(sess *Session, text string) {
	sess.enqueue(fmt.Sprintf("MSG -1 foyer %s", text))
}

// clientChat relays a client-to-client message. A destination of -1
// broadcasts to every introduced client. Reports whether the
// destination existed.
func (s *Server) clientChat(fromCID, toCID int, text string) bool {
	name := "???"
	if from, ok := s.byCID[fromCID]; ok {
		name = from.name
	}
	line := fmt.Sprintf("MSG %d %s %s", fromCID, protocol.Quote(name), text)

	if toCID == -1 {
		for sess := range s.all {
			if !sess.is(stateIntroduced) {
				continue
			}
			sess.enqueue(line)
		}
		return true
	}
	to, ok := s.byCID[toCID]
	if !ok {
		return false
	}
	to.enqueue(line)
	return true
}

// playerChat relays a client's message to everybody listening to a
// game. Reports whether the game existed.
func (s *Server) playerChat(fromCID, gid, tid int, text string) bool {
	g, ok := s.games[gid]
	if !ok {
		return false
	}
	name := "???"
	if from, ok := s.byCID[fromCID]; ok {
		name = from.name
	}
	line := fmt.Sprintf("MSG %d:%d:%d %s %s", gid, tid, fromCID, protocol.Quote(name), text)
	for _, cid := range g.Listeners() {
		if to, ok := s.byCID[cid]; ok {
			to.enqueue(line)
		}
	}
	return true
}

// foyerBroadcast announces a foyer event to every introduced client.
func (s *Server) foyerBroadcast(payload string) {
	line := fmt.Sprintf("SNAP -1:-1 %d %s", protocol.SnapFoyer, payload)
	for sess := range s.all {
		if !sess.is(stateIntroduced) {
			continue
		}
		sess.enqueue(line)
	}
}

// Snap delivers a game snapshot to one client. Part of the game.Sink
// the server hands to every game it owns.
func (s *Server) Snap(cid, gid, tid int, code protocol.SnapCode, payload string) {
	sess, ok := s.byCID[cid]
	if !ok || !sess.is(stateIntroduced) {
		return
	}
	sess.enqueue(fmt.Sprintf("SNAP %d:%d %d %s", gid, tid, code, payload))
}

// Chat delivers a game or table notice to one client. A table id of
// -1 marks the message as coming from the game itself.
func (s *Server) Chat(cid, gid, tid int, text string) {
	sess, ok := s.byCID[cid]
	if !ok {
		return
	}
	source := "table"
	if tid == -1 {
		source = "game"
	}
	sess.enqueue(fmt.Sprintf("MSG %d:%d %s %s", gid, tid, source, text))
}

func (s *Server) gameInfoLine(g *game.Game, cid int) string {
	cfg := g.Config()

	flags := 0
	if g.IsPlayer(cid) {
		flags |= protocol.GameFlagRegistered
	}
	if g.IsSpectator(cid) {
		flags |= protocol.GameFlagSubscribed
	}
	if cfg.Password != "" {
		flags |= protocol.GameFlagPassword
	}
	if g.Owner() == cid {
		flags |= protocol.GameFlagOwner
	}
	if cfg.Restart {
		flags |= protocol.GameFlagRestart
	}

	return fmt.Sprintf("GAMEINFO %d %d:%d:%d:%d:%d:%d:%d:%d %d:%d:%d:%d:%d:%d %s",
		g.ID(),
		protocol.GameTypeHoldem,
		cfg.Mode,
		g.InfoState(),
		flags,
		cfg.MaxPlayers,
		g.PlayerCount(),
		int(cfg.Timeout/time.Second),
		cfg.Stake,
		cfg.BlindsStart,
		cfg.BlindsFactor,
		int(cfg.BlindsTime/time.Second),
		cfg.Ante,
		boolBit(cfg.MandatoryStraddle),
		boolBit(cfg.Insurance),
		protocol.Quote(g.Name()))
}

func (s *Server) sendGameInfo(sess *Session, gid int) bool {
	g, ok := s.games[gid]
	if !ok {
		return false
	}
	sess.enqueue(s.gameInfoLine(g, sess.cid))
	return true
}

func playerListLine(g *game.Game) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PLAYERLIST %d ", g.ID())
	for _, e := range g.PlayerList() {
		fmt.Fprintf(&b, "%d:%d:%d:%d ", e.ClientID, e.Table, e.Seat, e.Stake)
	}
	return b.String()
}

func (s *Server) sendPlayerList(sess *Session, gid int) bool {
	g, ok := s.games[gid]
	if !ok {
		return false
	}
	sess.enqueue(playerListLine(g))
	return true
}

// sendPlayerListAll pushes the player list to every registered player
// still connected.
func (s *Server) sendPlayerListAll(gid int) {
	g, ok := s.games[gid]
	if !ok {
		return
	}
	line := playerListLine(g)
	for _, cid := range g.Players() {
		if sess, ok := s.byCID[cid]; ok {
			sess.enqueue(line)
		}
	}
}

func (s *Server) gameListLine() string {
	var b strings.Builder
	b.WriteString("GAMELIST ")
	for _, g := range s.gameList() {
		fmt.Fprintf(&b, "%d ", g.ID())
	}
	return b.String()
}

func (s *Server) clientInfoLine(cid int) (string, bool) {
	sess, ok := s.byCID[cid]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("CLIENTINFO %d \"name:%s\" \"location:%s\"",
		cid, sess.name, sess.location), true
}

func (s *Server) serverInfoLine() string {
	return fmt.Sprintf("SERVERINFO %d:%d %d:%d %d:%d %d:%d %d:%d %d:%d %d:%d %d:%d",
		protocol.StatsServerStarted, s.stats.serverStarted.Unix(),
		protocol.StatsClientsConnected, s.stats.clientsConnected,
		protocol.StatsClientsIntroduced, s.stats.clientsIntroduced,
		protocol.StatsClientsIncompatible, s.stats.clientsIncompatible,
		protocol.StatsGamesCreated, s.stats.gamesCreated,
		protocol.StatsClientCount, len(s.all),
		protocol.StatsGamesCount, len(s.games),
		protocol.StatsConarchiveCount, s.archive.len())
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}
