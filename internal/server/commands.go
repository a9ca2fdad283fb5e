package server

import (
	"fmt"
	"strconv"
	"time"

	"github.com/feltd/feltd/internal/protocol"
)

// execute runs one command line on behalf of a session. Replies go
// through the session's send queue; a protocol violation or QUIT
// drops the session.
func (s *Server) execute(sess *Session, line string) {
	t := protocol.Tokenize(line)
	if t.Count() == 0 {
		return
	}

	// an optional numeric message id precedes the command and is
	// echoed back in the reply
	sess.lastMsgID = -1
	if first, _ := t.Peek(); first != "" && first[0] >= '0' && first[0] <= '9' {
		tok, _ := t.Next()
		if n, err := strconv.Atoi(tok); err == nil {
			sess.lastMsgID = n
		}
	}

	cmd, _ := t.Next()

	if !sess.is(stateIntroduced) {
		if cmd == "PCLIENT" {
			s.cmdPClient(sess, t)
			return
		}
		s.sendErr(sess, protocol.ErrProtocol, "protocol error")
		s.dropSession(sess)
		return
	}

	switch cmd {
	case "INFO":
		s.cmdInfo(sess, t)
	case "CHAT":
		s.cmdChat(sess, t)
	case "REQUEST":
		s.cmdRequest(sess, t)
	case "REBUY":
		s.cmdRebuy(sess, t)
	case "RESPITE":
		s.cmdRespite(sess, t)
	case "REGISTER":
		s.cmdRegister(sess, t)
	case "UNREGISTER":
		s.cmdUnregister(sess, t)
	case "SUBSCRIBE":
		s.cmdSubscribe(sess, t)
	case "UNSUBSCRIBE":
		s.cmdUnsubscribe(sess, t)
	case "ACTION":
		s.cmdAction(sess, t)
	case "CREATE":
		s.cmdCreate(sess, t)
	case "AUTH":
		s.cmdAuth(sess, t)
	case "CONFIG":
		s.cmdConfig(sess, t)
	case "STRADDLE":
		s.cmdStraddle(sess, t)
	case "BUYINSURANCE":
		s.cmdBuyInsurance(sess, t)
	case "QUIT":
		s.sendOK(sess)
		s.dropSession(sess)
	default:
		s.sendErr(sess, protocol.ErrNotImplemented, "not implemented")
	}
}

// cmdPClient is the handshake: PCLIENT <version> <uuid> <cid>. The
// client proposes its own client id. A known uuid gets its archived
// id back instead, and a proposal that is taken or missing is
// replaced by a server-allocated one.
func (s *Server) cmdPClient(sess *Session, t *protocol.Tokenizer) {
	version, _ := t.NextInt()
	uuid, _ := t.Next()
	proposed, hasCID := t.NextInt()

	if version < protocol.VersionCompat {
		s.logger.Info("client version too old", "version", version, "addr", sess.tr.RemoteAddr())
		s.sendErr(sess, protocol.ErrWrongVersion,
			"The client version is too old. Please update your client to a more recent version.")
		s.stats.clientsIncompatible++
		s.dropSession(sess)
		return
	}

	s.sendOK(sess)

	sess.version = version
	sess.uuid = uuid
	sess.state |= stateIntroduced
	s.stats.clientsIntroduced++

	cid := -1
	uuidInUse := false
	if uuid != "" {
		if entry, ok := s.archive.lookup(uuid); ok {
			if _, connected := s.byCID[entry.cid]; !connected {
				cid = entry.cid
				s.logger.Debug("reusing archived cid", "cid", cid, "uuid", uuid)
			} else {
				// someone is already connected under this uuid;
				// the newcomer may not claim it
				s.logger.Debug("uuid already connected", "uuid", uuid, "cid", entry.cid)
				sess.uuid = ""
				uuidInUse = true
			}
		} else {
			s.logger.Debug("reserving uuid", "uuid", uuid)
		}
	}
	if cid == -1 {
		cid = proposed
		if !hasCID || cid < 0 {
			cid = s.allocateCID()
		} else if _, taken := s.byCID[cid]; taken {
			s.logger.Warn("proposed cid already connected, allocating", "cid", cid)
			cid = s.allocateCID()
		}
	}

	sess.cid = cid
	s.byCID[cid] = sess
	sess.name = fmt.Sprintf("client_%d", cid)
	sess.location = ""

	sess.enqueue(fmt.Sprintf("PSERVER %d %d %d",
		protocol.ProtocolVersion, cid, s.clock.Now().Unix()))

	if uuidInUse {
		s.foyerChat(sess, "Warning: UUID is already in use.")
	}
}

// allocateCID hands out the next client id that is neither connected
// nor parked in the connection archive.
func (s *Server) allocateCID() int {
	for {
		cid := s.nextCID
		s.nextCID++
		if _, taken := s.byCID[cid]; taken {
			continue
		}
		if s.archive.reserved(cid) {
			continue
		}
		return cid
	}
}

// cmdInfo records client details as key:value pairs. The name can
// only be set before the first INFO completes; the location may
// change at any time.
func (s *Server) cmdInfo(sess *Session, t *protocol.Tokenizer) {
	for {
		tok, ok := t.Next()
		if !ok {
			break
		}
		key, value, ok := protocol.Pair(tok)
		if !ok || value == "" {
			continue
		}
		switch key {
		case "name":
			if !sess.is(stateSentInfo) {
				sess.name = value
			}
		case "location":
			sess.location = value
		}
	}

	s.sendOK(sess)

	if !sess.is(stateSentInfo) {
		if sess.uuid != "" {
			s.archive.store(sess.uuid, sess.cid)
		}
		if welcome := s.cfg.Server.WelcomeMessage; welcome != "" {
			s.foyerChat(sess, welcome)
		}
		s.foyerBroadcast(fmt.Sprintf("%d %d %s",
			protocol.FoyerJoin, sess.cid, protocol.Quote(sess.name)))
	}
	sess.state |= stateSentInfo
}

// cmdChat relays CHAT <cid|gid:tid> <text>. Flooding first earns a
// reset interval, then a mute.
func (s *Server) cmdChat(sess *Session, t *protocol.Tokenizer) {
	if t.Left() < 2 {
		s.cmdErr(sess, "")
		return
	}

	now := s.clock.Now()
	sinceLast := now.Sub(sess.lastChat)
	if sinceLast < 0 {
		s.cmdErr(sess, "you are still muted")
		return
	}
	if sinceLast > time.Duration(s.cfg.Server.FloodChatInterval)*time.Second {
		sess.lastChat = now
		sess.chatCount = 0
	}
	sess.chatCount++
	if sess.chatCount >= s.cfg.Server.FloodChatPerInterval {
		s.logger.Info("client muted for flooding", "cid", sess.cid)
		sess.lastChat = now.Add(time.Duration(s.cfg.Server.FloodChatMute) * time.Second)
		sess.chatCount = 0
		s.cmdErr(sess, "you have been muted for some time")
		return
	}

	dest, _ := t.Next()
	text := t.Rest()

	delivered := false
	if gidstr, tidstr, isPair := protocol.Pair(dest); isPair {
		gid, gerr := strconv.Atoi(gidstr)
		tid, terr := strconv.Atoi(tidstr)
		if gerr == nil && terr == nil {
			delivered = s.playerChat(sess.cid, gid, tid, text)
		}
	} else if cid, err := strconv.Atoi(dest); err == nil {
		delivered = s.clientChat(sess.cid, cid, text)
	}

	if delivered {
		s.sendOK(sess)
	} else {
		s.cmdErr(sess, "")
	}
}

// cmdAuth grants admin rights: AUTH -1 <password>. Only possible
// when the server has an auth password configured.
func (s *Server) cmdAuth(sess *Session, t *protocol.Tokenizer) {
	authed := false
	if t.Left() >= 2 && s.cfg.Server.AuthPassword != "" {
		kind, _ := t.NextInt()
		passwd, _ := t.Next()
		if kind == -1 && passwd == s.cfg.Server.AuthPassword {
			sess.state |= stateAuthed
			authed = true
		}
	}
	if !authed {
		s.cmdErr(sess, "auth failed")
		return
	}

	s.logger.Info("client authed", "name", sess.name, "cid", sess.cid)
	s.sendOK(sess)
}

// cmdConfig lets an authed client read and tweak server settings at
// runtime: CONFIG get|set|save <name> [value].
func (s *Server) cmdConfig(sess *Session, t *protocol.Tokenizer) {
	if !sess.is(stateAuthed) {
		s.cmdErr(sess, "config request failed")
		return
	}

	action, _ := t.Next()
	name, _ := t.Next()

	switch action {
	case "get":
		if value, ok := s.cfg.Server.Get(name); ok {
			s.foyerChat(sess, fmt.Sprintf("Config: %s=%s", name, value))
		} else {
			s.foyerChat(sess, fmt.Sprintf("Config: %s not set", name))
		}
	case "set":
		value, _ := t.Next()
		if err := s.cfg.Server.Set(name, value); err != nil {
			s.cmdErr(sess, "config request failed")
			return
		}
		s.logger.Info("config set", "name", name, "value", value, "cid", sess.cid)
	case "save":
		if err := s.cfg.Save(); err != nil {
			s.logger.Error("config save failed", "err", err)
			s.cmdErr(sess, "config request failed")
			return
		}
		s.foyerChat(sess, "Config saved")
	default:
		s.cmdErr(sess, "config request failed")
		return
	}

	s.sendOK(sess)
}
