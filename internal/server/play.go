package server

import (
	"time"

	"github.com/feltd/feltd/internal/game"
	"github.com/feltd/feltd/internal/protocol"
	"github.com/feltd/feltd/poker"
)

// cmdAction forwards a betting action to a game: ACTION <gid> <verb>
// [amount]. Success is silent; the table snapshot reports what the
// action did.
func (s *Server) cmdAction(sess *Session, t *protocol.Tokenizer) {
	if t.Left() < 2 {
		s.sendErr(sess, protocol.ErrParameters, "")
		return
	}
	gid, ok := t.NextInt()
	if !ok {
		s.sendErr(sess, protocol.ErrParameters, "")
		return
	}
	verb, _ := t.Next()
	amount, _ := t.NextInt()

	g, found := s.games[gid]
	if !found {
		s.cmdErr(sess, "game does not exist")
		return
	}

	action, valid := game.ParseAction(verb)
	if !valid {
		s.sendErr(sess, protocol.ErrParameters, "")
		return
	}

	// a player coming back from sitout wants to know who is seated
	if action == game.ActionBack {
		s.sendPlayerList(sess, gid)
	}

	if err := g.SetPlayerAction(sess.cid, action, amount); err != nil {
		s.cmdErr(sess, err.Error())
	}
}

// cmdRebuy tops up a stack: REBUY <gid> <stake> <cid>. The rebuy may
// be bought for another player; the game decides whether it applies
// now or once the hand finishes.
func (s *Server) cmdRebuy(sess *Session, t *protocol.Tokenizer) {
	gid, ok := t.NextInt()
	stake, ok2 := t.NextInt()
	pid, ok3 := t.NextInt()
	if !ok || !ok2 || !ok3 {
		s.sendErr(sess, protocol.ErrParameters, "")
		return
	}

	g, found := s.games[gid]
	if !found {
		s.cmdErr(sess, "game does not exist")
		return
	}
	if !g.IsPlayer(pid) {
		s.cmdErr(sess, "you are not registered")
		return
	}
	if err := g.Rebuy(pid, stake); err != nil {
		s.cmdErr(sess, err.Error())
		return
	}

	s.logger.Debug("rebuy", "game", gid, "cid", pid, "stake", stake)
}

// cmdRespite buys thinking time: RESPITE <gid> <seconds>.
func (s *Server) cmdRespite(sess *Session, t *protocol.Tokenizer) {
	gid, ok := t.NextInt()
	secs, ok2 := t.NextInt()
	if !ok || !ok2 {
		s.sendErr(sess, protocol.ErrParameters, "")
		return
	}

	g, found := s.games[gid]
	if !found {
		s.cmdErr(sess, "game does not exist")
		return
	}
	if !g.IsPlayer(sess.cid) {
		s.cmdErr(sess, "you are not registered")
		return
	}
	if err := g.AddTimeout(sess.cid, time.Duration(secs)*time.Second); err != nil {
		s.cmdErr(sess, err.Error())
		return
	}

	s.logger.Debug("respite", "game", gid, "cid", sess.cid, "secs", secs)
}

// cmdStraddle arms a voluntary straddle for the next hand:
// STRADDLE <gid>.
func (s *Server) cmdStraddle(sess *Session, t *protocol.Tokenizer) {
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
	if !g.IsPlayer(sess.cid) {
		s.cmdErr(sess, "you are not registered")
		return
	}
	if err := g.NextRoundStraddle(sess.cid); err != nil {
		s.cmdErr(sess, err.Error())
		return
	}

	s.logger.Debug("straddle armed", "game", gid, "cid", sess.cid)
}

// cmdBuyInsurance answers an all-in insurance offer: BUYINSURANCE
// <gid> <amount> [outs…]. No outs means the player declines.
func (s *Server) cmdBuyInsurance(sess *Session, t *protocol.Tokenizer) {
	if t.Left() < 2 {
		s.sendErr(sess, protocol.ErrParameters, "")
		return
	}
	gid, ok := t.NextInt()
	amount, ok2 := t.NextInt()
	if !ok || !ok2 {
		s.sendErr(sess, protocol.ErrParameters, "")
		return
	}

	var cards []poker.Card
	for {
		tok, more := t.Next()
		if !more {
			break
		}
		card, err := poker.ParseCard(tok)
		if err != nil {
			s.sendErr(sess, protocol.ErrParameters, "")
			return
		}
		cards = append(cards, card)
	}

	g, found := s.games[gid]
	if !found {
		s.cmdErr(sess, "game does not exist")
		return
	}
	if !g.IsPlayer(sess.cid) {
		s.cmdErr(sess, "you are not registered")
		return
	}
	if err := g.BuyInsurance(sess.cid, amount, cards); err != nil {
		s.cmdErr(sess, err.Error())
		return
	}

	s.logger.Debug("insurance bought", "game", gid, "cid", sess.cid, "amount", amount)
}
