package server

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type sessionState uint8

const (
	stateConnected sessionState = 1 << iota
	stateIntroduced
	stateSentInfo
	stateAuthed
)

// Session is one client connection. All fields besides the send
// machinery belong to the server loop and are never touched by the
// session's own goroutines.
type Session struct {
	cid      int
	uuid     string
	name     string
	location string

	state   sessionState
	version int

	// msgid of the command being executed, echoed in its reply
	lastMsgID int

	// flood control for CHAT
	lastChat  time.Time
	chatCount int

	tr        transport
	send      chan string
	done      chan struct{}
	closeOnce sync.Once
	dropped   int

	logger *log.Logger
}

func newSession(tr transport, logger *log.Logger) *Session {
	return &Session{
		cid:       -1,
		state:     stateConnected,
		lastMsgID: -1,
		tr:        tr,
		send:      make(chan string, sendBuffer),
		done:      make(chan struct{}),
		logger:    logger,
	}
}

func (s *Session) is(state sessionState) bool {
	return s.state&state != 0
}

// start spawns the read and write pumps. Lines read from the wire go
// to the server's command channel; a read error reports the session
// to the hangup channel exactly once.
func (s *Session) start(commands chan<- command, hangups chan<- *Session) {
	go s.writeLoop()
	go s.readLoop(commands, hangups)
}

func (s *Session) readLoop(commands chan<- command, hangups chan<- *Session) {
	for {
		line, err := s.tr.ReadLine()
		if err != nil {
			select {
			case hangups <- s:
			case <-s.done:
			}
			return
		}
		select {
		case commands <- command{sess: s, line: line}:
		case <-s.done:
			return
		}
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case line := <-s.send:
			if err := s.tr.WriteLine(line); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// enqueue hands a line to the write pump without blocking the server
// loop. A full buffer drops the line; slow clients lose snapshots
// rather than stalling everyone else.
func (s *Session) enqueue(line string) {
	select {
	case s.send <- line:
	default:
		s.dropped++
		if s.dropped == 1 || s.dropped%100 == 0 {
			s.logger.Warn("send buffer full, dropping", "cid", s.cid, "dropped", s.dropped)
		}
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.tr.Close()
	})
}
