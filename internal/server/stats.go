package server

import "time"

// stats are the lifetime counters reported by REQUEST serverinfo.
type stats struct {
	serverStarted time.Time

	clientsConnected    int
	clientsIntroduced   int
	clientsIncompatible int
	gamesCreated        int
}
