package server

import "time"

// archiveEntry remembers the client id handed to a UUID so a
// reconnecting client gets the same identity back. A zero logoutAt
// means the client is still connected and the entry never expires.
type archiveEntry struct {
	cid      int
	logoutAt time.Time
}

// conArchive maps client UUIDs to their last known client id.
type conArchive struct {
	entries map[string]archiveEntry
}

func newConArchive() *conArchive {
	return &conArchive{entries: make(map[string]archiveEntry)}
}

func (a *conArchive) lookup(uuid string) (archiveEntry, bool) {
	e, ok := a.entries[uuid]
	return e, ok
}

// store records a live uuid/cid binding, clearing any logout mark.
func (a *conArchive) store(uuid string, cid int) {
	a.entries[uuid] = archiveEntry{cid: cid}
}

// logout stamps the entry so the sweeper can expire it later.
func (a *conArchive) logout(uuid string, at time.Time) {
	e, ok := a.entries[uuid]
	if !ok {
		return
	}
	e.logoutAt = at
	a.entries[uuid] = e
}

// sweep drops entries whose logout is older than expire and reports
// how many were removed.
func (a *conArchive) sweep(now time.Time, expire time.Duration) int {
	removed := 0
	for uuid, e := range a.entries {
		if e.logoutAt.IsZero() {
			continue
		}
		if now.Sub(e.logoutAt) > expire {
			delete(a.entries, uuid)
			removed++
		}
	}
	return removed
}

// reserved reports whether any archived uuid holds this client id.
func (a *conArchive) reserved(cid int) bool {
	for _, e := range a.entries {
		if e.cid == cid {
			return true
		}
	}
	return false
}

func (a *conArchive) len() int {
	return len(a.entries)
}
