package history

// Entry holds the visit statistics for one tracked path. Times are epoch
// seconds, matching the persisted wire format.
type Entry struct {
	// Added is when the path was first recorded. Only a merge with an
	// older source may move it (backwards).
	Added int64 `json:"added"`
	// LastSeen is the most recent visit. Never decreases within a
	// process; a merge may overwrite it with a newer value.
	LastSeen int64 `json:"last_seen"`
	// Inserts counts recorded visits. On merge the larger of the two
	// counts wins rather than their sum, so overlapping histories do not
	// double-count.
	Inserts int `json:"inserts"`
}

// newEntry returns a fresh entry for a path first seen at now. Inserts
// starts at zero; the recording that created the entry increments it.
func newEntry(now int64) *Entry {
	return &Entry{Added: now, LastSeen: now, Inserts: 0}
}

// clone returns an independent copy of e.
func (e *Entry) clone() *Entry {
	c := *e
	return &c
}
