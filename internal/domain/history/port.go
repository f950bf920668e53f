package history

import "context"

// Store is an append-only, per-session list of records.
type Store interface {
	Append(r Record)
	// List returns a copy, most recent first.
	List() []Record
	Get(id RecordID) (Record, bool)
	Len() int
}

// Archive port for publishing finished reports outside the process.
type Archive interface {
	ArchiveReport(ctx context.Context, sessionID string, r Record) (string, error)
}
