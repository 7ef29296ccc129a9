package state

import (
	"github.com/CodexForgeBR/target-drill/internal/result"
	"github.com/CodexForgeBR/target-drill/internal/session"
)

// SchemaVersion is written into every snapshot file.
const SchemaVersion = 1

// SnapshotFile is the on-disk form of a live session. Result is set once the
// session completes.
type SnapshotFile struct {
	SchemaVersion int                   `json:"schema_version"`
	Snapshot      session.Snapshot      `json:"snapshot"`
	Result        *result.SessionResult `json:"result"`
}
