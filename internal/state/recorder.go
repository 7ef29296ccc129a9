package state

import (
	"fmt"

	"github.com/CodexForgeBR/target-drill/internal/logging"
	"github.com/CodexForgeBR/target-drill/internal/result"
	"github.com/CodexForgeBR/target-drill/internal/session"
)

// Recorder is a session.Observer that rewrites the snapshot file on every
// transition. Write failures are logged once and never affect the session.
type Recorder struct {
	Path string

	last   session.Snapshot
	warned bool
}

// OnSnapshot implements session.Observer.
func (r *Recorder) OnSnapshot(s session.Snapshot) {
	r.last = s
	r.save(&SnapshotFile{SchemaVersion: SchemaVersion, Snapshot: s})
}

// OnComplete implements session.Observer.
func (r *Recorder) OnComplete(res result.SessionResult) {
	r.save(&SnapshotFile{SchemaVersion: SchemaVersion, Snapshot: r.last, Result: &res})
}

func (r *Recorder) save(f *SnapshotFile) {
	if err := SaveSnapshot(f, r.Path); err != nil {
		if !r.warned {
			logging.Warn(fmt.Sprintf("Snapshot file not updated: %v", err))
			r.warned = true
		}
		return
	}
	r.warned = false
}
