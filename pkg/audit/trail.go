// Package audit records who did what to a tenant's books. Records are
// hash-chained so after-the-fact edits to the trail are detectable.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Event is one auditable action.
type Event struct {
	TenantID      string `json:"tenant_id"`
	Actor         string `json:"actor"`
	Action        string `json:"action"`
	Resource      string `json:"resource,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Record is an event fixed into the chain.
type Record struct {
	Seq       uint64 `json:"seq"`
	Timestamp string `json:"timestamp"`
	Event     Event  `json:"event"`
	PrevHash  string `json:"prev_hash"`
	Hash      string `json:"hash"`
}

// Trail is an append-only hash chain of audit records. Each record's hash
// covers the previous record's hash, so truncation or edits break the
// chain from that point on.
type Trail struct {
	mu       sync.Mutex
	seq      uint64
	prevHash string
	now      func() time.Time
}

// NewTrail returns an empty trail anchored at the zero hash.
func NewTrail() *Trail {
	return &Trail{
		prevHash: strings.Repeat("0", 64),
		now:      time.Now,
	}
}

// Append fixes an event into the chain and returns its record.
func (t *Trail) Append(e Event) *Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	rec := &Record{
		Seq:       t.seq,
		Timestamp: t.now().UTC().Format(time.RFC3339Nano),
		Event:     e,
		PrevHash:  t.prevHash,
	}
	rec.Hash = recordHash(rec)
	t.prevHash = rec.Hash
	return rec
}

func recordHash(r *Record) string {
	input := fmt.Sprintf("%d|%s|%s|%s|%s|%s|%s|%s",
		r.Seq, r.Timestamp, r.PrevHash,
		r.Event.TenantID, r.Event.Actor, r.Event.Action,
		r.Event.Resource, r.Event.CorrelationID,
	)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether records form an intact chain: every hash matches
// its record and every record links to its predecessor.
func Verify(records []*Record) bool {
	for i, rec := range records {
		if i > 0 && rec.PrevHash != records[i-1].Hash {
			return false
		}
		if recordHash(rec) != rec.Hash {
			return false
		}
	}
	return true
}
