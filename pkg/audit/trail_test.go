package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailChainsRecords(t *testing.T) {
	trail := NewTrail()

	r1 := trail.Append(Event{TenantID: "tenant-a", Actor: "alice", Action: "sale.record", Resource: "sale-1"})
	r2 := trail.Append(Event{TenantID: "tenant-a", Actor: "alice", Action: "purchase.record", Resource: "po-1"})
	r3 := trail.Append(Event{TenantID: "tenant-a", Actor: "bob", Action: "count.finalize", Resource: "count-1"})

	require.Equal(t, uint64(1), r1.Seq)
	require.Equal(t, uint64(3), r3.Seq)
	assert.Equal(t, r1.Hash, r2.PrevHash)
	assert.Equal(t, r2.Hash, r3.PrevHash)

	assert.True(t, Verify([]*Record{r1, r2, r3}))
}

func TestVerifyDetectsTampering(t *testing.T) {
	trail := NewTrail()
	r1 := trail.Append(Event{TenantID: "tenant-a", Actor: "alice", Action: "sale.record"})
	r2 := trail.Append(Event{TenantID: "tenant-a", Actor: "alice", Action: "expense.record"})
	r3 := trail.Append(Event{TenantID: "tenant-a", Actor: "alice", Action: "count.cancel"})
	chain := []*Record{r1, r2, r3}

	t.Run("edited event", func(t *testing.T) {
		original := r2.Event.Action
		r2.Event.Action = "count.finalize"
		assert.False(t, Verify(chain))
		r2.Event.Action = original
	})

	t.Run("forged hash", func(t *testing.T) {
		original := r2.Hash
		r2.Hash = "deadbeef"
		assert.False(t, Verify(chain))
		r2.Hash = original
	})

	t.Run("broken link", func(t *testing.T) {
		original := r3.PrevHash
		r3.PrevHash = r1.Hash
		assert.False(t, Verify(chain))
		r3.PrevHash = original
	})

	assert.True(t, Verify(chain), "restored chain verifies again")
}

func TestVerifyEmptyChain(t *testing.T) {
	assert.True(t, Verify(nil))
}
