package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidTransition(t *testing.T) {
	assert.True(t, ValidTransition(CountDraft, CountCompleted))
	assert.True(t, ValidTransition(CountDraft, CountCancelled))

	assert.False(t, ValidTransition(CountCompleted, CountDraft))
	assert.False(t, ValidTransition(CountCompleted, CountCancelled))
	assert.False(t, ValidTransition(CountCancelled, CountDraft))
	assert.False(t, ValidTransition(CountCancelled, CountCompleted))
	assert.False(t, ValidTransition(CountDraft, CountDraft))
}

func TestInvalidStateErrorMessage(t *testing.T) {
	err := &InvalidStateError{CountID: "count-1", Status: CountCompleted, Operation: "finalize"}
	assert.Contains(t, err.Error(), "count-1")
	assert.Contains(t, err.Error(), "COMPLETED")
	assert.Contains(t, err.Error(), "finalize")
}
