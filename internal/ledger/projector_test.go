package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postedLine(entryID string, date time.Time, typ EntryType, amount float64) PostedLine {
	return PostedLine{
		Line:    Line{Type: typ, Amount: amount},
		EntryID: entryID,
		Date:    date,
	}
}

func TestRunningBalanceAssetConvention(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	lines := []PostedLine{
		postedLine("e1", base, Debit, 100),
		postedLine("e2", base.Add(24*time.Hour), Credit, 30),
		postedLine("e3", base.Add(48*time.Hour), Debit, 5),
	}

	steps := RunningBalance(TypeAsset, lines)
	require.Len(t, steps, 3)
	assert.InDelta(t, 100, steps[0].BalanceAfter, 0.001)
	assert.InDelta(t, 70, steps[1].BalanceAfter, 0.001)
	assert.InDelta(t, 75, steps[2].BalanceAfter, 0.001)
}

func TestRunningBalanceCreditConvention(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	lines := []PostedLine{
		postedLine("e1", base, Credit, 200),
		postedLine("e2", base.Add(time.Hour), Debit, 50),
	}

	for _, typ := range []AccountType{TypeLiability, TypeEquity, TypeRevenue} {
		steps := RunningBalance(typ, lines)
		require.Len(t, steps, 2)
		assert.InDelta(t, 200, steps[0].BalanceAfter, 0.001, "%s grows on credit", typ)
		assert.InDelta(t, 150, steps[1].BalanceAfter, 0.001)
	}

	steps := RunningBalance(TypeExpense, lines)
	assert.InDelta(t, -200, steps[0].BalanceAfter, 0.001, "expense shrinks on credit")
}

func TestRunningBalanceOrdersByDateThenEntry(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	lines := []PostedLine{
		postedLine("e9", base.Add(time.Hour), Debit, 1),
		postedLine("e2", base, Debit, 2),
		postedLine("e1", base, Debit, 4),
	}

	steps := RunningBalance(TypeAsset, lines)
	require.Len(t, steps, 3)
	assert.Equal(t, "e1", steps[0].Line.EntryID)
	assert.Equal(t, "e2", steps[1].Line.EntryID)
	assert.Equal(t, "e9", steps[2].Line.EntryID)
	assert.InDelta(t, 7, steps[2].BalanceAfter, 0.001)
}

func TestRunningBalanceDoesNotMutateInput(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	lines := []PostedLine{
		postedLine("e2", base.Add(time.Hour), Debit, 1),
		postedLine("e1", base, Debit, 1),
	}

	_ = RunningBalance(TypeAsset, lines)
	assert.Equal(t, "e2", lines[0].EntryID, "input slice keeps its order")
}

func TestRunningBalanceEmpty(t *testing.T) {
	assert.Empty(t, RunningBalance(TypeAsset, nil))
}
