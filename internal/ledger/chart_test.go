package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	chart := NewChart()
	tx := newFakeTx()

	require.NoError(t, chart.Seed(context.Background(), tx, "tenant-a"))
	first := len(tx.accounts)
	assert.Equal(t, len(DefaultAccounts()), first)

	require.NoError(t, chart.Seed(context.Background(), tx, "tenant-a"))
	assert.Equal(t, first, len(tx.accounts), "re-seeding adds nothing")
}

func TestSeedIsolatesTenants(t *testing.T) {
	chart := NewChart()
	tx := newFakeTx()

	require.NoError(t, chart.Seed(context.Background(), tx, "tenant-a"))
	require.NoError(t, chart.Seed(context.Background(), tx, "tenant-b"))

	a, err := tx.AccountByCode(context.Background(), "tenant-a", "1001")
	require.NoError(t, err)
	b, err := tx.AccountByCode(context.Background(), "tenant-b", "1001")
	require.NoError(t, err)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotEqual(t, a.ID, b.ID, "same code, separate rows per tenant")
}

func TestResolveCreatesOnFirstUse(t *testing.T) {
	chart := NewChart()
	tx := newFakeTx()
	spec := AccountSpec{Code: "1101", Name: "Treasury", Type: TypeAsset}

	a, err := chart.Resolve(context.Background(), tx, "tenant-a", spec)
	require.NoError(t, err)
	assert.Equal(t, "1101", a.Code)
	assert.Equal(t, TypeAsset, a.Type)

	again, err := chart.Resolve(context.Background(), tx, "tenant-a", spec)
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID, "second resolve returns the existing row")
}

func TestResolveRejectsBadType(t *testing.T) {
	chart := NewChart()
	tx := newFakeTx()

	_, err := chart.Resolve(context.Background(), tx, "tenant-a", AccountSpec{Code: "1101", Type: "fund"})
	assert.Error(t, err)
}

func TestLookupMany(t *testing.T) {
	chart := NewChart()
	tx := seededTx(t, chart, "tenant-a")

	byCode, err := chart.LookupMany(context.Background(), tx, "tenant-a", []string{"1001", "4001", "1001"})
	require.NoError(t, err)
	assert.Len(t, byCode, 2, "duplicates collapse")

	_, err = chart.LookupMany(context.Background(), tx, "tenant-a", []string{"1001", "8888"})
	var unknown *UnknownAccountError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "8888", unknown.Code)
}
