package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levynexus/nexus/internal/common"
	"github.com/levynexus/nexus/internal/model"
	"github.com/levynexus/nexus/internal/service"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "nexus.db"))
	require.NoError(t, err)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleTransaction(merchant string, amount float64) *model.Transaction {
	return &model.Transaction{
		Owner:    "alice",
		Merchant: merchant,
		Date:     "2024-01-15",
		Amount:   amount,
		Subtotal: amount * 0.92,
		Tax:      amount * 0.08,
		Category: "Food",
		Items: []model.LineItem{
			{Name: "Organic Bananas", Quantity: 1, Price: 3.99},
		},
		Backend:    model.BackendEasyOCR,
		Confidence: 0.8,
		Recurrence: model.RecurrenceOneTime,
	}
}

func TestSaveAndGetTransaction(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := sampleTransaction("WHOLE FOODS", 9.16)
	require.NoError(t, store.SaveTransaction(ctx, txn))
	require.NotEmpty(t, txn.ID)
	require.False(t, txn.CreatedAt.IsZero())

	got, err := store.GetTransactionByID(ctx, txn.ID)
	require.NoError(t, err)

	assert.Equal(t, "WHOLE FOODS", got.Merchant)
	assert.Equal(t, "alice", got.Owner)
	assert.InDelta(t, 9.16, got.Amount, 0.001)
	assert.Equal(t, model.BackendEasyOCR, got.Backend)
	assert.Equal(t, model.RecurrenceOneTime, got.Recurrence)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Organic Bananas", got.Items[0].Name)
}

func TestGetTransactionNotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetTransactionByID(context.Background(), "txn_missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

// IDs derive from the content hash, so re-ingesting the same receipt is
// rejected as a duplicate rather than stored twice.
func TestSaveDuplicateReceipt(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := sampleTransaction("SHELL", 45.00)
	require.NoError(t, store.SaveTransaction(ctx, txn))
	assert.Equal(t, "txn_"+txn.GenerateHash()[:16], txn.ID)

	dup := sampleTransaction("SHELL", 45.00)
	err := store.SaveTransaction(ctx, dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	// A different receipt from the same merchant is not a duplicate.
	other := sampleTransaction("SHELL", 45.00)
	other.Date = "2024-02-15"
	require.NoError(t, store.SaveTransaction(ctx, other))
}

func TestGetTransactionsFilters(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	a := sampleTransaction("WHOLE FOODS", 9.16)
	require.NoError(t, store.SaveTransaction(ctx, a))

	b := sampleTransaction("SHELL", 45.00)
	b.Owner = "bob"
	b.Category = "Transportation"
	require.NoError(t, store.SaveTransaction(ctx, b))

	all, err := store.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	alices, err := store.GetTransactions(ctx, service.TransactionFilter{Owner: "alice"})
	require.NoError(t, err)
	require.Len(t, alices, 1)
	assert.Equal(t, "WHOLE FOODS", alices[0].Merchant)

	fuel, err := store.GetTransactions(ctx, service.TransactionFilter{Category: "Transportation"})
	require.NoError(t, err)
	require.Len(t, fuel, 1)
	assert.Equal(t, "SHELL", fuel[0].Merchant)

	limited, err := store.GetTransactions(ctx, service.TransactionFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDetectSubscriptions(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	// Three months of the same charge, one receipt per month.
	for i := 0; i < 3; i++ {
		txn := sampleTransaction("Netflix", 15.99)
		txn.CreatedAt = time.Now().UTC().AddDate(0, -i, 0)
		txn.Date = txn.CreatedAt.Format("2006-01-02")
		require.NoError(t, store.SaveTransaction(ctx, txn))
	}

	// A one-off purchase must not appear.
	oneOff := sampleTransaction("WHOLE FOODS", 23.45)
	require.NoError(t, store.SaveTransaction(ctx, oneOff))

	patterns, err := store.DetectSubscriptions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, "Netflix", p.Merchant)
	assert.InDelta(t, 15.99, p.Amount, 0.001)
	assert.Equal(t, 3, p.ChargeCount)
	assert.Equal(t, "quarterly", p.Frequency)
	assert.InDelta(t, 0.5, p.Confidence, 0.001)
}

func TestDetectSubscriptionsScopedToOwner(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		txn := sampleTransaction("Spotify", 10.99)
		txn.Owner = "bob"
		txn.CreatedAt = time.Now().UTC().AddDate(0, -i, 0)
		txn.Date = txn.CreatedAt.Format("2006-01-02")
		require.NoError(t, store.SaveTransaction(ctx, txn))
	}

	patterns, err := store.DetectSubscriptions(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, patterns)
}

func TestCalculateRunway(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	// Two months of 300 each: average monthly burn 300, daily burn 10.
	for i := 0; i < 2; i++ {
		txn := sampleTransaction("WARUNG MAKAN", 300.00)
		txn.CreatedAt = time.Now().UTC().AddDate(0, -i, 0)
		txn.Date = txn.CreatedAt.Format("2006-01-02")
		require.NoError(t, store.SaveTransaction(ctx, txn))
	}

	report, err := store.CalculateRunway(ctx, "alice", 1000)
	require.NoError(t, err)

	assert.InDelta(t, 300, report.MonthlyBurn, 0.001)
	assert.InDelta(t, 10, report.DailyBurn, 0.001)
	assert.Equal(t, 100, report.DaysRemaining)
	assert.InDelta(t, 3.3, report.MonthsRemaining, 0.001)
	assert.Equal(t, "healthy", report.Status)
	assert.False(t, report.ProjectedDepletion.IsZero())
}

func TestCalculateRunwayStatusBands(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	txn := sampleTransaction("WARUNG MAKAN", 300.00)
	require.NoError(t, store.SaveTransaction(ctx, txn))

	critical, err := store.CalculateRunway(ctx, "alice", 200)
	require.NoError(t, err)
	assert.Equal(t, "critical", critical.Status)

	warning, err := store.CalculateRunway(ctx, "alice", 500)
	require.NoError(t, err)
	assert.Equal(t, "warning", warning.Status)
}

func TestCalculateRunwayNoSpending(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.CalculateRunway(context.Background(), "alice", 1000)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestInitIdempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Init(context.Background()))
}
