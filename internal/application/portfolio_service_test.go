package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfalcone/stockx/internal/domain/entity"
	"github.com/mfalcone/stockx/internal/infrastructure/memory"
	"github.com/mfalcone/stockx/internal/infrastructure/quotes"
)

func newPortfolioFixture(t *testing.T) (*PortfolioService, *TradingService, string) {
	users := memory.NewUserStore()
	ledger := memory.NewLedgerStore(users)
	provider := quotes.NewStaticProvider(
		entity.Quote{Symbol: "NFLX", Name: "Netflix, Inc.", Price: dec(t, "50.00")},
		entity.Quote{Symbol: "AAPL", Name: "Apple Inc.", Price: dec(t, "100.00")},
	)
	trading := NewTradingService(users, ledger, provider, nil, nil, "", nil)
	portfolio := NewPortfolioService(ledger, provider, dec(t, "10000"), nil)

	u := &entity.User{Username: "carol", PasswordHash: "x", Cash: dec(t, "10000")}
	require.NoError(t, users.Create(context.Background(), u))
	return portfolio, trading, u.ID
}

func TestPositionsAggregatePerSymbol(t *testing.T) {
	portfolio, trading, uid := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := trading.Buy(ctx, uid, "NFLX", 10)
	require.NoError(t, err)
	_, err = trading.Buy(ctx, uid, "AAPL", 5)
	require.NoError(t, err)
	_, err = trading.Buy(ctx, uid, "NFLX", 2)
	require.NoError(t, err)
	_, err = trading.Sell(ctx, uid, "NFLX", 3)
	require.NoError(t, err)

	positions, err := portfolio.Positions(ctx, uid)
	require.NoError(t, err)
	require.Len(t, positions, 2)

	// symbol ascending
	assert.Equal(t, "AAPL", positions[0].Symbol)
	assert.EqualValues(t, 5, positions[0].Shares)
	assert.True(t, positions[0].Value.Equal(dec(t, "500")))

	assert.Equal(t, "NFLX", positions[1].Symbol)
	assert.EqualValues(t, 9, positions[1].Shares)
	assert.True(t, positions[1].Value.Equal(dec(t, "450")))
}

func TestClosedPositionsAreHidden(t *testing.T) {
	portfolio, trading, uid := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := trading.Buy(ctx, uid, "NFLX", 4)
	require.NoError(t, err)
	_, err = trading.Sell(ctx, uid, "NFLX", 4)
	require.NoError(t, err)

	positions, err := portfolio.Positions(ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestOverviewNetWorth(t *testing.T) {
	portfolio, trading, uid := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := trading.Buy(ctx, uid, "AAPL", 10) // cash 9000, position 1000
	require.NoError(t, err)

	ov, err := portfolio.Overview(ctx, uid)
	require.NoError(t, err)
	assert.True(t, ov.Cash.Equal(dec(t, "9000")))
	assert.True(t, ov.NetWorth.Equal(dec(t, "10000")), "net worth %s", ov.NetWorth)
}

func TestOverviewIsReadOnly(t *testing.T) {
	portfolio, trading, uid := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := trading.Buy(ctx, uid, "NFLX", 1)
	require.NoError(t, err)

	first, err := portfolio.Overview(ctx, uid)
	require.NoError(t, err)
	second, err := portfolio.Overview(ctx, uid)
	require.NoError(t, err)
	assert.True(t, first.NetWorth.Equal(second.NetWorth))

	entries, err := trading.History(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReconcileAcceptsConsistentLedger(t *testing.T) {
	portfolio, trading, uid := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := trading.Buy(ctx, uid, "NFLX", 10)
	require.NoError(t, err)
	_, err = trading.Sell(ctx, uid, "NFLX", 5)
	require.NoError(t, err)
	_, err = trading.Transfer(ctx, uid, entity.TransferIn, dec(t, "123.45"))
	require.NoError(t, err)

	assert.NoError(t, portfolio.Reconcile(ctx, uid))
}

func TestReconcileDetectsCashDrift(t *testing.T) {
	portfolio, trading, uid := newPortfolioFixture(t)
	ctx := context.Background()

	_, err := trading.Buy(ctx, uid, "NFLX", 1)
	require.NoError(t, err)

	// A service configured with the wrong baseline sees the cached cash
	// disagree with the replayed ledger.
	drifted := NewPortfolioService(portfolio.Ledger, portfolio.Quotes, dec(t, "5000"), nil)
	err = drifted.Reconcile(ctx, uid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cash drift")
}
