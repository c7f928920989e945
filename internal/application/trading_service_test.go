package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfalcone/stockx/internal/domain/entity"
	"github.com/mfalcone/stockx/internal/infrastructure/memory"
	"github.com/mfalcone/stockx/internal/infrastructure/quotes"
)

func dec(t *testing.T, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

type failingProvider struct{}

func (failingProvider) Lookup(ctx context.Context, symbol string) (*entity.Quote, error) {
	return nil, errors.New("provider down")
}

func newTradingFixture(t *testing.T) (*TradingService, *memory.LedgerStore, *quotes.StaticProvider, string) {
	users := memory.NewUserStore()
	ledger := memory.NewLedgerStore(users)
	provider := quotes.NewStaticProvider(
		entity.Quote{Symbol: "NFLX", Name: "Netflix, Inc.", Price: dec(t, "50.00")},
		entity.Quote{Symbol: "AAPL", Name: "Apple Inc.", Price: dec(t, "2000.00")},
	)
	svc := NewTradingService(users, ledger, provider, nil, nil, "", nil)

	u := &entity.User{Username: "alice", PasswordHash: "x", Cash: dec(t, "10000")}
	require.NoError(t, users.Create(context.Background(), u))
	return svc, ledger, provider, u.ID
}

func TestBuyDebitsCashAndAppendsEntry(t *testing.T) {
	svc, ledger, _, uid := newTradingFixture(t)
	ctx := context.Background()

	e, err := svc.Buy(ctx, uid, "nflx", 10)
	require.NoError(t, err)
	assert.Equal(t, entity.EntryBuy, e.Type)
	assert.Equal(t, "NFLX", e.Symbol)
	assert.EqualValues(t, 10, e.Shares)
	assert.True(t, e.Total.Equal(dec(t, "500")), "total %s", e.Total)

	cash, err := ledger.CashOf(ctx, uid)
	require.NoError(t, err)
	assert.True(t, cash.Equal(dec(t, "9500")), "cash %s", cash)

	entries, err := ledger.EntriesFor(ctx, uid, "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBuyInsufficientFundsLeavesStateUntouched(t *testing.T) {
	svc, ledger, _, uid := newTradingFixture(t)
	ctx := context.Background()

	// 6 * 2000 = 12000 > 10000
	_, err := svc.Buy(ctx, uid, "AAPL", 6)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	cash, _ := ledger.CashOf(ctx, uid)
	assert.True(t, cash.Equal(dec(t, "10000")))
	entries, _ := ledger.EntriesFor(ctx, uid, "")
	assert.Empty(t, entries)
}

func TestBuyRejectsBadQuantity(t *testing.T) {
	svc, _, _, uid := newTradingFixture(t)
	ctx := context.Background()

	_, err := svc.Buy(ctx, uid, "NFLX", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = svc.Buy(ctx, uid, "NFLX", -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSymbolIsCheckedBeforeQuantity(t *testing.T) {
	svc, _, _, uid := newTradingFixture(t)
	ctx := context.Background()

	// A request that is wrong on both counts rejects on the symbol.
	_, err := svc.Buy(ctx, uid, "NOPE", 0)
	assert.ErrorIs(t, err, ErrInvalidSymbol)
	_, err = svc.Sell(ctx, uid, "NOPE", 0)
	assert.ErrorIs(t, err, ErrInvalidSymbol)
	_, err = svc.Buy(ctx, uid, "", -1)
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestBuyUnknownSymbol(t *testing.T) {
	svc, ledger, _, uid := newTradingFixture(t)
	ctx := context.Background()

	_, err := svc.Buy(ctx, uid, "NOPE", 1)
	assert.ErrorIs(t, err, ErrInvalidSymbol)
	entries, _ := ledger.EntriesFor(ctx, uid, "")
	assert.Empty(t, entries)
}

func TestBuyQuoteProviderDownAbortsTrade(t *testing.T) {
	users := memory.NewUserStore()
	ledger := memory.NewLedgerStore(users)
	svc := NewTradingService(users, ledger, failingProvider{}, nil, nil, "", nil)
	u := &entity.User{Username: "bob", PasswordHash: "x", Cash: dec(t, "10000")}
	require.NoError(t, users.Create(context.Background(), u))

	_, err := svc.Buy(context.Background(), u.ID, "NFLX", 1)
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
	entries, _ := ledger.EntriesFor(context.Background(), u.ID, "")
	assert.Empty(t, entries)
}

func TestSellCreditsCashAndRecordsNegativeShares(t *testing.T) {
	svc, ledger, provider, uid := newTradingFixture(t)
	ctx := context.Background()

	_, err := svc.Buy(ctx, uid, "NFLX", 10) // cash 9500
	require.NoError(t, err)

	provider.Set("NFLX", "Netflix, Inc.", dec(t, "60.00"))
	e, err := svc.Sell(ctx, uid, "NFLX", 4)
	require.NoError(t, err)
	assert.Equal(t, entity.EntrySell, e.Type)
	assert.EqualValues(t, -4, e.Shares)
	assert.True(t, e.Total.Equal(dec(t, "240")))

	cash, _ := ledger.CashOf(ctx, uid)
	assert.True(t, cash.Equal(dec(t, "9740")), "cash %s", cash)

	holdings, err := ledger.Positions(ctx, uid)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.EqualValues(t, 6, holdings[0].Shares)
}

func TestSellMoreThanOwned(t *testing.T) {
	svc, ledger, _, uid := newTradingFixture(t)
	ctx := context.Background()

	_, err := svc.Buy(ctx, uid, "NFLX", 10)
	require.NoError(t, err)

	_, err = svc.Sell(ctx, uid, "NFLX", 11)
	assert.ErrorIs(t, err, ErrInsufficientShares)

	cash, _ := ledger.CashOf(ctx, uid)
	assert.True(t, cash.Equal(dec(t, "9500")))
	entries, _ := ledger.EntriesFor(ctx, uid, "")
	assert.Len(t, entries, 1)
}

func TestSellNeverOwnedSymbol(t *testing.T) {
	svc, _, _, uid := newTradingFixture(t)

	_, err := svc.Sell(context.Background(), uid, "AAPL", 1)
	assert.ErrorIs(t, err, ErrInsufficientShares)
}

func TestTransferInAndOut(t *testing.T) {
	svc, ledger, _, uid := newTradingFixture(t)
	ctx := context.Background()

	e, err := svc.Transfer(ctx, uid, entity.TransferIn, dec(t, "250"))
	require.NoError(t, err)
	assert.Equal(t, entity.EntryTransferIn, e.Type)
	cash, _ := ledger.CashOf(ctx, uid)
	assert.True(t, cash.Equal(dec(t, "10250")))

	e, err = svc.Transfer(ctx, uid, entity.TransferOut, dec(t, "10200.50"))
	require.NoError(t, err)
	assert.Equal(t, entity.EntryTransferOut, e.Type)
	cash, _ = ledger.CashOf(ctx, uid)
	assert.True(t, cash.Equal(dec(t, "49.50")), "cash %s", cash)
}

func TestTransferOutMoreThanCash(t *testing.T) {
	svc, ledger, _, uid := newTradingFixture(t)
	ctx := context.Background()

	_, err := svc.Transfer(ctx, uid, entity.TransferOut, dec(t, "10000.01"))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	cash, _ := ledger.CashOf(ctx, uid)
	assert.True(t, cash.Equal(dec(t, "10000")))
}

func TestTransferRejectsBadAmounts(t *testing.T) {
	svc, _, _, uid := newTradingFixture(t)
	ctx := context.Background()

	for _, amount := range []string{"0", "-50", "10.255"} {
		_, err := svc.Transfer(ctx, uid, entity.TransferIn, dec(t, amount))
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %s", amount)
	}
	_, err := svc.Transfer(ctx, uid, entity.TransferDirection("sideways"), dec(t, "10"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestHistoryReturnsAllEntriesInOrder(t *testing.T) {
	svc, _, _, uid := newTradingFixture(t)
	ctx := context.Background()

	_, err := svc.Buy(ctx, uid, "NFLX", 2)
	require.NoError(t, err)
	_, err = svc.Sell(ctx, uid, "NFLX", 1)
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, uid, entity.TransferIn, dec(t, "100"))
	require.NoError(t, err)

	entries, err := svc.History(ctx, uid)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, entity.EntryBuy, entries[0].Type)
	assert.Equal(t, entity.EntrySell, entries[1].Type)
	assert.Equal(t, entity.EntryTransferIn, entries[2].Type)
}

func TestQuoteNormalizesSymbol(t *testing.T) {
	svc, _, _, _ := newTradingFixture(t)

	q, err := svc.Quote(context.Background(), "  nflx ")
	require.NoError(t, err)
	assert.Equal(t, "NFLX", q.Symbol)
	assert.Equal(t, "Netflix, Inc.", q.Name)
}
