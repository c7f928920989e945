package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfalcone/stockx/internal/domain/entity"
	"github.com/mfalcone/stockx/internal/domain/repository"
)

func seedUser(t *testing.T, users *UserStore, cash string) string {
	d, err := decimal.NewFromString(cash)
	require.NoError(t, err)
	u := &entity.User{Username: "u-" + cash, PasswordHash: "x", Cash: d}
	require.NoError(t, users.Create(context.Background(), u))
	return u.ID
}

func TestWithUserRollsBackOnError(t *testing.T) {
	users := NewUserStore()
	store := NewLedgerStore(users)
	uid := seedUser(t, users, "1000")
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.WithUser(ctx, uid, func(tx repository.LedgerTx) error {
		e := &entity.LedgerEntry{UserID: uid, Type: entity.EntryTransferOut, Total: decimal.NewFromInt(100), Transacted: time.Now()}
		if err := tx.Append(ctx, e); err != nil {
			return err
		}
		if _, err := tx.AdjustCash(ctx, decimal.NewFromInt(-100)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	entries, _ := store.EntriesFor(ctx, uid, "")
	assert.Empty(t, entries)
	cash, _ := store.CashOf(ctx, uid)
	assert.True(t, cash.Equal(decimal.NewFromInt(1000)))
}

func TestWithUserStagedWritesAreVisibleInTx(t *testing.T) {
	users := NewUserStore()
	store := NewLedgerStore(users)
	uid := seedUser(t, users, "1000")
	ctx := context.Background()

	err := store.WithUser(ctx, uid, func(tx repository.LedgerTx) error {
		e := &entity.LedgerEntry{UserID: uid, Type: entity.EntryBuy, Symbol: "NFLX", Shares: 5,
			Price: decimal.NewFromInt(10), Total: decimal.NewFromInt(50), Transacted: time.Now()}
		if err := tx.Append(ctx, e); err != nil {
			return err
		}
		n, err := tx.SharesOf(ctx, "NFLX")
		if err != nil {
			return err
		}
		assert.EqualValues(t, 5, n)

		if _, err := tx.AdjustCash(ctx, decimal.NewFromInt(-50)); err != nil {
			return err
		}
		cash, err := tx.Cash(ctx)
		if err != nil {
			return err
		}
		assert.True(t, cash.Equal(decimal.NewFromInt(950)))
		return nil
	})
	require.NoError(t, err)

	cash, _ := store.CashOf(ctx, uid)
	assert.True(t, cash.Equal(decimal.NewFromInt(950)))
}

func TestWithUserUnknownUser(t *testing.T) {
	store := NewLedgerStore(NewUserStore())

	err := store.WithUser(context.Background(), "ghost", func(tx repository.LedgerTx) error {
		return nil
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCommitMakesEntryAndCashVisibleTogether(t *testing.T) {
	users := NewUserStore()
	store := NewLedgerStore(users)
	uid := seedUser(t, users, "1000")
	ctx := context.Background()

	const n = 200
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < n; i++ {
			_ = store.WithUser(ctx, uid, func(tx repository.LedgerTx) error {
				e := &entity.LedgerEntry{UserID: uid, Type: entity.EntryTransferOut,
					Total: decimal.NewFromInt(1), Transacted: time.Now()}
				if err := tx.Append(ctx, e); err != nil {
					return err
				}
				_, err := tx.AdjustCash(ctx, decimal.NewFromInt(-1))
				return err
			})
		}
	}()

	// Every debit already visible in the entry log must also be reflected
	// in the balance: cash never exceeds 1000 minus the entries seen.
	for {
		select {
		case <-done:
			return
		default:
		}
		entries, err := store.EntriesFor(ctx, uid, "")
		require.NoError(t, err)
		cash, err := store.CashOf(ctx, uid)
		require.NoError(t, err)
		ceiling := decimal.NewFromInt(int64(1000 - len(entries)))
		require.True(t, cash.LessThanOrEqual(ceiling),
			"entry committed without its cash effect: %d entries, cash %s", len(entries), cash)
	}
}

func TestWithUserSerializesConcurrentMutations(t *testing.T) {
	users := NewUserStore()
	store := NewLedgerStore(users)
	uid := seedUser(t, users, "1000")
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = store.WithUser(ctx, uid, func(tx repository.LedgerTx) error {
				e := &entity.LedgerEntry{UserID: uid, Type: entity.EntryTransferOut,
					Total: decimal.NewFromInt(1), Transacted: time.Now()}
				if err := tx.Append(ctx, e); err != nil {
					return err
				}
				_, err := tx.AdjustCash(ctx, decimal.NewFromInt(-1))
				return err
			})
		}()
	}
	wg.Wait()

	entries, _ := store.EntriesFor(ctx, uid, "")
	assert.Len(t, entries, n)
	cash, _ := store.CashOf(ctx, uid)
	assert.True(t, cash.Equal(decimal.NewFromInt(1000-n)), "cash %s", cash)

	// ids are unique
	seen := make(map[int64]bool)
	for _, e := range entries {
		assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
		seen[e.ID] = true
	}
}
