package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mfalcone/stockx/internal/domain/entity"
	"github.com/mfalcone/stockx/internal/domain/repository"
)

// LedgerStore is an in-memory LedgerRepository. Cash lives on the user in
// the companion UserStore, mirroring the cached column in Postgres.
//
// Per-user serialization uses a mutex map keyed by user id; writes are
// staged in the transaction view and applied only when the WithUser
// callback returns nil.
type LedgerStore struct {
	users *UserStore

	mu      sync.Mutex
	entries []entity.LedgerEntry
	nextID  int64

	mapMu  sync.Mutex
	userMu map[string]*sync.Mutex
}

func NewLedgerStore(users *UserStore) *LedgerStore {
	return &LedgerStore{
		users:  users,
		nextID: 1,
		userMu: make(map[string]*sync.Mutex),
	}
}

func (s *LedgerStore) lockFor(userID string) *sync.Mutex {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()
	if _, ok := s.userMu[userID]; !ok {
		s.userMu[userID] = &sync.Mutex{}
	}
	return s.userMu[userID]
}

func (s *LedgerStore) WithUser(ctx context.Context, userID string, fn func(tx repository.LedgerTx) error) error {
	mu := s.lockFor(userID)
	mu.Lock()
	defer mu.Unlock()

	s.users.mu.Lock()
	u, ok := s.users.users[userID]
	s.users.mu.Unlock()
	if !ok {
		return repository.ErrNotFound
	}

	tx := &memTx{store: s, userID: userID, cash: u.Cash}
	if err := fn(tx); err != nil {
		return err
	}

	// Commit: assign ids, append staged entries, apply the cash delta.
	// Both locks are held for the whole commit so the entries and the new
	// balance become visible together, never one without the other.
	s.mu.Lock()
	s.users.mu.Lock()
	for _, e := range tx.staged {
		e.ID = s.nextID
		s.nextID++
		s.entries = append(s.entries, *e)
	}
	u.Cash = u.Cash.Add(tx.delta)
	s.users.mu.Unlock()
	s.mu.Unlock()
	return nil
}

func (s *LedgerStore) EntriesFor(ctx context.Context, userID, symbol string) ([]entity.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.LedgerEntry
	for _, e := range s.entries {
		if e.UserID != userID {
			continue
		}
		if symbol != "" && e.Symbol != symbol {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *LedgerStore) Positions(ctx context.Context, userID string) ([]entity.Holding, error) {
	s.mu.Lock()
	totals := make(map[string]int64)
	for _, e := range s.entries {
		if e.UserID == userID && e.IsTrade() {
			totals[e.Symbol] += e.Shares
		}
	}
	s.mu.Unlock()

	holdings := make([]entity.Holding, 0, len(totals))
	for sym, n := range totals {
		if n > 0 {
			holdings = append(holdings, entity.Holding{Symbol: sym, Shares: n})
		}
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })
	return holdings, nil
}

func (s *LedgerStore) CashOf(ctx context.Context, userID string) (decimal.Decimal, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return u.Cash, nil
}

// memTx stages writes for one serialized user mutation.
type memTx struct {
	store  *LedgerStore
	userID string
	cash   decimal.Decimal
	delta  decimal.Decimal
	staged []*entity.LedgerEntry
}

func (t *memTx) Cash(ctx context.Context) (decimal.Decimal, error) {
	return t.cash.Add(t.delta), nil
}

func (t *memTx) SharesOf(ctx context.Context, symbol string) (int64, error) {
	t.store.mu.Lock()
	var n int64
	for _, e := range t.store.entries {
		if e.UserID == t.userID && e.Symbol == symbol && e.IsTrade() {
			n += e.Shares
		}
	}
	t.store.mu.Unlock()
	for _, e := range t.staged {
		if e.Symbol == symbol && e.IsTrade() {
			n += e.Shares
		}
	}
	return n, nil
}

func (t *memTx) Append(ctx context.Context, e *entity.LedgerEntry) error {
	t.staged = append(t.staged, e)
	return nil
}

func (t *memTx) AdjustCash(ctx context.Context, delta decimal.Decimal) (decimal.Decimal, error) {
	t.delta = t.delta.Add(delta)
	return t.cash.Add(t.delta), nil
}

var (
	_ repository.LedgerRepository = (*LedgerStore)(nil)
	_ repository.LedgerTx         = (*memTx)(nil)
)
