package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mfalcone/stockx/internal/domain/entity"
	"github.com/mfalcone/stockx/internal/domain/repository"
)

// UserStore is an in-memory UserRepository used by tests and local
// development. Thread-safe.
type UserStore struct {
	mu     sync.Mutex
	users  map[string]*entity.User // by id
	byName map[string]string       // username -> id
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:  make(map[string]*entity.User),
		byName: make(map[string]string),
	}
}

func (s *UserStore) Create(ctx context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[u.Username]; exists {
		return repository.ErrUsernameTaken
	}
	u.ID = uuid.NewString()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	cp := *u
	s.users[u.ID] = &cp
	s.byName[u.Username] = u.ID
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byName[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

var _ repository.UserRepository = (*UserStore)(nil)
