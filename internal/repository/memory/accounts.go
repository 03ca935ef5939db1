package memory

import (
	"context"

	"localshop/internal/domain"
	"localshop/internal/repository"
)

type userRepository struct {
	s *Store
}

// Create enforces the same uniqueness as the users table: email always, contact when set
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	conflict := false
	r.s.users.each(func(u *domain.User) {
		if u.Email == user.Email || (user.Contact != "" && u.Contact == user.Contact) {
			conflict = true
		}
	})
	if conflict {
		return repository.ErrUserAlreadyExists
	}

	r.s.users.put(user.ID, cloneUser(user))
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *userRepository) FindByContact(ctx context.Context, contact string) (*domain.User, error) {
	if contact == "" {
		return nil, repository.ErrUserNotFound
	}
	return r.find(func(u *domain.User) bool { return u.Contact == contact })
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users.get(id)
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *userRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *domain.User
	r.s.users.each(func(u *domain.User) {
		if found == nil && match(u) {
			found = cloneUser(u)
		}
	})
	if found == nil {
		return nil, repository.ErrUserNotFound
	}
	return found, nil
}

type refreshTokenRepository struct {
	s *Store
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := *token
	r.s.tokens[token.Token] = &stored
	return nil
}

func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stored, ok := r.s.tokens[token]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if stored.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	found := *stored
	return &found, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tokens[token]
	if !ok {
		return repository.ErrRefreshTokenNotFound
	}
	stored.Revoked = true
	return nil
}
