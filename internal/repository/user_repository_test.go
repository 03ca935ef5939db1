package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"localshop/internal/domain"
)

// Feature: localshop, Property 3: Registration stores hashed passwords
func TestProperty_RegistrationCreatesHashedPasswords(t *testing.T) {
	requireDB(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(email string, password string, name string) bool {
			_, _ = testDB.Exec("DELETE FROM users WHERE email = $1", email)

			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				t.Logf("Failed to hash password: %v", err)
				return false
			}

			user := &domain.User{
				ID:           uuid.NewString(),
				Name:         name,
				Email:        email,
				PasswordHash: string(hashedPassword),
				CreatedAt:    time.Now(),
				UpdatedAt:    time.Now(),
			}
			if err := repo.Create(ctx, user); err != nil {
				t.Logf("Failed to create user: %v", err)
				return false
			}

			retrievedUser, err := repo.FindByEmail(ctx, email)
			if err != nil {
				t.Logf("Failed to find user: %v", err)
				return false
			}

			if retrievedUser.PasswordHash == password {
				t.Logf("Password was stored as plaintext!")
				return false
			}

			if err := bcrypt.CompareHashAndPassword([]byte(retrievedUser.PasswordHash), []byte(password)); err != nil {
				t.Logf("Stored password is not a valid bcrypt hash: %v", err)
				return false
			}

			_, _ = testDB.Exec("DELETE FROM users WHERE email = $1", email)
			return true
		},
		gen.RegexMatch(`[a-z]{5,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUserRepository_UniqueEmailAndContact(t *testing.T) {
	requireDB(t)
	repo := NewUserRepository(testDB)
	ctx := context.Background()
	suffix := uuid.NewString()[:8]

	first := &domain.User{ID: uuid.NewString(), Name: "Asha", Email: "asha" + suffix + "@example.com", Contact: "98" + suffix, PasswordHash: "x", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, first))

	sameEmail := *first
	sameEmail.ID = uuid.NewString()
	sameEmail.Contact = ""
	assert.ErrorIs(t, repo.Create(ctx, &sameEmail), ErrUserAlreadyExists)

	sameContact := *first
	sameContact.ID = uuid.NewString()
	sameContact.Email = "other" + suffix + "@example.com"
	assert.ErrorIs(t, repo.Create(ctx, &sameContact), ErrUserAlreadyExists)

	byContact, err := repo.FindByContact(ctx, first.Contact)
	require.NoError(t, err)
	assert.Equal(t, first.ID, byContact.ID)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRefreshTokenRepository_Revoke(t *testing.T) {
	requireDB(t)
	users := NewUserRepository(testDB)
	tokens := NewRefreshTokenRepository(testDB)
	ctx := context.Background()

	user := &domain.User{ID: uuid.NewString(), Name: "Ravi", Email: uuid.NewString() + "@example.com", PasswordHash: "x", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, users.Create(ctx, user))

	token := &domain.RefreshToken{ID: uuid.NewString(), UserID: user.ID, Token: uuid.NewString(), ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now()}
	require.NoError(t, tokens.Create(ctx, token))

	found, err := tokens.FindByToken(ctx, token.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.UserID)

	require.NoError(t, tokens.Revoke(ctx, token.Token))
	_, err = tokens.FindByToken(ctx, token.Token)
	assert.ErrorIs(t, err, ErrRefreshTokenRevoked)
}
