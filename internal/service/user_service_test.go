package service

import (
	"context"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"localshop/internal/repository"
	"localshop/internal/repository/memory"
)

const testSecret = "test-secret-key"

func newTestUserService() (UserService, *repository.Repositories) {
	repos := memory.New().Repositories()
	return NewUserService(repos.Users, repos.RefreshTokens, TokenConfig{Secret: testSecret}), repos
}

// bcrypt makes every case slow; fewer cases keep the suite quick
func bcryptParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	return parameters
}

// Feature: localshop, Property 4: Registration creates hashed passwords
func TestProperty_RegistrationCreatesHashedPasswords(t *testing.T) {
	properties := gopter.NewProperties(bcryptParameters())

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(email string, password string, name string) bool {
			service, repos := newTestUserService()
			ctx := context.Background()

			user, err := service.Register(ctx, RegisterInput{Name: name, Email: email, Password: password})
			if err != nil {
				t.Logf("FAIL: Registration failed: %v", err)
				return false
			}

			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
				t.Logf("FAIL: Password hash is not a valid bcrypt hash: %v", err)
				return false
			}

			cost, err := bcrypt.Cost([]byte(user.PasswordHash))
			if err != nil || cost != BcryptCost {
				t.Logf("FAIL: Expected bcrypt cost %d, got %d (%v)", BcryptCost, cost, err)
				return false
			}

			stored, err := repos.Users.FindByEmail(ctx, email)
			if err != nil {
				t.Logf("FAIL: Could not find stored user: %v", err)
				return false
			}

			return stored.PasswordHash == user.PasswordHash && stored.PasswordHash != password
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: localshop, Property 5: Tokens identify the user and expire
func TestProperty_JWTTokensContainRequiredClaims(t *testing.T) {
	properties := gopter.NewProperties(bcryptParameters())

	properties.Property("access tokens carry the user id, name and expiry", prop.ForAll(
		func(email string, password string, name string) bool {
			service, _ := newTestUserService()
			ctx := context.Background()

			user, err := service.Register(ctx, RegisterInput{Name: name, Email: email, Password: password})
			if err != nil {
				return false
			}

			session, err := service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			claims, err := service.ValidateToken(session.AccessToken)
			if err != nil {
				t.Logf("FAIL: Token validation failed: %v", err)
				return false
			}

			return claims.UserID == user.ID &&
				claims.Name == name &&
				claims.ExpiresAt != nil &&
				claims.IssuedAt != nil &&
				claims.ExpiresAt.Time.After(time.Now())
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: localshop, Property 6: Logout invalidates refresh token
func TestProperty_LogoutInvalidatesRefreshToken(t *testing.T) {
	properties := gopter.NewProperties(bcryptParameters())

	properties.Property("a refresh token works until logout and never after", prop.ForAll(
		func(email string, password string) bool {
			service, _ := newTestUserService()
			ctx := context.Background()

			if _, err := service.Register(ctx, RegisterInput{Name: "Shop Owner", Email: email, Password: password}); err != nil {
				return false
			}

			session, err := service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}

			if _, err := service.RefreshToken(ctx, session.RefreshToken); err != nil {
				t.Logf("FAIL: Refresh token should work before logout: %v", err)
				return false
			}

			if err := service.Logout(ctx, session.RefreshToken); err != nil {
				t.Logf("FAIL: Logout failed: %v", err)
				return false
			}

			_, err = service.RefreshToken(ctx, session.RefreshToken)
			return err == ErrInvalidToken
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestUserService_LoginByContact(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{Name: "Asha", Contact: "9876543210", Email: "Asha@Example.com", Password: "password123"})
	require.NoError(t, err)

	session, err := service.Login(ctx, "9876543210", "password123")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", session.User.Email)
	assert.NotEmpty(t, session.RefreshToken)

	_, err = service.Login(ctx, "ASHA@example.com", "password123")
	assert.NoError(t, err)

	_, err = service.Login(ctx, "9876543210", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, "0000000000", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_SignUpOpensSession(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	session, err := service.SignUp(ctx, SignUpInput{FullName: "Ravi Kumar", Contact: "9000000001", Email: "Ravi@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", session.User.Email)
	assert.NotEmpty(t, session.RefreshToken)

	claims, err := service.ValidateToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, claims.UserID)
	assert.Equal(t, "Ravi Kumar", claims.Name)

	_, err = service.SignUp(ctx, SignUpInput{FullName: "Other", Contact: "9000000001", Email: "other@example.com", Password: "password123"})
	assert.ErrorIs(t, err, repository.ErrUserAlreadyExists)
}

func TestUserService_DuplicateRegistration(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{Name: "Asha", Contact: "111", Email: "asha@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = service.Register(ctx, RegisterInput{Name: "Other", Email: "asha@example.com", Password: "password123"})
	assert.ErrorIs(t, err, repository.ErrUserAlreadyExists)

	_, err = service.Register(ctx, RegisterInput{Name: "Other", Contact: "111", Email: "other@example.com", Password: "password123"})
	assert.ErrorIs(t, err, repository.ErrUserAlreadyExists)
}

func TestUserService_ValidateTokenRejectsTampering(t *testing.T) {
	service, repos := newTestUserService()
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "password123"})
	require.NoError(t, err)
	session, err := service.Login(ctx, "asha@example.com", "password123")
	require.NoError(t, err)

	other := NewUserService(repos.Users, repos.RefreshTokens, TokenConfig{Secret: "another-secret"})
	_, err = other.ValidateToken(session.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewUserService(repos.Users, repos.RefreshTokens, TokenConfig{Secret: testSecret, AccessExpiry: time.Nanosecond})
	stale, err := expired.Login(ctx, "asha@example.com", "password123")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = expired.ValidateToken(stale.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestUserService_ExpiredRefreshToken(t *testing.T) {
	repos := memory.New().Repositories()
	service := NewUserService(repos.Users, repos.RefreshTokens, TokenConfig{Secret: testSecret, RefreshExpiry: time.Nanosecond})
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "password123"})
	require.NoError(t, err)
	session, err := service.Login(ctx, "asha@example.com", "password123")
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	_, err = service.RefreshToken(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
