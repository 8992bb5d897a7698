package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/taskboard-api/internal/auth"
	"github.com/redmonkez12/taskboard-api/internal/user"
)

// mockUserStore keeps users in memory keyed by email.
type mockUserStore struct {
	users  map[string]*user.User
	nextID int64
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{
		users:  make(map[string]*user.User),
		nextID: 1,
	}
}

func (m *mockUserStore) Create(_ context.Context, name, email, passwordHash string) (*user.User, error) {
	if _, exists := m.users[email]; exists {
		return nil, user.ErrDuplicateEmail
	}
	now := time.Now()
	u := &user.User{
		ID:           m.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.nextID++
	m.users[email] = u
	// Return a copy to avoid mutation issues
	userCopy := *u
	return &userCopy, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	userCopy := *u
	return &userCopy, nil
}

func newTestService(t *testing.T, store auth.UserStore) *auth.Service {
	t.Helper()
	tokens, err := auth.NewJWTService(testSecret, 7*24*time.Hour)
	require.NoError(t, err)
	return auth.NewService(store, tokens)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t, newMockUserStore())
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{"empty name", "", "a@example.com", "secret1", auth.ErrNameRequired},
		{"empty email", "Alice", "", "secret1", auth.ErrEmailRequired},
		{"empty password", "Alice", "a@example.com", "", auth.ErrPasswordRequired},
		{"short password", "Alice", "a@example.com", "12345", auth.ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterSuccess(t *testing.T) {
	svc := newTestService(t, newMockUserStore())
	ctx := context.Background()

	newUser, token, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	require.NotNil(t, newUser)
	require.NotEmpty(t, token)

	assert.Equal(t, "Alice", newUser.Name)
	assert.Equal(t, "alice@example.com", newUser.Email)
	assert.NotEqual(t, "secret1", newUser.PasswordHash)
	assert.NotZero(t, newUser.ID)

	// The issued token decodes back to the same user
	tokens, err := auth.NewJWTService(testSecret, time.Hour)
	require.NoError(t, err)
	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, newUser.ID, claims.UserID)
	assert.Equal(t, newUser.Email, claims.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newMockUserStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	first, _, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Mallory", "alice@example.com", "different1")
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)

	// The first record is untouched
	stored, err := store.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, first.PasswordHash, stored.PasswordHash)
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestService(t, newMockUserStore())
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	loggedIn, token, err := svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, registered.ID, loggedIn.ID)

	tokens, err := auth.NewJWTService(testSecret, time.Hour)
	require.NoError(t, err)
	claims, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
}

func TestLoginMasksUnknownEmailAndWrongPassword(t *testing.T) {
	svc := newTestService(t, newMockUserStore())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	_, _, unknownErr := svc.Login(ctx, "nobody@example.com", "secret1")
	_, _, wrongErr := svc.Login(ctx, "alice@example.com", "wrong-password")

	// Unknown email and wrong password are indistinguishable
	assert.ErrorIs(t, unknownErr, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, auth.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLoginPerformsNoWrites(t *testing.T) {
	store := newMockUserStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "secret1")
	require.NoError(t, err)
	before := *store.users["alice@example.com"]

	_, _, err = svc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, before, *store.users["alice@example.com"])
	assert.Len(t, store.users, 1)
}
