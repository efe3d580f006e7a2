package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmart-ke/farmart-api/internal/domains/users/adapters/memory"
	"github.com/farmart-ke/farmart-api/internal/domains/users/ports"
	"github.com/farmart-ke/farmart-api/internal/shared/access"
)

func newService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	return NewService(memory.NewRepository(), memory.NewSessionStore(), opts...)
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{
		Username: "wanjiku",
		Email:    "wanjiku@example.com",
		Password: "correct-horse",
		Role:     access.RoleFarmer,
		Phone:    "254712345678",
		Location: "Nakuru",
	}
}

func TestRegister_HashesPasswordAndAssignsID(t *testing.T) {
	svc := newService(t)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "wanjiku", user.Username)
	assert.Equal(t, access.RoleFarmer, user.Role)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
}

func TestRegister_ValidationFailures(t *testing.T) {
	svc := newService(t)

	cases := map[string]func(*ports.RegisterInput){
		"short password": func(in *ports.RegisterInput) { in.Password = "short" },
		"blank username": func(in *ports.RegisterInput) { in.Username = "   " },
		"bad email":      func(in *ports.RegisterInput) { in.Email = "not-an-email" },
		"bad role":       func(in *ports.RegisterInput) { in.Role = "ADMIN" },
		"bad phone":      func(in *ports.RegisterInput) { in.Phone = "12" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := registerInput()
			mutate(&input)
			_, err := svc.Register(context.Background(), input)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := newService(t)
	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	input := registerInput()
	input.Email = "other@example.com"
	_, err = svc.Register(context.Background(), input)
	require.ErrorIs(t, err, ports.ErrUsernameTaken)
}

func TestLogin_IssuesTokenAuthenticateResolvesIt(t *testing.T) {
	svc := newService(t)
	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "wanjiku", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, user.Username, resolved.Username)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc := newService(t)
	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "wanjiku", "wrong-password")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nonexistent", "correct-horse")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "  ", "correct-horse")
	require.ErrorIs(t, err, ports.ErrInvalidCredentials)
}

func TestLogout_RevokesEverySession(t *testing.T) {
	svc := newService(t)
	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	first, err := svc.Login(context.Background(), "wanjiku", "correct-horse")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "wanjiku", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID))

	for _, token := range []string{first, second} {
		_, err = svc.Authenticate(context.Background(), token)
		require.ErrorIs(t, err, ports.ErrSessionNotFound)
	}
}

func TestAuthenticate_ExpiredSession(t *testing.T) {
	// A clock in the past issues sessions that are already expired by the
	// time the store checks them.
	svc := newService(t,
		WithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) }),
		WithSessionTTL(time.Hour),
	)
	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "wanjiku", "correct-horse")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}

func TestAuthenticate_BlankToken(t *testing.T) {
	svc := newService(t)
	_, err := svc.Authenticate(context.Background(), "   ")
	require.ErrorIs(t, err, ports.ErrSessionNotFound)
}
