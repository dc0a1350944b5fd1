//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"parkgate/internal/domain/operator"
	"parkgate/internal/infra/memstore"
	"parkgate/internal/pkg/clock"
	"parkgate/internal/pkg/errs"
	"parkgate/internal/pkg/jwt"
	"parkgate/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*memstore.Store, commands.AuthCommands, *clock.MockClock) {
	t.Helper()

	store := memstore.New()
	mc := clock.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	auth := commands.NewAuthUseCase(store, jwt.NewService("test-secret", time.Hour), mc)
	return store, auth, mc
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials issue a token and record last login", func(t *testing.T) {
		store, auth, mc := newAuthFixture(t)

		op, err := auth.RegisterOperator(context.Background(), "admin@example.com", "s3cret-pass", operator.RoleAdmin)
		require.NoError(t, err)

		mc.Add(30 * time.Minute)
		res, err := auth.Login(context.Background(), "admin@example.com", "s3cret-pass")
		require.NoError(t, err)

		assert.Equal(t, op.ID(), res.OperatorID)
		assert.Equal(t, operator.RoleAdmin, res.Role)
		assert.NotEmpty(t, res.Token)

		at, ok := store.LastLogin(op.ID())
		require.True(t, ok)
		assert.Equal(t, mc.Now(), at)
	})

	t.Run("wrong password is rejected without recording a login", func(t *testing.T) {
		store, auth, _ := newAuthFixture(t)

		op, err := auth.RegisterOperator(context.Background(), "admin@example.com", "s3cret-pass", operator.RoleAdmin)
		require.NoError(t, err)

		_, err = auth.Login(context.Background(), "admin@example.com", "wrong-pass")
		assert.True(t, errs.Is(err, commands.ErrInvalidCredentials))

		_, ok := store.LastLogin(op.ID())
		assert.False(t, ok)
	})

	t.Run("unknown email maps to the same credentials error", func(t *testing.T) {
		_, auth, _ := newAuthFixture(t)

		_, err := auth.Login(context.Background(), "ghost@example.com", "whatever")
		assert.True(t, errs.Is(err, commands.ErrInvalidCredentials))
	})
}

func TestRegisterOperator(t *testing.T) {
	t.Run("duplicate email is refused", func(t *testing.T) {
		_, auth, _ := newAuthFixture(t)

		_, err := auth.RegisterOperator(context.Background(), "ops@example.com", "s3cret-pass", operator.RoleOperator)
		require.NoError(t, err)

		_, err = auth.RegisterOperator(context.Background(), "ops@example.com", "another-pass", operator.RoleOperator)
		assert.True(t, errs.Is(err, commands.ErrDuplicateOperator))
	})
}
