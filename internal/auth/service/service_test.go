package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/smallbiznis/tailorline/internal/auth/domain"
	"github.com/smallbiznis/tailorline/internal/clock"
	"github.com/smallbiznis/tailorline/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) authdomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authdomain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		// Token expiry is validated against the wall clock, so the fake
		// must not sit in the past.
		Clock:  clock.NewFakeClock(time.Now()),
		Config: config.Config{AuthJWTSecret: "test-secret"},
	})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, authdomain.RegisterRequest{
		Name:     "Sari",
		Email:    "sari@example.com",
		Password: "rahasia123",
		Role:     authdomain.RoleCashier,
	})
	require.NoError(t, err)
	assert.Equal(t, authdomain.RoleCashier, user.Role)

	resp, err := svc.Login(ctx, authdomain.LoginRequest{
		Email:    "sari@example.com",
		Password: "rahasia123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	actor, err := svc.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "Sari", actor.Name)
	assert.Equal(t, authdomain.RoleCashier, actor.Role)
	assert.Equal(t, user.ID, actor.ID.String())
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, authdomain.RegisterRequest{
		Name:     "Sari",
		Email:    "sari@example.com",
		Password: "rahasia123",
		Role:     authdomain.RoleCashier,
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, authdomain.LoginRequest{
		Email:    "sari@example.com",
		Password: "salah",
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, authdomain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "rahasia123",
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, authdomain.RegisterRequest{
		Name:     "Sari",
		Email:    "",
		Password: "rahasia123",
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidEmail)

	_, err = svc.Register(ctx, authdomain.RegisterRequest{
		Name:  "Sari",
		Email: "sari@example.com",
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidPassword)

	_, err = svc.Register(ctx, authdomain.RegisterRequest{
		Name:     "Sari",
		Email:    "sari@example.com",
		Password: "rahasia123",
		Role:     authdomain.Role("superuser"),
	})
	assert.ErrorIs(t, err, authdomain.ErrInvalidRole)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	req := authdomain.RegisterRequest{
		Name:     "Sari",
		Email:    "sari@example.com",
		Password: "rahasia123",
		Role:     authdomain.RoleCashier,
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, authdomain.ErrEmailTaken)
}

func TestVerify_BadToken(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Verify("not-a-jwt")
	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)
}
