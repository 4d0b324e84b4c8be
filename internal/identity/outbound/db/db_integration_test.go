//go:build integration

package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goerror"
	"github.com/tarkhineh/tarkhineh/internal/pkg/instrument"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const phone = "+989123456789"

func newDB(t *testing.T) (*DB, *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("tarkhineh"),
		tcpostgres.WithUsername("tarkhineh"),
		tcpostgres.WithPassword("tarkhineh"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	// applying twice is a no-op.
	require.NoError(t, Migrate(ctx, pool))

	_, err = pool.Exec(ctx, `INSERT INTO identity_users (phone, username) VALUES ($1, $2)`, phone, "ali")
	require.NoError(t, err)

	return NewDB(pool, instrument.NewNoop()), pool
}

func TestDB_OTP(t *testing.T) {
	s, _ := newDB(t)
	ctx := context.Background()

	user, err := s.GetUserByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "ali", user.Username)
	assert.Nil(t, user.OTP)
	assert.False(t, user.HasSession())

	_, err = s.GetUserByPhone(ctx, "+989000000000")
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	exp := time.Now().Add(2 * time.Minute).Truncate(time.Microsecond)
	require.NoError(t, s.SaveOTP(ctx, phone, entity.OTP{Code: 482913, ExpireAt: exp}))

	user, err = s.GetUserByPhone(ctx, phone)
	require.NoError(t, err)
	require.NotNil(t, user.OTP)
	assert.Equal(t, 482913, user.OTP.Code)
	assert.True(t, exp.Equal(user.OTP.ExpireAt))

	err = s.SaveOTP(ctx, "+989000000000", entity.OTP{Code: 1, ExpireAt: exp})
	assert.ErrorIs(t, err, goerror.ErrNotFound)
}

func TestDB_RefreshHash(t *testing.T) {
	s, _ := newDB(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRefreshHash(ctx, phone, "h1"))

	require.NoError(t, s.SwapRefreshHash(ctx, phone, "h1", "h2"))
	assert.ErrorIs(t, s.SwapRefreshHash(ctx, phone, "h1", "h3"), goerror.ErrNotFound)

	user, err := s.GetUserByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "h2", user.HashedRefreshToken)

	require.NoError(t, s.ClearRefreshHash(ctx, phone))
	require.NoError(t, s.ClearRefreshHash(ctx, phone))
	require.NoError(t, s.ClearRefreshHash(ctx, "+989000000000"))

	user, err = s.GetUserByPhone(ctx, phone)
	require.NoError(t, err)
	assert.False(t, user.HasSession())

	assert.ErrorIs(t, s.SwapRefreshHash(ctx, phone, "h2", "h4"), goerror.ErrNotFound)
}

func TestDB_SwapRefreshHash_OneWinner(t *testing.T) {
	s, _ := newDB(t)
	ctx := context.Background()
	require.NoError(t, s.SaveRefreshHash(ctx, phone, "h1"))

	results := make(chan error, 10)
	for i := range 10 {
		go func() {
			results <- s.SwapRefreshHash(ctx, phone, "h1", fmt.Sprintf("n%d", i))
		}()
	}

	var wins int
	for range 10 {
		if err := <-results; err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, goerror.ErrNotFound)
		}
	}
	assert.Equal(t, 1, wins)
}
