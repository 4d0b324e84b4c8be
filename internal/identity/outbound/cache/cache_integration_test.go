//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goerror"
	"github.com/tarkhineh/tarkhineh/internal/pkg/instrument"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const phone = "+989123456789"

func newCache(t *testing.T) (*Cache, *redis.Client) {
	t.Helper()

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	opt, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.HSet(ctx, key(phone), fieldUsername, "ali").Err())

	return NewCache(client, instrument.NewNoop()), client
}

func TestCache_OTP(t *testing.T) {
	c, client := newCache(t)
	ctx := context.Background()

	user, err := c.GetUserByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "ali", user.Username)
	assert.Nil(t, user.OTP)

	_, err = c.GetUserByPhone(ctx, "+989000000000")
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	exp := time.UnixMilli(time.Now().Add(2 * time.Minute).UnixMilli())
	require.NoError(t, c.SaveOTP(ctx, phone, entity.OTP{Code: 482913, ExpireAt: exp}))

	user, err = c.GetUserByPhone(ctx, phone)
	require.NoError(t, err)
	require.NotNil(t, user.OTP)
	assert.Equal(t, 482913, user.OTP.Code)
	assert.True(t, exp.Equal(user.OTP.ExpireAt))

	raw, err := client.HGet(ctx, key(phone), fieldOTPExpireAt).Result()
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprint(exp.UnixMilli()), raw)

	err = c.SaveOTP(ctx, "+989000000000", entity.OTP{Code: 1, ExpireAt: exp})
	assert.ErrorIs(t, err, goerror.ErrNotFound)
	exists, err := client.Exists(ctx, key("+989000000000")).Result()
	require.NoError(t, err)
	assert.Zero(t, exists, "saving an otp must not create a user")
}

func TestCache_RefreshHash(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.SaveRefreshHash(ctx, phone, "h1"))
	require.NoError(t, c.SwapRefreshHash(ctx, phone, "h1", "h2"))
	assert.ErrorIs(t, c.SwapRefreshHash(ctx, phone, "h1", "h3"), goerror.ErrNotFound)

	user, err := c.GetUserByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "h2", user.HashedRefreshToken)

	require.NoError(t, c.ClearRefreshHash(ctx, phone))
	require.NoError(t, c.ClearRefreshHash(ctx, phone))

	user, err = c.GetUserByPhone(ctx, phone)
	require.NoError(t, err)
	assert.False(t, user.HasSession())
	assert.Equal(t, "ali", user.Username)

	assert.ErrorIs(t, c.SwapRefreshHash(ctx, phone, "h2", "h4"), goerror.ErrNotFound)
	assert.ErrorIs(t, c.SaveRefreshHash(ctx, "+989000000000", "h"), goerror.ErrNotFound)
}

func TestCache_SwapRefreshHash_OneWinner(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.SaveRefreshHash(ctx, phone, "h1"))

	results := make(chan error, 10)
	for i := range 10 {
		go func() {
			results <- c.SwapRefreshHash(ctx, phone, "h1", fmt.Sprintf("n%d", i))
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
