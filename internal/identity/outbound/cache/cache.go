package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goerror"
	"github.com/tarkhineh/tarkhineh/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	keyPrefix = "identity:user:"

	fieldUsername    = "username"
	fieldOTPCode     = "otp_code"
	fieldOTPExpireAt = "otp_expire_at"
	fieldRefreshHash = "hashed_refresh_token"
)

// Every write runs as one script so it is atomic per user hash, and none of
// them creates a user that does not exist.
var (
	scriptSaveOTP = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return 0 end
redis.call('HSET', KEYS[1], 'otp_code', ARGV[1], 'otp_expire_at', ARGV[2])
return 1`)

	scriptSaveRefreshHash = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then return 0 end
redis.call('HSET', KEYS[1], 'hashed_refresh_token', ARGV[1])
return 1`)

	scriptSwapRefreshHash = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'hashed_refresh_token') ~= ARGV[1] then return 0 end
redis.call('HSET', KEYS[1], 'hashed_refresh_token', ARGV[2])
return 1`)
)

// Cache is the Redis credential store. A user is the hash identity:user:{phone}.
type Cache struct {
	client redis.UniversalClient
	ins    instrument.Instrumentation
}

func NewCache(client redis.UniversalClient, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func key(phone string) string {
	return keyPrefix + phone
}

func (c *Cache) GetUserByPhone(ctx context.Context, phone string) (_ *entity.User, err error) {
	ctx, span := c.startSpan(ctx, "GetUserByPhone")
	defer func() { c.endSpan(span, err) }()

	fields, err := c.client.HGetAll(ctx, key(phone)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, goerror.ErrNotFound
	}

	user := &entity.User{
		Phone:              phone,
		Username:           fields[fieldUsername],
		HashedRefreshToken: fields[fieldRefreshHash],
	}

	if fields[fieldOTPCode] != "" && fields[fieldOTPExpireAt] != "" {
		code, err := strconv.Atoi(fields[fieldOTPCode])
		if err != nil {
			return nil, err
		}
		ms, err := strconv.ParseInt(fields[fieldOTPExpireAt], 10, 64)
		if err != nil {
			return nil, err
		}
		user.OTP = &entity.OTP{Code: code, ExpireAt: time.UnixMilli(ms)}
	}

	return user, nil
}

func (c *Cache) SaveOTP(ctx context.Context, phone string, otp entity.OTP) (err error) {
	ctx, span := c.startSpan(ctx, "SaveOTP")
	defer func() { c.endSpan(span, err) }()

	return c.run(ctx, scriptSaveOTP, phone, otp.Code, otp.ExpireAt.UnixMilli())
}

func (c *Cache) SaveRefreshHash(ctx context.Context, phone, hash string) (err error) {
	ctx, span := c.startSpan(ctx, "SaveRefreshHash")
	defer func() { c.endSpan(span, err) }()

	return c.run(ctx, scriptSaveRefreshHash, phone, hash)
}

func (c *Cache) SwapRefreshHash(ctx context.Context, phone, oldHash, newHash string) (err error) {
	ctx, span := c.startSpan(ctx, "SwapRefreshHash")
	defer func() { c.endSpan(span, err) }()

	return c.run(ctx, scriptSwapRefreshHash, phone, oldHash, newHash)
}

func (c *Cache) ClearRefreshHash(ctx context.Context, phone string) (err error) {
	ctx, span := c.startSpan(ctx, "ClearRefreshHash")
	defer func() { c.endSpan(span, err) }()

	return c.client.HDel(ctx, key(phone), fieldRefreshHash).Err()
}

func (c *Cache) run(ctx context.Context, script *redis.Script, phone string, args ...any) error {
	n, err := script.Run(ctx, c.client, []string{key(phone)}, args...).Int()
	if errors.Is(err, redis.Nil) || (err == nil && n == 0) {
		return goerror.ErrNotFound
	}
	return err
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("identity.outbound.cache").Start(ctx, name)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
