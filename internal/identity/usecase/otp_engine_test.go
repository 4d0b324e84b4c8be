package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goerror"
)

func TestOTPEngine_IssueVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	issuedAt := f.clock.Now()

	code, err := f.uc.otp.Issue(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, testCode, code)

	stored := f.store.user(testPhone).OTP
	require.NotNil(t, stored)
	assert.Equal(t, testCode, stored.Code)
	assert.Equal(t, issuedAt.Add(120*time.Second), stored.ExpireAt)

	f.clock.Advance(60 * time.Second)
	sub, err := f.uc.otp.Verify(ctx, testPhone, testCode)
	require.NoError(t, err)
	assert.Equal(t, entity.Subject{Phone: testPhone, Username: testUsername}, sub)

	_, err = f.uc.otp.Verify(ctx, testPhone, 0)
	assert.ErrorIs(t, err, entity.ErrOTPMismatch)

	// the slot is kept after a successful verification.
	_, err = f.uc.otp.Verify(ctx, testPhone, testCode)
	require.NoError(t, err)

	f.clock.Set(issuedAt.Add(130 * time.Second))
	_, err = f.uc.otp.Verify(ctx, testPhone, testCode)
	assert.ErrorIs(t, err, entity.ErrOTPExpired)

	// correctness of the code does not matter once expired.
	_, err = f.uc.otp.Verify(ctx, testPhone, 0)
	assert.ErrorIs(t, err, entity.ErrOTPExpired)
}

func TestOTPEngine_Boundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.otp.Issue(ctx, testPhone)
	require.NoError(t, err)

	f.clock.Advance(DefaultOTPTTL)
	_, err = f.uc.otp.Verify(ctx, testPhone, testCode)
	require.NoError(t, err, "now == expireAt is still inside the window")

	_, err = f.uc.otp.Resend(ctx, testPhone)
	require.NoError(t, err, "now == expireAt no longer throttles")
}

func TestOTPEngine_VerifyWithoutChallenge(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.otp.Verify(context.Background(), testPhone, testCode)
	assert.ErrorIs(t, err, entity.ErrOTPExpired)
}

func TestOTPEngine_UnknownPhone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.otp.Issue(ctx, "+989000000000")
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	_, err = f.uc.otp.Verify(ctx, "+989000000000", testCode)
	assert.ErrorIs(t, err, goerror.ErrNotFound)

	_, err = f.uc.otp.Resend(ctx, "+989000000000")
	assert.ErrorIs(t, err, goerror.ErrNotFound)
}

func TestOTPEngine_Resend(t *testing.T) {
	f := newFixture(t, testCode, 135790)
	ctx := context.Background()

	_, err := f.uc.otp.Issue(ctx, testPhone)
	require.NoError(t, err)

	f.clock.Advance(119 * time.Second)
	_, err = f.uc.otp.Resend(ctx, testPhone)
	assert.ErrorIs(t, err, entity.ErrOTPThrottled)

	f.clock.Advance(2 * time.Second)
	code, err := f.uc.otp.Resend(ctx, testPhone)
	require.NoError(t, err)
	assert.Equal(t, 135790, code)

	stored := f.store.user(testPhone).OTP
	assert.Equal(t, 135790, stored.Code)
	assert.Equal(t, f.clock.Now().Add(DefaultOTPTTL), stored.ExpireAt)

	// the resent code replaces the old one.
	_, err = f.uc.otp.Verify(ctx, testPhone, testCode)
	assert.ErrorIs(t, err, entity.ErrOTPMismatch)
	_, err = f.uc.otp.Verify(ctx, testPhone, 135790)
	assert.NoError(t, err)
}

func TestOTPEngine_ResendWithoutChallenge(t *testing.T) {
	f := newFixture(t)

	code, err := f.uc.otp.Resend(context.Background(), testPhone)
	require.NoError(t, err)
	assert.Equal(t, testCode, code)
}

func TestOTPEngine_Delivery(t *testing.T) {
	f := newFixture(t, testCode, 135790)
	ctx := context.Background()

	_, err := f.uc.otp.Issue(ctx, testPhone)
	require.NoError(t, err)

	f.clock.Advance(DefaultOTPTTL + time.Second)
	_, err = f.uc.otp.Resend(ctx, testPhone)
	require.NoError(t, err)

	require.NoError(t, f.goroutine.Wait())

	events := f.messaging.published()
	require.Len(t, events, 2)

	byResend := map[bool]OTPIssuedEvent{}
	for _, ev := range events {
		byResend[ev.Resend] = ev
	}

	assert.Equal(t, testPhone, byResend[false].Phone)
	assert.Contains(t, byResend[false].Text, "482913")
	assert.Contains(t, byResend[false].Text, "verification code")
	assert.Contains(t, byResend[true].Text, "135790")
	assert.Contains(t, byResend[true].Text, "resent code")
	assert.NotEqual(t, byResend[false].ID, byResend[true].ID)
}

func TestOTPEngine_DeliveryFailureIsNotReturned(t *testing.T) {
	f := newFixture(t)
	f.messaging.err = errors.New("broker down")

	_, err := f.uc.otp.Issue(context.Background(), testPhone)
	require.NoError(t, err)

	assert.Error(t, f.goroutine.Wait())
	assert.Len(t, f.messaging.published(), 1)
}

func TestOTPEngine_RandomCode(t *testing.T) {
	for range 1000 {
		code, err := randomCode()
		require.NoError(t, err)
		require.GreaterOrEqual(t, code, 100000)
		require.LessOrEqual(t, code, 999999)
	}
}
