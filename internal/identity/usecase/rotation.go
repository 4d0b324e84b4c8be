package usecase

import (
	"context"
	"errors"

	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/goerror"
	"github.com/tarkhineh/tarkhineh/internal/pkg/hash"
	"github.com/tarkhineh/tarkhineh/internal/pkg/jwt"
)

// RotationManager authenticates refresh tokens against the stored hash and
// replaces that hash on every rotation.
//
// Errors are entity.ErrInvalidRefreshToken for any rejected token; anything
// else is an infrastructure failure.
type RotationManager struct {
	store   repoDB
	hash    hash.Hash
	issuer  *TokenIssuer
	refresh jwt.JWT
}

func NewRotationManager(store repoDB, h hash.Hash, issuer *TokenIssuer, refresh jwt.JWT) *RotationManager {
	return &RotationManager{store: store, hash: h, issuer: issuer, refresh: refresh}
}

// Validate authenticates token for phone without rotating it.
func (r *RotationManager) Validate(ctx context.Context, token, phone string) (entity.Subject, error) {
	user, err := r.authenticate(ctx, token, phone)
	if err != nil {
		return entity.Subject{}, err
	}
	return user.Subject(), nil
}

// Rotate mints a new pair and swaps the stored hash. When two rotations of the
// same token race, only one swap matches and the other is rejected.
func (r *RotationManager) Rotate(ctx context.Context, token, phone string) (entity.TokenPair, error) {
	user, err := r.authenticate(ctx, token, phone)
	if err != nil {
		return entity.TokenPair{}, err
	}

	pair, err := r.issuer.Mint(ctx, user.Subject())
	if err != nil {
		return entity.TokenPair{}, err
	}

	newHash, err := r.hash.Hash(pair.RefreshToken)
	if err != nil {
		return entity.TokenPair{}, err
	}

	err = r.store.SwapRefreshHash(ctx, user.Phone, user.HashedRefreshToken, string(newHash))
	if errors.Is(err, goerror.ErrNotFound) {
		return entity.TokenPair{}, entity.ErrInvalidRefreshToken
	}
	if err != nil {
		return entity.TokenPair{}, err
	}

	return pair, nil
}

// Persist stores the hash of a freshly minted refresh token.
func (r *RotationManager) Persist(ctx context.Context, phone, token string) error {
	h, err := r.hash.Hash(token)
	if err != nil {
		return err
	}
	return r.store.SaveRefreshHash(ctx, phone, string(h))
}

func (r *RotationManager) authenticate(ctx context.Context, token, phone string) (*entity.User, error) {
	if token == "" || phone == "" {
		return nil, entity.ErrInvalidRefreshToken
	}

	user, err := r.store.GetUserByPhone(ctx, phone)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, entity.ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, err
	}

	if !user.HasSession() || !r.hash.Verify(user.HashedRefreshToken, token) {
		return nil, entity.ErrInvalidRefreshToken
	}

	clm, err := r.refresh.Verify(token)
	if err != nil || clm.Phone != user.Phone {
		return nil, entity.ErrInvalidRefreshToken
	}

	return user, nil
}
