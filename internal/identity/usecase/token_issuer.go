package usecase

import (
	"context"

	"github.com/tarkhineh/tarkhineh/internal/identity/entity"
	"github.com/tarkhineh/tarkhineh/internal/pkg/jwt"
	"golang.org/x/sync/errgroup"
)

// TokenIssuer signs access and refresh tokens with separate signers.
// It never touches storage.
type TokenIssuer struct {
	access  jwt.JWT
	refresh jwt.JWT
}

func NewTokenIssuer(access, refresh jwt.JWT) *TokenIssuer {
	return &TokenIssuer{access: access, refresh: refresh}
}

// Mint signs both tokens of a pair concurrently.
func (t *TokenIssuer) Mint(ctx context.Context, sub entity.Subject) (entity.TokenPair, error) {
	var pair entity.TokenPair

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		pair.AccessToken, err = t.access.Generate(sub.Username, sub.Phone)
		return err
	})
	g.Go(func() (err error) {
		pair.RefreshToken, err = t.refresh.Generate(sub.Username, sub.Phone)
		return err
	})

	if err := g.Wait(); err != nil {
		return entity.TokenPair{}, err
	}

	return pair, nil
}

// MintAccessOnly signs an access token without touching the refresh credential.
func (t *TokenIssuer) MintAccessOnly(_ context.Context, sub entity.Subject) (string, error) {
	return t.access.Generate(sub.Username, sub.Phone)
}
