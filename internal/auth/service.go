package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/petteraas52-ux/Surat-sub000/internal/apperr"
	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
)

// ErrBadCredentials is returned for an unknown email or wrong password.
var ErrBadCredentials = errors.New("auth: bad credentials")

// Service verifies credentials against account documents and issues tokens.
type Service struct {
	store      docstore.Store
	issuer     string
	signingKey string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService creates an auth service.
func NewService(store docstore.Store, issuer, signingKey string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		store:      store,
		issuer:     issuer,
		signingKey: signingKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// SignIn checks the email/password pair, resolves the caller's role and
// returns a token pair plus the resolved actor.
func (s *Service) SignIn(ctx context.Context, email, password string) (TokenPair, Actor, error) {
	docs, err := s.store.Query(ctx, CollAccounts, "email", docstore.OpEqual, email)
	if err != nil {
		return TokenPair{}, Actor{}, apperr.New(apperr.DomainAuth, apperr.KindServer, err)
	}
	if len(docs) == 0 {
		return TokenPair{}, Actor{}, ErrBadCredentials
	}
	account := docs[0]
	hash := account.Fields.Str("passwordHash")
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return TokenPair{}, Actor{}, ErrBadCredentials
	}

	actor, err := ResolveActor(ctx, s.store, account.ID)
	if err != nil {
		return TokenPair{}, Actor{}, apperr.New(apperr.DomainAuth, apperr.KindServer, err)
	}

	pair, err := Issue(account.ID, actor.Role(), s.issuer, s.signingKey, s.accessTTL, s.refreshTTL)
	if err != nil {
		return TokenPair{}, Actor{}, apperr.New(apperr.DomainAuth, apperr.KindServer, err)
	}
	return pair, actor, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := Parse(refreshToken, s.signingKey, s.issuer)
	if err != nil {
		return TokenPair{}, ErrBadCredentials
	}
	return Issue(claims.Subject, claims.Role, s.issuer, s.signingKey, s.accessTTL, s.refreshTTL)
}
