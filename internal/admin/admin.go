package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/petteraas52-ux/Surat-sub000/internal/apperr"
	"github.com/petteraas52-ux/Surat-sub000/internal/auth"
	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
)

// ErrEmailTaken is returned when an account already uses the email.
var ErrEmailTaken = errors.New("admin: email already registered")

// CreateUserInput is the provisioning request for a new guardian or
// staff account.
type CreateUserInput struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"displayName" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=guardian staff admin"`
	// Extra carries role-specific profile fields, e.g. departmentId for
	// staff or phone for guardians.
	Extra map[string]any `json:"extra"`
}

// Service provisions accounts. This is the one multi-document operation
// in the system with atomicity: the credential document and the role
// profile commit together or not at all.
type Service struct {
	store    docstore.Store
	validate *validator.Validate
}

// NewService creates the service.
func NewService(store docstore.Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

// CreateUser creates the account and profile documents atomically and
// returns the new uid.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (string, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", err
	}

	existing, err := s.store.Query(ctx, auth.CollAccounts, "email", docstore.OpEqual, in.Email)
	if err != nil {
		return "", apperr.New(apperr.DomainAuth, apperr.KindServer, err)
	}
	if len(existing) > 0 {
		return "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	var uid string
	err = s.store.RunAtomic(ctx, func(tx docstore.Store) error {
		uid, err = tx.Add(ctx, auth.CollAccounts, docstore.Fields{
			"email":        in.Email,
			"passwordHash": string(hash),
			"displayName":  in.DisplayName,
			"createdAt":    docstore.ServerTimestamp(),
		})
		if err != nil {
			return err
		}

		profile := docstore.Fields{"name": in.DisplayName}
		for k, v := range in.Extra {
			profile[k] = v
		}

		switch in.Role {
		case auth.RoleGuardian:
			return tx.Set(ctx, auth.CollGuardians, uid, profile)
		case auth.RoleStaff:
			return tx.Set(ctx, auth.CollStaff, uid, profile)
		case auth.RoleAdmin:
			profile["admin"] = true
			return tx.Set(ctx, auth.CollStaff, uid, profile)
		}
		return fmt.Errorf("admin: unknown role %q", in.Role)
	})
	if err != nil {
		return "", apperr.New(apperr.DomainAuth, apperr.KindCreateFailed, err)
	}
	return uid, nil
}
