package auth

import (
	"context"
	"errors"

	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
)

// Role names carried in token claims and account documents.
const (
	RoleStaff    = "staff"
	RoleGuardian = "guardian"
	RoleAdmin    = "admin"
)

// Collections holding role profiles keyed by uid.
const (
	CollStaff     = "staff"
	CollGuardians = "guardians"
	CollAccounts  = "accounts"
)

// ActorKind discriminates the resolved role union.
type ActorKind int

const (
	ActorUnresolved ActorKind = iota
	ActorStaff
	ActorGuardian
)

// StaffProfile is the staff-side profile document.
type StaffProfile struct {
	UID          string
	Name         string
	DepartmentID string
	Admin        bool
}

// GuardianProfile is the guardian-side profile document.
type GuardianProfile struct {
	UID   string
	Name  string
	Phone string
}

// Actor is the closed result of role resolution: exactly one of the
// profile pointers is set unless Kind is ActorUnresolved.
type Actor struct {
	Kind     ActorKind
	Staff    *StaffProfile
	Guardian *GuardianProfile
}

// ResolveActor looks up which profile a uid carries. An identity with no
// profile document resolves to ActorUnresolved rather than an error, so
// callers decide how to gate access.
func ResolveActor(ctx context.Context, store docstore.Store, uid string) (Actor, error) {
	doc, err := store.Get(ctx, CollStaff, uid)
	if err == nil {
		return Actor{
			Kind: ActorStaff,
			Staff: &StaffProfile{
				UID:          uid,
				Name:         doc.Fields.Str("name"),
				DepartmentID: doc.Fields.Str("departmentId"),
				Admin:        doc.Fields.Bool("admin"),
			},
		}, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return Actor{}, err
	}

	doc, err = store.Get(ctx, CollGuardians, uid)
	if err == nil {
		return Actor{
			Kind: ActorGuardian,
			Guardian: &GuardianProfile{
				UID:   uid,
				Name:  doc.Fields.Str("name"),
				Phone: doc.Fields.Str("phone"),
			},
		}, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return Actor{}, err
	}
	return Actor{Kind: ActorUnresolved}, nil
}

// Role maps the resolved actor to the claim role string.
func (a Actor) Role() string {
	switch a.Kind {
	case ActorStaff:
		if a.Staff != nil && a.Staff.Admin {
			return RoleAdmin
		}
		return RoleStaff
	case ActorGuardian:
		return RoleGuardian
	}
	return ""
}
