package guestlink

import (
	"context"
	"sort"

	"github.com/petteraas52-ux/Surat-sub000/internal/apperr"
	"github.com/petteraas52-ux/Surat-sub000/internal/children"
	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
)

// SubGuestLinks is the child-scoped sub-collection of pickup
// authorizations.
const SubGuestLinks = "guestLinks"

// Link authorizes a named guest to pick up a child on a given date.
type Link struct {
	ID        string `json:"id"`
	ChildID   string `json:"childId"`
	GuestName string `json:"guestName"`
	Relation  string `json:"relation"`
	Date      string `json:"date"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
}

// Service manages guest pickup authorizations.
type Service struct {
	store docstore.Store
}

// NewService creates the service.
func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

// Create registers a pickup authorization on a child's guest-link log.
func (s *Service) Create(ctx context.Context, childID, guestName, relation, date, createdBy string) (string, error) {
	id, err := s.store.Add(ctx, docstore.Sub(children.Coll, childID, SubGuestLinks), docstore.Fields{
		"guestName": guestName,
		"relation":  relation,
		"date":      date,
		"createdBy": createdBy,
		"createdAt": docstore.ServerTimestamp(),
	})
	if err != nil {
		return "", apperr.New(apperr.DomainGuestLink, apperr.KindCreateFailed, err)
	}
	return id, nil
}

// ByChild lists a child's pickup authorizations, newest pickup date
// first.
func (s *Service) ByChild(ctx context.Context, childID string) ([]Link, error) {
	docs, err := s.store.Query(ctx, docstore.Sub(children.Coll, childID, SubGuestLinks), "", "", nil)
	if err != nil {
		return nil, apperr.New(apperr.DomainGuestLink, apperr.KindLoadFailed, err)
	}
	res := make([]Link, 0, len(docs))
	for _, doc := range docs {
		res = append(res, Link{
			ID:        doc.ID,
			ChildID:   childID,
			GuestName: doc.Fields.Str("guestName"),
			Relation:  doc.Fields.Str("relation"),
			Date:      doc.Fields.Str("date"),
			CreatedBy: doc.Fields.Str("createdBy"),
			CreatedAt: doc.Fields.Str("createdAt"),
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date > res[j].Date })
	return res, nil
}

// Revoke hard-deletes an authorization.
func (s *Service) Revoke(ctx context.Context, childID, id string) error {
	if err := s.store.Delete(ctx, docstore.Sub(children.Coll, childID, SubGuestLinks), id); err != nil {
		return apperr.New(apperr.DomainGuestLink, apperr.KindDeleteFailed, err)
	}
	return nil
}
