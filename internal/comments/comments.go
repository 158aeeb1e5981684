package comments

import (
	"context"
	"sort"

	"github.com/petteraas52-ux/Surat-sub000/internal/apperr"
	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
)

// Coll is the comments collection.
const Coll = "comments"

// Comment is one append-only note on a child, shared between staff and
// guardians. No author-scoped edit semantics exist; the only mutation is
// a hard delete by id.
type Comment struct {
	ID         string `json:"id"`
	ChildID    string `json:"childId"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	Body       string `json:"body"`
	CreatedAt  string `json:"createdAt"`
}

// Service reads and writes per-child commentary.
type Service struct {
	store docstore.Store
}

// NewService creates the service.
func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

// Add appends a comment with a store-assigned timestamp.
func (s *Service) Add(ctx context.Context, childID, authorID, authorName, body string) (string, error) {
	id, err := s.store.Add(ctx, Coll, docstore.Fields{
		"childId":    childID,
		"authorId":   authorID,
		"authorName": authorName,
		"body":       body,
		"createdAt":  docstore.ServerTimestamp(),
	})
	if err != nil {
		return "", apperr.New(apperr.DomainGeneral, apperr.KindCreateFailed, err)
	}
	return id, nil
}

// ByChild returns a child's comments ordered by creation time ascending.
func (s *Service) ByChild(ctx context.Context, childID string) ([]Comment, error) {
	docs, err := s.store.Query(ctx, Coll, "childId", docstore.OpEqual, childID)
	if err != nil {
		return nil, apperr.New(apperr.DomainGeneral, apperr.KindLoadFailed, err)
	}
	res := make([]Comment, 0, len(docs))
	for _, doc := range docs {
		res = append(res, Comment{
			ID:         doc.ID,
			ChildID:    doc.Fields.Str("childId"),
			AuthorID:   doc.Fields.Str("authorId"),
			AuthorName: doc.Fields.Str("authorName"),
			Body:       doc.Fields.Str("body"),
			CreatedAt:  doc.Fields.Str("createdAt"),
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt < res[j].CreatedAt })
	return res, nil
}

// Delete removes a comment. Any caller holding the id may delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, Coll, id); err != nil {
		return apperr.New(apperr.DomainGeneral, apperr.KindDeleteFailed, err)
	}
	return nil
}
