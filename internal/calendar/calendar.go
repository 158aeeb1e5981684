package calendar

import (
	"context"
	"sort"

	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
)

// Coll is the events collection.
const Coll = "events"

// Event is a facility event on a single calendar date.
type Event struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	DepartmentID string `json:"departmentId"`
	Description  string `json:"description"`
	Date         string `json:"date"`
}

// Repository persists events in the document store.
type Repository struct {
	store docstore.Store
}

// NewRepository creates a repo.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// Create registers a new event.
func (r *Repository) Create(ctx context.Context, evt Event) (string, error) {
	return r.store.Add(ctx, Coll, docstore.Fields{
		"title":        evt.Title,
		"departmentId": evt.DepartmentID,
		"description":  evt.Description,
		"date":         evt.Date,
	})
}

// ByDepartment returns a department's events ordered by date.
func (r *Repository) ByDepartment(ctx context.Context, departmentID string) ([]Event, error) {
	docs, err := r.store.Query(ctx, Coll, "departmentId", docstore.OpEqual, departmentID)
	if err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(docs))
	for _, doc := range docs {
		events = append(events, Event{
			ID:           doc.ID,
			Title:        doc.Fields.Str("title"),
			DepartmentID: doc.Fields.Str("departmentId"),
			Description:  doc.Fields.Str("description"),
			Date:         doc.Fields.Str("date"),
		})
	}
	sortEvents(events)
	return events, nil
}

func sortEvents(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].Title < events[j].Title
	})
}
