package children

import (
	"context"
	"sort"

	"github.com/petteraas52-ux/Surat-sub000/internal/dateutil"
	"github.com/petteraas52-ux/Surat-sub000/internal/docstore"
)

// Absence type tags persisted on child records and history entries.
const (
	AbsenceSickness = "sickness"
	AbsenceVacation = "vacation"
)

// Collection names.
const (
	Coll        = "children"
	SubAbsences = "absences"
)

// Child is the persisted child record. The absence fields are a
// denormalized cache over the append-only absence log; the log is
// authoritative and the cache is rebuilt from it (see RebuildAbsenceCache).
type Child struct {
	ID           string   `json:"id"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	BirthDate    string   `json:"birthDate"`
	Allergies    []string `json:"allergies"`
	ImagePath    string   `json:"imagePath"`
	GuardianIDs  []string `json:"guardianIds"`
	DepartmentID string   `json:"departmentId"`
	CheckedIn    bool     `json:"checkedIn"`
	AbsenceType  string   `json:"absenceType,omitempty"`
	AbsenceFrom  string   `json:"absenceFrom,omitempty"`
	AbsenceTo    string   `json:"absenceTo,omitempty"`
}

// AbsenceEntry is one record of the child-scoped append-only absence log.
type AbsenceEntry struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	From      string `json:"from"`
	To        string `json:"to"`
	CreatedAt string `json:"createdAt"`
}

// Repository persists children in the document store.
type Repository struct {
	store docstore.Store
}

// NewRepository creates a repo.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// Create registers a new child record.
func (r *Repository) Create(ctx context.Context, child Child) (string, error) {
	return r.store.Add(ctx, Coll, childFields(child))
}

// Get returns a single child by id.
func (r *Repository) Get(ctx context.Context, id string) (Child, error) {
	doc, err := r.store.Get(ctx, Coll, id)
	if err != nil {
		return Child{}, err
	}
	return childFromDoc(doc), nil
}

// Update overwrites a child record.
func (r *Repository) Update(ctx context.Context, child Child) error {
	return r.store.Set(ctx, Coll, child.ID, childFields(child))
}

// ByGuardian returns the children whose guardian list contains uid.
func (r *Repository) ByGuardian(ctx context.Context, uid string) ([]Child, error) {
	docs, err := r.store.Query(ctx, Coll, "guardianIds", docstore.OpArrayContains, uid)
	if err != nil {
		return nil, err
	}
	return childrenFromDocs(docs), nil
}

// ByDepartment returns all children of a department.
func (r *Repository) ByDepartment(ctx context.Context, departmentID string) ([]Child, error) {
	docs, err := r.store.Query(ctx, Coll, "departmentId", docstore.OpEqual, departmentID)
	if err != nil {
		return nil, err
	}
	return childrenFromDocs(docs), nil
}

// SetCheckedIn point-writes the attendance flag. Checking a child in also
// clears the denormalized absence cache in the same document write, so a
// check-in never leaves stale absence fields behind remotely.
func (r *Repository) SetCheckedIn(ctx context.Context, id string, checkedIn bool) error {
	partial := docstore.Fields{"checkedIn": checkedIn}
	if checkedIn {
		partial["absenceType"] = nil
		partial["absenceFrom"] = nil
		partial["absenceTo"] = nil
	}
	return r.store.Update(ctx, Coll, id, partial)
}

// AppendAbsence adds one entry to the child's append-only absence log.
// Prior entries are never edited or deleted.
func (r *Repository) AppendAbsence(ctx context.Context, childID, typ, from, to string) error {
	_, err := r.store.Add(ctx, docstore.Sub(Coll, childID, SubAbsences), docstore.Fields{
		"type":      typ,
		"from":      from,
		"to":        to,
		"createdAt": docstore.ServerTimestamp(),
	})
	return err
}

// AbsenceLog returns the child's absence history ordered by creation time
// ascending.
func (r *Repository) AbsenceLog(ctx context.Context, childID string) ([]AbsenceEntry, error) {
	docs, err := r.store.Query(ctx, docstore.Sub(Coll, childID, SubAbsences), "", "", nil)
	if err != nil {
		return nil, err
	}
	entries := make([]AbsenceEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, AbsenceEntry{
			ID:        doc.ID,
			Type:      doc.Fields.Str("type"),
			From:      doc.Fields.Str("from"),
			To:        doc.Fields.Str("to"),
			CreatedAt: doc.Fields.Str("createdAt"),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt < entries[j].CreatedAt })
	return entries, nil
}

// RebuildAbsenceCache recomputes the denormalized absence fields from the
// authoritative log: the most recently created entry whose window has not
// ended before today wins. A checked-in child has no active absence, so
// its cache is always cleared.
func (r *Repository) RebuildAbsenceCache(ctx context.Context, childID, today string) error {
	child, err := r.Get(ctx, childID)
	if err != nil {
		return err
	}

	cleared := docstore.Fields{"absenceType": nil, "absenceFrom": nil, "absenceTo": nil}
	if child.CheckedIn {
		return r.store.Update(ctx, Coll, childID, cleared)
	}

	entries, err := r.AbsenceLog(ctx, childID)
	if err != nil {
		return err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if dateutil.Before(entry.To, today) {
			continue
		}
		return r.store.Update(ctx, Coll, childID, docstore.Fields{
			"absenceType": entry.Type,
			"absenceFrom": entry.From,
			"absenceTo":   entry.To,
		})
	}
	return r.store.Update(ctx, Coll, childID, cleared)
}

func childFields(c Child) docstore.Fields {
	fields := docstore.Fields{
		"firstName":    c.FirstName,
		"lastName":     c.LastName,
		"birthDate":    c.BirthDate,
		"allergies":    docstore.StringsValue(c.Allergies),
		"imagePath":    c.ImagePath,
		"guardianIds":  docstore.StringsValue(c.GuardianIDs),
		"departmentId": c.DepartmentID,
		"checkedIn":    c.CheckedIn,
	}
	if c.AbsenceType != "" {
		fields["absenceType"] = c.AbsenceType
		fields["absenceFrom"] = c.AbsenceFrom
		fields["absenceTo"] = c.AbsenceTo
	}
	return fields
}

func childFromDoc(doc docstore.Doc) Child {
	return Child{
		ID:           doc.ID,
		FirstName:    doc.Fields.Str("firstName"),
		LastName:     doc.Fields.Str("lastName"),
		BirthDate:    doc.Fields.Str("birthDate"),
		Allergies:    doc.Fields.Strings("allergies"),
		ImagePath:    doc.Fields.Str("imagePath"),
		GuardianIDs:  doc.Fields.Strings("guardianIds"),
		DepartmentID: doc.Fields.Str("departmentId"),
		CheckedIn:    doc.Fields.Bool("checkedIn"),
		AbsenceType:  doc.Fields.Str("absenceType"),
		AbsenceFrom:  doc.Fields.Str("absenceFrom"),
		AbsenceTo:    doc.Fields.Str("absenceTo"),
	}
}

func childrenFromDocs(docs []docstore.Doc) []Child {
	res := make([]Child, 0, len(docs))
	for _, doc := range docs {
		res = append(res, childFromDoc(doc))
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].FirstName != res[j].FirstName {
			return res[i].FirstName < res[j].FirstName
		}
		return res[i].ID < res[j].ID
	})
	return res
}
