package models

import "time"

// Memorial is a commemorative page for a deceased person, in UI field naming.
type Memorial struct {
	ID           string
	Name         string
	BirthYear    int
	DeathYear    int
	Description  string
	ProfileImage string // public URL, empty when absent
	CreatedBy    string
	CreatedAt    time.Time
}

// MemorialDraft is the caller-supplied part of a new memorial.
// ID, CreatedAt and CreatedBy are never taken from the caller.
type MemorialDraft struct {
	Name         string
	BirthYear    int
	DeathYear    int
	Description  string
	ProfileImage string
}

// MemorialRow is a row of the remote "memorials" table.
type MemorialRow struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	BirthYear    int     `json:"birth_year"`
	DeathYear    int     `json:"death_year"`
	Description  *string `json:"description"`
	ProfileImage *string `json:"profile_image"`
	CreatedBy    string  `json:"created_by"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

// MemorialQuery filters a memorials select. Empty fields do not filter.
// Results are always ordered by created_at, most recent first.
type MemorialQuery struct {
	ID        string
	CreatedBy string
	Limit     int
}

// ToMemorial translates a storage row into UI naming. A NULL description
// becomes "", a NULL or empty profile_image stays absent. An unparseable
// created_at yields the zero time.
func (r *MemorialRow) ToMemorial() *Memorial {
	m := &Memorial{
		ID:        r.ID,
		Name:      r.Name,
		BirthYear: r.BirthYear,
		DeathYear: r.DeathYear,
		CreatedBy: r.CreatedBy,
		CreatedAt: ParseTimestamp(r.CreatedAt),
	}
	if r.Description != nil {
		m.Description = *r.Description
	}
	if r.ProfileImage != nil {
		m.ProfileImage = *r.ProfileImage
	}
	return m
}

// RowFromDraft translates a draft into a storage row owned by userID.
// An empty profile image is stored as NULL.
func RowFromDraft(d MemorialDraft, userID string) MemorialRow {
	desc := d.Description
	row := MemorialRow{
		Name:        d.Name,
		BirthYear:   d.BirthYear,
		DeathYear:   d.DeathYear,
		Description: &desc,
		CreatedBy:   userID,
	}
	if d.ProfileImage != "" {
		img := d.ProfileImage
		row.ProfileImage = &img
	}
	return row
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05.999999",
}

// ParseTimestamp parses the timestamp spellings produced by the backend
// (RFC 3339 over HTTP, Postgres text form over SQL).
func ParseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
