package store

// SortField maps a public sort key onto the document field and the SQL
// column that hold it.
type SortField struct {
	Name   string
	Field  string
	Column string
}

const DefaultSortKey = "createdAt"

var sortFields = map[string]SortField{
	"createdAt":   {Name: "createdAt", Field: "createdAt", Column: "created_at"},
	"updatedAt":   {Name: "updatedAt", Field: "updatedAt", Column: "updated_at"},
	"appliedDate": {Name: "appliedDate", Field: "appliedDate", Column: "applied_date"},
	"title":       {Name: "title", Field: "title", Column: "title"},
	"company":     {Name: "company", Field: "company", Column: "company"},
	"location":    {Name: "location", Field: "location", Column: "location"},
	"salary":      {Name: "salary", Field: "salary", Column: "salary"},
	"status":      {Name: "status", Field: "status", Column: "status"},
}

// LookupSortField resolves a public sort key.
func LookupSortField(key string) (SortField, bool) {
	f, ok := sortFields[key]
	return f, ok
}

// DefaultSortField is the creation time.
func DefaultSortField() SortField {
	return sortFields[DefaultSortKey]
}

// Sort returns the field to order by, defaulting to the creation time.
func (q JobQuery) Sort() SortField {
	if q.SortBy.Name == "" {
		return DefaultSortField()
	}
	return q.SortBy
}
