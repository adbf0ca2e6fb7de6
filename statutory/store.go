package statutory

import (
	"context"
	"time"
)

// =============================================================================
// STORE - Persistence of table-set source documents
// =============================================================================

// TableSetRecord is a stored table-set document. Document holds the raw
// JSON or YAML text; factory turns it into a TableSet. Version starts at 1
// and grows with every save of the same year.
type TableSetRecord struct {
	Year      int
	Name      string
	Format    string // "json" or "yaml"
	Document  string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists table-set documents keyed by statutory year.
//
// IMPLEMENTATIONS:
//   - store/sqlite: SQLite
//   - statutory/store: in-memory for testing
type Store interface {
	// SaveTableSet inserts or updates the document for rec.Year and returns
	// the stored version.
	SaveTableSet(ctx context.Context, rec TableSetRecord) (int, error)

	// GetTableSet returns generic.ErrTableSetNotFound when the year is unknown.
	GetTableSet(ctx context.Context, year int) (*TableSetRecord, error)

	// ListTableSets returns all documents ordered by year.
	ListTableSets(ctx context.Context) ([]TableSetRecord, error)

	DeleteTableSet(ctx context.Context, year int) error
}
