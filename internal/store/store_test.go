package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vbonduro/ecoleta/internal/db"
	"github.com/vbonduro/ecoleta/internal/domain"
)

// openTestDB returns a migrated in-memory database seeded with the six item
// categories (ids 1 to 6).
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func newPoint(name, city, uf string, itemIDs ...int64) *domain.NewPoint {
	return &domain.NewPoint{
		Image:     name + ".jpg",
		Name:      name,
		Email:     "contato@example.com",
		Whatsapp:  "11999999999",
		Latitude:  -23.55,
		Longitude: -46.63,
		City:      city,
		UF:        uf,
		ItemIDs:   itemIDs,
	}
}

func countRows(t *testing.T, d *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, d.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}
