//go:build integration

package testhelper

import (
	"context"
	"testing"

	"github.com/heartmarshall/apptracker/internal/domain"
)

func TestSetupTestDB_SeedsAndReset(t *testing.T) {
	pool := SetupTestDB(t)
	ctx := context.Background()

	owner := SeedUser(t, pool, domain.RoleAdmin)
	app := SeedApplication(t, pool, owner.ID, "SMK")
	docID := SeedHandoverDocument(t, pool, owner.ID)

	var shortName string
	err := pool.QueryRow(ctx,
		`SELECT short_name FROM applications WHERE id = $1 AND owner_user_id = $2`,
		app.ID, owner.ID,
	).Scan(&shortName)
	if err != nil {
		t.Fatalf("expected application in DB, got error: %v", err)
	}
	if shortName != "SMK" {
		t.Fatalf("short name = %q, want SMK", shortName)
	}
	if docID <= 0 {
		t.Fatalf("handover document id = %d", docID)
	}

	Reset(t, pool)

	for _, table := range appTables {
		var n int
		if err := pool.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s has %d rows after Reset", table, n)
		}
	}
}
