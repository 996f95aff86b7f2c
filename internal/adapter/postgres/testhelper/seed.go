package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/apptracker/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser inserts a user with the given role.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role domain.Role) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	user := domain.User{
		Username:    "user-" + suffix,
		DisplayName: "Test User " + suffix,
		Role:        role,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (username, display_name, role) VALUES ($1, $2, $3) RETURNING id`,
		user.Username, user.DisplayName, string(user.Role),
	).Scan(&user.ID)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}

	return user
}

// SeedApplication inserts an application owned by ownerID.
func SeedApplication(t *testing.T, pool *pgxpool.Pool, ownerID int64, shortName string) domain.Application {
	t.Helper()

	app := domain.Application{
		Name:        "Application " + uniqueSuffix(),
		ShortName:   shortName,
		Status:      domain.ApplicationStatusDraft,
		OwnerUserID: ownerID,
	}

	err := pool.QueryRow(context.Background(),
		`INSERT INTO applications (name, short_name, status, owner_user_id)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`,
		app.Name, app.ShortName, string(app.Status), app.OwnerUserID,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedApplication: %v", err)
	}

	return app
}

// SeedHandoverDocument inserts an empty handover document.
func SeedHandoverDocument(t *testing.T, pool *pgxpool.Pool, createdBy int64) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO handover_documents (created_by) VALUES ($1) RETURNING id`,
		createdBy,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedHandoverDocument: %v", err)
	}

	return id
}
