package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"SchoolAPI/internal/models"
)

// Seed makes sure the built-in roles exist and creates the initial admin
// account holding all of them when the users table is empty.
func Seed(ctx context.Context, db *pgxpool.Pool, adminPasswordHash string) error {
	roleNames := []string{models.ReaderRole, models.WriterRole, models.EditorRole}

	for _, name := range roleNames {
		_, err := db.Exec(ctx, `INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
		if err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}

	var userCount int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&userCount); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	adminID := uuid.New()
	_, err := db.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, $4)`,
		adminID, "admin", "admin@admin.com", adminPasswordHash)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	for _, name := range roleNames {
		_, err := db.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) SELECT $1, id FROM roles WHERE name = $2`,
			adminID, name)
		if err != nil {
			return fmt.Errorf("failed to assign role %s to admin: %w", name, err)
		}
	}

	return nil
}
