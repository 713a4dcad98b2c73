package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"SchoolAPI/internal/app_errors"
	"SchoolAPI/internal/models"
)

type RolesPostgres struct {
	db *pgxpool.Pool
}

func NewRolesPostgres(db *pgxpool.Pool) *RolesPostgres {
	return &RolesPostgres{db: db}
}

func (r *RolesPostgres) CreateRole(ctx context.Context, name string) (*models.Role, error) {
	query := `INSERT INTO roles (name) VALUES ($1) RETURNING id`

	var role models.Role
	role.Name = name
	err := r.db.QueryRow(ctx, query, name).Scan(&role.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if ok := errors.As(err, &pgErr); ok && pgErr.Code == uniqueViolation {
			return nil, app_errors.ErrRoleExists
		}
		return nil, fmt.Errorf("failed to insert role: %w", err)
	}

	return &role, nil
}

func (r *RolesPostgres) RoleByName(ctx context.Context, name string) (*models.Role, error) {
	query := `SELECT id, name FROM roles WHERE name = $1`

	var role models.Role
	err := r.db.QueryRow(ctx, query, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrRoleNotFound
		}
		return nil, err
	}

	return &role, nil
}

// RolesByUserID returns the role names assigned to the user.
// A user with no assignments yields an empty slice, not an error.
func (r *RolesPostgres) RolesByUserID(ctx context.Context, userID uuid.UUID) ([]string, error) {
	query := `
		SELECT r.name
		FROM user_roles ur
		JOIN roles r ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}

	return roles, rows.Err()
}

// AssignRole inserts the (user, role) association. The composite primary key
// on user_roles rejects a duplicate pair as ErrRoleAlreadyAssigned.
func (r *RolesPostgres) AssignRole(ctx context.Context, userID uuid.UUID, roleID int) error {
	query := `INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`

	_, err := r.db.Exec(ctx, query, userID, roleID)
	if err != nil {
		var pgErr *pgconn.PgError
		if ok := errors.As(err, &pgErr); ok && pgErr.Code == uniqueViolation {
			return app_errors.ErrRoleAlreadyAssigned
		}
		return fmt.Errorf("failed to assign role: %w", err)
	}

	return nil
}

func (r *RolesPostgres) RevokeRole(ctx context.Context, userID uuid.UUID, roleID int) error {
	query := `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`

	tag, err := r.db.Exec(ctx, query, userID, roleID)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrRoleNotAssigned
	}

	return nil
}
