package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal/user"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (p *Repository) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	var prof user.Profile
	query := p.db.Rebind(`
SELECT id, email, full_name, phone, preferred_language, created_at, updated_at
FROM users
WHERE id = ? AND is_active = ?`)
	if err := p.db.GetContext(ctx, &prof, query, userID, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("profile query: %w", err)
	}

	roles := []string{}
	if err := p.db.SelectContext(ctx, &roles, p.db.Rebind(`SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`), userID); err != nil {
		return nil, fmt.Errorf("roles query: %w", err)
	}
	prof.Roles = roles

	return &prof, nil
}

func (p *Repository) UpdateProfile(ctx context.Context, userID string, changes user.ProfileChanges) error {
	sets := make([]string, 0, 4)
	args := make([]interface{}, 0, 5)

	if changes.FullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, *changes.FullName)
	}
	if changes.Phone != nil {
		sets = append(sets, "phone = ?")
		if *changes.Phone == "" {
			args = append(args, nil)
		} else {
			args = append(args, *changes.Phone)
		}
	}
	if changes.PreferredLanguage != nil {
		sets = append(sets, "preferred_language = ?")
		args = append(args, *changes.PreferredLanguage)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), userID)

	query := p.db.Rebind("UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
