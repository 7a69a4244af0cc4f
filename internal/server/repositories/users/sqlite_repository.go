package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/piiguard/internal/common"
	"github.com/dmitrijs2005/piiguard/internal/dbx"
	"github.com/dmitrijs2005/piiguard/internal/server/models"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Timestamps are stored as RFC 3339 text; SQLite has no native time type.
const sqliteTimeLayout = time.RFC3339Nano

// SQLiteRepository is the single-file/in-memory store used for local runs
// and tests.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, email, email_hash, name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	id := uuid.NewString()

	_, err := r.db.ExecContext(ctx, query,
		id, user.Email, user.EmailHash, user.Name, user.PasswordHash,
		now.Format(sqliteTimeLayout), now.Format(sqliteTimeLayout))
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now

	return user, nil
}

func (r *SQLiteRepository) FindByEmailHash(ctx context.Context, emailHash string) (*models.User, error) {
	query :=
		`SELECT id, email, email_hash, name, password_hash, created_at, updated_at FROM users
		 WHERE email_hash = ?`

	return r.findOne(ctx, query, emailHash)
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, email_hash, name, password_hash, created_at, updated_at FROM users
		 WHERE id = ?`

	return r.findOne(ctx, query, id)
}

func (r *SQLiteRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, email_hash, name, password_hash, created_at, updated_at FROM users`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.User{}
	for rows.Next() {
		user, err := scanSQLiteUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLiteRepository) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanSQLiteUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func scanSQLiteUser(row rowScanner) (*models.User, error) {
	var createdAt, updatedAt string

	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.EmailHash, &user.Name, &user.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if user.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}

	return user, nil
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
		return true
	}
	// Without extended result codes only the primary code is reported.
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
}
