package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/itsite/core/user"
)

var userColumns = []string{
	"id", "name", "email", "role", "is_active", "password_hash", "created_at", "updated_at", "last_login",
}

type userRow struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	IsActive     bool      `db:"is_active"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastLogin    null.Time `db:"last_login"`
}

func (r userRow) toUser() user.User {
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         user.Role(r.Role),
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		LastLogin:    r.LastLogin.Time.UTC(),
	}
}

// zero last login is stored as NULL
func lastLogin(t time.Time) null.Time {
	return null.NewTime(t, !t.IsZero())
}

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedIDs ...int64) error {
	q := repo.db.sb.Select("COUNT(*)").From("users").Where(squirrel.Eq{"email": email})
	if len(excludedIDs) > 0 {
		q = q.Where(squirrel.NotEq{"id": excludedIDs})
	}
	var n int
	if err := repo.db.getRow(ctx, &n, q); err != nil {
		return errors.Wrap(err, "counting users")
	}
	if n > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	id, err := repo.db.insert(ctx, repo.db.sb.Insert("users").
		Columns(userColumns[1:]...).
		Values(usr.Name, usr.Email, string(usr.Role), usr.IsActive, usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt, lastLogin(usr.LastLogin)))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	usr.ID = id
	return usr, nil
}

func (repo *userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter) ([]user.User, error) {
	q := repo.db.sb.Select(userColumns...).From("users").OrderBy("id ASC")
	if filter != nil {
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			q = q.Where(squirrel.Or{squirrel.Like{"LOWER(name)": pattern}, squirrel.Like{"email": pattern}})
		}
		if filter.Role != "" {
			q = q.Where(squirrel.Eq{"role": string(filter.Role)})
		}
		if filter.IsActive != nil {
			q = q.Where(squirrel.Eq{"is_active": *filter.IsActive})
		}
	}

	var rows []userRow
	if err := repo.db.selectRows(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.toUser())
	}
	return users, nil
}

func (repo *userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	q := repo.db.sb.Select(userColumns...).From("users")
	if filter.ID != 0 {
		q = q.Where(squirrel.Eq{"id": filter.ID})
	} else {
		q = q.Where(squirrel.Eq{"email": filter.Email})
	}

	var r userRow
	if err := repo.db.getRow(ctx, &r, q); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return r.toUser(), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	n, err := exec(ctx, repo.db, repo.db.sb.Update("users").
		SetMap(map[string]interface{}{
			"name":          usr.Name,
			"role":          string(usr.Role),
			"is_active":     usr.IsActive,
			"password_hash": usr.PasswordHash,
			"updated_at":    usr.UpdatedAt,
			"last_login":    lastLogin(usr.LastLogin),
		}).
		Where(squirrel.Eq{"id": usr.ID}))
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}
