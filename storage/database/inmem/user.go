package inmemdb

import (
	"context"
	"strings"

	"github.com/trezcool/itsite/core/user"
)

type userRepository struct {
	db *table[user.User]
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.users}
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string, excludedIDs ...int64) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.rows {
		if usr.Email == email && !isExcluded(usr.ID, excludedIDs) {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, u := range repo.db.rows {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	usr.ID = repo.db.nextID()
	usr.PasswordHash = cloneBytes(usr.PasswordHash)
	repo.db.rows = append(repo.db.rows, usr)
	return usr, nil
}

func (repo *userRepository) QueryUsers(_ context.Context, filter *user.QueryFilter) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	return repo.db.filter(func(u user.User) bool {
		if filter == nil {
			return true
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(u.Name), filter.Search) &&
			!strings.Contains(u.Email, filter.Search) {
			return false
		}
		if filter.Role != "" && u.Role != filter.Role {
			return false
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			return false
		}
		return true
	}), nil
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter) (user.User, error) {
	usr, ok := repo.db.get(func(u user.User) bool {
		if filter.ID != 0 {
			return u.ID == filter.ID
		}
		return u.Email == filter.Email
	})
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	usr.PasswordHash = cloneBytes(usr.PasswordHash)
	if !repo.db.replace(func(u user.User) bool { return u.ID == usr.ID }, usr) {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func isExcluded(id int64, excludedIDs []int64) bool {
	for _, excl := range excludedIDs {
		if id == excl {
			return true
		}
	}
	return false
}
