package inmemdb

import (
	"context"

	"github.com/schoolhub/backend/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.userIndex(func(u user.User) bool { return u.Email == usr.Email }) >= 0 {
		return user.User{}, user.ErrEmailExists
	}
	usr.ID = newID()
	repo.db.users = append(repo.db.users, usr)
	return usr, nil
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var i int
	switch {
	case filter.ID != "":
		i = repo.db.userIndex(func(u user.User) bool { return u.ID == filter.ID })
	case filter.Email != "":
		i = repo.db.userIndex(func(u user.User) bool { return u.Email == filter.Email })
	default:
		i = -1
	}
	if i < 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.db.users[i], nil
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.db.userIndex(func(u user.User) bool { return u.ID == usr.ID })
	if i < 0 {
		return user.User{}, user.ErrNotFound
	}
	if j := repo.db.userIndex(func(u user.User) bool { return u.Email == usr.Email && u.ID != usr.ID }); j >= 0 {
		return user.User{}, user.ErrEmailExists
	}
	usr.CreatedAt = repo.db.users[i].CreatedAt
	repo.db.users[i] = usr
	return usr, nil
}

func (repo *userRepository) DeleteUser(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.db.userIndex(func(u user.User) bool { return u.ID == id })
	if i < 0 {
		return user.ErrNotFound
	}
	repo.db.users = append(repo.db.users[:i], repo.db.users[i+1:]...)
	return nil
}

func (repo *userRepository) EmailExists(_ context.Context, email string) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.db.userIndex(func(u user.User) bool { return u.Email == email }) >= 0, nil
}

// userIndex must be called with db.mu held.
func (db *DB) userIndex(match func(user.User) bool) int {
	for i, u := range db.users {
		if match(u) {
			return i
		}
	}
	return -1
}

// userPtr returns a copy of the user `id`, or nil. Must be called with db.mu held.
func (db *DB) userPtr(id string) *user.User {
	if i := db.userIndex(func(u user.User) bool { return u.ID == id }); i >= 0 {
		usr := db.users[i]
		return &usr
	}
	return nil
}
