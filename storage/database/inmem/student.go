package inmemdb

import (
	"context"

	"github.com/schoolhub/backend/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	s.ID = newID()
	s.User = nil
	repo.db.students = append(repo.db.students, s)
	return s, nil
}

func (repo *studentRepository) QueryStudents(context.Context) ([]student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	students := make([]student.Student, 0, len(repo.db.students))
	for _, s := range repo.db.students {
		s.User = repo.db.userPtr(s.UserID)
		students = append(students, s)
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	s, ok := repo.db.student(id)
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return s, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for i, s := range repo.db.students {
		if s.ID == id {
			repo.db.students = append(repo.db.students[:i], repo.db.students[i+1:]...)
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

// student returns the populated student `id`. Must be called with db.mu held.
func (db *DB) student(id string) (student.Student, bool) {
	for _, s := range db.students {
		if s.ID == id {
			s.User = db.userPtr(s.UserID)
			return s, true
		}
	}
	return student.Student{}, false
}
