package inmemdb

import (
	"context"
	"time"

	"github.com/schoolhub/backend/core/teacher"
)

type teacherRepository struct {
	db *DB
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) *teacherRepository {
	return &teacherRepository{db: db}
}

func (repo *teacherRepository) index(id string) int {
	for i, t := range repo.db.teachers {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (repo *teacherRepository) populate(t teacher.Teacher) teacher.Teacher {
	t.User = repo.db.userPtr(t.UserID)
	t.Subjects = append([]string(nil), t.Subjects...)
	return t
}

func (repo *teacherRepository) CreateTeacher(_ context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, other := range repo.db.teachers {
		if other.StaffID == t.StaffID {
			return teacher.Teacher{}, teacher.ErrStaffIDExists
		}
	}
	t.ID = newID()
	t.User = nil
	repo.db.teachers = append(repo.db.teachers, t)
	return t, nil
}

func (repo *teacherRepository) QueryTeachers(context.Context) ([]teacher.Teacher, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	teachers := make([]teacher.Teacher, 0, len(repo.db.teachers))
	for _, t := range repo.db.teachers {
		teachers = append(teachers, repo.populate(t))
	}
	return teachers, nil
}

func (repo *teacherRepository) GetTeacher(_ context.Context, id string) (teacher.Teacher, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	i := repo.index(id)
	if i < 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return repo.populate(repo.db.teachers[i]), nil
}

func (repo *teacherRepository) FirstTeacher(context.Context) (teacher.Teacher, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if len(repo.db.teachers) == 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return repo.populate(repo.db.teachers[0]), nil
}

func (repo *teacherRepository) UpdateTeacher(_ context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.index(t.ID)
	if i < 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	stored := repo.db.teachers[i]
	stored.Subjects = t.Subjects
	stored.Qualification = t.Qualification
	stored.Experience = t.Experience
	stored.Department = t.Department
	stored.UpdatedAt = t.UpdatedAt
	repo.db.teachers[i] = stored
	return repo.populate(stored), nil
}

func (repo *teacherRepository) SetFeatured(_ context.Context, id string, featured bool) (teacher.Teacher, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.index(id)
	if i < 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	repo.db.teachers[i].Featured = featured
	repo.db.teachers[i].UpdatedAt = time.Now().UTC()
	return repo.populate(repo.db.teachers[i]), nil
}

func (repo *teacherRepository) DeleteTeacher(_ context.Context, id string) (teacher.Teacher, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.index(id)
	if i < 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	t := repo.db.teachers[i]
	repo.db.teachers = append(repo.db.teachers[:i], repo.db.teachers[i+1:]...)
	return t, nil
}

func (repo *teacherRepository) StaffIDExists(_ context.Context, staffID string) (bool, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, t := range repo.db.teachers {
		if t.StaffID == staffID {
			return true, nil
		}
	}
	return false, nil
}
