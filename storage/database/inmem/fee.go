package inmemdb

import (
	"context"
	"sort"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/fee"
)

type feeRepository struct {
	db *DB
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *DB) *feeRepository {
	return &feeRepository{db: db}
}

func (repo *feeRepository) index(id string) int {
	for i, f := range repo.db.fees {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (repo *feeRepository) populate(f fee.Fee) fee.Fee {
	f.Student = nil
	if s, ok := repo.db.student(f.StudentID); ok {
		f.Student = &fee.StudentInfo{ID: s.ID, Name: s.DisplayName(), ClassName: s.ClassName}
	}
	return f
}

func (repo *feeRepository) CreateFee(_ context.Context, f fee.Fee) (fee.Fee, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	f.ID = newID()
	f.Student = nil
	repo.db.fees = append(repo.db.fees, f)
	return f, nil
}

func (repo *feeRepository) QueryFees(_ context.Context, filter fee.QueryFilter, ordering ...core.DBOrdering) ([]fee.Fee, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	fees := make([]fee.Fee, 0)
	for _, f := range repo.db.fees {
		if filter.StudentID != "" && f.StudentID != filter.StudentID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsString(filter.Statuses, f.Status) {
			continue
		}
		fees = append(fees, repo.populate(f))
	}

	sort.SliceStable(fees, func(i, j int) bool {
		for _, ord := range ordering {
			if c := compareFees(fees[i], fees[j], ord.Field); c != 0 {
				if ord.Ascending {
					return c < 0
				}
				return c > 0
			}
		}
		return false
	})

	if filter.Limit > 0 && len(fees) > filter.Limit {
		fees = fees[:filter.Limit]
	}
	return fees, nil
}

func (repo *feeRepository) GetFee(_ context.Context, id string) (fee.Fee, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	i := repo.index(id)
	if i < 0 {
		return fee.Fee{}, fee.ErrNotFound
	}
	return repo.populate(repo.db.fees[i]), nil
}

func (repo *feeRepository) UpdateFee(_ context.Context, f fee.Fee) (fee.Fee, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.index(f.ID)
	if i < 0 {
		return fee.Fee{}, fee.ErrNotFound
	}
	f.StudentID = repo.db.fees[i].StudentID
	f.CreatedAt = repo.db.fees[i].CreatedAt
	f.Student = nil
	repo.db.fees[i] = f
	return repo.populate(f), nil
}

func (repo *feeRepository) DeleteFee(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	i := repo.index(id)
	if i < 0 {
		return fee.ErrNotFound
	}
	repo.db.fees = append(repo.db.fees[:i], repo.db.fees[i+1:]...)
	return nil
}

// compareFees compares the `field` of two fees; unknown fields compare equal.
func compareFees(a, b fee.Fee, field string) int {
	switch field {
	case "dueDate":
		return compareInts(a.DueDate.UnixNano(), b.DueDate.UnixNano())
	case "createdAt":
		return compareInts(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case "amount":
		return compareFloats(a.Amount, b.Amount)
	case "paidAmount":
		return compareFloats(a.PaidAmount, b.PaidAmount)
	}
	return 0
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func containsString(values []string, v string) bool {
	for _, val := range values {
		if val == v {
			return true
		}
	}
	return false
}
