package core

import "context"

// DB is the process-wide handle on the document store.
type DB interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type DBOrdering struct {
	Field     string
	Ascending bool
}

// Direction returns the sort direction in document store notation (1 | -1).
func (ord DBOrdering) Direction() int {
	if ord.Ascending {
		return 1
	}
	return -1
}
