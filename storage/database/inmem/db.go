package inmemdb

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/class"
	"github.com/schoolhub/backend/core/fee"
	"github.com/schoolhub/backend/core/student"
	"github.com/schoolhub/backend/core/teacher"
	"github.com/schoolhub/backend/core/user"
)

var errDisconnected = errors.New("inmemdb: disconnected")

// DB keeps every collection in insertion order behind a single lock.
type DB struct {
	mu        sync.RWMutex
	connected bool

	users    []user.User
	teachers []teacher.Teacher
	students []student.Student
	fees     []fee.Fee
	classes  []class.Class
}

var _ core.DB = (*DB)(nil)

func Open() *DB {
	return &DB{connected: true}
}

func (db *DB) Ping(context.Context) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if !db.connected {
		return errDisconnected
	}
	return nil
}

func (db *DB) Close(context.Context) error {
	db.SetConnected(false)
	return nil
}

// SetConnected toggles what Ping reports.
func (db *DB) SetConnected(connected bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.connected = connected
}

// Reset drops all records.
func (db *DB) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users, db.teachers, db.students, db.fees, db.classes = nil, nil, nil, nil, nil
}

func newID() string {
	return primitive.NewObjectID().Hex()
}
