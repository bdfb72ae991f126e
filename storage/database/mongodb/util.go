package mongorepos

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/schoolhub/backend/core"
)

const defaultTimeout = 10 * time.Second

// store is the part of database.DB the repositories need.
type store struct {
	timeout time.Duration
}

func newStore(timeout time.Duration) store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return store{timeout: timeout}
}

func (s store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// parseID reports whether `id` is a valid ObjectID hex string.
func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

func parseIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := parseID(id); ok {
			oids = append(oids, oid)
		}
	}
	return oids
}

func hexID(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

// sortDoc converts orderings to a sort document. `_id` breaks ties in insertion order.
func sortDoc(ordering []core.DBOrdering) bson.D {
	sort := make(bson.D, 0, len(ordering)+1)
	for _, ord := range ordering {
		sort = append(sort, bson.E{Key: ord.Field, Value: ord.Direction()})
	}
	return append(sort, bson.E{Key: "_id", Value: 1})
}
