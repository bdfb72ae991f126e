package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/schoolhub/backend/core/class"
	"github.com/schoolhub/backend/storage/database"
)

type classDoc struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Name      string              `bson:"name"`
	Level     string              `bson:"level,omitempty"`
	Teacher   *primitive.ObjectID `bson:"teacher,omitempty"`
	CreatedAt time.Time           `bson:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt"`
}

type classRepository struct {
	store
	coll *mongo.Collection
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *database.DB) *classRepository {
	return &classRepository{
		store: newStore(db.Timeout()),
		coll:  db.Collection(database.ClassCollection),
	}
}

func fromClassDoc(doc classDoc) class.Class {
	c := class.Class{
		ID:        hexID(doc.ID),
		Name:      doc.Name,
		Level:     doc.Level,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if doc.Teacher != nil {
		c.TeacherID = doc.Teacher.Hex()
	}
	return c
}

func (repo classRepository) CreateClass(ctx context.Context, c class.Class) (class.Class, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	doc := classDoc{
		ID:        primitive.NewObjectID(),
		Name:      c.Name,
		Level:     c.Level,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
	if oid, ok := parseID(c.TeacherID); ok {
		doc.Teacher = &oid
	}
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	return fromClassDoc(doc), nil
}

func (repo classRepository) QueryClasses(ctx context.Context) ([]class.Class, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	defer cursor.Close(ctx)

	var docs []classDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding classes")
	}
	classes := make([]class.Class, 0, len(docs))
	for _, doc := range docs {
		classes = append(classes, fromClassDoc(doc))
	}
	return classes, nil
}
