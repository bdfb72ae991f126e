package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/schoolhub/backend/core/student"
	"github.com/schoolhub/backend/storage/database"
)

type studentDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	User        primitive.ObjectID `bson:"user"`
	ClassName   string             `bson:"className,omitempty"`
	Section     string             `bson:"section,omitempty"`
	AdmissionNo string             `bson:"admissionNo,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

type studentRepository struct {
	store
	coll    *mongo.Collection
	usrRepo *userRepository
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *database.DB) *studentRepository {
	return &studentRepository{
		store:   newStore(db.Timeout()),
		coll:    db.Collection(database.StudentCollection),
		usrRepo: NewUserRepository(db),
	}
}

func toStudentDoc(s student.Student) studentDoc {
	doc := studentDoc{
		ClassName:   s.ClassName,
		Section:     s.Section,
		AdmissionNo: s.AdmissionNo,
		CreatedAt:   s.CreatedAt.UTC(),
		UpdatedAt:   s.UpdatedAt.UTC(),
	}
	if oid, ok := parseID(s.ID); ok {
		doc.ID = oid
	}
	if oid, ok := parseID(s.UserID); ok {
		doc.User = oid
	}
	return doc
}

func fromStudentDoc(doc studentDoc) student.Student {
	return student.Student{
		ID:          hexID(doc.ID),
		UserID:      hexID(doc.User),
		ClassName:   doc.ClassName,
		Section:     doc.Section,
		AdmissionNo: doc.AdmissionNo,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func (repo studentRepository) populate(ctx context.Context, docs ...studentDoc) ([]student.Student, error) {
	userIDs := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		userIDs = append(userIDs, doc.User)
	}
	users, err := repo.usrRepo.usersByID(ctx, userIDs)
	if err != nil {
		return nil, errors.Wrap(err, "populating student users")
	}

	students := make([]student.Student, 0, len(docs))
	for _, doc := range docs {
		s := fromStudentDoc(doc)
		if usr, ok := users[s.UserID]; ok {
			s.User = &usr
		}
		students = append(students, s)
	}
	return students, nil
}

// studentsByID returns the populated students matching `ids`, keyed by id.
func (repo studentRepository) studentsByID(ctx context.Context, ids []primitive.ObjectID) (map[string]student.Student, error) {
	students := make(map[string]student.Student, len(ids))
	if len(ids) == 0 {
		return students, nil
	}

	qctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	cursor, err := repo.coll.Find(qctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	defer cursor.Close(qctx)

	var docs []studentDoc
	if err = cursor.All(qctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding students")
	}
	populated, err := repo.populate(ctx, docs...)
	if err != nil {
		return nil, err
	}
	for _, s := range populated {
		students[s.ID] = s
	}
	return students, nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	doc := toStudentDoc(s)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return fromStudentDoc(doc), nil
}

func (repo studentRepository) QueryStudents(ctx context.Context) ([]student.Student, error) {
	qctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	cursor, err := repo.coll.Find(qctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	defer cursor.Close(qctx)

	var docs []studentDoc
	if err = cursor.All(qctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding students")
	}
	return repo.populate(ctx, docs...)
}

func (repo studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	oid, ok := parseID(id)
	if !ok {
		return student.Student{}, student.ErrNotFound
	}

	qctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	var doc studentDoc
	if err := repo.coll.FindOne(qctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student")
	}
	students, err := repo.populate(ctx, doc)
	if err != nil {
		return student.Student{}, err
	}
	return students[0], nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id string) (student.Student, error) {
	oid, ok := parseID(id)
	if !ok {
		return student.Student{}, student.ErrNotFound
	}

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	var doc studentDoc
	if err := repo.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "deleting student")
	}
	return fromStudentDoc(doc), nil
}
