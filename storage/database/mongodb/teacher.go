package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/schoolhub/backend/core/teacher"
	"github.com/schoolhub/backend/storage/database"
)

type teacherDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	User          primitive.ObjectID `bson:"user"`
	StaffID       string             `bson:"staffId"`
	Subjects      []string           `bson:"subjects"`
	Qualification string             `bson:"qualification,omitempty"`
	Experience    int                `bson:"experience"`
	Department    string             `bson:"department,omitempty"`
	Featured      bool               `bson:"featured"`
	Rating        float64            `bson:"rating,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

type teacherRepository struct {
	store
	coll    *mongo.Collection
	usrRepo *userRepository
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *database.DB) *teacherRepository {
	return &teacherRepository{
		store:   newStore(db.Timeout()),
		coll:    db.Collection(database.TeacherCollection),
		usrRepo: NewUserRepository(db),
	}
}

func toTeacherDoc(t teacher.Teacher) teacherDoc {
	doc := teacherDoc{
		StaffID:       t.StaffID,
		Subjects:      t.Subjects,
		Qualification: t.Qualification,
		Experience:    t.Experience,
		Department:    t.Department,
		Featured:      t.Featured,
		Rating:        t.Rating,
		CreatedAt:     t.CreatedAt.UTC(),
		UpdatedAt:     t.UpdatedAt.UTC(),
	}
	if doc.Subjects == nil {
		doc.Subjects = []string{}
	}
	if oid, ok := parseID(t.ID); ok {
		doc.ID = oid
	}
	if oid, ok := parseID(t.UserID); ok {
		doc.User = oid
	}
	return doc
}

func fromTeacherDoc(doc teacherDoc) teacher.Teacher {
	return teacher.Teacher{
		ID:            hexID(doc.ID),
		UserID:        hexID(doc.User),
		StaffID:       doc.StaffID,
		Subjects:      doc.Subjects,
		Qualification: doc.Qualification,
		Experience:    doc.Experience,
		Department:    doc.Department,
		Featured:      doc.Featured,
		Rating:        doc.Rating,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

// populate attaches the owning users to `docs`.
func (repo teacherRepository) populate(ctx context.Context, docs ...teacherDoc) ([]teacher.Teacher, error) {
	userIDs := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		userIDs = append(userIDs, doc.User)
	}
	users, err := repo.usrRepo.usersByID(ctx, userIDs)
	if err != nil {
		return nil, errors.Wrap(err, "populating teacher users")
	}

	teachers := make([]teacher.Teacher, 0, len(docs))
	for _, doc := range docs {
		t := fromTeacherDoc(doc)
		if usr, ok := users[t.UserID]; ok {
			t.User = &usr
		}
		teachers = append(teachers, t)
	}
	return teachers, nil
}

func (repo teacherRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (teacher.Teacher, error) {
	qctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	var doc teacherDoc
	if err := repo.coll.FindOne(qctx, filter, opts...).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "finding teacher")
	}
	teachers, err := repo.populate(ctx, doc)
	if err != nil {
		return teacher.Teacher{}, err
	}
	return teachers[0], nil
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	doc := toTeacherDoc(t)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return teacher.Teacher{}, teacher.ErrStaffIDExists
		}
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return fromTeacherDoc(doc), nil
}

func (repo teacherRepository) QueryTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	qctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	cursor, err := repo.coll.Find(qctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	defer cursor.Close(qctx)

	var docs []teacherDoc
	if err = cursor.All(qctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding teachers")
	}
	return repo.populate(ctx, docs...)
}

func (repo teacherRepository) GetTeacher(ctx context.Context, id string) (teacher.Teacher, error) {
	oid, ok := parseID(id)
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return repo.findOne(ctx, bson.M{"_id": oid})
}

func (repo teacherRepository) FirstTeacher(ctx context.Context) (teacher.Teacher, error) {
	return repo.findOne(ctx, bson.M{})
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	oid, ok := parseID(t.ID)
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	doc := toTeacherDoc(t)
	return repo.update(ctx, oid, bson.M{
		"subjects":      doc.Subjects,
		"qualification": doc.Qualification,
		"experience":    doc.Experience,
		"department":    doc.Department,
		"updatedAt":     doc.UpdatedAt,
	})
}

func (repo teacherRepository) SetFeatured(ctx context.Context, id string, featured bool) (teacher.Teacher, error) {
	oid, ok := parseID(id)
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return repo.update(ctx, oid, bson.M{"featured": featured, "updatedAt": time.Now().UTC()})
}

func (repo teacherRepository) update(ctx context.Context, oid primitive.ObjectID, set bson.M) (teacher.Teacher, error) {
	qctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc teacherDoc
	if err := repo.coll.FindOneAndUpdate(qctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	teachers, err := repo.populate(ctx, doc)
	if err != nil {
		return teacher.Teacher{}, err
	}
	return teachers[0], nil
}

func (repo teacherRepository) DeleteTeacher(ctx context.Context, id string) (teacher.Teacher, error) {
	oid, ok := parseID(id)
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	var doc teacherDoc
	if err := repo.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "deleting teacher")
	}
	return fromTeacherDoc(doc), nil
}

func (repo teacherRepository) StaffIDExists(ctx context.Context, staffID string) (bool, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	n, err := repo.coll.CountDocuments(ctx, bson.M{"staffId": staffID}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrap(err, "checking staff id")
	}
	return n > 0, nil
}
