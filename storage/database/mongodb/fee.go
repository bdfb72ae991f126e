package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/fee"
	"github.com/schoolhub/backend/storage/database"
)

type feeDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Student    primitive.ObjectID `bson:"student"`
	FeeType    string             `bson:"feeType"`
	Amount     float64            `bson:"amount"`
	DueDate    time.Time          `bson:"dueDate"`
	Status     string             `bson:"status"`
	PaidAmount float64            `bson:"paidAmount"`
	PaidDate   *time.Time         `bson:"paidDate,omitempty"`
	Notes      string             `bson:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

type feeRepository struct {
	store
	coll        *mongo.Collection
	studentRepo *studentRepository
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *database.DB) *feeRepository {
	return &feeRepository{
		store:       newStore(db.Timeout()),
		coll:        db.Collection(database.FeeCollection),
		studentRepo: NewStudentRepository(db),
	}
}

func toFeeDoc(f fee.Fee) feeDoc {
	doc := feeDoc{
		FeeType:    f.FeeType,
		Amount:     f.Amount,
		DueDate:    f.DueDate.UTC(),
		Status:     f.Status,
		PaidAmount: f.PaidAmount,
		Notes:      f.Notes,
		CreatedAt:  f.CreatedAt.UTC(),
		UpdatedAt:  f.UpdatedAt.UTC(),
	}
	if f.PaidDate != nil {
		paid := f.PaidDate.UTC()
		doc.PaidDate = &paid
	}
	if oid, ok := parseID(f.ID); ok {
		doc.ID = oid
	}
	if oid, ok := parseID(f.StudentID); ok {
		doc.Student = oid
	}
	return doc
}

func fromFeeDoc(doc feeDoc) fee.Fee {
	return fee.Fee{
		ID:         hexID(doc.ID),
		StudentID:  hexID(doc.Student),
		FeeType:    doc.FeeType,
		Amount:     doc.Amount,
		DueDate:    doc.DueDate,
		Status:     doc.Status,
		PaidAmount: doc.PaidAmount,
		PaidDate:   doc.PaidDate,
		Notes:      doc.Notes,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

// populate attaches the owning student (and its user's name) to `docs`.
func (repo feeRepository) populate(ctx context.Context, docs ...feeDoc) ([]fee.Fee, error) {
	studentIDs := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		studentIDs = append(studentIDs, doc.Student)
	}
	students, err := repo.studentRepo.studentsByID(ctx, studentIDs)
	if err != nil {
		return nil, errors.Wrap(err, "populating fee students")
	}

	fees := make([]fee.Fee, 0, len(docs))
	for _, doc := range docs {
		f := fromFeeDoc(doc)
		if s, ok := students[f.StudentID]; ok {
			f.Student = &fee.StudentInfo{ID: s.ID, Name: s.DisplayName(), ClassName: s.ClassName}
		}
		fees = append(fees, f)
	}
	return fees, nil
}

func (repo feeRepository) CreateFee(ctx context.Context, f fee.Fee) (fee.Fee, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	doc := toFeeDoc(f)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return fee.Fee{}, errors.Wrap(err, "inserting fee")
	}
	return fromFeeDoc(doc), nil
}

func (repo feeRepository) QueryFees(ctx context.Context, filter fee.QueryFilter, ordering ...core.DBOrdering) ([]fee.Fee, error) {
	query := bson.M{}
	if filter.StudentID != "" {
		oid, ok := parseID(filter.StudentID)
		if !ok {
			return []fee.Fee{}, nil
		}
		query["student"] = oid
	}
	if len(filter.Statuses) == 1 {
		query["status"] = filter.Statuses[0]
	} else if len(filter.Statuses) > 1 {
		query["status"] = bson.M{"$in": filter.Statuses}
	}

	opts := options.Find().SetSort(sortDoc(ordering))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	qctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	cursor, err := repo.coll.Find(qctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "querying fees")
	}
	defer cursor.Close(qctx)

	var docs []feeDoc
	if err = cursor.All(qctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding fees")
	}
	return repo.populate(ctx, docs...)
}

func (repo feeRepository) GetFee(ctx context.Context, id string) (fee.Fee, error) {
	oid, ok := parseID(id)
	if !ok {
		return fee.Fee{}, fee.ErrNotFound
	}

	qctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	var doc feeDoc
	if err := repo.coll.FindOne(qctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return fee.Fee{}, fee.ErrNotFound
		}
		return fee.Fee{}, errors.Wrap(err, "finding fee")
	}
	fees, err := repo.populate(ctx, doc)
	if err != nil {
		return fee.Fee{}, err
	}
	return fees[0], nil
}

// UpdateFee replaces the mutable fields of the stored fee in a single document update.
func (repo feeRepository) UpdateFee(ctx context.Context, f fee.Fee) (fee.Fee, error) {
	oid, ok := parseID(f.ID)
	if !ok {
		return fee.Fee{}, fee.ErrNotFound
	}

	doc := toFeeDoc(f)
	set := bson.M{
		"feeType":    doc.FeeType,
		"amount":     doc.Amount,
		"dueDate":    doc.DueDate,
		"status":     doc.Status,
		"paidAmount": doc.PaidAmount,
		"notes":      doc.Notes,
		"updatedAt":  doc.UpdatedAt,
	}
	if doc.PaidDate != nil {
		set["paidDate"] = *doc.PaidDate
	}

	qctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated feeDoc
	if err := repo.coll.FindOneAndUpdate(qctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return fee.Fee{}, fee.ErrNotFound
		}
		return fee.Fee{}, errors.Wrap(err, "updating fee")
	}
	fees, err := repo.populate(ctx, updated)
	if err != nil {
		return fee.Fee{}, err
	}
	return fees[0], nil
}

func (repo feeRepository) DeleteFee(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return fee.ErrNotFound
	}

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting fee")
	}
	if res.DeletedCount == 0 {
		return fee.ErrNotFound
	}
	return nil
}
