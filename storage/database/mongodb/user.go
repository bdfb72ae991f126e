package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/schoolhub/backend/core/user"
	"github.com/schoolhub/backend/storage/database"
)

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	PasswordHash []byte             `bson:"password"`
	Role         string             `bson:"role"`
	Phone        string             `bson:"phone,omitempty"`
	Address      string             `bson:"address,omitempty"`
	Avatar       string             `bson:"avatar,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

type userRepository struct {
	store
	coll *mongo.Collection
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *database.DB) *userRepository {
	return &userRepository{
		store: newStore(db.Timeout()),
		coll:  db.Collection(database.UserCollection),
	}
}

func toUserDoc(usr user.User) userDoc {
	doc := userDoc{
		Name:         usr.Name,
		Email:        usr.Email,
		PasswordHash: usr.PasswordHash,
		Role:         usr.Role,
		Phone:        usr.Phone,
		Address:      usr.Address,
		Avatar:       usr.Avatar,
		CreatedAt:    usr.CreatedAt.UTC(),
		UpdatedAt:    usr.UpdatedAt.UTC(),
	}
	if oid, ok := parseID(usr.ID); ok {
		doc.ID = oid
	}
	return doc
}

func fromUserDoc(doc userDoc) user.User {
	return user.User{
		ID:           hexID(doc.ID),
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Role:         doc.Role,
		Phone:        doc.Phone,
		Address:      doc.Address,
		Avatar:       doc.Avatar,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	doc := toUserDoc(usr)
	doc.ID = primitive.NewObjectID()
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return fromUserDoc(doc), nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter) (user.User, error) {
	var query bson.M
	switch {
	case filter.ID != "":
		oid, ok := parseID(filter.ID)
		if !ok {
			return user.User{}, user.ErrNotFound
		}
		query = bson.M{"_id": oid}
	case filter.Email != "":
		query = bson.M{"email": filter.Email}
	default:
		return user.User{}, user.ErrNotFound
	}

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	var doc userDoc
	if err := repo.coll.FindOne(ctx, query).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	return fromUserDoc(doc), nil
}

// usersByID returns the users matching `ids`, keyed by id.
func (repo userRepository) usersByID(ctx context.Context, ids []primitive.ObjectID) (map[string]user.User, error) {
	users := make(map[string]user.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	defer cursor.Close(ctx)

	var docs []userDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding users")
	}
	for _, doc := range docs {
		users[doc.ID.Hex()] = fromUserDoc(doc)
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	oid, ok := parseID(usr.ID)
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	doc := toUserDoc(usr)
	update := bson.M{"$set": bson.M{
		"name":      doc.Name,
		"email":     doc.Email,
		"password":  doc.PasswordHash,
		"role":      doc.Role,
		"phone":     doc.Phone,
		"address":   doc.Address,
		"avatar":    doc.Avatar,
		"updatedAt": doc.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated userDoc
	if err := repo.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return fromUserDoc(updated), nil
}

func (repo userRepository) DeleteUser(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return user.ErrNotFound
	}

	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if res.DeletedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	ctx, cancel := repo.withTimeout(ctx)
	defer cancel()

	n, err := repo.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrap(err, "checking email")
	}
	return n > 0, nil
}
