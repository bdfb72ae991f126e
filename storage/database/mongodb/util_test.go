package mongorepos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/fee"
	"github.com/schoolhub/backend/core/teacher"
	"github.com/schoolhub/backend/core/user"
)

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, ok := parseID(oid.Hex())
	assert.True(t, ok)
	assert.Equal(t, oid, got)

	_, ok = parseID("not-an-object-id")
	assert.False(t, ok)

	assert.Equal(t, []primitive.ObjectID{oid}, parseIDs([]string{"", oid.Hex(), "bad"}))
}

func TestSortDoc(t *testing.T) {
	got := sortDoc([]core.DBOrdering{{Field: "dueDate"}, {Field: "amount", Ascending: true}})
	want := bson.D{{Key: "dueDate", Value: -1}, {Key: "amount", Value: 1}, {Key: "_id", Value: 1}}
	assert.Equal(t, want, got)

	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, sortDoc(nil))
}

func TestUserDocMapping(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	usr := user.User{
		ID:           primitive.NewObjectID().Hex(),
		Name:         "Ama",
		Email:        "ama@school.edu",
		PasswordHash: []byte("hash"),
		Role:         user.RoleTeacher,
		Phone:        "+233",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	assert.Equal(t, usr, fromUserDoc(toUserDoc(usr)))
}

func TestTeacherDocMapping(t *testing.T) {
	tch := teacher.Teacher{
		ID:       primitive.NewObjectID().Hex(),
		UserID:   primitive.NewObjectID().Hex(),
		StaffID:  "T-001",
		Featured: true,
		Rating:   4.9,
	}
	doc := toTeacherDoc(tch)
	assert.Equal(t, []string{}, doc.Subjects)

	got := fromTeacherDoc(doc)
	assert.Equal(t, tch.ID, got.ID)
	assert.Equal(t, tch.UserID, got.UserID)
	assert.True(t, got.Featured)
	assert.Equal(t, 4.9, got.Rating)
}

func TestFeeDocMapping(t *testing.T) {
	due := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	paid := due.Add(-24 * time.Hour)
	f := fee.Fee{
		ID:         primitive.NewObjectID().Hex(),
		StudentID:  primitive.NewObjectID().Hex(),
		FeeType:    fee.TypeTuition,
		Amount:     1000,
		DueDate:    due,
		Status:     fee.StatusPartial,
		PaidAmount: 250,
		PaidDate:   &paid,
		Notes:      "first instalment",
		CreatedAt:  due,
		UpdatedAt:  due,
	}
	assert.Equal(t, f, fromFeeDoc(toFeeDoc(f)))

	// invalid references are dropped
	f.StudentID = "bogus"
	assert.True(t, toFeeDoc(f).Student.IsZero())
}
