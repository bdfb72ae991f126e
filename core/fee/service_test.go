package fee_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/fee"
	"github.com/schoolhub/backend/core/student"
	"github.com/schoolhub/backend/core/user"
	"github.com/schoolhub/backend/storage/database/inmem"
	"github.com/schoolhub/backend/tests"
)

type fixture struct {
	svc     *fee.Service
	feeRepo fee.Repository
	student student.Student
}

func setup(t *testing.T) fixture {
	db := inmemdb.Open()
	validate, _ := testutil.NewValidator()
	usrRepo := inmemdb.NewUserRepository(db)
	stdRepo := inmemdb.NewStudentRepository(db)
	feeRepo := inmemdb.NewFeeRepository(db)

	usr := testutil.CreateUser(t, usrRepo, "Kofi Boateng", "kofi@school.edu", "", user.RoleStudent)
	return fixture{
		svc:     fee.NewService(feeRepo, stdRepo, validate),
		feeRepo: feeRepo,
		student: testutil.CreateStudent(t, stdRepo, usr, "JHS 2"),
	}
}

func date(t *testing.T, s string) *core.Date {
	d, err := core.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func fPtr(f float64) *float64 { return &f }
func sPtr(s string) *string   { return &s }

func TestService_Create(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	f, err := fx.svc.Create(ctx, fee.NewFee{
		Student: fx.student.ID,
		FeeType: " Tuition ",
		Amount:  1000,
		DueDate: date(t, "2025-12-01"),
		Notes:   "term 1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, fee.StatusPending, f.Status)
	assert.Equal(t, 0.0, f.PaidAmount)
	assert.Equal(t, fee.TypeTuition, f.FeeType)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), f.DueDate)
	require.NotNil(t, f.Student)
	assert.Equal(t, "Kofi Boateng", f.Student.Name)

	stored, err := fx.svc.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.ID, stored.ID)
	assert.Equal(t, "JHS 2", stored.Student.ClassName)
}

func TestService_Create_invalid(t *testing.T) {
	fx := setup(t)

	tests := []struct {
		name    string
		data    fee.NewFee
		wantTag string
	}{
		{name: "missing student", data: fee.NewFee{FeeType: fee.TypeBooks, Amount: 10, DueDate: date(t, "2025-01-01")}, wantTag: "required"},
		{name: "unknown type", data: fee.NewFee{Student: fx.student.ID, FeeType: "lunch", Amount: 10, DueDate: date(t, "2025-01-01")}, wantTag: "fee_type"},
		{name: "zero amount", data: fee.NewFee{Student: fx.student.ID, FeeType: fee.TypeBooks, DueDate: date(t, "2025-01-01")}, wantTag: "gt"},
		{name: "negative amount", data: fee.NewFee{Student: fx.student.ID, FeeType: fee.TypeBooks, Amount: -5, DueDate: date(t, "2025-01-01")}, wantTag: "gt"},
		{name: "missing due date", data: fee.NewFee{Student: fx.student.ID, FeeType: fee.TypeBooks, Amount: 10}, wantTag: "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.svc.Create(context.Background(), tt.data)
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs), "%v", err)
			assert.Equal(t, tt.wantTag, vErrs[0].Tag())
		})
	}
}

func TestService_Create_unknownStudent(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	for _, id := range []string{primitive.NewObjectID().Hex(), "not-an-id"} {
		_, err := fx.svc.Create(ctx, fee.NewFee{Student: id, FeeType: fee.TypeTuition, Amount: 10, DueDate: date(t, "2025-01-01")})
		assert.True(t, core.IsNotFound(err), "student %q", id)
	}

	fees, err := fx.svc.Query(ctx, fee.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, fees)
}

func TestService_Query(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	d1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	orphanStudent := primitive.NewObjectID().Hex()

	early := testutil.CreateFee(t, fx.feeRepo, fee.Fee{StudentID: fx.student.ID, FeeType: fee.TypeBooks, Amount: 10, DueDate: d1, Status: fee.StatusPending})
	late := testutil.CreateFee(t, fx.feeRepo, fee.Fee{StudentID: fx.student.ID, FeeType: fee.TypeHostel, Amount: 20, DueDate: d2, Status: fee.StatusPaid})
	tie := testutil.CreateFee(t, fx.feeRepo, fee.Fee{StudentID: orphanStudent, FeeType: fee.TypeOther, Amount: 30, DueDate: d2, Status: fee.StatusPending})

	ids := func(fees []fee.Fee) []string {
		out := make([]string, 0, len(fees))
		for _, f := range fees {
			out = append(out, f.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter fee.QueryFilter
		want   []string
	}{
		{name: "all, most recently due first", want: []string{late.ID, tie.ID, early.ID}},
		{name: "by student", filter: fee.QueryFilter{StudentID: fx.student.ID}, want: []string{late.ID, early.ID}},
		{name: "by status", filter: fee.QueryFilter{Statuses: []string{fee.StatusPending}}, want: []string{tie.ID, early.ID}},
		{name: "by student and status", filter: fee.QueryFilter{StudentID: fx.student.ID, Statuses: []string{fee.StatusPaid}}, want: []string{late.ID}},
		{name: "no match", filter: fee.QueryFilter{Statuses: []string{fee.StatusOverdue}}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fees, err := fx.svc.Query(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(fees))
		})
	}

	// orphans show N/A
	fees, err := fx.svc.Query(ctx, fee.QueryFilter{StudentID: orphanStudent})
	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.Equal(t, "N/A", fee.NewView(fees[0]).StudentName)
}

func TestService_Update(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	orig, err := fx.svc.Create(ctx, fee.NewFee{
		Student: fx.student.ID, FeeType: fee.TypeTransport, Amount: 400, DueDate: date(t, "2025-03-01"), Notes: "bus",
	})
	require.NoError(t, err)

	t.Run("partial merge", func(t *testing.T) {
		updated, err := fx.svc.Update(ctx, orig.ID, fee.UpdateFee{PaidAmount: fPtr(150), Status: sPtr("partial")})
		require.NoError(t, err)
		assert.Equal(t, 150.0, updated.PaidAmount)
		assert.Equal(t, fee.StatusPartial, updated.Status)

		// untouched fields
		assert.Equal(t, orig.FeeType, updated.FeeType)
		assert.Equal(t, orig.Amount, updated.Amount)
		assert.Equal(t, orig.DueDate, updated.DueDate)
		assert.Equal(t, orig.Notes, updated.Notes)
		assert.Equal(t, orig.StudentID, updated.StudentID)
		assert.Nil(t, updated.PaidDate)
	})

	t.Run("status is not recomputed", func(t *testing.T) {
		updated, err := fx.svc.Update(ctx, orig.ID, fee.UpdateFee{Status: sPtr(fee.StatusPaid)})
		require.NoError(t, err)
		assert.Equal(t, fee.StatusPaid, updated.Status)
		assert.Equal(t, 150.0, updated.PaidAmount)
	})

	t.Run("invalid fields", func(t *testing.T) {
		tests := []struct {
			data    fee.UpdateFee
			wantTag string
		}{
			{data: fee.UpdateFee{PaidAmount: fPtr(-1)}, wantTag: "paidamount"},
			{data: fee.UpdateFee{Amount: fPtr(0)}, wantTag: "positiveamount"},
			{data: fee.UpdateFee{Status: sPtr("cancelled")}, wantTag: "fee_status"},
			{data: fee.UpdateFee{FeeType: sPtr("lunch")}, wantTag: "fee_type"},
		}
		for _, tt := range tests {
			_, err := fx.svc.Update(ctx, orig.ID, tt.data)
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs), "%v", err)
			assert.Equal(t, tt.wantTag, vErrs[0].Tag())
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := fx.svc.Update(ctx, primitive.NewObjectID().Hex(), fee.UpdateFee{Notes: sPtr("x")})
		assert.Equal(t, fee.ErrNotFound, err)
	})
}

func TestService_Delete(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	f := testutil.CreateFee(t, fx.feeRepo, fee.Fee{StudentID: fx.student.ID, FeeType: fee.TypeBooks, Amount: 10, Status: fee.StatusPending})

	require.NoError(t, fx.svc.Delete(ctx, f.ID))
	assert.Equal(t, fee.ErrNotFound, fx.svc.Delete(ctx, f.ID))

	_, err := fx.svc.Get(ctx, f.ID)
	assert.Equal(t, fee.ErrNotFound, err)
}

func TestService_SummaryForStudent(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	for _, f := range []fee.Fee{
		{FeeType: fee.TypeTuition, Amount: 1000, PaidAmount: 0, Status: fee.StatusPending},
		{FeeType: fee.TypeBooks, Amount: 200, PaidAmount: 50, Status: fee.StatusPending},
		{FeeType: fee.TypeHostel, Amount: 300, PaidAmount: 100, Status: fee.StatusOverdue},
		{FeeType: fee.TypeUniform, Amount: 80, PaidAmount: 80, Status: fee.StatusPaid},
		{FeeType: fee.TypeOther, Amount: 120, PaidAmount: 20, Status: fee.StatusPartial},
	} {
		f.StudentID = fx.student.ID
		testutil.CreateFee(t, fx.feeRepo, f)
	}
	// another student's fee is ignored
	testutil.CreateFee(t, fx.feeRepo, fee.Fee{StudentID: primitive.NewObjectID().Hex(), Amount: 999, Status: fee.StatusPending})

	summary, err := fx.svc.SummaryForStudent(ctx, fx.student.ID)
	require.NoError(t, err)
	assert.Equal(t, fee.Summary{Total: 1700, Paid: 250, Pending: 1150, Overdue: 200}, summary)

	empty, err := fx.svc.SummaryForStudent(ctx, primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Equal(t, fee.Summary{}, empty)
}

func TestScenario_CreatePaySummarize(t *testing.T) {
	fx := setup(t)
	ctx := context.Background()

	f, err := fx.svc.Create(ctx, fee.NewFee{Student: fx.student.ID, FeeType: "tuition", Amount: 1000, DueDate: date(t, "2025-12-01")})
	require.NoError(t, err)
	assert.Equal(t, fee.StatusPending, f.Status)
	assert.Equal(t, 0.0, f.PaidAmount)

	_, err = fx.svc.Update(ctx, f.ID, fee.UpdateFee{PaidAmount: fPtr(1000), Status: sPtr("paid")})
	require.NoError(t, err)

	summary, err := fx.svc.SummaryForStudent(ctx, fx.student.ID)
	require.NoError(t, err)
	assert.Equal(t, fee.Summary{Total: 1000, Paid: 1000, Pending: 0, Overdue: 0}, summary)
}
