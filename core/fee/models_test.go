package fee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name string
		fees []Fee
		want Summary
	}{
		{name: "empty", want: Summary{}},
		{
			name: "partial fees only count as paid",
			fees: []Fee{{Amount: 100, PaidAmount: 40, Status: StatusPartial}},
			want: Summary{Total: 100, Paid: 40},
		},
		{
			name: "paid status with outstanding amount",
			fees: []Fee{{Amount: 100, PaidAmount: 10, Status: StatusPaid}},
			want: Summary{Total: 100, Paid: 10},
		},
		{
			name: "pending and overdue buckets",
			fees: []Fee{
				{Amount: 100, PaidAmount: 10, Status: StatusPending},
				{Amount: 50, Status: StatusOverdue},
				{Amount: 25, PaidAmount: 5, Status: StatusOverdue},
			},
			want: Summary{Total: 175, Paid: 15, Pending: 90, Overdue: 70},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.fees))
		})
	}
}

func TestNewView(t *testing.T) {
	v := NewView(Fee{ID: "f1", StudentID: "s1"})
	assert.Equal(t, "N/A", v.StudentName)

	v = NewView(Fee{ID: "f1", StudentID: "s1", Student: &StudentInfo{ID: "s1", Name: "Esi", ClassName: "P6"}})
	assert.Equal(t, "Esi", v.StudentName)
	assert.Equal(t, "P6", v.ClassName)
}
