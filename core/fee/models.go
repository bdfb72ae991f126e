package fee

import (
	"time"

	"github.com/schoolhub/backend/core"
)

// Fee types
const (
	TypeTuition    = "tuition"
	TypeTransport  = "transport"
	TypeUniform    = "uniform"
	TypeBooks      = "books"
	TypeActivities = "activities"
	TypeHostel     = "hostel"
	TypeOther      = "other"
)

// Fee statuses
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
	StatusPartial = "partial"
)

var (
	AllTypes    = []string{TypeTuition, TypeTransport, TypeUniform, TypeBooks, TypeActivities, TypeHostel, TypeOther}
	AllStatuses = []string{StatusPending, StatusPaid, StatusOverdue, StatusPartial}
)

// Fee is a billing obligation owed by a Student.
// Status and PaidAmount are set independently; neither is derived from the other.
type Fee struct {
	ID         string
	StudentID  string
	FeeType    string
	Amount     float64
	DueDate    time.Time
	Status     string
	PaidAmount float64
	PaidDate   *time.Time
	Notes      string
	CreatedAt  time.Time // UTC
	UpdatedAt  time.Time // UTC

	// populated from StudentID on reads
	Student *StudentInfo
}

// Outstanding returns what is left to pay on the fee.
func (f Fee) Outstanding() float64 {
	return f.Amount - f.PaidAmount
}

// StudentInfo is the denormalized part of the owning Student shown alongside a Fee.
type StudentInfo struct {
	ID        string
	Name      string
	ClassName string
}

type View struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"studentId"`
	StudentName string     `json:"studentName"`
	ClassName   string     `json:"className,omitempty"`
	FeeType     string     `json:"feeType"`
	Amount      float64    `json:"amount"`
	DueDate     time.Time  `json:"dueDate"`
	Status      string     `json:"status"`
	PaidAmount  float64    `json:"paidAmount"`
	PaidDate    *time.Time `json:"paidDate,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func NewView(f Fee) View {
	v := View{
		ID:          f.ID,
		StudentID:   f.StudentID,
		StudentName: "N/A",
		FeeType:     f.FeeType,
		Amount:      f.Amount,
		DueDate:     f.DueDate,
		Status:      f.Status,
		PaidAmount:  f.PaidAmount,
		PaidDate:    f.PaidDate,
		Notes:       f.Notes,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.Student != nil {
		if f.Student.Name != "" {
			v.StudentName = f.Student.Name
		}
		v.ClassName = f.Student.ClassName
	}
	return v
}

func NewViews(fees []Fee) []View {
	views := make([]View, 0, len(fees))
	for _, f := range fees {
		views = append(views, NewView(f))
	}
	return views
}

// Summary aggregates the fees of one Student.
type Summary struct {
	Total   float64 `json:"total"`
	Paid    float64 `json:"paid"`
	Pending float64 `json:"pending"`
	Overdue float64 `json:"overdue"`
}

// Summarize folds `fees` into a Summary.
// Only fees whose status is exactly pending (or overdue) count towards that bucket.
func Summarize(fees []Fee) Summary {
	var s Summary
	for _, f := range fees {
		s.Total += f.Amount
		s.Paid += f.PaidAmount
		switch f.Status {
		case StatusPending:
			s.Pending += f.Outstanding()
		case StatusOverdue:
			s.Overdue += f.Outstanding()
		}
	}
	return s
}

// NewFee contains information needed to bill a Student.
type NewFee struct {
	Student string     `json:"student" validate:"required"`
	FeeType string     `json:"feeType" validate:"required,fee_type"`
	Amount  float64    `json:"amount" validate:"gt=0"`
	DueDate *core.Date `json:"dueDate" validate:"required"`
	Notes   string     `json:"notes"`
}

func (nf *NewFee) Clean() {
	nf.Student = core.CleanString(nf.Student)
	nf.FeeType = core.CleanString(nf.FeeType, true /* lower */)
	nf.Notes = core.CleanString(nf.Notes)
}

// UpdateFee is a partial update. Omitted (nil) fields are left unchanged.
type UpdateFee struct {
	FeeType    *string    `json:"feeType"`
	Amount     *float64   `json:"amount"`
	DueDate    *core.Date `json:"dueDate"`
	PaidAmount *float64   `json:"paidAmount"`
	PaidDate   *core.Date `json:"paidDate"`
	Status     *string    `json:"status"`
	Notes      *string    `json:"notes"`
}

func (uf *UpdateFee) Clean() {
	core.CleanStringPtr(uf.FeeType, true /* lower */)
	core.CleanStringPtr(uf.Status, true /* lower */)
	core.CleanStringPtr(uf.Notes)
}

func (uf UpdateFee) Apply(f Fee) Fee {
	if uf.FeeType != nil {
		f.FeeType = *uf.FeeType
	}
	if uf.Amount != nil {
		f.Amount = *uf.Amount
	}
	if uf.DueDate != nil {
		f.DueDate = uf.DueDate.Time
	}
	if uf.PaidAmount != nil {
		f.PaidAmount = *uf.PaidAmount
	}
	if uf.PaidDate != nil {
		paid := uf.PaidDate.Time
		f.PaidDate = &paid
	}
	if uf.Status != nil {
		f.Status = *uf.Status
	}
	if uf.Notes != nil {
		f.Notes = *uf.Notes
	}
	return f
}

type QueryFilter struct {
	StudentID string
	Statuses  []string
	Limit     int // 0: no limit
}
