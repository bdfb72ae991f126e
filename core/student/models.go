package student

import (
	"time"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/user"
)

// Student is a profile wrapping exactly one User.
type Student struct {
	ID          string
	UserID      string
	ClassName   string
	Section     string
	AdmissionNo string
	CreatedAt   time.Time // UTC
	UpdatedAt   time.Time // UTC

	// populated from UserID on reads
	User *user.User
}

// DisplayName returns the owning User's name, or "N/A" when it is not populated.
func (s Student) DisplayName() string {
	if s.User != nil && s.User.Name != "" {
		return s.User.Name
	}
	return "N/A"
}

type View struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	ClassName   string `json:"className,omitempty"`
	Section     string `json:"section,omitempty"`
	AdmissionNo string `json:"admissionNo,omitempty"`
}

func NewView(s Student) View {
	v := View{
		ID:          s.ID,
		UserID:      s.UserID,
		Name:        s.DisplayName(),
		ClassName:   s.ClassName,
		Section:     s.Section,
		AdmissionNo: s.AdmissionNo,
	}
	if s.User != nil {
		v.Email = s.User.Email
		v.Phone = s.User.Phone
		v.Avatar = s.User.Avatar
	}
	return v
}

func NewViews(students []Student) []View {
	views := make([]View, 0, len(students))
	for _, s := range students {
		views = append(views, NewView(s))
	}
	return views
}

// NewStudent contains information needed to enrol a new Student.
type NewStudent struct {
	Name        string `json:"name" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	ClassName   string `json:"className"`
	Section     string `json:"section"`
	AdmissionNo string `json:"admissionNo"`
}

func (ns *NewStudent) Clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.ClassName = core.CleanString(ns.ClassName)
	ns.Section = core.CleanString(ns.Section)
	ns.AdmissionNo = core.CleanString(ns.AdmissionNo)
}

func (ns NewStudent) user() user.NewUser {
	return user.NewUser{
		Name:     ns.Name,
		Email:    ns.Email,
		Password: ns.Password,
		Phone:    ns.Phone,
		Address:  ns.Address,
		Role:     user.RoleStudent,
	}
}
