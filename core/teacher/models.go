package teacher

import (
	"time"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/user"
)

type Teacher struct {
	ID            string
	UserID        string
	StaffID       string
	Subjects      []string
	Qualification string
	Experience    int
	Department    string
	Featured      bool
	Rating        float64 // 0 when unrated
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// populated from UserID on reads
	User *user.User
}

type View struct {
	ID            string   `json:"id"`
	UserID        string   `json:"userId"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone,omitempty"`
	Address       string   `json:"address,omitempty"`
	Avatar        string   `json:"avatar,omitempty"`
	StaffID       string   `json:"staffId"`
	Subjects      []string `json:"subjects"`
	Qualification string   `json:"qualification,omitempty"`
	Experience    int      `json:"experience"`
	Department    string   `json:"department,omitempty"`
	Featured      bool     `json:"featured"`
}

func NewView(t Teacher) View {
	v := View{
		ID:            t.ID,
		UserID:        t.UserID,
		StaffID:       t.StaffID,
		Subjects:      t.Subjects,
		Qualification: t.Qualification,
		Experience:    t.Experience,
		Department:    t.Department,
		Featured:      t.Featured,
	}
	if v.Subjects == nil {
		v.Subjects = []string{}
	}
	if t.User != nil {
		v.Name = t.User.Name
		v.Email = t.User.Email
		v.Phone = t.User.Phone
		v.Address = t.User.Address
		v.Avatar = t.User.Avatar
	}
	return v
}

func NewViews(teachers []Teacher) []View {
	views := make([]View, 0, len(teachers))
	for _, t := range teachers {
		views = append(views, NewView(t))
	}
	return views
}

// NewTeacher contains information needed to create a Teacher and its User.
type NewTeacher struct {
	Name          string   `json:"name" validate:"required,min=2"`
	Email         string   `json:"email" validate:"required,email"`
	Password      string   `json:"password" validate:"required,min=6"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	StaffID       string   `json:"staffId" validate:"required,notblank"`
	Subjects      []string `json:"subjects"`
	Qualification string   `json:"qualification"`
	Experience    int      `json:"experience" validate:"gte=0"`
	Department    string   `json:"department"`
}

func (nt *NewTeacher) Clean() {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.StaffID = core.CleanString(nt.StaffID)
	nt.Qualification = core.CleanString(nt.Qualification)
	nt.Department = core.CleanString(nt.Department)
	nt.Subjects = cleanSubjects(nt.Subjects)
}

func (nt NewTeacher) user() user.NewUser {
	return user.NewUser{
		Name:     nt.Name,
		Email:    nt.Email,
		Password: nt.Password,
		Phone:    nt.Phone,
		Address:  nt.Address,
		Role:     user.RoleTeacher,
	}
}

// UpdateTeacher defines the mutable profile fields. Omitted (nil) fields are left unchanged.
type UpdateTeacher struct {
	Subjects      *[]string `json:"subjects"`
	Qualification *string   `json:"qualification"`
	Experience    *int      `json:"experience" validate:"omitempty,gte=0"`
	Department    *string   `json:"department"`
}

func (ut *UpdateTeacher) Clean() {
	core.CleanStringPtr(ut.Qualification)
	core.CleanStringPtr(ut.Department)
	if ut.Subjects != nil {
		subjects := cleanSubjects(*ut.Subjects)
		ut.Subjects = &subjects
	}
}

func (ut UpdateTeacher) Apply(t Teacher) Teacher {
	if ut.Subjects != nil {
		t.Subjects = *ut.Subjects
	}
	if ut.Qualification != nil {
		t.Qualification = *ut.Qualification
	}
	if ut.Experience != nil {
		t.Experience = *ut.Experience
	}
	if ut.Department != nil {
		t.Department = *ut.Department
	}
	return t
}

func cleanSubjects(subjects []string) []string {
	cleaned := make([]string, 0, len(subjects))
	for _, s := range subjects {
		if s = core.CleanString(s); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return cleaned
}
