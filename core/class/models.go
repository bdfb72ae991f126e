package class

import (
	"time"

	"github.com/schoolhub/backend/core"
)

type Class struct {
	ID        string
	Name      string
	Level     string
	TeacherID string // optional
	CreatedAt time.Time
	UpdatedAt time.Time
}

type View struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Level     string `json:"level,omitempty"`
	TeacherID string `json:"teacherId,omitempty"`
}

func NewView(c Class) View {
	return View{ID: c.ID, Name: c.Name, Level: c.Level, TeacherID: c.TeacherID}
}

func NewViews(classes []Class) []View {
	views := make([]View, 0, len(classes))
	for _, c := range classes {
		views = append(views, NewView(c))
	}
	return views
}

type NewClass struct {
	Name      string `json:"name" validate:"required,notblank"`
	Level     string `json:"level"`
	TeacherID string `json:"teacherId"`
}

func (nc *NewClass) Clean() {
	nc.Name = core.CleanString(nc.Name)
	nc.Level = core.CleanString(nc.Level)
	nc.TeacherID = core.CleanString(nc.TeacherID)
}
