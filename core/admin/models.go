package admin

import (
	"fmt"
	"strconv"
	"time"

	"github.com/schoolhub/backend/core/fee"
	"github.com/schoolhub/backend/core/teacher"
)

const (
	TaskTypeFee      = "fee"
	TaskTypeApproval = "approval"

	defaultRating = 4.6

	maxPendingTasks = 10
	minPendingTasks = 5
)

type TopTeacher struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    *string  `json:"phone"`
	Subject  *string  `json:"subject"`
	Classes  []string `json:"classes"`
	Avatar   *string  `json:"avatar,omitempty"`
	Rating   float64  `json:"rating,omitempty"`
	Featured bool     `json:"featured"`
}

// placeholderTopTeacher is shown when no teacher exists yet.
func placeholderTopTeacher() TopTeacher {
	subject := "Mathematics"
	return TopTeacher{
		Name:    "Ms. Ama Mensah",
		Email:   "ama.mensah@school.edu",
		Subject: &subject,
		Classes: []string{},
	}
}

func newTopTeacher(t teacher.Teacher) TopTeacher {
	tt := TopTeacher{
		ID:       t.ID,
		Name:     "Teacher",
		Classes:  []string{},
		Rating:   t.Rating,
		Featured: t.Featured,
	}
	if tt.Rating == 0 {
		tt.Rating = defaultRating
	}
	if len(t.Subjects) > 0 && t.Subjects[0] != "" {
		tt.Subject = &t.Subjects[0]
	}
	if usr := t.User; usr != nil {
		tt.Email = usr.Email
		if usr.Name != "" {
			tt.Name = usr.Name
		} else if usr.Email != "" {
			tt.Name = usr.Email
		}
		tt.Phone = nonEmpty(usr.Phone)
		tt.Avatar = nonEmpty(usr.Avatar)
	}
	return tt
}

// Task is a dashboard projection of a pending fee or a static placeholder.
type Task struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Link      string     `json:"link"`
	Type      string     `json:"type"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func newFeeTask(f fee.Fee) Task {
	name, className := "Student", ""
	if f.Student != nil {
		if f.Student.Name != "" {
			name = f.Student.Name
		}
		className = f.Student.ClassName
	}
	createdAt := f.CreatedAt
	return Task{
		ID:        f.ID,
		Title:     "Pending fee: " + f.FeeType,
		Summary:   fmt.Sprintf("%s · %s · ₵%s", name, className, formatAmount(f.Amount)),
		Link:      "/fees/" + f.ID,
		Type:      TaskTypeFee,
		CreatedAt: &createdAt,
	}
}

func placeholderTask() Task {
	return Task{
		Title:   "Approve Announcement",
		Summary: "Pending site announcement approval",
		Link:    "/announcements",
		Type:    TaskTypeApproval,
	}
}

type Health struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"dbConnected"`
	Uptime      string `json:"uptime"`
}

// FormatUptime renders `d` as "{hours}h {minutes}m".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

type TaskRef struct {
	ID         string `json:"id"`
	Type       string `json:"type,omitempty"`
	Status     string `json:"status,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`
}

// TaskResult reports a task completion or assignment.
// Task is nil when the id did not resolve to a fee.
type TaskResult struct {
	Success bool     `json:"success"`
	Task    *TaskRef `json:"task,omitempty"`
	Message string   `json:"message,omitempty"`
}

type AssignTask struct {
	AssigneeID string `json:"assigneeId"`
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
