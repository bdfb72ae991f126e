package admin

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/schoolhub/backend/core"
	"github.com/schoolhub/backend/core/fee"
	"github.com/schoolhub/backend/core/teacher"
	"github.com/schoolhub/backend/core/user"
)

var ErrMissingAssignee = core.NewValidationError(errors.New("Missing assignee id"))

type Service struct {
	db          core.DB
	feeRepo     fee.Repository
	teacherRepo teacher.Repository
	usrSvc      *user.Service
	emailSvc    core.EmailService
	logger      core.Logger
	startedAt   time.Time
}

func NewService(
	db core.DB,
	feeRepo fee.Repository,
	teacherRepo teacher.Repository,
	usrSvc *user.Service,
	emailSvc core.EmailService,
	logger core.Logger,
	startedAt time.Time,
) *Service {
	return &Service{
		db:          db,
		feeRepo:     feeRepo,
		teacherRepo: teacherRepo,
		usrSvc:      usrSvc,
		emailSvc:    emailSvc,
		logger:      logger,
		startedAt:   startedAt,
	}
}

// TopTeacher returns the first stored teacher. No ranking is applied.
func (svc *Service) TopTeacher(ctx context.Context) (TopTeacher, error) {
	t, err := svc.teacherRepo.FirstTeacher(ctx)
	if err != nil {
		if core.IsNotFound(err) {
			return placeholderTopTeacher(), nil
		}
		return TopTeacher{}, errors.Wrap(err, "finding first teacher")
	}
	return newTopTeacher(t), nil
}

// PendingTasks projects up to 10 pending or overdue fees into tasks,
// padded with a single placeholder when fewer than 5 are found.
func (svc *Service) PendingTasks(ctx context.Context) ([]Task, error) {
	fees, err := svc.feeRepo.QueryFees(ctx, fee.QueryFilter{
		Statuses: []string{fee.StatusPending, fee.StatusOverdue},
		Limit:    maxPendingTasks,
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying pending fees")
	}

	tasks := make([]Task, 0, len(fees)+1)
	for _, f := range fees {
		tasks = append(tasks, newFeeTask(f))
	}
	if len(tasks) < minPendingTasks {
		tasks = append(tasks, placeholderTask())
	}
	return tasks, nil
}

func (svc *Service) SystemHealth(ctx context.Context) Health {
	connected := svc.db.Ping(ctx) == nil
	h := Health{
		Status:      "ok",
		DBConnected: connected,
		Uptime:      FormatUptime(time.Since(svc.startedAt)),
	}
	if !connected {
		h.Status = "degraded"
	}
	return h
}

// CompleteTask marks a fee task fully paid. The fee status is left as is.
func (svc *Service) CompleteTask(ctx context.Context, id string) (TaskResult, error) {
	f, err := svc.feeRepo.GetFee(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return TaskResult{Success: true, Message: "Task completed (placeholder)"}, nil
		}
		return TaskResult{}, errors.Wrap(err, "resolving fee task")
	}

	f.PaidAmount = f.Amount
	f.UpdatedAt = time.Now().UTC()
	if f, err = svc.feeRepo.UpdateFee(ctx, f); err != nil {
		return TaskResult{}, errors.Wrap(err, "completing fee task")
	}
	return TaskResult{
		Success: true,
		Task:    &TaskRef{ID: f.ID, Type: TaskTypeFee, Status: f.Status},
	}, nil
}

// AssignTask appends an assignment line to a fee task's notes and notifies the assignee.
func (svc *Service) AssignTask(ctx context.Context, id string, at AssignTask) (TaskResult, error) {
	assignee := core.CleanString(at.AssigneeID)
	if assignee == "" {
		return TaskResult{}, ErrMissingAssignee
	}

	f, err := svc.feeRepo.GetFee(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return TaskResult{Success: true, Message: "Task assigned (placeholder)"}, nil
		}
		return TaskResult{}, errors.Wrap(err, "resolving fee task")
	}

	f.Notes += "\nAssigned to " + assignee + " by admin"
	f.UpdatedAt = time.Now().UTC()
	if f, err = svc.feeRepo.UpdateFee(ctx, f); err != nil {
		return TaskResult{}, errors.Wrap(err, "assigning fee task")
	}

	svc.notifyAssignee(ctx, assignee, f)
	return TaskResult{
		Success: true,
		Task:    &TaskRef{ID: f.ID, AssignedTo: assignee},
	}, nil
}

func (svc *Service) FeatureTeacher(ctx context.Context, id string) (teacher.Teacher, error) {
	return svc.teacherRepo.SetFeatured(ctx, id, true)
}

// notifyAssignee e-mails the assignee when it resolves to a User. Failures are only logged.
func (svc *Service) notifyAssignee(ctx context.Context, assigneeID string, f fee.Fee) {
	if svc.emailSvc == nil {
		return
	}
	usr, err := svc.usrSvc.GetByID(ctx, assigneeID)
	if err != nil {
		if !core.IsNotFound(err) {
			svc.logger.Error("resolving task assignee", err)
		}
		return
	}
	if usr.Email == "" {
		return
	}

	task := newFeeTask(f)
	svc.emailSvc.SendMessages(&core.EmailMessage{
		To:       []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:  "Task assigned: " + task.Title,
		Template: assignmentTmpl,
		TemplateData: map[string]interface{}{
			"Name": usr.Name,
			"Task": task,
		},
	})
}
