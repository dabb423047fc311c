// internal/app/ops/tasks.go
package ops

import (
	"context"
	"time"

	"github.com/dalemusser/rolehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/rolehub/internal/app/system/txn"
	"github.com/dalemusser/rolehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CreateTasks assigns the same task to each listed user, one document
// per assignee with the assignee's name denormalized in. Unknown ids are
// skipped; the count of tasks actually created is returned.
func (s *Service) CreateTasks(ctx context.Context, roleID primitive.ObjectID, assignees []primitive.ObjectID, title, description string, points int64) (int, error) {
	title = htmlsanitize.CleanText(title)
	description = htmlsanitize.CleanText(description)
	if title == "" {
		return 0, ErrEmptyTitle
	}
	if points < 0 {
		return 0, ErrNegativePoints
	}
	if len(assignees) == 0 {
		return 0, ErrNoAssignees
	}
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, ErrRoleNotFound
		}
		return 0, err
	}

	users, err := s.users.GetByIDs(ctx, assignees)
	if err != nil {
		return 0, err
	}

	created := 0
	now := time.Now().UTC()
	for _, u := range users {
		_, err := s.tasks.Create(ctx, models.Task{
			AssignedTo:   u.ID,
			AssignedName: u.Name,
			Title:        title,
			Description:  description,
			Points:       points,
			RoleID:       roleID,
			CreatedOn:    now,
		})
		if err != nil {
			return created, err
		}
		created++
	}
	s.log.Info("tasks created",
		zap.String("role_id", roleID.Hex()),
		zap.String("title", title),
		zap.Int("count", created))
	return created, nil
}

// SubmitTask files the assignee's claim that the task is done. The task
// stays open until an admin approves; submitting twice fails on the
// shared id.
func (s *Service) SubmitTask(ctx context.Context, taskID, userID primitive.ObjectID) (models.Submission, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Submission{}, ErrTaskNotFound
		}
		return models.Submission{}, err
	}
	if t.AssignedTo != userID {
		return models.Submission{}, ErrNotAssignee
	}
	if t.Complete {
		return models.Submission{}, ErrTaskComplete
	}
	return s.subs.CreateFromTask(ctx, t)
}

// ApproveSubmission closes the loop: task and submission flip complete
// and the points land on the assignee's totals, both global and for the
// role, in one field-level increment each.
func (s *Service) ApproveSubmission(ctx context.Context, submissionID primitive.ObjectID) error {
	sub, err := s.subs.GetByID(ctx, submissionID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrSubmissionNotFound
		}
		return err
	}
	if sub.Complete {
		return ErrAlreadyApproved
	}

	err = txn.WithTransaction(ctx, s.client, s.log, func(ctx context.Context) error {
		if err := s.tasks.MarkComplete(ctx, sub.ID); err != nil {
			return err
		}
		if err := s.subs.MarkComplete(ctx, sub.ID); err != nil {
			return err
		}
		return s.users.Award(ctx, sub.AssignedTo, sub.RoleID, sub.Points)
	})
	if err != nil {
		return err
	}
	s.log.Info("submission approved",
		zap.String("submission_id", sub.ID.Hex()),
		zap.String("user_id", sub.AssignedTo.Hex()),
		zap.Int64("points", sub.Points))
	return nil
}

// DeclineSubmission deletes the submission and nothing else: the task
// stays open and the user may submit again.
func (s *Service) DeclineSubmission(ctx context.Context, submissionID primitive.ObjectID) error {
	n, err := s.subs.Delete(ctx, submissionID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}
