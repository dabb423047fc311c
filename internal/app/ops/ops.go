// internal/app/ops/ops.go

// Package ops implements the mutation side of the system. Every state
// change a handler or job performs goes through a Service method, which
// validates, runs the writes (in a transaction where several documents
// move together), and leaves the read side to the live subscriptions.
package ops

import (
	"errors"

	adminstore "github.com/dalemusser/rolehub/internal/app/store/admins"
	rewardstore "github.com/dalemusser/rolehub/internal/app/store/rewards"
	rolestore "github.com/dalemusser/rolehub/internal/app/store/roles"
	submissionstore "github.com/dalemusser/rolehub/internal/app/store/submissions"
	taskstore "github.com/dalemusser/rolehub/internal/app/store/tasks"
	userstore "github.com/dalemusser/rolehub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrRoleNotFound       = errors.New("role not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNotAssignee        = errors.New("task belongs to another user")
	ErrTaskComplete       = errors.New("task is already complete")
	ErrAlreadyApproved    = errors.New("submission is already approved")
	ErrNotMember          = errors.New("user is not a member of this role")
	ErrEmptyTitle         = errors.New("task title must not be empty")
	ErrNegativePoints     = errors.New("points must not be negative")
	ErrEmptyName          = errors.New("name must not be empty")
	ErrNoAssignees        = errors.New("at least one assignee is required")
)

type Service struct {
	client *mongo.Client
	users  *userstore.Store
	roles  *rolestore.Store
	tasks  *taskstore.Store
	subs   *submissionstore.Store
	reward *rewardstore.Store
	admins *adminstore.Store
	log    *zap.Logger

	globalRoleID   primitive.ObjectID
	globalRoleName string
}

func NewService(client *mongo.Client, db *mongo.Database, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		users:  userstore.New(db),
		roles:  rolestore.New(db),
		tasks:  taskstore.New(db),
		subs:   submissionstore.New(db),
		reward: rewardstore.New(db),
		admins: adminstore.New(db),
		log:    logger,
	}
}

// Users exposes the user store for handlers that only read.
func (s *Service) Users() *userstore.Store { return s.users }

// Roles exposes the role store for handlers that only read.
func (s *Service) Roles() *rolestore.Store { return s.roles }

// Admins exposes the admin-set store (also the auth.AdminChecker).
func (s *Service) Admins() *adminstore.Store { return s.admins }

// Tasks exposes the task store for handlers that only read.
func (s *Service) Tasks() *taskstore.Store { return s.tasks }

// Submissions exposes the submission store for handlers that only read.
func (s *Service) Submissions() *submissionstore.Store { return s.subs }
