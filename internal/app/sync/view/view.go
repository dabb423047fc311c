// internal/app/sync/view/view.go

// Package view holds the live state of one role page: the roster,
// leaderboard, rewards, the viewer's tasks, and (for admins) open
// submissions and join requests. A Controller keeps it current from
// document-store pushes; readers take versioned snapshots and can wait
// for the next change.
package view

import (
	"context"
	"sync"

	"github.com/dalemusser/rolehub/internal/app/sync/reconcile"
	"github.com/dalemusser/rolehub/internal/app/sync/session"
	"github.com/dalemusser/rolehub/internal/domain/models"
)

// RoleView is the reconciled state. All mutation goes through the
// setters, which bump the version and wake waiters.
type RoleView struct {
	mu      sync.RWMutex
	version uint64
	changed chan struct{}

	me     session.Handle
	screen Screen

	roleExists  bool
	role        models.Role
	meUser      models.User
	roster      []reconcile.Entry
	admins      models.AdminSet
	adminsKnown bool
	rewards     models.Reward
	tasks       []models.Task
	submissions []models.Submission
	pending     []reconcile.Entry
}

func newRoleView(me session.Handle, screen Screen) *RoleView {
	return &RoleView{
		me:      me,
		screen:  screen,
		changed: make(chan struct{}),
	}
}

// Snapshot is the JSON shape pushed to clients. It always carries the
// full view; fields outside the current screen are simply empty.
type Snapshot struct {
	Version    uint64 `json:"version"`
	Screen     string `json:"screen"`
	RoleExists bool   `json:"role_exists"`
	RoleID     string `json:"role_id,omitempty"`
	RoleName   string `json:"role_name,omitempty"`

	IsMember bool              `json:"is_member"`
	IsAdmin  bool              `json:"is_admin"`
	Me       *reconcile.Entry  `json:"me,omitempty"`

	Leaderboard []reconcile.Entry   `json:"leaderboard"`
	Rewards     *models.Reward      `json:"rewards,omitempty"`
	Tasks       []models.Task       `json:"tasks"`
	TaskCount   int                 `json:"task_count"`
	Submissions []models.Submission `json:"submissions"`
	Pending     []reconcile.Entry   `json:"pending"`
}

func (v *RoleView) bump() {
	v.version++
	close(v.changed)
	v.changed = make(chan struct{})
}

// Version returns the current state version.
func (v *RoleView) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// Snapshot returns a copy of the current state.
func (v *RoleView) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snapshotLocked()
}

func (v *RoleView) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version:    v.version,
		Screen:     v.screen.String(),
		RoleExists: v.roleExists,
		IsAdmin:    v.isAdminLocked(),
	}
	if v.roleExists {
		snap.RoleID = v.role.ID.Hex()
		snap.RoleName = v.role.Name
		snap.IsMember = v.role.HasMember(v.me.UserID)
	}

	snap.Leaderboard = reconcile.Leaderboard(v.roster, v.admins)
	for i := range v.roster {
		if v.roster[i].UserID == v.me.UserID {
			e := v.roster[i]
			snap.Me = &e
			break
		}
	}

	r := v.rewards
	if v.roleExists {
		snap.Rewards = &r
	}
	snap.Tasks = append([]models.Task(nil), v.tasks...)
	snap.TaskCount = reconcile.IncompleteCount(v.tasks)
	snap.Submissions = append([]models.Submission(nil), v.submissions...)
	snap.Pending = append([]reconcile.Entry(nil), v.pending...)
	return snap
}

func (v *RoleView) isAdminLocked() bool {
	// Until the first admin-set push arrives, trust the session. After
	// that the pushed set is authoritative, empty or not: an emptied set
	// means the viewer's rights were revoked.
	if !v.adminsKnown {
		return v.me.Admin
	}
	return v.admins.Contains(v.me.UserID)
}

// Wait blocks until the version exceeds after, then returns a snapshot.
func (v *RoleView) Wait(ctx context.Context, after uint64) (Snapshot, error) {
	for {
		v.mu.RLock()
		if v.version > after {
			snap := v.snapshotLocked()
			v.mu.RUnlock()
			return snap, nil
		}
		ch := v.changed
		v.mu.RUnlock()

		select {
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		case <-ch:
		}
	}
}

// Screen returns the active screen.
func (v *RoleView) Screen() Screen {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.screen
}

func (v *RoleView) setScreen(s Screen) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.screen == s {
		return
	}
	v.screen = s
	v.bump()
}

// setRole applies a role document push. A vanished role clears all
// derived state: the page degrades to "role not found" rather than
// showing stale data.
func (v *RoleView) setRole(role models.Role, exists bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.roleExists = exists
	if !exists {
		v.role = models.Role{}
		v.roster = nil
		v.rewards = models.Reward{}
		v.tasks = nil
		v.submissions = nil
		v.pending = nil
		v.bump()
		return
	}
	v.role = role
	v.roster = reconcile.Prune(v.roster, role.Members)
	v.bump()
}

func (v *RoleView) setRoster(users []models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.roster = reconcile.Roster(v.roster, v.role.ID, users)
	v.bump()
}

func (v *RoleView) setMe(u models.User, exists bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if exists {
		v.meUser = u
		v.me.Name = u.Name
	}
	v.bump()
}

func (v *RoleView) setAdmins(a models.AdminSet) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.admins = a
	v.adminsKnown = true
	v.bump()
}

func (v *RoleView) setRewards(r models.Reward, exists bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !exists {
		r = models.Reward{
			RoleID: v.role.ID,
			First:  models.RewardPlaceholder,
			Second: models.RewardPlaceholder,
			Third:  models.RewardPlaceholder,
		}
	}
	v.rewards = r
	v.bump()
}

func (v *RoleView) setTasks(tasks []models.Task) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tasks = tasks
	v.bump()
}

func (v *RoleView) setSubmissions(subs []models.Submission) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.submissions = subs
	v.bump()
}

func (v *RoleView) setPending(users []models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = reconcile.Roster(v.pending, v.role.ID, users)
	v.bump()
}
