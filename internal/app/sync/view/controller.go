// internal/app/sync/view/controller.go
package view

import (
	"context"
	"sort"
	"strings"

	"github.com/dalemusser/rolehub/internal/app/realtime"
	"github.com/dalemusser/rolehub/internal/app/sync/session"
	"github.com/dalemusser/rolehub/internal/app/sync/subs"
	"github.com/dalemusser/rolehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Controller owns a RoleView for the lifetime of one live connection.
// It opens the base watches (role, admin set, viewer profile), derives
// the data-dependent ones (roster from the member list, pending
// profiles from the request list, submissions on the admin screen), and
// re-applies the desired set whenever their inputs change.
type Controller struct {
	src    realtime.Source
	log    *zap.Logger
	me     session.Handle
	roleID primitive.ObjectID
	view   *RoleView
	mgr    *subs.Manager
	ctx    context.Context
	cancel context.CancelFunc
}

// Open attaches a controller and delivers initial state synchronously
// where the source allows it. Callers must Close it when the connection
// ends, or every watch leaks.
func Open(ctx context.Context, src realtime.Source, logger *zap.Logger, me session.Handle, roleID primitive.ObjectID, screen Screen) *Controller {
	ctx, cancel := context.WithCancel(ctx)
	c := &Controller{
		src:    src,
		log:    logger,
		me:     me,
		roleID: roleID,
		view:   newRoleView(me, screen),
		mgr:    subs.NewManager(logger),
		ctx:    ctx,
		cancel: cancel,
	}
	c.resync()
	return c
}

// View exposes the reconciled state for snapshots and waits.
func (c *Controller) View() *RoleView { return c.view }

// SetScreen switches tabs, adjusting the subscription set.
func (c *Controller) SetScreen(s Screen) {
	c.view.setScreen(s)
	c.resync()
}

// Close tears down every subscription.
func (c *Controller) Close() {
	c.cancel()
	c.mgr.Close()
}

// subsInputs reads the fields the desired-set computation depends on.
func (v *RoleView) subsInputs() (models.Role, bool, Screen, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.role, v.roleExists, v.screen, v.isAdminLocked()
}

func (v *RoleView) clearSubmissions() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.submissions == nil && v.pending == nil {
		return
	}
	v.submissions = nil
	v.pending = nil
	v.bump()
}

func (v *RoleView) clearPending() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pending == nil {
		return
	}
	v.pending = nil
	v.bump()
}

func idSetKey(prefix string, ids []primitive.ObjectID) subs.Key {
	hexes := make([]string, len(ids))
	for i, id := range ids {
		hexes[i] = id.Hex()
	}
	sort.Strings(hexes)
	return subs.Key(prefix + ":" + strings.Join(hexes, ","))
}

// resync recomputes the desired subscription set from current state and
// hands it to the manager. It runs at open, on role pushes (member and
// pending lists), on admin-set pushes (gating), and on screen changes.
func (c *Controller) resync() {
	role, exists, screen, admin := c.view.subsInputs()

	d := map[subs.Key]subs.OpenFunc{
		subs.Key("role:" + c.roleID.Hex()): c.watchDoc("roles", c.roleID, c.onRole),
		subs.Key("admins"):                 c.watchDoc("admins", models.AdminSetID, c.onAdmins),
		subs.Key("me:" + c.me.UserID.Hex()): c.watchDoc("users", c.me.UserID, c.onMe),
	}

	adminScreen := exists && screen == ScreenAdmin && admin
	if exists {
		d[subs.Key("rewards:"+c.roleID.Hex())] = c.watchDoc("rewards", c.roleID, c.onRewards)
		d[subs.Key("tasks:"+c.roleID.Hex()+":"+c.me.UserID.Hex())] = c.watchQuery("tasks",
			bson.M{"role_id": c.roleID, "assigned_to": c.me.UserID}, c.onTasks)

		if len(role.Members) > 0 {
			d[idSetKey("roster", role.Members)] = c.watchQuery("users",
				bson.M{"_id": bson.M{"$in": role.Members}}, c.onRoster)
		}
		if adminScreen {
			d[subs.Key("submissions:"+c.roleID.Hex())] = c.watchQuery("tasks_submitted",
				bson.M{"role_id": c.roleID, "complete": false}, c.onSubmissions)
			if len(role.PendingRequests) > 0 {
				d[idSetKey("pending", role.PendingRequests)] = c.watchQuery("users",
					bson.M{"_id": bson.M{"$in": role.PendingRequests}}, c.onPending)
			}
		}
	}

	c.mgr.Apply(d)

	if !adminScreen {
		c.view.clearSubmissions()
	} else if len(role.PendingRequests) == 0 {
		c.view.clearPending()
	}
}

func (c *Controller) watchDoc(coll string, id interface{}, fn realtime.DocumentHandler) subs.OpenFunc {
	return func() (realtime.CancelFunc, error) {
		return c.src.WatchDocument(c.ctx, coll, id, fn)
	}
}

func (c *Controller) watchQuery(coll string, filter bson.M, fn realtime.QueryHandler) subs.OpenFunc {
	return func() (realtime.CancelFunc, error) {
		return c.src.WatchQuery(c.ctx, coll, filter, fn)
	}
}

func (c *Controller) onRole(s realtime.Snapshot) {
	var role models.Role
	if s.Exists {
		if err := s.Decode(&role); err != nil {
			c.log.Warn("role snapshot decode failed", zap.Error(err))
			return
		}
	}
	c.view.setRole(role, s.Exists)
	c.resync()
}

func (c *Controller) onAdmins(s realtime.Snapshot) {
	a := models.AdminSet{ID: models.AdminSetID}
	if s.Exists {
		if err := s.Decode(&a); err != nil {
			c.log.Warn("admin set decode failed", zap.Error(err))
			return
		}
	}
	c.view.setAdmins(a)
	c.resync()
}

func (c *Controller) onMe(s realtime.Snapshot) {
	var u models.User
	if s.Exists {
		if err := s.Decode(&u); err != nil {
			c.log.Warn("profile snapshot decode failed", zap.Error(err))
			return
		}
	}
	c.view.setMe(u, s.Exists)
}

func (c *Controller) onRewards(s realtime.Snapshot) {
	var r models.Reward
	if s.Exists {
		if err := s.Decode(&r); err != nil {
			c.log.Warn("reward snapshot decode failed", zap.Error(err))
			return
		}
	}
	c.view.setRewards(r, s.Exists)
}

func (c *Controller) onRoster(docs []realtime.Document) {
	c.view.setRoster(c.decodeUsers(docs))
}

func (c *Controller) onPending(docs []realtime.Document) {
	c.view.setPending(c.decodeUsers(docs))
}

func (c *Controller) onTasks(docs []realtime.Document) {
	tasks := make([]models.Task, 0, len(docs))
	for _, d := range docs {
		var t models.Task
		if err := d.Decode(&t); err != nil {
			c.log.Warn("task decode failed", zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}
	c.view.setTasks(tasks)
}

func (c *Controller) onSubmissions(docs []realtime.Document) {
	subs := make([]models.Submission, 0, len(docs))
	for _, d := range docs {
		var s models.Submission
		if err := d.Decode(&s); err != nil {
			c.log.Warn("submission decode failed", zap.Error(err))
			continue
		}
		subs = append(subs, s)
	}
	c.view.setSubmissions(subs)
}

func (c *Controller) decodeUsers(docs []realtime.Document) []models.User {
	users := make([]models.User, 0, len(docs))
	for _, d := range docs {
		var u models.User
		if err := d.Decode(&u); err != nil {
			c.log.Warn("user decode failed", zap.Error(err))
			continue
		}
		users = append(users, u)
	}
	return users
}
