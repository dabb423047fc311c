// internal/app/sync/view/view_test.go
package view

import (
	"context"
	"testing"

	"github.com/dalemusser/rolehub/internal/app/realtime"
	"github.com/dalemusser/rolehub/internal/app/sync/session"
	"github.com/dalemusser/rolehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func put(t *testing.T, src *realtime.MemSource, coll string, id interface{}, v interface{}) {
	t.Helper()
	raw, err := bson.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", coll, err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		t.Fatalf("unmarshal %s: %v", coll, err)
	}
	if err := src.WriteDocument(context.Background(), coll, id, fields, false); err != nil {
		t.Fatalf("write %s: %v", coll, err)
	}
}

type fixture struct {
	src    *realtime.MemSource
	roleID primitive.ObjectID
	alice  models.User
	bob    models.User
	admin  models.User
}

// seed builds role Alpha with members A(10), B(30) and an admin with 999
// points, mirroring a board where staff should never be ranked.
func seed(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		src:    realtime.NewMemSource(),
		roleID: primitive.NewObjectID(),
	}

	mk := func(name string, points int64) models.User {
		u := models.User{
			ID:   primitive.NewObjectID(),
			Name: name,
			Roles: []models.RoleSummary{
				{RoleID: f.roleID, Name: "Alpha", Points: points},
			},
		}
		put(t, f.src, "users", u.ID, u)
		return u
	}
	f.alice = mk("Alice", 10)
	f.bob = mk("Bob", 30)
	f.admin = mk("Root", 999)

	put(t, f.src, "roles", f.roleID, models.Role{
		ID:      f.roleID,
		Name:    "Alpha",
		NameCI:  "alpha",
		Members: []primitive.ObjectID{f.alice.ID, f.bob.ID, f.admin.ID},
	})
	put(t, f.src, "admins", models.AdminSetID, models.AdminSet{
		ID:  models.AdminSetID,
		IDs: []primitive.ObjectID{f.admin.ID},
	})
	put(t, f.src, "rewards", f.roleID, models.Reward{
		RoleID: f.roleID,
		First:  "Pizza",
		Second: "Coffee",
		Third:  "Sticker",
	})
	return f
}

func (f *fixture) open(t *testing.T, me models.User, screen Screen) *Controller {
	t.Helper()
	c := Open(context.Background(), f.src, zap.NewNop(),
		session.Handle{UserID: me.ID, Name: me.Name}, f.roleID, screen)
	t.Cleanup(c.Close)
	return c
}

func boardNames(s Snapshot) []string {
	out := make([]string, len(s.Leaderboard))
	for i, e := range s.Leaderboard {
		out[i] = e.Name
	}
	return out
}

func TestLeaderboardExcludesAdminsAndOrdersByPoints(t *testing.T) {
	f := seed(t)
	c := f.open(t, f.alice, ScreenLeaderboard)

	snap := c.View().Snapshot()
	if !snap.RoleExists || snap.RoleName != "Alpha" {
		t.Fatalf("role not hydrated: %+v", snap)
	}
	got := boardNames(snap)
	if len(got) != 2 || got[0] != "Bob" || got[1] != "Alice" {
		t.Fatalf("leaderboard = %v, want [Bob Alice]", got)
	}
	if snap.Me == nil || snap.Me.Points != 10 {
		t.Fatalf("viewer's own entry missing: %+v", snap.Me)
	}
	if !snap.IsMember {
		t.Fatal("viewer is a member")
	}
}

func TestPointAwardReordersLeaderboard(t *testing.T) {
	f := seed(t)
	c := f.open(t, f.alice, ScreenLeaderboard)
	before := c.View().Version()

	f.alice.Roles[0].Points = 50
	put(t, f.src, "users", f.alice.ID, f.alice)

	snap, err := c.View().Wait(context.Background(), before)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	got := boardNames(snap)
	if got[0] != "Alice" || got[1] != "Bob" {
		t.Fatalf("leaderboard after award = %v, want [Alice Bob]", got)
	}
}

func TestMemberRemovalShrinksRosterAndResubscribes(t *testing.T) {
	f := seed(t)
	c := f.open(t, f.alice, ScreenLeaderboard)

	put(t, f.src, "roles", f.roleID, models.Role{
		ID:      f.roleID,
		Name:    "Alpha",
		NameCI:  "alpha",
		Members: []primitive.ObjectID{f.alice.ID, f.admin.ID},
	})

	snap := c.View().Snapshot()
	got := boardNames(snap)
	if len(got) != 1 || got[0] != "Alice" {
		t.Fatalf("leaderboard after Bob left = %v, want [Alice]", got)
	}

	// Bob's profile changes must no longer reach the view.
	f.bob.Roles[0].Points = 500
	put(t, f.src, "users", f.bob.ID, f.bob)
	snap = c.View().Snapshot()
	if len(snap.Leaderboard) != 1 {
		t.Fatalf("departed member leaked back in: %v", boardNames(snap))
	}
}

func TestRoleDeletionClearsView(t *testing.T) {
	f := seed(t)
	c := f.open(t, f.alice, ScreenLeaderboard)

	if err := f.src.DeleteDocument(context.Background(), "roles", f.roleID); err != nil {
		t.Fatalf("delete role: %v", err)
	}

	snap := c.View().Snapshot()
	if snap.RoleExists {
		t.Fatal("view still reports the role after deletion")
	}
	if len(snap.Leaderboard) != 0 || snap.Rewards != nil {
		t.Fatalf("derived state not cleared: %+v", snap)
	}
}

func TestRewardsPushAndMissingDocPlaceholder(t *testing.T) {
	f := seed(t)
	c := f.open(t, f.alice, ScreenRewards)

	snap := c.View().Snapshot()
	if snap.Rewards == nil || snap.Rewards.First != "Pizza" {
		t.Fatalf("rewards not hydrated: %+v", snap.Rewards)
	}

	if err := f.src.DeleteDocument(context.Background(), "rewards", f.roleID); err != nil {
		t.Fatalf("delete rewards: %v", err)
	}
	snap = c.View().Snapshot()
	if snap.Rewards == nil || snap.Rewards.First != models.RewardPlaceholder {
		t.Fatalf("missing reward doc should degrade to placeholders, got %+v", snap.Rewards)
	}
}

func TestTaskCountTracksIncompleteTasks(t *testing.T) {
	f := seed(t)
	c := f.open(t, f.alice, ScreenTasks)

	t1 := models.Task{ID: primitive.NewObjectID(), AssignedTo: f.alice.ID, RoleID: f.roleID, Title: "one"}
	t2 := models.Task{ID: primitive.NewObjectID(), AssignedTo: f.alice.ID, RoleID: f.roleID, Title: "two"}
	other := models.Task{ID: primitive.NewObjectID(), AssignedTo: f.bob.ID, RoleID: f.roleID, Title: "bobs"}
	put(t, f.src, "tasks", t1.ID, t1)
	put(t, f.src, "tasks", t2.ID, t2)
	put(t, f.src, "tasks", other.ID, other)

	snap := c.View().Snapshot()
	if snap.TaskCount != 2 || len(snap.Tasks) != 2 {
		t.Fatalf("task count = %d (len %d), want 2: only the viewer's tasks count", snap.TaskCount, len(snap.Tasks))
	}

	t1.Complete = true
	put(t, f.src, "tasks", t1.ID, t1)
	snap = c.View().Snapshot()
	if snap.TaskCount != 1 {
		t.Fatalf("task count after completion = %d, want 1", snap.TaskCount)
	}
}

func TestAdminScreenWatchesSubmissionsAndPending(t *testing.T) {
	f := seed(t)
	c := f.open(t, f.admin, ScreenAdmin)

	sub := models.Submission{
		ID: primitive.NewObjectID(), AssignedTo: f.alice.ID,
		AssignedName: "Alice", Title: "one", Points: 5, RoleID: f.roleID,
	}
	put(t, f.src, "tasks_submitted", sub.ID, sub)

	snap := c.View().Snapshot()
	if !snap.IsAdmin {
		t.Fatal("admin-set push should mark the viewer admin")
	}
	if len(snap.Submissions) != 1 || snap.Submissions[0].Title != "one" {
		t.Fatalf("submissions = %+v", snap.Submissions)
	}

	// A join request appears: the role doc gains a pending id and the
	// requester's profile hydrates.
	carol := models.User{ID: primitive.NewObjectID(), Name: "Carol"}
	put(t, f.src, "users", carol.ID, carol)
	put(t, f.src, "roles", f.roleID, models.Role{
		ID:              f.roleID,
		Name:            "Alpha",
		NameCI:          "alpha",
		Members:         []primitive.ObjectID{f.alice.ID, f.bob.ID, f.admin.ID},
		PendingRequests: []primitive.ObjectID{carol.ID},
	})

	snap = c.View().Snapshot()
	if len(snap.Pending) != 1 || snap.Pending[0].Name != "Carol" {
		t.Fatalf("pending = %+v", snap.Pending)
	}

	// Approving elsewhere empties the list again.
	put(t, f.src, "roles", f.roleID, models.Role{
		ID:      f.roleID,
		Name:    "Alpha",
		NameCI:  "alpha",
		Members: []primitive.ObjectID{f.alice.ID, f.bob.ID, f.admin.ID, carol.ID},
	})
	snap = c.View().Snapshot()
	if len(snap.Pending) != 0 {
		t.Fatalf("pending after approval = %+v", snap.Pending)
	}
}

func TestRevokedAdminLosesAdminView(t *testing.T) {
	f := seed(t)

	// The session cookie still says admin; the pushed set decides.
	c := Open(context.Background(), f.src, zap.NewNop(),
		session.Handle{UserID: f.admin.ID, Name: f.admin.Name, Admin: true},
		f.roleID, ScreenAdmin)
	t.Cleanup(c.Close)

	if snap := c.View().Snapshot(); !snap.IsAdmin {
		t.Fatal("admin-set member should start as admin")
	}
	before := c.View().Version()

	// The sole admin is revoked: the set push arrives empty.
	put(t, f.src, "admins", models.AdminSetID, models.AdminSet{
		ID:  models.AdminSetID,
		IDs: []primitive.ObjectID{},
	})

	snap, err := c.View().Wait(context.Background(), before)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if snap.IsAdmin {
		t.Fatal("emptied admin set must override the session flag")
	}
	if len(snap.Submissions) != 0 {
		t.Fatalf("revoked admin kept submissions: %+v", snap.Submissions)
	}
}

func TestNonAdminGetsNoAdminSubscriptions(t *testing.T) {
	f := seed(t)
	c := f.open(t, f.alice, ScreenAdmin)

	sub := models.Submission{ID: primitive.NewObjectID(), RoleID: f.roleID, Title: "x"}
	put(t, f.src, "tasks_submitted", sub.ID, sub)

	snap := c.View().Snapshot()
	if len(snap.Submissions) != 0 {
		t.Fatal("non-admin view must not receive submissions")
	}
}

func TestScreenSwitchSwapsSubscriptions(t *testing.T) {
	f := seed(t)
	c := f.open(t, f.admin, ScreenLeaderboard)

	sub := models.Submission{ID: primitive.NewObjectID(), RoleID: f.roleID, Title: "x"}
	put(t, f.src, "tasks_submitted", sub.ID, sub)

	if snap := c.View().Snapshot(); len(snap.Submissions) != 0 {
		t.Fatal("leaderboard screen should not watch submissions")
	}

	c.SetScreen(ScreenAdmin)
	if snap := c.View().Snapshot(); len(snap.Submissions) != 1 {
		t.Fatalf("admin screen should hydrate submissions, got %+v", c.View().Snapshot().Submissions)
	}

	c.SetScreen(ScreenLeaderboard)
	if snap := c.View().Snapshot(); len(snap.Submissions) != 0 {
		t.Fatalf("leaving the admin screen should drop submissions, got %+v", snap.Submissions)
	}
}

func TestParseScreen(t *testing.T) {
	cases := []struct {
		in      string
		want    Screen
		wantErr bool
	}{
		{"", ScreenLeaderboard, false},
		{"leaderboard", ScreenLeaderboard, false},
		{"rewards", ScreenRewards, false},
		{"tasks", ScreenTasks, false},
		{"admin", ScreenAdmin, false},
		{"bogus", ScreenLeaderboard, true},
	}
	for _, tc := range cases {
		got, err := ParseScreen(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParseScreen(%q) err = %v", tc.in, err)
		}
		if err == nil && got != tc.want {
			t.Fatalf("ParseScreen(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
