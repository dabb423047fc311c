package userstore

import (
	"testing"

	"github.com/dalemusser/rolehub/internal/domain/models"
	"github.com/dalemusser/rolehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAwardIncrementsRoleAndGlobalScores(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := New(db)

	u := f.CreateUser(ctx, "Alice", "alice@example.com")
	role := f.CreateRole(ctx, "Crew", u.ID)
	other := f.CreateRole(ctx, "Other", u.ID)
	f.AddRoleSummary(ctx, u.ID, role, 0)
	f.AddRoleSummary(ctx, u.ID, other, 0)

	if err := store.Award(ctx, u.ID, role.ID, 10); err != nil {
		t.Fatalf("Award: %v", err)
	}
	if err := store.Award(ctx, u.ID, role.ID, 5); err != nil {
		t.Fatalf("Award: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Points != 15 || got.TaskCompleted != 2 {
		t.Fatalf("global totals = %d/%d, want 15/2", got.Points, got.TaskCompleted)
	}
	for _, s := range got.Roles {
		switch s.RoleID {
		case role.ID:
			if s.Points != 15 || s.TaskCompleted != 2 {
				t.Errorf("role summary = %d/%d, want 15/2", s.Points, s.TaskCompleted)
			}
		case other.ID:
			if s.Points != 0 || s.TaskCompleted != 0 {
				t.Errorf("untouched summary = %d/%d, want 0/0", s.Points, s.TaskCompleted)
			}
		}
	}
}

func TestAwardWithoutSummaryStillCountsGlobally(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := New(db)

	// The user left the role after the task was handed out: no summary.
	u := f.CreateUser(ctx, "Ada", "ada@example.com")
	roleID := primitive.NewObjectID()

	if err := store.Award(ctx, u.ID, roleID, 10); err != nil {
		t.Fatalf("Award: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Points != 10 || got.TaskCompleted != 1 {
		t.Fatalf("global totals = %d/%d, want 10/1", got.Points, got.TaskCompleted)
	}
	if len(got.Roles) != 0 {
		t.Errorf("award must not fabricate a summary: %+v", got.Roles)
	}
}

func TestAppendRoleSummaryIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := New(db)

	u := f.CreateUser(ctx, "Bob", "bob@example.com")
	roleID := primitive.NewObjectID()

	for i := 0; i < 3; i++ {
		if err := store.AppendRoleSummary(ctx, u.ID, roleID, "Crew"); err != nil {
			t.Fatalf("AppendRoleSummary: %v", err)
		}
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Roles) != 1 {
		t.Fatalf("summary count = %d, want 1", len(got.Roles))
	}
	if got.Roles[0].RoleID != roleID || got.Roles[0].Name != "Crew" {
		t.Fatalf("unexpected summary %+v", got.Roles[0])
	}
}

func TestZeroRoleSummaryAllKeepsGlobalTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := New(db)

	u := f.CreateUser(ctx, "Carol", "carol@example.com")
	role := f.CreateRole(ctx, "Crew", u.ID)
	f.AddRoleSummary(ctx, u.ID, role, 40)

	n, err := store.ZeroRoleSummaryAll(ctx, role.ID)
	if err != nil {
		t.Fatalf("ZeroRoleSummaryAll: %v", err)
	}
	if n != 1 {
		t.Fatalf("modified = %d, want 1", n)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Roles[0].Points != 0 || got.Roles[0].TaskCompleted != 0 {
		t.Errorf("role summary not zeroed: %+v", got.Roles[0])
	}
	if got.Points != 40 {
		t.Errorf("global points = %d, want 40 (reset is per role)", got.Points)
	}
}

func TestAuthenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := New(db)

	u := f.CreateUser(ctx, "Dan", "dan@example.com")
	if err := store.SetPassword(ctx, u.ID, "hunter2hunter2"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	got, err := store.Authenticate(ctx, "Dan@Example.COM", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated wrong user %s", got.ID.Hex())
	}

	if _, err := store.Authenticate(ctx, "dan@example.com", "wrong"); err != ErrBadCredentials {
		t.Errorf("wrong password err = %v, want ErrBadCredentials", err)
	}
	if _, err := store.Authenticate(ctx, "nobody@example.com", "x"); err != ErrBadCredentials {
		t.Errorf("unknown email err = %v, want ErrBadCredentials", err)
	}

	// Passwordless account (Google sign-in only) must not authenticate
	// with an empty password.
	g := f.CreateUser(ctx, "Eve", "eve@example.com")
	if _, err := store.Authenticate(ctx, g.Email, ""); err != ErrBadCredentials {
		t.Errorf("passwordless err = %v, want ErrBadCredentials", err)
	}
}

func TestCreateDefaultsAvatar(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	u, err := store.Create(ctx, models.User{Name: "Fay", Email: "fay@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.PhotoURL != DefaultAvatar {
		t.Errorf("photo = %q, want default avatar", u.PhotoURL)
	}
	if u.Roles == nil {
		t.Error("roles slice is nil, want empty")
	}
}

func TestPullRoleSummaryAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := New(db)

	role := f.CreateRole(ctx, "Crew")
	a := f.CreateUser(ctx, "Gil", "gil@example.com")
	b := f.CreateUser(ctx, "Hal", "hal@example.com")
	f.AddRoleSummary(ctx, a.ID, role, 5)
	f.AddRoleSummary(ctx, b.ID, role, 7)

	n, err := store.PullRoleSummaryAll(ctx, role.ID)
	if err != nil {
		t.Fatalf("PullRoleSummaryAll: %v", err)
	}
	if n != 2 {
		t.Fatalf("modified = %d, want 2", n)
	}
	got, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Roles) != 0 {
		t.Errorf("summaries remain after pull: %+v", got.Roles)
	}
}
