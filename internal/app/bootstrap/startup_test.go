package bootstrap

import (
	"testing"

	"github.com/dalemusser/rolehub/internal/app/ops"
	"github.com/dalemusser/rolehub/internal/testutil"
	"go.uber.org/zap"
)

func TestEnsureGlobalRoleCreatesOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := ensureGlobalRole(ctx, db, "Global")
	if err != nil {
		t.Fatalf("ensureGlobalRole: %v", err)
	}
	if first.Name != "Global" {
		t.Fatalf("name = %q", first.Name)
	}

	// Second boot finds the same document, even with different casing.
	second, err := ensureGlobalRole(ctx, db, "GLOBAL")
	if err != nil {
		t.Fatalf("ensureGlobalRole: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second boot created a new role: %s != %s", second.ID.Hex(), first.ID.Hex())
	}
}

func TestEnsureSuperAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	svc := ops.NewService(db.Client(), db, zap.NewNop())

	// Unknown email: logged, not fatal.
	if err := ensureSuperAdmin(ctx, svc, "nobody@example.com", zap.NewNop()); err != nil {
		t.Fatalf("unknown email: %v", err)
	}

	u := f.CreateUser(ctx, "Root", "root@example.com")
	if err := ensureSuperAdmin(ctx, svc, "root@example.com", zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin: %v", err)
	}
	ok, err := svc.Admins().IsAdmin(ctx, u.ID.Hex())
	if err != nil {
		t.Fatalf("IsAdmin: %v", err)
	}
	if !ok {
		t.Fatal("superadmin not in admin set")
	}
}
