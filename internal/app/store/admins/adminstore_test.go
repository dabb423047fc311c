package adminstore

import (
	"testing"

	"github.com/dalemusser/rolehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGrantRevokeRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	userID := primitive.NewObjectID()

	ok, err := store.IsAdmin(ctx, userID.Hex())
	if err != nil {
		t.Fatalf("IsAdmin: %v", err)
	}
	if ok {
		t.Fatal("fresh db reports user as admin")
	}

	// Grant twice: the set stays duplicate-free.
	if err := store.Add(ctx, userID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Add(ctx, userID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	set, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(set.IDs) != 1 || set.IDs[0] != userID {
		t.Fatalf("ids = %v, want [%s]", set.IDs, userID.Hex())
	}

	ok, err = store.IsAdmin(ctx, userID.Hex())
	if err != nil {
		t.Fatalf("IsAdmin: %v", err)
	}
	if !ok {
		t.Fatal("granted user not reported as admin")
	}

	if err := store.Remove(ctx, userID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	ok, err = store.IsAdmin(ctx, userID.Hex())
	if err != nil {
		t.Fatalf("IsAdmin: %v", err)
	}
	if ok {
		t.Fatal("revoked user still reported as admin")
	}
}

func TestIsAdminBadHexIsFalseNotError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	ok, err := store.IsAdmin(ctx, "not-a-hex-id")
	if err != nil {
		t.Fatalf("IsAdmin: %v", err)
	}
	if ok {
		t.Fatal("garbage id reported as admin")
	}
}

func TestGetMissingDocIsEmptySet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	set, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(set.IDs) != 0 {
		t.Fatalf("ids = %v, want empty", set.IDs)
	}
}
