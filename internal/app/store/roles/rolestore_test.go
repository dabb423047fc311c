package rolestore

import (
	"testing"

	"github.com/dalemusser/rolehub/internal/app/system/indexes"
	"github.com/dalemusser/rolehub/internal/domain/models"
	"github.com/dalemusser/rolehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateRejectsDuplicateNameCaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := New(db)

	if _, err := store.Create(ctx, models.Role{Name: "Crew"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create(ctx, models.Role{Name: "CREW"}); err != ErrDuplicateRoleName {
		t.Fatalf("duplicate create err = %v, want ErrDuplicateRoleName", err)
	}
}

func TestPendingRequestLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	role, err := store.Create(ctx, models.Role{Name: "Crew"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	userID := primitive.NewObjectID()

	// Repeated requests collapse to one pending entry.
	for i := 0; i < 2; i++ {
		if err := store.AddPendingRequest(ctx, role.ID, userID); err != nil {
			t.Fatalf("AddPendingRequest: %v", err)
		}
	}
	got, err := store.GetByID(ctx, role.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.PendingRequests) != 1 || got.PendingRequests[0] != userID {
		t.Fatalf("pending = %v, want [%s]", got.PendingRequests, userID.Hex())
	}

	if err := store.PullPendingRequest(ctx, role.ID, userID); err != nil {
		t.Fatalf("PullPendingRequest: %v", err)
	}
	if err := store.AddMember(ctx, role.ID, userID); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	got, err = store.GetByID(ctx, role.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.PendingRequests) != 0 {
		t.Errorf("pending not cleared: %v", got.PendingRequests)
	}
	if len(got.Members) != 1 || got.Members[0] != userID {
		t.Errorf("members = %v, want [%s]", got.Members, userID.Hex())
	}
}

func TestAddPendingRequestIsNoopForMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := New(db)

	userID := primitive.NewObjectID()
	role := f.CreateRole(ctx, "Crew", userID)

	if err := store.AddPendingRequest(ctx, role.ID, userID); err != nil {
		t.Fatalf("AddPendingRequest: %v", err)
	}
	got, err := store.GetByID(ctx, role.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.PendingRequests) != 0 {
		t.Errorf("member ended up in pending set: %v", got.PendingRequests)
	}
}

func TestRemoveUserEverywhere(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	f := testutil.NewFixtures(t, db)
	store := New(db)

	userID := primitive.NewObjectID()
	member := f.CreateRole(ctx, "Crew", userID)
	pending := f.CreateRole(ctx, "Other")
	if err := store.AddPendingRequest(ctx, pending.ID, userID); err != nil {
		t.Fatalf("AddPendingRequest: %v", err)
	}

	n, err := store.RemoveUserEverywhere(ctx, userID)
	if err != nil {
		t.Fatalf("RemoveUserEverywhere: %v", err)
	}
	if n != 2 {
		t.Fatalf("modified = %d, want 2", n)
	}

	for _, id := range []primitive.ObjectID{member.ID, pending.ID} {
		got, err := store.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if len(got.Members) != 0 || len(got.PendingRequests) != 0 {
			t.Errorf("role %s still references user: members=%v pending=%v",
				got.Name, got.Members, got.PendingRequests)
		}
	}
}
