package profile

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/rolehub/internal/app/ops"
	"github.com/dalemusser/rolehub/internal/app/system/auth"
	"github.com/dalemusser/rolehub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := ops.NewService(db.Client(), db, zap.NewNop())
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "test_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return NewHandler(svc, sm, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestServeProfile(t *testing.T) {
	h, f := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := f.CreateUser(ctx, "Alice", "alice@example.com")
	role := f.CreateRole(ctx, "Crew", u.ID)
	f.AddRoleSummary(ctx, u.ID, role, 12)

	r := testutil.WithUser(testutil.NewRequest("GET", "/"), u, false)
	rec := httptest.NewRecorder()
	h.ServeProfile(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		User struct {
			Email  string `json:"email"`
			Points int64  `json:"points"`
			Roles  []struct {
				Name   string `json:"name"`
				Points int64  `json:"points"`
			} `json:"roles"`
		} `json:"user"`
		IsAdmin bool `json:"is_admin"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.User.Email != u.Email || body.User.Points != 12 {
		t.Errorf("user = %+v", body.User)
	}
	if len(body.User.Roles) != 1 || body.User.Roles[0].Name != "Crew" {
		t.Errorf("roles = %+v", body.User.Roles)
	}
	if body.IsAdmin {
		t.Error("plain user flagged admin")
	}
}

func TestServeProfileUnauthenticated(t *testing.T) {
	h, _ := newHandler(t)

	rec := httptest.NewRecorder()
	h.ServeProfile(rec, testutil.NewRequest("GET", "/"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestServeSetCurrentRoleRequiresMembership(t *testing.T) {
	h, f := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := f.CreateUser(ctx, "Bob", "bob@example.com")
	role := f.CreateRole(ctx, "Crew") // Bob is not a member

	body := `{"role_id":"` + role.ID.Hex() + `"}`
	r := httptest.NewRequest("PUT", "/current-role", strings.NewReader(body))
	r = testutil.WithUser(r, u, false)
	rec := httptest.NewRecorder()
	h.ServeSetCurrentRole(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-member status = %d, want 403", rec.Code)
	}

	member := f.CreateRole(ctx, "Other", u.ID)
	body = `{"role_id":"` + member.ID.Hex() + `"}`
	r = httptest.NewRequest("PUT", "/current-role", strings.NewReader(body))
	r = testutil.WithUser(r, u, false)
	rec = httptest.NewRecorder()
	h.ServeSetCurrentRole(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("member status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestServeDeleteRemovesAccount(t *testing.T) {
	h, f := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := f.CreateUser(ctx, "Carol", "carol@example.com")
	f.CreateRole(ctx, "Crew", u.ID)

	r := testutil.WithUser(testutil.NewRequest("DELETE", "/"), u, false)
	rec := httptest.NewRecorder()
	h.ServeDelete(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	n, err := f.DB().Collection("users").CountDocuments(ctx, bson.M{"_id": u.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Error("user document survived deletion")
	}
}
