package tasks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/rolehub/internal/app/ops"
	"github.com/dalemusser/rolehub/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := ops.NewService(db.Client(), db, zap.NewNop())
	return NewHandler(svc, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestServeMineAnnotatesSubmissions(t *testing.T) {
	h, f := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := f.CreateUser(ctx, "Alice", "alice@example.com")
	role := f.CreateRole(ctx, "Crew", u.ID)
	open := f.CreateTask(ctx, role, u, "Sweep deck", 5)
	waiting := f.CreateTask(ctx, role, u, "Hoist sails", 10)
	f.CreateSubmission(ctx, waiting)

	r := testutil.WithUser(testutil.NewRequest("GET", "/?role_id="+role.ID.Hex()), u, false)
	rec := httptest.NewRecorder()
	h.ServeMine(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Tasks []struct {
			ID        string `json:"id"`
			Title     string `json:"title"`
			Submitted bool   `json:"submitted"`
		} `json:"tasks"`
		TaskCount int `json:"task_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.TaskCount != 2 {
		t.Errorf("task_count = %d, want 2 (both incomplete)", body.TaskCount)
	}
	if len(body.Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(body.Tasks))
	}
	for _, tv := range body.Tasks {
		switch tv.Title {
		case open.Title:
			if tv.Submitted {
				t.Error("unsubmitted task flagged as submitted")
			}
		case waiting.Title:
			if !tv.Submitted {
				t.Error("submitted task not flagged")
			}
		}
	}
}

func TestServeMineRejectsBadRoleID(t *testing.T) {
	h, f := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := f.CreateUser(ctx, "Bob", "bob@example.com")
	r := testutil.WithUser(testutil.NewRequest("GET", "/?role_id=junk"), u, false)
	rec := httptest.NewRecorder()
	h.ServeMine(rec, r)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeSubmit(t *testing.T) {
	h, f := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := f.CreateUser(ctx, "Carol", "carol@example.com")
	stranger := f.CreateUser(ctx, "Dan", "dan@example.com")
	role := f.CreateRole(ctx, "Crew", u.ID)
	task := f.CreateTask(ctx, role, u, "Swab", 5)

	// Someone else's task: forbidden.
	r := testutil.WithUser(testutil.NewRequest("POST", "/"+task.ID.Hex()+"/submit"), stranger, false)
	r = testutil.WithChiURLParam(r, "taskID", task.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeSubmit(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("stranger status = %d, want 403", rec.Code)
	}

	r = testutil.WithUser(testutil.NewRequest("POST", "/"+task.ID.Hex()+"/submit"), u, false)
	r = testutil.WithChiURLParam(r, "taskID", task.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeSubmit(rec, r)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Submitting again hits the shared-id guard.
	r = testutil.WithUser(testutil.NewRequest("POST", "/"+task.ID.Hex()+"/submit"), u, false)
	r = testutil.WithChiURLParam(r, "taskID", task.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeSubmit(rec, r)
	if rec.Code != http.StatusConflict {
		t.Errorf("double submit status = %d, want 409", rec.Code)
	}
}
