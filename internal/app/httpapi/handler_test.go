package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/aurawell/aura/internal/app"
	"github.com/aurawell/aura/internal/app/domain/day"
	"github.com/aurawell/aura/internal/app/storage/memory"
)

const testToken = "test-token"

type stubTextVerifier struct{ feedback string }

func (s *stubTextVerifier) VerifyWriting(context.Context, string, string) (string, error) {
	return s.feedback, nil
}

type stubImageVerifier struct {
	feedback string
	complete bool
}

func (s *stubImageVerifier) VerifyImage(context.Context, string, []byte, string) (string, bool, error) {
	return s.feedback, s.complete, nil
}

func newTestServer(t *testing.T, collaborators app.Collaborators) (http.Handler, *app.Application) {
	t.Helper()

	mem := memory.New()
	stores := app.Stores{Days: mem, Targets: mem, Ledger: mem, Members: mem, Profile: mem}
	application, err := app.New(app.Options{Stores: stores, Collaborators: collaborators})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	if err := app.SeedDefaults(context.Background(), stores); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}

	audit, err := NewAuditLog(100, "", nil)
	if err != nil {
		t.Fatalf("NewAuditLog: %v", err)
	}
	t.Cleanup(func() { _ = audit.Close() })

	handler := WrapWithAuth(NewHandler(application, audit, nil), []string{testToken}, nil)
	return handler, application
}

func marshal(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(raw)
}

func authedRequest(t *testing.T, handler http.Handler, method, path string, body *bytes.Reader) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestAuth(t *testing.T) {
	handler, _ := newTestServer(t, app.Collaborators{})

	req := httptest.NewRequest(http.MethodGet, "/score", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: got %d, want 401", rec.Code)
	}

	// Probes stay open.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: got %d, want 200", rec.Code)
	}
}

func TestSeededScore(t *testing.T) {
	handler, _ := newTestServer(t, app.Collaborators{})

	rec := authedRequest(t, handler, http.MethodGet, "/score", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("score: got %d: %s", rec.Code, rec.Body.String())
	}

	var score scoreView
	decodeBody(t, rec, &score)
	if score.Base != 53 || score.Bonus != 20 || score.Received != 15 {
		t.Fatalf("unexpected breakdown: %+v", score)
	}
	if score.Score != 88 {
		t.Fatalf("seeded score: got %d, want 88", score.Score)
	}
}

func TestShareLifecycle(t *testing.T) {
	handler, _ := newTestServer(t, app.Collaborators{})

	// Pick a member to credit.
	rec := authedRequest(t, handler, http.MethodGet, "/community", nil)
	var members []memberView
	decodeBody(t, rec, &members)
	if len(members) != 6 {
		t.Fatalf("expected 6 seeded members, got %d", len(members))
	}
	target := members[0]

	rec = authedRequest(t, handler, http.MethodPost, "/share", marshal(t, sharePayload{Amount: 5, MemberID: target.ID}))
	if rec.Code != http.StatusOK {
		t.Fatalf("share: got %d: %s", rec.Code, rec.Body.String())
	}
	var score scoreView
	decodeBody(t, rec, &score)
	if score.Score != 83 || score.Shared != 5 {
		t.Fatalf("score after share: %+v", score)
	}

	rec = authedRequest(t, handler, http.MethodGet, "/community/"+target.ID, nil)
	var credited memberView
	decodeBody(t, rec, &credited)
	if credited.AuraScore != target.AuraScore+5 {
		t.Fatalf("member aura: got %d, want %d", credited.AuraScore, target.AuraScore+5)
	}

	// Overdraw.
	rec = authedRequest(t, handler, http.MethodPost, "/share", marshal(t, sharePayload{Amount: 1000}))
	if rec.Code != http.StatusConflict {
		t.Fatalf("overdraw: got %d, want 409", rec.Code)
	}

	// Inbound aura.
	rec = authedRequest(t, handler, http.MethodPost, "/aura/receive", marshal(t, receivePayload{Amount: 7}))
	if rec.Code != http.StatusOK {
		t.Fatalf("receive: got %d: %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &score)
	if score.Score != 90 {
		t.Fatalf("score after receive: got %d, want 90", score.Score)
	}
}

func TestTargetsValidation(t *testing.T) {
	handler, _ := newTestServer(t, app.Collaborators{})

	rec := authedRequest(t, handler, http.MethodPut, "/targets", marshal(t, targetsPayload{Steps: 0, Calories: 400, SleepHours: 8}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("zero target: got %d, want 400", rec.Code)
	}

	rec = authedRequest(t, handler, http.MethodPut, "/targets", marshal(t, targetsPayload{Steps: 10000, Calories: 500, SleepHours: 7.5}))
	if rec.Code != http.StatusOK {
		t.Fatalf("targets: got %d: %s", rec.Code, rec.Body.String())
	}
	var got targetsPayload
	decodeBody(t, rec, &got)
	if got.Steps != 10000 {
		t.Fatalf("unexpected targets: %+v", got)
	}
}

func TestDaysAndHackathonGenerate(t *testing.T) {
	handler, _ := newTestServer(t, app.Collaborators{})

	rec := authedRequest(t, handler, http.MethodGet, "/days", nil)
	var days []dayView
	decodeBody(t, rec, &days)
	if len(days) != 4 {
		t.Fatalf("expected 4 seeded days, got %d", len(days))
	}
	if days[0].Date != "2025-10-20" {
		t.Fatalf("first day: %s", days[0].Date)
	}

	// The curated set needs no collaborator.
	rec = authedRequest(t, handler, http.MethodPost, "/days/2025-10-22/tasks/generate", marshal(t, struct{}{}))
	if rec.Code != http.StatusOK {
		t.Fatalf("generate: got %d: %s", rec.Code, rec.Body.String())
	}
	var generated dayView
	decodeBody(t, rec, &generated)
	if len(generated.Tasks) != 3 {
		t.Fatalf("expected 3 curated tasks, got %d", len(generated.Tasks))
	}

	// Posting an empty body to the task list asks for generated ones too.
	rec = authedRequest(t, handler, http.MethodPost, "/days/2025-10-22/tasks", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty-body generate: got %d: %s", rec.Code, rec.Body.String())
	}
	decodeBody(t, rec, &generated)
	if len(generated.Tasks) != 3 {
		t.Fatalf("empty-body generate: expected 3 tasks, got %d", len(generated.Tasks))
	}

	// Other days without a collaborator are a 503.
	rec = authedRequest(t, handler, http.MethodPost, "/days/2025-10-23/tasks/generate", marshal(t, struct{}{}))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("generate without collaborator: got %d, want 503", rec.Code)
	}

	rec = authedRequest(t, handler, http.MethodGet, "/days/2030-01-01", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown day: got %d, want 404", rec.Code)
	}
}

func TestSubmitWriting(t *testing.T) {
	handler, _ := newTestServer(t, app.Collaborators{
		Texts: &stubTextVerifier{feedback: "wonderful reflection"},
	})

	// Task 2002 is the open writing task on Tuesday.
	rec := authedRequest(t, handler, http.MethodPost, "/days/2025-10-21/tasks/2002/submit",
		marshal(t, submitPayload{Text: "Today I overcame my fear of asking questions in class."}))
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: got %d: %s", rec.Code, rec.Body.String())
	}
	var task taskView
	decodeBody(t, rec, &task)
	if !task.Completed || task.Feedback != "wonderful reflection" {
		t.Fatalf("unexpected task: %+v", task)
	}

	// Completing the task lifts the score: base 54, bonus 25, received 15.
	rec = authedRequest(t, handler, http.MethodGet, "/score", nil)
	var score scoreView
	decodeBody(t, rec, &score)
	if score.Score != 94 {
		t.Fatalf("score after submission: got %d, want 94", score.Score)
	}

	rec = authedRequest(t, handler, http.MethodPost, "/days/2025-10-21/tasks/9999/submit",
		marshal(t, submitPayload{Text: "text"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown task: got %d, want 404", rec.Code)
	}
}

func TestRepeatSubmitKeepsCounters(t *testing.T) {
	handler, application := newTestServer(t, app.Collaborators{
		Texts: &stubTextVerifier{feedback: "nice work"},
	})

	body := marshal(t, submitPayload{Text: "I kept my study schedule all week."})
	rec := authedRequest(t, handler, http.MethodPost, "/days/2025-10-21/tasks/2002/submit", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: got %d: %s", rec.Code, rec.Body.String())
	}
	if got := testutil.ToFloat64(application.Metrics.TasksCompleted); got != 1 {
		t.Fatalf("completions after first submit: got %v, want 1", got)
	}

	// The second submission is a no-op success and must not move the counter.
	rec = authedRequest(t, handler, http.MethodPost, "/days/2025-10-21/tasks/2002/submit",
		marshal(t, submitPayload{Text: "I kept my study schedule all week."}))
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat submit: got %d: %s", rec.Code, rec.Body.String())
	}
	if got := testutil.ToFloat64(application.Metrics.TasksCompleted); got != 1 {
		t.Fatalf("completions after repeat submit: got %v, want 1", got)
	}
}

func TestSubmitImageRejected(t *testing.T) {
	handler, _ := newTestServer(t, app.Collaborators{
		Images: &stubImageVerifier{feedback: "that looks like a desk", complete: false},
	})

	// Task 1003 is the open food_image task on Monday.
	rec := authedRequest(t, handler, http.MethodPost, "/days/2025-10-20/tasks/1003/submit",
		marshal(t, submitPayload{ImageBase64: "aGVsbG8=", MimeType: "image/jpeg"}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("rejected submit: got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Feedback string `json:"feedback"`
	}
	decodeBody(t, rec, &body)
	if body.Feedback != "that looks like a desk" {
		t.Fatalf("unexpected feedback: %q", body.Feedback)
	}

	// The task stays open.
	rec = authedRequest(t, handler, http.MethodGet, "/days/2025-10-20", nil)
	var view dayView
	decodeBody(t, rec, &view)
	for _, task := range view.Tasks {
		if task.ID == 1003 && task.Completed {
			t.Fatal("rejected submission must not complete the task")
		}
	}
}

func TestReportEndpoints(t *testing.T) {
	handler, _ := newTestServer(t, app.Collaborators{})

	rec := authedRequest(t, handler, http.MethodGet, "/report", nil)
	var rows []reportRowView
	decodeBody(t, rec, &rows)
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if rows[0].Day != "Mon" || rows[0].AuraScore != 78 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}

	rec = authedRequest(t, handler, http.MethodGet, "/report/overview", nil)
	var overview map[string]float64
	decodeBody(t, rec, &overview)
	if overview["avg_steps"] != 3925 {
		t.Fatalf("avg steps: got %v, want 3925", overview["avg_steps"])
	}

	// No summarizer attached.
	rec = authedRequest(t, handler, http.MethodPost, "/report/summary", marshal(t, struct{}{}))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("summary without collaborator: got %d, want 503", rec.Code)
	}
}

func TestStatsRoundTrip(t *testing.T) {
	handler, _ := newTestServer(t, app.Collaborators{})

	rec := authedRequest(t, handler, http.MethodPut, "/days/2025-10-22/stats",
		marshal(t, statsPayload{Steps: 4000, Calories: 150, SleepHours: 6}))
	if rec.Code != http.StatusOK {
		t.Fatalf("update stats: got %d: %s", rec.Code, rec.Body.String())
	}

	rec = authedRequest(t, handler, http.MethodGet, "/days/2025-10-22/stats", nil)
	var stats statsPayload
	decodeBody(t, rec, &stats)
	if stats.Steps != 4000 || stats.SleepHours != 6 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestAuditTrail(t *testing.T) {
	handler, _ := newTestServer(t, app.Collaborators{})

	authedRequest(t, handler, http.MethodPost, "/aura/receive", marshal(t, receivePayload{Amount: 3}))

	rec := authedRequest(t, handler, http.MethodGet, "/audit", nil)
	var entries []AuditEntry
	decodeBody(t, rec, &entries)
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].Action != "aura.receive" {
		t.Fatalf("unexpected action: %s", entries[0].Action)
	}
	if entries[0].ID == "" {
		t.Fatal("audit entry should carry an id")
	}
}

func TestUnknownTaskTypeLenientDecode(t *testing.T) {
	handler, _ := newTestServer(t, app.Collaborators{})

	rec := authedRequest(t, handler, http.MethodPost, "/days/2025-10-23/tasks",
		marshal(t, addTasksPayload{Tasks: []taskInputPayload{{Text: "mystery task", Type: "mystery"}}}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add tasks: got %d: %s", rec.Code, rec.Body.String())
	}
	var view dayView
	decodeBody(t, rec, &view)
	if view.Tasks[len(view.Tasks)-1].Type != string(day.TaskWriting) {
		t.Fatalf("unknown type should decode to writing, got %s", view.Tasks[len(view.Tasks)-1].Type)
	}
}
