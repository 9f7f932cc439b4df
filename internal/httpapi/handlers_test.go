package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/csec-tutor/study-server/internal/analytics"
	"github.com/csec-tutor/study-server/internal/httpapi"
	"github.com/csec-tutor/study-server/internal/progress"
	"github.com/csec-tutor/study-server/internal/schedule"
	"github.com/csec-tutor/study-server/internal/syllabus"
)

func fixedNow() time.Time {
	return time.Date(2026, time.March, 30, 9, 0, 0, 0, time.UTC)
}

func newTestServer(t *testing.T, catalog *syllabus.Loader) (*httpapi.Server, *analytics.MemoryLogger) {
	t.Helper()

	var genCatalog schedule.Catalog
	if catalog != nil {
		genCatalog = catalog
	}
	gen := schedule.NewGenerator(schedule.GeneratorConfig{
		Catalog: genCatalog,
		Now:     fixedNow,
	})
	events := analytics.NewMemoryLogger()
	srv := httpapi.NewServer(httpapi.ServerConfig{
		Generator: gen,
		Catalog:   catalog,
		Store:     progress.NewMemoryStore(),
		Events:    events,
	})
	return srv, events
}

func newTestCatalog(t *testing.T) *syllabus.Loader {
	t.Helper()

	dir := t.TempDir()
	data := `name: Mathematics
exam_code: "05236"
topics:
  - Algebra
  - Geometry
prerequisites:
  Geometry:
    - Algebra
`
	if err := os.WriteFile(filepath.Join(dir, "mathematics.yaml"), []byte(data), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	loader, err := syllabus.NewLoader(dir)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	return loader
}

func scheduleBody(topics []string) string {
	req := map[string]any{
		"user_id": "u1",
		"subject": "Mathematics",
		"wizard": map[string]any{
			"target_grade":              "grade_2",
			"exam_timeline":             "no_exam",
			"study_minutes_per_session": 45,
			"study_days_per_week":       3,
			"topic_confidence": map[string]string{
				"Algebra": "no_exposure",
			},
		},
	}
	if topics != nil {
		req["topics"] = topics
	}
	data, _ := json.Marshal(req)
	return string(data)
}

func TestServer_Schedule(t *testing.T) {
	srv, events := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/schedule", strings.NewReader(scheduleBody([]string{"Algebra", "Geometry"})))
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var sched schedule.StudySchedule
	if err := json.Unmarshal(rec.Body.Bytes(), &sched); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if sched.Subject != "Mathematics" {
		t.Errorf("Subject = %q, want Mathematics", sched.Subject)
	}
	if sched.TotalWeeks == 0 || len(sched.Weeks) != sched.TotalWeeks {
		t.Errorf("TotalWeeks = %d with %d weeks", sched.TotalWeeks, len(sched.Weeks))
	}
	if sched.MinutesPerWeek != 135 {
		t.Errorf("MinutesPerWeek = %d, want 135", sched.MinutesPerWeek)
	}

	logged := events.Events()
	if len(logged) != 1 || logged[0].EventType != "schedule_generated" {
		t.Errorf("events = %+v, want one schedule_generated", logged)
	}
}

func TestServer_Schedule_TopicsFromCatalog(t *testing.T) {
	srv, _ := newTestServer(t, newTestCatalog(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/schedule", strings.NewReader(scheduleBody(nil)))
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var sched schedule.StudySchedule
	if err := json.Unmarshal(rec.Body.Bytes(), &sched); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	seen := map[string]bool{}
	for _, week := range sched.Weeks {
		for _, topic := range week.Topics {
			seen[topic.Topic] = true
		}
	}
	if !seen["Algebra"] || !seen["Geometry"] {
		t.Errorf("scheduled topics = %v, want catalog topics", seen)
	}
}

func TestServer_Schedule_NoTopics(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/schedule", strings.NewReader(scheduleBody(nil)))
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestServer_Schedule_InvalidWizard(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	body := `{
		"user_id": "u1",
		"subject": "Mathematics",
		"topics": ["Algebra"],
		"wizard": {
			"target_grade": "grade_9",
			"exam_timeline": "no_exam",
			"study_minutes_per_session": 45,
			"study_days_per_week": 0
		}
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/schedule", strings.NewReader(body))
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "study_days_per_week") {
		t.Errorf("error body %q does not name the violation", rec.Body.String())
	}
}

func TestServer_ProgressRoundTrip(t *testing.T) {
	srv, events := newTestServer(t, nil)
	mux := srv.Routes()

	put := `{
		"user_id": "u1",
		"subject": "Mathematics",
		"record": {"topic": "Algebra", "coaching_completed": true}
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/progress", strings.NewReader(put))
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("PUT status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/progress?user_id=u1&subject=Mathematics", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Records []progress.Record `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Records) != 1 {
		t.Fatalf("records = %+v, want one", resp.Records)
	}
	if resp.Records[0].Topic != "Algebra" || !resp.Records[0].CoachingCompleted {
		t.Errorf("record = %+v", resp.Records[0])
	}

	logged := events.Events()
	if len(logged) != 1 || logged[0].EventType != "progress_updated" {
		t.Errorf("events = %+v, want one progress_updated", logged)
	}
}

func TestServer_ProgressPut_MissingTopic(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	body := `{"user_id": "u1", "subject": "Mathematics", "record": {}}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/v1/progress", strings.NewReader(body))
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestServer_ProgressGet_MissingParams(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/progress?user_id=u1", nil)
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestServer_Export(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/schedule/export", strings.NewReader(scheduleBody([]string{"Algebra"})))
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type = %q", ct)
	}
	// xlsx files are zip archives.
	if body := rec.Body.Bytes(); len(body) < 4 || body[0] != 'P' || body[1] != 'K' {
		t.Errorf("body does not look like a zip archive")
	}
}

func TestServer_Healthz(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestServer_Readyz_NoBackends(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
