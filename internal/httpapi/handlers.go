package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/csec-tutor/study-server/internal/analytics"
	"github.com/csec-tutor/study-server/internal/platform/cache"
	"github.com/csec-tutor/study-server/internal/progress"
	"github.com/csec-tutor/study-server/internal/schedule"
	"github.com/csec-tutor/study-server/internal/syllabus"
)

const maxBodyBytes = 1 << 20

type scheduleRequest struct {
	UserID  string                 `json:"user_id"`
	Subject string                 `json:"subject"`
	Topics  []string               `json:"topics"`
	Wizard  schedule.WizardProfile `json:"wizard"`
}

type progressPutRequest struct {
	UserID  string          `json:"user_id"`
	Subject string          `json:"subject"`
	Record  progress.Record `json:"record"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.db != nil {
		if err := s.db.HealthCheck(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.cache != nil {
		if err := s.cache.HealthCheck(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "cache unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeScheduleRequest(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	subjectKey := syllabus.NormalizeKey(req.Subject)
	cacheKey := scheduleCacheKey(req.UserID, subjectKey)

	if s.cache != nil {
		var cached schedule.StudySchedule
		err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil {
			writeJSON(w, http.StatusOK, &cached)
			return
		}
		if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("schedule cache read failed", "error", err)
		}
	}

	records, err := s.store.List(ctx, req.UserID, subjectKey)
	if err != nil {
		slog.Error("failed to load progress", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	sched := s.gen.Generate(req.Subject, req.Topics, req.Wizard, toScheduleRecords(records))

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, sched, s.scheduleTTL); err != nil {
			slog.Warn("schedule cache write failed", "error", err)
		}
	}

	s.logEvent(analytics.Event{
		UserID:     req.UserID,
		SubjectKey: subjectKey,
		EventType:  "schedule_generated",
		Data: map[string]any{
			"topics":         len(req.Topics),
			"total_weeks":    sched.TotalWeeks,
			"revision_weeks": sched.RevisionWeeks,
		},
	})

	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) handleScheduleExport(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeScheduleRequest(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	subjectKey := syllabus.NormalizeKey(req.Subject)
	records, err := s.store.List(ctx, req.UserID, subjectKey)
	if err != nil {
		slog.Error("failed to load progress", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	sched := s.gen.Generate(req.Subject, req.Topics, req.Wizard, toScheduleRecords(records))

	book, err := buildWorkbook(sched)
	if err != nil {
		slog.Error("failed to build schedule workbook", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}
	defer book.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="study-schedule.xlsx"`)
	if err := book.Write(w); err != nil {
		slog.Error("failed to write workbook", "error", err)
	}
}

func (s *Server) handleProgressGet(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	subject := r.URL.Query().Get("subject")
	if userID == "" || subject == "" {
		writeError(w, http.StatusBadRequest, "user_id and subject are required")
		return
	}

	records, err := s.store.List(r.Context(), userID, syllabus.NormalizeKey(subject))
	if err != nil {
		slog.Error("failed to load progress", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}
	if records == nil {
		records = []progress.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleProgressPut(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if err := validateBody(compiledProgressSchema, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req progressPutRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ctx := r.Context()
	subjectKey := syllabus.NormalizeKey(req.Subject)
	if err := s.store.Upsert(ctx, req.UserID, subjectKey, req.Record); err != nil {
		slog.Error("failed to save progress", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save progress")
		return
	}

	// A progress write stales any cached schedule for this user+subject.
	if s.cache != nil {
		if err := s.cache.Delete(ctx, scheduleCacheKey(req.UserID, subjectKey)); err != nil {
			slog.Warn("schedule cache invalidation failed", "error", err)
		}
	}

	s.logEvent(analytics.Event{
		UserID:     req.UserID,
		SubjectKey: subjectKey,
		EventType:  "progress_updated",
		Data: map[string]any{
			"topic":              req.Record.Topic,
			"coaching_completed": req.Record.CoachingCompleted,
			"practice_completed": req.Record.PracticeCompleted,
			"exam_completed":     req.Record.ExamCompleted,
		},
	})

	s.hub.Notify(Notification{
		UserID:  req.UserID,
		Subject: subjectKey,
		Topic:   req.Record.Topic,
		Event:   "progress_updated",
	})

	w.WriteHeader(http.StatusNoContent)
}

// decodeScheduleRequest reads, validates and decodes a schedule request,
// filling the topic list from the catalog when the client sends none.
func (s *Server) decodeScheduleRequest(w http.ResponseWriter, r *http.Request) (scheduleRequest, bool) {
	var req scheduleRequest

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return req, false
	}
	if err := validateBody(compiledScheduleSchema, body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return req, false
	}

	if len(req.Topics) == 0 && s.catalog != nil {
		req.Topics = s.catalog.TopicsFor(req.Subject)
	}
	if len(req.Topics) == 0 {
		writeError(w, http.StatusBadRequest, "no topics selected and none in the catalog")
		return req, false
	}

	return req, true
}

func (s *Server) logEvent(event analytics.Event) {
	if err := s.events.LogEvent(event); err != nil {
		slog.Warn("failed to log event", "type", event.EventType, "error", err)
	}
}

func scheduleCacheKey(userID, subjectKey string) string {
	return "schedule:" + userID + ":" + subjectKey
}

func toScheduleRecords(records []progress.Record) []schedule.ProgressRecord {
	out := make([]schedule.ProgressRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, schedule.ProgressRecord{
			Topic:             rec.Topic,
			CoachingCompleted: rec.CoachingCompleted,
			PracticeCompleted: rec.PracticeCompleted,
			ExamCompleted:     rec.ExamCompleted,
		})
	}
	return out
}
