package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftadapt/internal/apperr"
	"github.com/claude/liftadapt/internal/event"
	"github.com/claude/liftadapt/internal/models"
	"github.com/claude/liftadapt/internal/storage"
	"github.com/go-chi/chi/v5"
)

type adaptRequest struct {
	Workout   models.Workout `json:"workout"`
	Readiness *float64       `json:"readiness,omitempty"`
}

type substituteRequest struct {
	Workout     models.Workout     `json:"workout"`
	Exercise    string             `json:"exercise"`
	Alternative models.Alternative `json:"alternative"`
}

type suggestRequest struct {
	Exercise     string              `json:"exercise"`
	Dislikes     []string            `json:"dislikes,omitempty"`
	PainLocation string              `json:"painLocation,omitempty"`
	Constraints  *models.Constraints `json:"constraints,omitempty"`
}

type selectRequest struct {
	Candidates        []models.Candidate `json:"candidates"`
	TargetMuscleGroup string             `json:"targetMuscleGroup,omitempty"`
	ExperienceLevel   models.Experience  `json:"experienceLevel,omitempty"`
}

type focusRequest struct {
	AestheticFocus string `json:"aestheticFocus"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleAdapt(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req adaptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out := s.engine(r, uid).AdaptWorkout(req.Workout, req.Readiness)
	s.logAdaptation(r, uid, storage.OpAdapt, out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSubstitute(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req substituteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Exercise) == "" || strings.TrimSpace(req.Alternative.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise and alternative.name are required"})
		return
	}

	out := s.engine(r, uid).Substitute(req.Workout, req.Exercise, req.Alternative)
	s.logAdaptation(r, uid, storage.OpSubstitute, out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSuggestSubstitutions(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req suggestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Exercise) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise is required"})
		return
	}
	writeJSON(w, http.StatusOK, s.engine(r, uid).SuggestSubstitutions(req.Exercise, req.Dislikes, req.PainLocation, req.Constraints))
}

func (s *Server) handleAlternates(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "exercise")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	alts := s.engine(r, uid).GetAlternates(name)
	if alts == nil {
		alts = []models.Alternative{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"exercise": name, "alternatives": alts})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	svc := s.engine(r, uid)
	since, until := svc.HistoryWindow()
	sessions, err := s.db.History(r.Context(), uid, since, until)
	if err != nil {
		// Selection still works without history; every candidate is treated as new.
		s.log.Warn("loading history for selection", "user_id", uid, "error", err)
	}
	profile := models.UserProfile{
		ExperienceLevel: req.ExperienceLevel,
		Progression:     svc.Progression(sessions),
	}
	writeJSON(w, http.StatusOK, svc.SelectExerciseForUser(req.Candidates, profile, req.TargetMuscleGroup))
}

func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	svc := s.engine(r, uid)
	since, until := svc.HistoryWindow()
	sessions, err := s.db.History(r.Context(), uid, since, until)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, svc.Progression(sessions))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	start, end, err := parseTimeRange(r, s.now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid time range: " + err.Error()})
		return
	}
	sessions, err := s.db.History(r.Context(), uid, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleVolumeSummary(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	start, end, err := parseTimeRange(r, s.now())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid time range: " + err.Error()})
		return
	}
	bucket := r.URL.Query().Get("bucket")
	if bucket == "" {
		bucket = "week"
	}
	periods, err := s.db.GetVolumeSummary(r.Context(), start, end, bucket, uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.engine(r, uid).GetSplitInfo())
}

func (s *Server) handleUpdateFocus(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req focusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	focus, err := models.ParseFocus(req.AestheticFocus)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	svc := s.engine(r, uid)
	if err := svc.UpdateAestheticFocus(r.Context(), focus); err != nil {
		s.log.Error("updating aesthetic focus", "user_id", uid, "error", err)
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, svc.GetSplitInfo())
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req event.Readiness
	if !decodeJSON(w, r, &req) {
		return
	}
	if !models.ValidReadiness(req.ReadinessScore) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "readinessScore must be between 1 and 10"})
		return
	}

	if err := s.db.SaveReadiness(r.Context(), uid, req.ReadinessScore); err != nil {
		s.log.Error("saving readiness", "user_id", uid, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.bus.Publish(event.ReadinessUpdated{UserID: uid, Readiness: req, At: s.now()})
	writeJSON(w, http.StatusOK, s.engine(r, uid).GetSplitInfo())
}

func (s *Server) handleAdaptationLogs(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	logs, err := s.db.QueryAdaptationLogs(r.Context(), uid, queryLimit(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// logAdaptation records a returned workout. Failures are logged only; the
// caller already has its result.
func (s *Server) logAdaptation(r *http.Request, uid int, op string, out models.Workout) {
	entry, err := storage.NewAdaptationLog(uid, op, out)
	if err == nil {
		err = s.db.InsertAdaptationLog(r.Context(), entry)
	}
	if err != nil {
		s.log.Warn("failed to log adaptation", "user_id", uid, "operation", op, "error", err)
	}
}

// statusFor maps an engine error to an HTTP status.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindDependencyUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func queryLimit(r *http.Request) int {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseTimeRange reads start/end query parameters (RFC 3339 or YYYY-MM-DD),
// defaulting to the 30 days before now.
func parseTimeRange(r *http.Request, now time.Time) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	end = now
	if endStr != "" {
		if end, err = parseFlexTime(endStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	start = end.AddDate(0, 0, -30)
	if startStr != "" {
		if start, err = parseFlexTime(startStr); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
