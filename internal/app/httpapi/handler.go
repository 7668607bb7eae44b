package httpapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/aurawell/aura/internal/ai"
	"github.com/aurawell/aura/internal/app"
	"github.com/aurawell/aura/internal/app/domain/community"
	"github.com/aurawell/aura/internal/app/domain/day"
	"github.com/aurawell/aura/internal/app/domain/profile"
	"github.com/aurawell/aura/internal/app/domain/report"
	"github.com/aurawell/aura/internal/app/services/aura"
	avatarsvc "github.com/aurawell/aura/internal/app/services/avatar"
	"github.com/aurawell/aura/internal/app/services/journal"
	reportsvc "github.com/aurawell/aura/internal/app/services/report"
	"github.com/aurawell/aura/internal/app/storage"
	"github.com/aurawell/aura/pkg/logger"
)

// Handler exposes the application over HTTP. Routing is done by hand on path
// segments; the API is small enough that a router dependency buys nothing.
type Handler struct {
	app   *app.Application
	log   *logger.Logger
	audit *AuditLog
	chat  *chatHandler
}

// NewHandler creates the API handler. audit may be nil to disable the trail.
func NewHandler(a *app.Application, audit *AuditLog, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	return &Handler{
		app:   a,
		log:   log,
		audit: audit,
		chat:  newChatHandler(a, log.WithField("handler", "chat")),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	segments := splitPath(r.URL.Path)
	if len(segments) == 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch segments[0] {
	case "healthz":
		h.handleHealth(w, r)
	case "metrics":
		h.app.Metrics.Handler().ServeHTTP(w, r)
	case "targets":
		h.handleTargets(w, r, segments[1:])
	case "days":
		h.handleDays(w, r, segments[1:])
	case "score":
		h.handleScore(w, r, segments[1:])
	case "ledger":
		h.handleLedger(w, r, segments[1:])
	case "share":
		h.handleShare(w, r, segments[1:])
	case "aura":
		h.handleAura(w, r, segments[1:])
	case "report":
		h.handleReport(w, r, segments[1:])
	case "community":
		h.handleCommunity(w, r, segments[1:])
	case "avatar":
		h.handleAvatar(w, r, segments[1:])
	case "profile":
		h.handleProfile(w, r, segments[1:])
	case "chat":
		h.chat.serve(w, r)
	case "audit":
		h.handleAudit(w, r, segments[1:])
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Payloads --------------------------------------------------------------------

type targetsPayload struct {
	Steps      int     `json:"steps"`
	Calories   int     `json:"calories"`
	SleepHours float64 `json:"sleep_hours"`
}

type statsPayload struct {
	Steps      int     `json:"steps"`
	Calories   int     `json:"calories"`
	SleepHours float64 `json:"sleep_hours"`
}

type imagePayload struct {
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (p imagePayload) decode() ([]byte, string, error) {
	raw, err := base64.StdEncoding.DecodeString(p.ImageBase64)
	if err != nil {
		return nil, "", fmt.Errorf("invalid image_base64: %w", err)
	}
	mime := strings.TrimSpace(p.MimeType)
	if mime == "" {
		mime = "image/jpeg"
	}
	return raw, mime, nil
}

type taskInputPayload struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

type addTasksPayload struct {
	Tasks []taskInputPayload `json:"tasks"`
}

type submitPayload struct {
	Text        string `json:"text,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
}

type sharePayload struct {
	Amount   int    `json:"amount"`
	MemberID string `json:"member_id,omitempty"`
}

type receivePayload struct {
	Amount int `json:"amount"`
}

type memberPayload struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Status    string `json:"status,omitempty"`
	AuraScore int    `json:"aura_score,omitempty"`
}

// Views -----------------------------------------------------------------------

type taskView struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`
	Completed bool   `json:"completed"`
	UserInput string `json:"user_input,omitempty"`
	Feedback  string `json:"feedback,omitempty"`
}

type dayView struct {
	Date  string       `json:"date"`
	Stats statsPayload `json:"stats"`
	Tasks []taskView   `json:"tasks"`
}

func toDayView(rec day.Record) dayView {
	v := dayView{
		Date:  rec.Date,
		Stats: statsPayload{Steps: rec.Stats.Steps, Calories: rec.Stats.Calories, SleepHours: rec.Stats.SleepHours},
		Tasks: make([]taskView, 0, len(rec.Tasks)),
	}
	for _, t := range rec.Tasks {
		v.Tasks = append(v.Tasks, toTaskView(t))
	}
	return v
}

func toTaskView(t day.Task) taskView {
	return taskView{
		ID:        t.ID,
		Text:      t.Text,
		Type:      string(t.Type),
		Completed: t.Completed,
		UserInput: t.UserInput,
		Feedback:  t.Feedback,
	}
}

type scoreView struct {
	Base     int `json:"base"`
	Bonus    int `json:"bonus"`
	Shared   int `json:"shared"`
	Received int `json:"received"`
	Score    int `json:"score"`
}

func toScoreView(b aura.Breakdown) scoreView {
	return scoreView{Base: b.Base, Bonus: b.Bonus, Shared: b.Shared, Received: b.Received, Score: b.Score}
}

type memberView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Status    string `json:"status,omitempty"`
	AuraScore int    `json:"aura_score"`
}

func toMemberView(m community.Member) memberView {
	return memberView{ID: m.ID, Name: m.Name, AvatarURL: m.AvatarURL, Status: m.Status, AuraScore: m.AuraScore}
}

type reportRowView struct {
	Date           string  `json:"date"`
	Day            string  `json:"day"`
	Steps          int     `json:"steps"`
	Calories       int     `json:"calories"`
	SleepHours     float64 `json:"sleep_hours"`
	TasksCompleted int     `json:"tasks_completed"`
	TasksTotal     int     `json:"tasks_total"`
	AuraScore      int     `json:"aura_score"`
}

func toReportRowView(r report.DaySummary) reportRowView {
	return reportRowView{
		Date:           r.Date,
		Day:            r.Day,
		Steps:          r.Steps,
		Calories:       r.Calories,
		SleepHours:     r.SleepHours,
		TasksCompleted: r.TasksCompleted,
		TasksTotal:     r.TasksTotal,
		AuraScore:      r.AuraScore,
	}
}

// Routes ----------------------------------------------------------------------

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleTargets(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) != 0 {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		t, err := h.app.Journal.Targets(r.Context())
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, targetsPayload{Steps: t.Steps, Calories: t.Calories, SleepHours: t.SleepHours})
	case http.MethodPut:
		var payload targetsPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		t, err := h.app.Journal.SetTargets(r.Context(), profile.Targets{
			Steps:      payload.Steps,
			Calories:   payload.Calories,
			SleepHours: payload.SleepHours,
		})
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.record(r, "targets.update", fmt.Sprintf("steps=%d calories=%d sleep=%.1f", t.Steps, t.Calories, t.SleepHours))
		writeJSON(w, http.StatusOK, targetsPayload{Steps: t.Steps, Calories: t.Calories, SleepHours: t.SleepHours})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleDays(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) == 0 {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		days, err := h.app.Journal.Days(r.Context())
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		views := make([]dayView, 0, len(days))
		for _, rec := range days {
			views = append(views, toDayView(rec))
		}
		writeJSON(w, http.StatusOK, views)
		return
	}

	date := rest[0]
	switch {
	case len(rest) == 1:
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		rec, err := h.app.Journal.Day(r.Context(), date)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDayView(rec))
	case rest[1] == "stats":
		h.handleDayStats(w, r, date, rest[2:])
	case rest[1] == "tasks":
		h.handleDayTasks(w, r, date, rest[2:])
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *Handler) handleDayStats(w http.ResponseWriter, r *http.Request, date string, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		rec, err := h.app.Journal.Day(r.Context(), date)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, statsPayload{Steps: rec.Stats.Steps, Calories: rec.Stats.Calories, SleepHours: rec.Stats.SleepHours})
	case len(rest) == 0 && r.Method == http.MethodPut:
		var payload statsPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rec, err := h.app.Journal.UpdateStats(r.Context(), date, day.Stats{
			Steps:      payload.Steps,
			Calories:   payload.Calories,
			SleepHours: payload.SleepHours,
		})
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.record(r, "stats.update", date)
		writeJSON(w, http.StatusOK, toDayView(rec))
	case len(rest) == 1 && rest[0] == "import" && r.Method == http.MethodPost:
		var payload imagePayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		image, mime, err := payload.decode()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rec, err := h.app.Journal.ImportStats(r.Context(), date, image, mime)
		h.countAICall("extract_stats", err)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.record(r, "stats.import", date)
		writeJSON(w, http.StatusOK, toDayView(rec))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleDayTasks(w http.ResponseWriter, r *http.Request, date string, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		rec, err := h.app.Journal.Day(r.Context(), date)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		views := make([]taskView, 0, len(rec.Tasks))
		for _, t := range rec.Tasks {
			views = append(views, toTaskView(t))
		}
		writeJSON(w, http.StatusOK, views)
	case len(rest) == 0 && r.Method == http.MethodPost:
		var payload addTasksPayload
		if err := decodeJSON(r, &payload); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// An empty task list asks for generated ones.
		if len(payload.Tasks) == 0 {
			rec, err := h.app.Journal.GenerateTasks(r.Context(), date)
			h.countAICall("generate_tasks", err)
			if err != nil {
				h.writeServiceError(w, err)
				return
			}
			h.record(r, "tasks.generate", date)
			writeJSON(w, http.StatusOK, toDayView(rec))
			return
		}
		inputs := make([]day.TaskInput, 0, len(payload.Tasks))
		for _, t := range payload.Tasks {
			inputs = append(inputs, day.TaskInput{Text: t.Text, Type: day.ParseTaskType(t.Type)})
		}
		rec, err := h.app.Journal.AddTasks(r.Context(), date, inputs)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.record(r, "tasks.add", date)
		writeJSON(w, http.StatusCreated, toDayView(rec))
	case len(rest) == 1 && rest[0] == "generate" && r.Method == http.MethodPost:
		rec, err := h.app.Journal.GenerateTasks(r.Context(), date)
		h.countAICall("generate_tasks", err)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.record(r, "tasks.generate", date)
		writeJSON(w, http.StatusOK, toDayView(rec))
	case len(rest) == 2 && rest[1] == "submit" && r.Method == http.MethodPost:
		h.handleTaskSubmit(w, r, date, rest[0])
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleTaskSubmit(w http.ResponseWriter, r *http.Request, date, rawID string) {
	taskID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var payload submitPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Re-submitting a completed task is a no-op success; it must not move
	// the counters.
	alreadyDone := h.taskCompleted(r.Context(), date, taskID)

	var task day.Task
	switch {
	case payload.Text != "":
		task, err = h.app.Journal.SubmitWriting(r.Context(), date, taskID, payload.Text)
	case payload.ImageBase64 != "":
		var image []byte
		var mime string
		image, mime, err = imagePayload{ImageBase64: payload.ImageBase64, MimeType: payload.MimeType}.decode()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		task, err = h.app.Journal.SubmitImage(r.Context(), date, taskID, image, mime)
	default:
		writeError(w, http.StatusBadRequest, "either text or image_base64 is required")
		return
	}
	if !alreadyDone {
		h.countAICall("verify_submission", err)
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if !alreadyDone {
		h.app.Metrics.TasksCompleted.Inc()
	}
	h.record(r, "tasks.submit", fmt.Sprintf("%s/%d", date, taskID))
	writeJSON(w, http.StatusOK, toTaskView(task))
}

func (h *Handler) taskCompleted(ctx context.Context, date string, taskID int64) bool {
	rec, err := h.app.Journal.Day(ctx, date)
	if err != nil {
		return false
	}
	for _, t := range rec.Tasks {
		if t.ID == taskID {
			return t.Completed
		}
	}
	return false
}

func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) != 0 || r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	b, err := h.app.Aura.Score(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScoreView(b))
}

func (h *Handler) handleLedger(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) != 0 || r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	led, err := h.app.Aura.Totals(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"shared": led.Shared, "received": led.Received})
}

func (h *Handler) handleShare(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) != 0 || r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload sharePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := h.app.Aura.Share(r.Context(), payload.Amount, payload.MemberID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.app.Metrics.AuraShared.Add(float64(payload.Amount))
	h.record(r, "aura.share", fmt.Sprintf("amount=%d member=%s", payload.Amount, payload.MemberID))
	writeJSON(w, http.StatusOK, toScoreView(b))
}

func (h *Handler) handleAura(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) != 1 || rest[0] != "receive" || r.Method != http.MethodPost {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	var payload receivePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := h.app.Aura.Receive(r.Context(), payload.Amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.app.Metrics.AuraReceived.Add(float64(payload.Amount))
	h.record(r, "aura.receive", fmt.Sprintf("amount=%d", payload.Amount))
	writeJSON(w, http.StatusOK, toScoreView(b))
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		rows, err := h.app.Report.Project(r.Context())
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		views := make([]reportRowView, 0, len(rows))
		for _, row := range rows {
			views = append(views, toReportRowView(row))
		}
		writeJSON(w, http.StatusOK, views)
	case len(rest) == 1 && rest[0] == "overview" && r.Method == http.MethodGet:
		ov, err := h.app.Report.Overview(r.Context())
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]float64{
			"avg_steps":            ov.AvgSteps,
			"avg_calories":         ov.AvgCalories,
			"task_completion_rate": ov.TaskCompletionRate,
		})
	case len(rest) == 1 && rest[0] == "summary" && r.Method == http.MethodPost:
		summary, err := h.app.Report.Summarize(r.Context())
		h.countAICall("summarize", err)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		// The narrative comes from the model; the score shown next to it is
		// always the locally computed one.
		local, err := h.app.Aura.Score(r.Context())
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.record(r, "report.summary", fmt.Sprintf("score=%d", local.Score))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"summary": summary.Summary,
			"score":   local.Score,
		})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleCommunity(w http.ResponseWriter, r *http.Request, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		members, err := h.app.Community.Members(r.Context())
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		views := make([]memberView, 0, len(members))
		for _, m := range members {
			views = append(views, toMemberView(m))
		}
		writeJSON(w, http.StatusOK, views)
	case len(rest) == 0 && r.Method == http.MethodPost:
		var payload memberPayload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		m, err := h.app.Community.Add(r.Context(), community.Member{
			Name:      payload.Name,
			AvatarURL: payload.AvatarURL,
			Status:    payload.Status,
			AuraScore: payload.AuraScore,
		})
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		h.record(r, "community.add", m.Name)
		writeJSON(w, http.StatusCreated, toMemberView(m))
	case len(rest) == 1 && r.Method == http.MethodGet:
		m, err := h.app.Community.Member(r.Context(), rest[0])
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMemberView(m))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleAvatar(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) != 0 || r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload imagePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	image, mime, err := payload.decode()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	uri, err := h.app.Avatar.Generate(r.Context(), image, mime)
	h.countAICall("generate_avatar", err)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.record(r, "avatar.generate", "")
	writeJSON(w, http.StatusOK, map[string]string{"avatar_url": uri})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) != 0 || r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	u, err := h.app.Profile(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": u.Name, "avatar_url": u.AvatarURL})
}

func (h *Handler) handleAudit(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) != 0 || r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.audit == nil {
		writeJSON(w, http.StatusOK, []AuditEntry{})
		return
	}
	writeJSON(w, http.StatusOK, h.audit.Entries())
}

func (h *Handler) countAICall(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	h.app.Metrics.AICalls.WithLabelValues(op, outcome).Inc()
}

func (h *Handler) record(r *http.Request, action, detail string) {
	if h.audit == nil {
		return
	}
	h.audit.Record(r, action, detail)
}

// Error mapping ---------------------------------------------------------------

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var rejection *journal.RejectionError
	var collaborator *ai.CollaboratorError

	switch {
	case errors.Is(err, storage.ErrDayNotFound),
		errors.Is(err, storage.ErrTaskNotFound),
		errors.Is(err, storage.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, aura.ErrInsufficientAura):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &rejection):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":    "submission rejected",
			"feedback": rejection.Feedback,
		})
	case errors.As(err, &collaborator):
		h.log.WithError(err).Error("collaborator failure")
		writeError(w, http.StatusBadGateway, "model collaborator unavailable")
	case errors.Is(err, journal.ErrNoCollaborator),
		errors.Is(err, reportsvc.ErrNoCollaborator),
		errors.Is(err, avatarsvc.ErrNoCollaborator):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// Helpers ---------------------------------------------------------------------

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
