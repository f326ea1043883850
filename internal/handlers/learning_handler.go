package handlers

import (
	"errors"
	"net/http"

	"github.com/fhamyla/LexiLearn/internal/models"
	"github.com/fhamyla/LexiLearn/internal/repository"
	"github.com/fhamyla/LexiLearn/internal/scoring"
	"github.com/fhamyla/LexiLearn/internal/service"
)

// LearningHandler handles levels, practice submissions, and progress views
type LearningHandler struct {
	progressService *service.ProgressService
	accountRepo     *repository.AccountRepository
}

// NewLearningHandler creates a new learning handler
func NewLearningHandler(progressService *service.ProgressService, accountRepo *repository.AccountRepository) *LearningHandler {
	return &LearningHandler{
		progressService: progressService,
		accountRepo:     accountRepo,
	}
}

// ReadingLevels handles GET /api/levels/reading
func (h *LearningHandler) ReadingLevels(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	views, err := h.progressService.ReadingLevels(account.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// WritingLevels handles GET /api/levels/writing
func (h *LearningHandler) WritingLevels(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	views, err := h.progressService.WritingLevels(account.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// SubmitReading handles POST /api/practice/reading
func (h *LearningHandler) SubmitReading(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	var req struct {
		Level  int    `json:"level"`
		Spoken string `json:"spoken"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	score, err := h.progressService.SubmitReading(account.Email, req.Level, req.Spoken)
	if err != nil {
		h.respondSubmitError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"textAccuracy":     score.TextAccuracy,
		"phonemeAccuracy":  score.PhonemeAccuracy,
		"combinedAccuracy": score.CombinedAccuracy,
		"passed":           score.Passed,
	})
}

// SubmitWriting handles POST /api/practice/writing
func (h *LearningHandler) SubmitWriting(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())

	var req struct {
		Level  int             `json:"level"`
		Points []scoring.Point `json:"points"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	score, err := h.progressService.SubmitWriting(account.Email, req.Level, req.Points)
	if err != nil {
		h.respondSubmitError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"coverage": score.Coverage,
		"passed":   score.Passed,
	})
}

// MyProgress handles GET /api/progress
func (h *LearningHandler) MyProgress(w http.ResponseWriter, r *http.Request) {
	account := GetAccountFromContext(r.Context())
	progress, err := h.progressService.Progress(account.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

// StudentProgress handles GET /api/students/{email}/progress for teachers
func (h *LearningHandler) StudentProgress(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	student, err := h.accountRepo.GetByEmail(email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	if student == nil || student.Role != models.RoleGuardian {
		respondWithError(w, http.StatusNotFound, "No student with that email", nil)
		return
	}

	progress, err := h.progressService.Progress(email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"student":  accountView(student),
		"progress": progress,
	})
}

// ListStudents handles GET /api/students for teachers
func (h *LearningHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.accountRepo.ListByRoleAndStatus(models.RoleGuardian, models.StatusActive)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, accountViews(students))
}

func (h *LearningHandler) respondSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrLevelNotFound):
		respondWithError(w, http.StatusNotFound, "No such level", nil)
	case errors.Is(err, service.ErrLevelLocked):
		respondWithError(w, http.StatusForbidden, "Complete the previous level first", nil)
	default:
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
	}
}
