package handlers

import (
	"errors"
	"net/http"

	"github.com/fhamyla/LexiLearn/internal/models"
	"github.com/fhamyla/LexiLearn/internal/repository"
	"github.com/fhamyla/LexiLearn/internal/service"
)

// AdminHandler handles account administration
type AdminHandler struct {
	accountService *service.AccountService
	accountRepo    *repository.AccountRepository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(accountService *service.AccountService, accountRepo *repository.AccountRepository) *AdminHandler {
	return &AdminHandler{
		accountService: accountService,
		accountRepo:    accountRepo,
	}
}

// ListAccounts handles GET /api/admin/accounts with optional role and
// status query filters
func (h *AdminHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	status := r.URL.Query().Get("status")

	var accounts []models.Account
	var err error
	switch {
	case role != "" && status != "":
		accounts, err = h.accountRepo.ListByRoleAndStatus(role, status)
	case role != "":
		accounts, err = h.accountRepo.ListByRole(role)
	default:
		accounts, err = h.accountRepo.ListAll()
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, accountViews(accounts))
}

// ListPendingTeachers handles GET /api/admin/teachers/pending
func (h *AdminHandler) ListPendingTeachers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountRepo.ListByRoleAndStatus(models.RoleTeacher, models.StatusPending)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, accountViews(accounts))
}

// ApproveTeacher handles POST /api/admin/teachers/approve
func (h *AdminHandler) ApproveTeacher(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.accountService.ApproveTeacher(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			respondWithError(w, http.StatusNotFound, "No account with that email", nil)
		case errors.Is(err, service.ErrNotPending):
			respondWithError(w, http.StatusConflict, "Account is not awaiting approval", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		}
		return
	}

	respondMessage(w, http.StatusOK, "Teacher approved")
}

// DeleteAccount handles POST /api/admin/accounts/delete. The request must
// carry exactly one of password (immediate delete, confirmed with the
// account's own password) or delaySeconds (disable now, erase later).
func (h *AdminHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		DelaySeconds int64  `json:"delaySeconds"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	immediate := req.Password != ""
	delayed := req.DelaySeconds > 0
	if immediate == delayed {
		respondWithError(w, http.StatusBadRequest, "Provide either password or delaySeconds, not both", nil)
		return
	}

	if immediate {
		err := h.accountService.DeleteNow(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrAccountNotFound):
				respondWithError(w, http.StatusNotFound, "No account with that email", nil)
			case errors.Is(err, service.ErrWrongPassword):
				respondWithError(w, http.StatusForbidden, "Wrong password", nil)
			default:
				respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
			}
			return
		}
		respondMessage(w, http.StatusOK, "Account deleted")
		return
	}

	err := h.accountService.ScheduleDelete(r.Context(), req.Email, req.DelaySeconds)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			respondWithError(w, http.StatusNotFound, "No account with that email", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		}
		return
	}
	respondMessage(w, http.StatusOK, "Account disabled, deletion scheduled")
}

// RunSweep handles POST /api/admin/sweep and triggers the reconcile pass
// immediately
func (h *AdminHandler) RunSweep(w http.ResponseWriter, r *http.Request) {
	purged, deleted, err := h.accountService.Reconcile(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{
		"purged":  purged,
		"deleted": deleted,
	})
}
