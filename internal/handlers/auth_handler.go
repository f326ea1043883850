package handlers

import (
	"errors"
	"net/http"

	"github.com/fhamyla/LexiLearn/internal/security"
	"github.com/fhamyla/LexiLearn/internal/service"
	"github.com/fhamyla/LexiLearn/internal/validation"
)

// AuthHandler handles signup, OTP verification, and sign-in
type AuthHandler struct {
	accountService *service.AccountService
	tokens         *security.TokenManager
	oauth          *googleOAuth
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accountService *service.AccountService, tokens *security.TokenManager, oauth *googleOAuth) *AuthHandler {
	return &AuthHandler{
		accountService: accountService,
		tokens:         tokens,
		oauth:          oauth,
	}
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		Role       string `json:"role"`
		FirstName  string `json:"firstName"`
		MiddleName string `json:"middleName"`
		LastName   string `json:"lastName"`
		ChildName  string `json:"childName"`
		ChildAge   int    `json:"childAge"`
		Severity   string `json:"severity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountService.SignUp(r.Context(), service.SignUpInput{
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		ChildName:  req.ChildName,
		ChildAge:   req.ChildAge,
		Severity:   req.Severity,
	})
	if err != nil {
		var validationErr validation.ValidationError
		switch {
		case errors.As(err, &validationErr):
			respondWithError(w, http.StatusBadRequest, validationErr.Error(), nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, "An account with that email already exists", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, accountView(account))
}

// SendOTP handles POST /api/auth/otp/send
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.accountService.SendOTP(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			respondWithError(w, http.StatusNotFound, "No account with that email", nil)
		case errors.Is(err, service.ErrAlreadyVerified):
			respondWithError(w, http.StatusConflict, "Email is already verified", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		}
		return
	}

	respondMessage(w, http.StatusOK, "Verification code sent")
}

// VerifyOTP handles POST /api/auth/otp/verify
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.accountService.VerifyEmail(r.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			respondWithError(w, http.StatusNotFound, "No account with that email", nil)
		case errors.Is(err, service.ErrAlreadyVerified):
			respondWithError(w, http.StatusConflict, "Email is already verified", nil)
		case errors.Is(err, service.ErrOTPExpired):
			respondWithError(w, http.StatusBadRequest, "That code has expired, request a new one", nil)
		case errors.Is(err, service.ErrOTPInvalid):
			respondWithError(w, http.StatusBadRequest, "Invalid verification code", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		}
		return
	}

	respondMessage(w, http.StatusOK, "Email verified")
}

// SignIn handles POST /api/auth/login
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownEmail):
			respondWithError(w, http.StatusUnauthorized, "No account with that email", nil)
		case errors.Is(err, service.ErrWrongPassword):
			respondWithError(w, http.StatusUnauthorized, "Wrong password", nil)
		case errors.Is(err, service.ErrEmailNotVerified):
			respondWithError(w, http.StatusForbidden, "Verify your email before signing in", nil)
		case errors.Is(err, service.ErrPendingApproval):
			respondWithError(w, http.StatusForbidden, "Your account is awaiting admin approval", nil)
		case errors.Is(err, service.ErrAccountDisabled):
			respondWithError(w, http.StatusForbidden, "Your account has been disabled", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		}
		return
	}

	token, err := h.tokens.Issue(account.Email, account.Role)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":   token,
		"account": accountView(account),
	})
}
