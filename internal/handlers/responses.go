package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/fhamyla/LexiLearn/internal/models"
)

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Forbidden"
	ErrInternalServerError = "Internal server error"
	ErrTooManyRequests     = "Too many requests"
)

// apiResponse is the envelope every JSON endpoint writes
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{Success: true, Data: data}); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{Success: true, Message: message}); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg string, err error) {
	if err != nil {
		log.Printf("%s: %v", userMsg, err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(apiResponse{Success: false, Message: userMsg}); encErr != nil {
		log.Printf("Failed to encode error response: %v", encErr)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, err)
		return false
	}
	return true
}

// AccountView is the account shape returned to clients. It never carries
// credential material.
type AccountView struct {
	Email               string     `json:"email"`
	Role                string     `json:"role"`
	Status              string     `json:"status"`
	EmailVerified       bool       `json:"emailVerified"`
	FirstName           string     `json:"firstName"`
	MiddleName          string     `json:"middleName,omitempty"`
	LastName            string     `json:"lastName"`
	FullName            string     `json:"fullName"`
	ChildName           string     `json:"childName,omitempty"`
	ChildAge            int        `json:"childAge,omitempty"`
	Severity            string     `json:"severity,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	DeletionScheduledAt *time.Time `json:"deletionScheduledAt,omitempty"`
}

func accountView(account *models.Account) AccountView {
	return AccountView{
		Email:               account.Email,
		Role:                account.Role,
		Status:              account.Status,
		EmailVerified:       account.EmailVerified,
		FirstName:           account.FirstName,
		MiddleName:          account.MiddleName,
		LastName:            account.LastName,
		FullName:            account.FullName(),
		ChildName:           account.ChildName,
		ChildAge:            account.ChildAge,
		Severity:            account.Severity,
		CreatedAt:           account.CreatedAt,
		DeletionScheduledAt: account.DeletionScheduledAt,
	}
}

func accountViews(accounts []models.Account) []AccountView {
	views := make([]AccountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, accountView(&accounts[i]))
	}
	return views
}
