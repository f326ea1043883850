package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/fhamyla/LexiLearn/internal/models"
	"github.com/fhamyla/LexiLearn/internal/validation"
)

var (
	ErrEmailTaken       = errors.New("email already taken")
	ErrAccountNotFound  = errors.New("account not found")
	ErrUnknownEmail     = errors.New("no account with that email")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrPendingApproval  = errors.New("account awaiting admin approval")
	ErrAccountDisabled  = errors.New("account disabled")
	ErrAlreadyVerified  = errors.New("email already verified")
	ErrOTPInvalid       = errors.New("invalid OTP code")
	ErrOTPExpired       = errors.New("OTP code expired")
	ErrNotPending       = errors.New("account is not awaiting approval")
)

// AccountStore is the persistence surface the lifecycle machine needs
type AccountStore interface {
	Create(account *models.Account) error
	GetByEmail(email string) (*models.Account, error)
	SetStatus(email, status string) error
	SetEmailVerified(email string) error
	ScheduleDeletion(email string, at time.Time, delaySeconds int64) error
	Delete(email string) error
	ListUnverifiedCreatedBefore(cutoff time.Time) ([]models.Account, error)
	ListScheduledForDeletion() ([]models.Account, error)
}

// OTPStore holds at most one pending verification code per email
type OTPStore interface {
	Put(email, code string, expiresAt time.Time) error
	Get(email string) (*models.OTP, error)
	MarkUsed(email string) error
	Delete(email string) error
	DeleteExpired() error
}

// ProgressStore is the slice of progress persistence the lifecycle machine
// needs when an account is erased
type ProgressStore interface {
	DeleteForEmail(email string) error
}

// Mailer sends lifecycle emails
type Mailer interface {
	SendOTPEmail(ctx context.Context, toEmail, toName, code string) error
	SendApprovalEmail(ctx context.Context, toEmail, toName string) error
}

// AccountService drives the account lifecycle: signup, OTP verification,
// admin approval, and the two delayed removals (unverified purge and
// scheduled deletion).
//
// Timed removals run on two layers. In-process timers fire close to the
// deadline as a fast path; the Reconcile sweep is the authority and catches
// anything the timers miss, including work left over from a previous run.
// Both re-check the stored account state before acting, so running them in
// any order or more than once is safe.
type AccountService struct {
	accounts AccountStore
	otps     OTPStore
	creds    CredentialProvider
	progress ProgressStore
	mailer   Mailer

	now func() time.Time

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewAccountService creates a new account lifecycle service
func NewAccountService(accounts AccountStore, otps OTPStore, creds CredentialProvider, progress ProgressStore, mailer Mailer) *AccountService {
	return &AccountService{
		accounts: accounts,
		otps:     otps,
		creds:    creds,
		progress: progress,
		mailer:   mailer,
		now:      time.Now,
		timers:   make(map[string]*time.Timer),
	}
}

// SignUpInput carries everything collected on the signup form
type SignUpInput struct {
	Email      string
	Password   string
	Role       string
	FirstName  string
	MiddleName string
	LastName   string
	ChildName  string
	ChildAge   int
	Severity   string
}

// SignUp creates an unverified account and sends the first OTP code.
// Guardians start active, teachers start pending admin approval; neither can
// sign in until the email is verified.
func (s *AccountService) SignUp(ctx context.Context, input SignUpInput) (*models.Account, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validation.ValidateRole(input.Role); err != nil {
		return nil, err
	}
	if err := validation.ValidateName("first name", input.FirstName); err != nil {
		return nil, err
	}
	if err := validation.ValidateName("last name", input.LastName); err != nil {
		return nil, err
	}
	if input.Role == models.RoleGuardian {
		if err := validation.ValidateName("child name", input.ChildName); err != nil {
			return nil, err
		}
		if err := validation.ValidateChildAge(input.ChildAge); err != nil {
			return nil, err
		}
		if err := validation.ValidateSeverity(input.Severity); err != nil {
			return nil, err
		}
	}

	existing, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	now := s.now()
	account := &models.Account{
		Email:         email,
		Role:          input.Role,
		Status:        models.InitialStatus(input.Role),
		EmailVerified: false,
		FirstName:     strings.TrimSpace(input.FirstName),
		MiddleName:    strings.TrimSpace(input.MiddleName),
		LastName:      strings.TrimSpace(input.LastName),
		ChildName:     strings.TrimSpace(input.ChildName),
		ChildAge:      input.ChildAge,
		Severity:      input.Severity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.accounts.Create(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	if err := s.creds.Create(email, input.Password); err != nil {
		// Without a credential the account can never sign in or verify, and
		// the row would block a retry until the purge clears it
		if delErr := s.accounts.Delete(email); delErr != nil {
			log.Printf("Failed to remove account %s after credential failure: %v", email, delErr)
		}
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	if err := s.SendOTP(ctx, email); err != nil {
		// The account exists and the code can be re-requested, so signup
		// still succeeds
		log.Printf("Failed to send initial OTP to %s: %v", email, err)
	}

	s.armTimer("purge:"+email, now.Add(models.UnverifiedGracePeriod), func() {
		s.purgeIfStillUnverified(email)
	})

	log.Printf("Account created: email=%s role=%s status=%s", email, account.Role, account.Status)
	return account, nil
}

// SendOTP issues a fresh verification code to an unverified account,
// replacing any earlier code for that email
func (s *AccountService) SendOTP(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return ErrAccountNotFound
	}
	if account.EmailVerified {
		return ErrAlreadyVerified
	}

	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("failed to generate OTP code: %w", err)
	}
	if err := s.otps.Put(email, code, s.now().Add(models.OTPLifetime)); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}
	if err := s.mailer.SendOTPEmail(ctx, email, account.FullName(), code); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

// VerifyEmail consumes an OTP code and marks the account's email verified.
// A code only works once; expired, mismatched, or already-used codes are
// rejected.
func (s *AccountService) VerifyEmail(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validation.ValidateOTPCode(code); err != nil {
		return ErrOTPInvalid
	}

	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return ErrAccountNotFound
	}
	if account.EmailVerified {
		return ErrAlreadyVerified
	}

	otp, err := s.otps.Get(email)
	if err != nil {
		return fmt.Errorf("failed to get OTP: %w", err)
	}
	if otp == nil || otp.Used || otp.Code != code {
		return ErrOTPInvalid
	}
	if otp.IsExpired(s.now()) {
		return ErrOTPExpired
	}

	if err := s.otps.MarkUsed(email); err != nil {
		return fmt.Errorf("failed to mark OTP used: %w", err)
	}
	if err := s.accounts.SetEmailVerified(email); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	s.cancelTimer("purge:" + email)
	log.Printf("Email verified: %s", email)
	return nil
}

// SignIn authenticates an account. Each way a sign-in can fail maps to its
// own sentinel error so the caller can explain the reason: unknown email,
// disabled account, wrong password, unverified email, or pending approval.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrUnknownEmail
	}
	if account.Status == models.StatusDisabled {
		return nil, ErrAccountDisabled
	}

	if err := s.creds.Verify(email, password); err != nil {
		if errors.Is(err, ErrWrongPassword) || errors.Is(err, ErrCredentialNotFound) {
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("failed to verify credential: %w", err)
	}

	if !account.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	if account.Status == models.StatusPending {
		return nil, ErrPendingApproval
	}
	return account, nil
}

// SignInWithGoogle finds or creates the guardian account for an email that
// Google has already verified. New accounts skip the OTP step entirely; the
// lifecycle rules for existing accounts still apply.
func (s *AccountService) SignInWithGoogle(ctx context.Context, email, firstName, lastName string) (*models.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if account == nil {
		now := s.now()
		account = &models.Account{
			Email:         email,
			Role:          models.RoleGuardian,
			Status:        models.StatusActive,
			EmailVerified: true,
			FirstName:     strings.TrimSpace(firstName),
			LastName:      strings.TrimSpace(lastName),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.accounts.Create(account); err != nil {
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		log.Printf("Account created via Google: %s", email)
		return account, nil
	}

	if account.Status == models.StatusDisabled {
		return nil, ErrAccountDisabled
	}
	if account.Status == models.StatusPending {
		return nil, ErrPendingApproval
	}
	if !account.EmailVerified {
		if err := s.accounts.SetEmailVerified(email); err != nil {
			return nil, fmt.Errorf("failed to mark email verified: %w", err)
		}
		account.EmailVerified = true
		s.cancelTimer("purge:" + email)
	}
	return account, nil
}

// ApproveTeacher moves a pending teacher account to active and emails them
func (s *AccountService) ApproveTeacher(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return ErrAccountNotFound
	}
	if account.Status != models.StatusPending {
		return ErrNotPending
	}

	if err := s.accounts.SetStatus(email, models.StatusActive); err != nil {
		return fmt.Errorf("failed to activate account: %w", err)
	}

	if err := s.mailer.SendApprovalEmail(ctx, email, account.FullName()); err != nil {
		log.Printf("Failed to send approval email to %s: %v", email, err)
	}

	log.Printf("Teacher approved: %s", email)
	return nil
}

// DeleteNow erases an account immediately. The caller must supply the
// account's password as a deliberate confirmation step.
func (s *AccountService) DeleteNow(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return ErrAccountNotFound
	}

	if err := s.creds.Verify(email, password); err != nil {
		if errors.Is(err, ErrWrongPassword) || errors.Is(err, ErrCredentialNotFound) {
			return ErrWrongPassword
		}
		return fmt.Errorf("failed to verify credential: %w", err)
	}

	return s.eraseAccount(email)
}

// ScheduleDelete disables an account now and erases it after the given delay.
// There is no cancel operation; scheduling is a commitment.
func (s *AccountService) ScheduleDelete(ctx context.Context, email string, delaySeconds int64) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if delaySeconds <= 0 {
		return fmt.Errorf("delay must be positive, got %d seconds", delaySeconds)
	}

	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return ErrAccountNotFound
	}

	now := s.now()
	if err := s.accounts.SetStatus(email, models.StatusDisabled); err != nil {
		return fmt.Errorf("failed to disable account: %w", err)
	}
	if err := s.accounts.ScheduleDeletion(email, now, delaySeconds); err != nil {
		return fmt.Errorf("failed to schedule deletion: %w", err)
	}

	s.armTimer("delete:"+email, now.Add(time.Duration(delaySeconds)*time.Second), func() {
		s.deleteIfStillDue(email)
	})

	log.Printf("Deletion scheduled: email=%s delay=%ds", email, delaySeconds)
	return nil
}

// Reconcile is the idempotent sweep over all timed work: it purges accounts
// that stayed unverified past the grace period, erases accounts whose
// scheduled deletion has come due, and drops expired OTP codes. It is the
// sole authority for timed removals; in-process timers only make them
// prompter.
func (s *AccountService) Reconcile(ctx context.Context) (purged, deleted int, err error) {
	now := s.now()

	stale, err := s.accounts.ListUnverifiedCreatedBefore(now.Add(-models.UnverifiedGracePeriod))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list unverified accounts: %w", err)
	}
	for i := range stale {
		account := &stale[i]
		if !account.PurgeDue(now) {
			continue
		}
		if err := s.eraseAccount(account.Email); err != nil {
			log.Printf("Failed to purge unverified account %s: %v", account.Email, err)
			continue
		}
		log.Printf("Purged unverified account: %s", account.Email)
		purged++
	}

	scheduled, err := s.accounts.ListScheduledForDeletion()
	if err != nil {
		return purged, 0, fmt.Errorf("failed to list scheduled deletions: %w", err)
	}
	for i := range scheduled {
		account := &scheduled[i]
		if !account.DeletionDue(now) {
			continue
		}
		if err := s.eraseAccount(account.Email); err != nil {
			log.Printf("Failed to delete scheduled account %s: %v", account.Email, err)
			continue
		}
		log.Printf("Deleted scheduled account: %s", account.Email)
		deleted++
	}

	if err := s.otps.DeleteExpired(); err != nil {
		log.Printf("Failed to delete expired OTPs: %v", err)
	}

	return purged, deleted, nil
}

// Close stops all in-process timers. Pending work is picked up by the next
// Reconcile.
func (s *AccountService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
}

// eraseAccount removes everything stored for an email: credential, OTP
// codes, progress, and finally the account row. Every step tolerates the
// data already being gone.
func (s *AccountService) eraseAccount(email string) error {
	if err := s.creds.Delete(email); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	if err := s.otps.Delete(email); err != nil {
		return fmt.Errorf("failed to delete OTPs: %w", err)
	}
	if s.progress != nil {
		if err := s.progress.DeleteForEmail(email); err != nil {
			return fmt.Errorf("failed to delete progress: %w", err)
		}
	}
	if err := s.accounts.Delete(email); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	s.cancelTimer("purge:" + email)
	s.cancelTimer("delete:" + email)
	return nil
}

// purgeIfStillUnverified is the fast-path purge timer callback. It re-checks
// the stored state so a verification that raced the timer wins.
func (s *AccountService) purgeIfStillUnverified(email string) {
	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		log.Printf("Purge timer for %s: %v", email, err)
		return
	}
	if account == nil || !account.PurgeDue(s.now()) {
		return
	}
	if err := s.eraseAccount(email); err != nil {
		log.Printf("Purge timer for %s: %v", email, err)
		return
	}
	log.Printf("Purged unverified account: %s", email)
}

// deleteIfStillDue is the fast-path deletion timer callback
func (s *AccountService) deleteIfStillDue(email string) {
	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		log.Printf("Deletion timer for %s: %v", email, err)
		return
	}
	if account == nil || !account.DeletionDue(s.now()) {
		return
	}
	if err := s.eraseAccount(email); err != nil {
		log.Printf("Deletion timer for %s: %v", email, err)
		return
	}
	log.Printf("Deleted scheduled account: %s", email)
}

func (s *AccountService) armTimer(key string, at time.Time, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
	}
	delay := at.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	s.timers[key] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, key)
		s.mu.Unlock()
		fn()
	})
}

func (s *AccountService) cancelTimer(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
}

// generateOTPCode returns a random six digit code, zero padded
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
