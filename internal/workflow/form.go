// Package workflow models the customer-facing reservation flow as a small
// state machine: details are validated and a verification code is requested,
// then the submitted code is confirmed and the reservation is durably saved
// in pending status.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/delbi-restaurant/reservations-api/internal/antispam"
	"github.com/delbi-restaurant/reservations-api/internal/models"
	"github.com/delbi-restaurant/reservations-api/internal/services"
	"github.com/delbi-restaurant/reservations-api/internal/utils"
)

// State identifies where a reservation form is in its lifecycle.
type State int

const (
	// Editing is the initial state; details may still change.
	Editing State = iota
	// AwaitingVerification means a code was issued and the customer must
	// confirm it.
	AwaitingVerification
	// Saved is terminal; the reservation is durably recorded.
	Saved
)

// Flow-level errors surfaced to the caller.
var (
	// ErrBlocked means the anti-spam guard rejected the submission.
	ErrBlocked = errors.New("submission blocked")
	// ErrInvalidInput means field validation failed; see FieldErrors.
	ErrInvalidInput = errors.New("invalid reservation details")
	// ErrSaveFailed means the code verified but the reservation could not be
	// persisted, a failure mode support must be able to tell apart.
	ErrSaveFailed = errors.New("reservation not saved despite verified code")
	// ErrBadState means the operation does not apply to the current state.
	ErrBadState = errors.New("operation not allowed in current state")
)

// Form is one customer's reservation attempt. Not safe for concurrent use;
// each form belongs to a single session.
type Form struct {
	verification *services.VerificationService
	reservations *services.ReservationService

	details models.ReservationInput
	state   State

	// Honeypot mirrors the hidden form field.
	Honeypot string

	attempts       int
	lastSubmission time.Time

	// FieldErrors holds per-field messages from the last failed validation.
	FieldErrors []utils.ValidationError

	saved *models.Reservation
}

// NewForm creates a form in Editing state with the given details.
func NewForm(verification *services.VerificationService, reservations *services.ReservationService, details models.ReservationInput) *Form {
	return &Form{
		verification: verification,
		reservations: reservations,
		details:      details,
		state:        Editing,
	}
}

// State returns the form's current state.
func (f *Form) State() State { return f.state }

// Reservation returns the saved record once the form reached Saved.
func (f *Form) Reservation() *models.Reservation { return f.saved }

// SetDetails replaces the details while still editing.
func (f *Form) SetDetails(details models.ReservationInput) error {
	if f.state == Saved {
		return ErrBadState
	}
	f.details = details
	f.state = Editing
	return nil
}

// RequestVerification validates the details and asks for a verification code
// to be emailed. Guard trips and validation failures happen before any
// service call; on success the form advances to AwaitingVerification.
func (f *Form) RequestVerification(ctx context.Context) error {
	if f.state == Saved {
		return ErrBadState
	}

	now := time.Now()
	decision := antispam.Evaluate(antispam.Submission{
		Honeypot:       f.Honeypot,
		Attempts:       f.attempts,
		LastSubmission: f.lastSubmission,
	}, now)
	if decision != antispam.Proceed {
		return fmt.Errorf("%w: %s", ErrBlocked, decision)
	}

	result := utils.ValidateReservationInput(f.details, now)
	if !result.IsValid {
		f.FieldErrors = result.Errors
		return ErrInvalidInput
	}
	f.FieldErrors = nil

	// Only a submission that passed validation counts against the attempt
	// cap and starts the cooldown; a customer fixing a typo retries freely.
	f.attempts++
	f.lastSubmission = now

	if _, err := f.verification.IssueCode(ctx, f.details.Email, f.details.Name); err != nil {
		// Stay in Editing; the customer must not advance to the code step
		// when no code reached them.
		return err
	}

	f.state = AwaitingVerification
	return nil
}

// ConfirmVerification checks the submitted code and, on success, persists the
// reservation. Code failures keep the form in AwaitingVerification so the
// customer may retry against the same code while it lives.
func (f *Form) ConfirmVerification(ctx context.Context, code string) error {
	if f.state != AwaitingVerification {
		return ErrBadState
	}

	if err := f.verification.VerifyCode(ctx, f.details.Email, code); err != nil {
		return err
	}

	reservation, err := f.reservations.Create(ctx, f.details)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	f.saved = reservation
	f.state = Saved
	return nil
}
