// Package approval implements the account lifecycle: public registration
// creates a pending account, an admin either approves it (which mints and
// mails a temporary credential) or rejects it (which removes the record).
package approval

import (
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/model"
)

// AccountStatus is the lifecycle position of a registration.
type AccountStatus string

const (
	StatusPending  AccountStatus = "pending"
	StatusVerified AccountStatus = "verified"
	StatusRemoved  AccountStatus = "removed"
)

const textCodeInvalidTransition = "INVALID_ACCOUNT_TRANSITION"

// ErrInvalidTransition is returned when a requested status change is not allowed.
var ErrInvalidTransition = goerrors.New("invalid account state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// transitions holds the allowed moves. Verified and Removed are terminal:
// an approved account cannot be re-approved, and rejection deletes the row.
var transitions = map[AccountStatus][]AccountStatus{
	StatusPending:  {StatusVerified, StatusRemoved},
	StatusVerified: {},
	StatusRemoved:  {},
}

// StateMachine validates lifecycle moves before any persistence happens.
type StateMachine struct {
	now    func() time.Time
	logger auth.Logger
}

type StateMachineOption func(*StateMachine)

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) StateMachineOption {
	return func(sm *StateMachine) {
		if clock != nil {
			sm.now = clock
		}
	}
}

func WithStateMachineLogger(logger auth.Logger) StateMachineOption {
	return func(sm *StateMachine) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

func NewStateMachine(opts ...StateMachineOption) *StateMachine {
	sm := &StateMachine{
		now:    time.Now,
		logger: auth.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(sm)
	}

	return sm
}

// CurrentStatus derives the lifecycle position from the stored record.
func (sm *StateMachine) CurrentStatus(user *model.User) AccountStatus {
	if user == nil {
		return StatusRemoved
	}

	if user.IsVerified {
		return StatusVerified
	}

	return StatusPending
}

// EnsureTransition returns an error unless moving user to target is allowed.
func (sm *StateMachine) EnsureTransition(user *model.User, target AccountStatus) error {
	from := sm.CurrentStatus(user)

	for _, allowed := range transitions[from] {
		if allowed == target {
			return nil
		}
	}

	sm.logger.Warn("rejected account transition", "from", from, "to", target)

	return ErrInvalidTransition.WithMetadata(map[string]any{
		"from": string(from),
		"to":   string(target),
	})
}
