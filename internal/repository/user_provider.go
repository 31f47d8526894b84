package repository

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/alumni-api/internal/auth"
)

// MaxLoginAttempts is the maximun number of attempts a user gets
// in a period
var MaxLoginAttempts = 5

// CoolDownPeriod is the period in which we enforce a cool down
var CoolDownPeriod = 24 * time.Hour

// UserProvider resolves login credentials against the users table. Accounts
// that never passed admin approval fail verification just like a wrong
// password does.
type UserProvider struct {
	store  Users
	logger auth.Logger
}

var _ auth.IdentityProvider = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider
func NewUserProvider(store Users) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: auth.DefaultLogger(),
	}
}

func (u *UserProvider) WithLogger(l auth.Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare to the password, and return identity
func (u *UserProvider) VerifyIdentity(ctx context.Context, email, password string) (auth.Identity, error) {
	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, auth.ErrMismatchedHashAndPassword
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	if !user.IsVerified {
		return nil, auth.ErrIdentityNotVerified
	}

	if user.LoginAttemptAt != nil {
		if time.Since(*user.LoginAttemptAt) > CoolDownPeriod {
			user.LoginAttempts = 0
		}
	}

	// if we have too many attempts in the given window, cool off!
	if user.LoginAttempts > MaxLoginAttempts {
		return nil, auth.ErrTooManyLoginAttempts
	}

	if err := auth.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		// We have to increment the login_attempts counter and login_attempt_at
		if err2 := u.store.TrackAttemptedLogin(ctx, user); err2 != nil {
			return nil, goerrors.Wrap(err2, goerrors.CategoryInternal, "failed to track login attempt")
		}

		return nil, auth.ErrMismatchedHashAndPassword
	}

	// reset the login_attempts counter and login_attempt_at
	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Error("failed to track successful login", "error", err)
	}

	return user.Identity(), nil
}

// FindIdentityByEmail returns the identity for a verified account.
func (u *UserProvider) FindIdentityByEmail(ctx context.Context, email string) (auth.Identity, error) {
	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if !user.IsVerified {
		return nil, auth.ErrIdentityNotVerified
	}

	return user.Identity(), nil
}
