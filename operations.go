package session

import (
	"context"

	"github.com/goliatone/go-errors"
)

// User-facing default notification strings. Notifier implementations own
// localization; these are the stable fallbacks.
const (
	msgLoginSuccess       = "Welcome back!"
	msgRegisterSuccess    = "Account created. Welcome!"
	msgLogoutSuccess      = "You have been logged out."
	msgProfileUpdated     = "Profile updated."
	msgForgotPassword     = "Password reset email sent."
	msgResetPassword      = "Your password has been reset."
	msgVerifyEmail        = "Email verified."
	msgResendVerification = "Verification email sent."
	msgChangePassword     = "Password changed."
	msgSocialLogin        = "Welcome!"
	msgSessionRevoked     = "Session revoked."
)

// Login authenticates with email and password. On success the store is
// written through and the exposed identity replaced; on failure the previous
// identity is left untouched and the failure is re-raised so callers can gate
// follow-on behavior (navigation, form reset).
func (m *Manager) Login(ctx context.Context, creds Credentials) error {
	m.setLoading(true)
	defer m.setLoading(false)

	if err := creds.Validate(); err != nil {
		m.notifier.Failure(err.Error())
		m.emit(ctx, ActivityEventLoginFailure, map[string]any{"email": creds.Email, "error": err.Error()})
		return errors.Wrap(err, errors.CategoryValidation, "invalid login payload").
			WithTextCode(TextCodeInvalidInput)
	}

	res, err := m.svc.Login(ctx, creds)
	if err != nil {
		m.logger.Error("login: service call failed: %v", err)
		m.notifier.Failure(GenericFailureMessage)
		m.emit(ctx, ActivityEventLoginFailure, map[string]any{"email": creds.Email, "error": err.Error()})
		return ServiceError("login", err)
	}

	if !res.Success {
		msg := res.Message()
		m.notifier.Failure(msg)
		m.emit(ctx, ActivityEventLoginFailure, map[string]any{"email": creds.Email, "error": msg})
		return OperationError("login", msg)
	}

	m.store.SetCurrentUser(m.svc.CurrentUser())
	m.refreshUser()
	m.notifier.Success(msgLoginSuccess)
	m.emit(ctx, ActivityEventLoginSuccess, map[string]any{"email": creds.Email})

	return nil
}

// Register creates a new account and establishes its session.
func (m *Manager) Register(ctx context.Context, data Registration) error {
	m.setLoading(true)
	defer m.setLoading(false)

	if err := data.Validate(); err != nil {
		m.notifier.Failure(err.Error())
		m.emit(ctx, ActivityEventRegisterFailure, map[string]any{"email": data.Email, "error": err.Error()})
		return errors.Wrap(err, errors.CategoryValidation, "invalid registration payload").
			WithTextCode(TextCodeInvalidInput)
	}

	res, err := m.svc.Register(ctx, data)
	if err != nil {
		m.logger.Error("register: service call failed: %v", err)
		m.notifier.Failure(GenericFailureMessage)
		m.emit(ctx, ActivityEventRegisterFailure, map[string]any{"email": data.Email, "error": err.Error()})
		return ServiceError("register", err)
	}

	if !res.Success {
		msg := res.Message()
		m.notifier.Failure(msg)
		m.emit(ctx, ActivityEventRegisterFailure, map[string]any{"email": data.Email, "error": msg})
		return OperationError("register", msg)
	}

	m.store.SetCurrentUser(m.svc.CurrentUser())
	m.refreshUser()
	m.notifier.Success(msgRegisterSuccess)
	m.emit(ctx, ActivityEventRegisterSuccess, map[string]any{"email": data.Email})

	return nil
}

// Logout tears the session down. Failures are logged and notified but never
// surfaced as an error; session state is only cleared once the call settles
// successfully.
func (m *Manager) Logout(ctx context.Context) {
	m.setLoading(true)
	defer m.setLoading(false)

	res, err := m.svc.Logout(ctx)
	if err != nil {
		m.logger.Error("logout: service call failed: %v", err)
		m.notifier.Failure(GenericFailureMessage)
		return
	}

	if !res.Success {
		m.logger.Error("logout failed: %s", res.Message())
		m.notifier.Failure(res.Message())
		return
	}

	m.emit(ctx, ActivityEventLogout, nil)
	m.store.Clear()
	m.setUser(nil)
	m.notifier.Success(msgLogoutSuccess)
}

// UpdateProfile applies partial identity fields. On success the store is
// refreshed from the collaborator's re-fetched identity.
func (m *Manager) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	m.setLoading(true)
	defer m.setLoading(false)

	if err := update.Validate(); err != nil {
		m.notifier.Failure(err.Error())
		return errors.Wrap(err, errors.CategoryValidation, "invalid profile payload").
			WithTextCode(TextCodeInvalidInput)
	}

	res, err := m.svc.UpdateProfile(ctx, update)
	if err != nil {
		m.logger.Error("update profile: service call failed: %v", err)
		m.notifier.Failure(GenericFailureMessage)
		return ServiceError("update_profile", err)
	}

	if !res.Success {
		msg := res.Message()
		m.notifier.Failure(msg)
		return OperationError("update_profile", msg)
	}

	m.store.SetCurrentUser(m.svc.CurrentUser())
	m.refreshUser()
	m.notifier.Success(msgProfileUpdated)
	m.emit(ctx, ActivityEventProfileUpdated, nil)

	return nil
}

// ForgotPassword requests a password-reset email. Secondary operations
// report failure as a bool so callers can branch without error plumbing.
func (m *Manager) ForgotPassword(ctx context.Context, email string) bool {
	return m.runSecondary(ctx, secondaryOp{
		name:       "forgot_password",
		successMsg: msgForgotPassword,
		event:      ActivityEventPasswordReset,
		metadata:   map[string]any{"email": email},
		call: func(ctx context.Context) (Result[struct{}], error) {
			return m.svc.ForgotPassword(ctx, email)
		},
	})
}

// ResetPassword finalizes a password reset with the emailed token.
func (m *Manager) ResetPassword(ctx context.Context, token, password string) bool {
	return m.runSecondary(ctx, secondaryOp{
		name:       "reset_password",
		successMsg: msgResetPassword,
		event:      ActivityEventPasswordReset,
		call: func(ctx context.Context) (Result[struct{}], error) {
			return m.svc.ResetPassword(ctx, token, password)
		},
	})
}

// VerifyEmail confirms an email address with the emailed token.
func (m *Manager) VerifyEmail(ctx context.Context, token string) bool {
	return m.runSecondary(ctx, secondaryOp{
		name:       "verify_email",
		successMsg: msgVerifyEmail,
		event:      ActivityEventEmailVerified,
		call: func(ctx context.Context) (Result[struct{}], error) {
			return m.svc.VerifyEmail(ctx, token)
		},
	})
}

// ResendVerificationEmail requests another verification email. Callers are
// expected to gate this behind a Countdown window.
func (m *Manager) ResendVerificationEmail(ctx context.Context) bool {
	return m.runSecondary(ctx, secondaryOp{
		name:       "resend_verification",
		successMsg: msgResendVerification,
		call: func(ctx context.Context) (Result[struct{}], error) {
			return m.svc.ResendVerificationEmail(ctx)
		},
	})
}

// ChangePassword swaps the current password for a new one.
func (m *Manager) ChangePassword(ctx context.Context, current, next string) bool {
	return m.runSecondary(ctx, secondaryOp{
		name:       "change_password",
		successMsg: msgChangePassword,
		event:      ActivityEventPasswordChanged,
		call: func(ctx context.Context) (Result[struct{}], error) {
			return m.svc.ChangePassword(ctx, current, next)
		},
	})
}

// SocialLogin authenticates through a social provider token. It reports as a
// bool like the other secondary operations, but a success does establish the
// session, so the store is refreshed from the collaborator.
func (m *Manager) SocialLogin(ctx context.Context, provider, token string) bool {
	m.setLoading(true)
	defer m.setLoading(false)

	res, err := m.svc.SocialLogin(ctx, provider, token)
	if err != nil {
		m.logger.Error("social login: service call failed: %v", err)
		m.notifier.Failure(GenericFailureMessage)
		return false
	}

	if !res.Success {
		m.notifier.Failure(res.Message())
		return false
	}

	m.store.SetCurrentUser(m.svc.CurrentUser())
	m.refreshUser()
	m.notifier.Success(msgSocialLogin)
	m.emit(ctx, ActivityEventSocialLogin, map[string]any{"provider": provider})

	return true
}

type secondaryOp struct {
	name       string
	successMsg string
	event      ActivityEventType
	metadata   map[string]any
	call       func(context.Context) (Result[struct{}], error)
}

// runSecondary is the canonical template for the bool-returning operation
// family: one notification per invocation, no state mutation on failure,
// thrown collaborator errors normalized into the failure channel.
func (m *Manager) runSecondary(ctx context.Context, op secondaryOp) bool {
	m.setLoading(true)
	defer m.setLoading(false)

	res, err := op.call(ctx)
	if err != nil {
		m.logger.Error("%s: service call failed: %v", op.name, err)
		m.notifier.Failure(GenericFailureMessage)
		return false
	}

	if !res.Success {
		m.notifier.Failure(res.Message())
		return false
	}

	m.notifier.Success(op.successMsg)
	if op.event != "" {
		m.emit(ctx, op.event, op.metadata)
	}

	return true
}
