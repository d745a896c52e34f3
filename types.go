package session

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the session core writes to.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// IdentityService is the external identity collaborator. The core never
// inspects transport detail (headers, status codes), only the Result
// envelope. The two synchronous reads back the Store: credential validity and
// the cached identity are independent checks and may disagree.
type IdentityService interface {
	Login(ctx context.Context, creds Credentials) (Result[struct{}], error)
	Register(ctx context.Context, data Registration) (Result[struct{}], error)
	Logout(ctx context.Context) (Result[struct{}], error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (Result[struct{}], error)
	ForgotPassword(ctx context.Context, email string) (Result[struct{}], error)
	ResetPassword(ctx context.Context, token, password string) (Result[struct{}], error)
	VerifyEmail(ctx context.Context, token string) (Result[struct{}], error)
	ResendVerificationEmail(ctx context.Context) (Result[struct{}], error)
	ChangePassword(ctx context.Context, current, next string) (Result[struct{}], error)
	SocialLogin(ctx context.Context, provider, token string) (Result[struct{}], error)
	GetActiveSessions(ctx context.Context) (Result[[]map[string]any], error)
	RevokeSession(ctx context.Context, id string) (Result[struct{}], error)

	CurrentUser() *User
	IsAuthenticated() bool
}

// Notifier receives exactly one user-visible notification per operation
// completion. Implementations own localization of the message strings.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

// NotifierFuncs adapts a pair of functions to the Notifier interface.
type NotifierFuncs struct {
	OnSuccess func(message string)
	OnFailure func(message string)
}

func (n NotifierFuncs) Success(message string) {
	if n.OnSuccess != nil {
		n.OnSuccess(message)
	}
}

func (n NotifierFuncs) Failure(message string) {
	if n.OnFailure != nil {
		n.OnFailure(message)
	}
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Failure(string) {}

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] SESSION "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] SESSION "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] SESSION "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] SESSION "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
