package session_test

import (
	"context"
	"sync"

	session "github.com/wanderstay/go-session"
)

// fakeService is a scriptable IdentityService. Unset call hooks default to a
// successful empty envelope. The user/authed fields model the collaborator's
// own identity cache and credential check.
type fakeService struct {
	mu     sync.Mutex
	user   *session.User
	authed bool

	login    func(session.Credentials) (session.Result[struct{}], error)
	register func(session.Registration) (session.Result[struct{}], error)
	logout   func() (session.Result[struct{}], error)
	update   func(session.ProfileUpdate) (session.Result[struct{}], error)
	forgot   func(string) (session.Result[struct{}], error)
	reset    func(string, string) (session.Result[struct{}], error)
	verify   func(string) (session.Result[struct{}], error)
	resend   func() (session.Result[struct{}], error)
	change   func(string, string) (session.Result[struct{}], error)
	social   func(string, string) (session.Result[struct{}], error)
	list     func() (session.Result[[]map[string]any], error)
	revoke   func(string) (session.Result[struct{}], error)
}

var _ session.IdentityService = (*fakeService)(nil)

func (f *fakeService) setUser(u *session.User) {
	f.mu.Lock()
	f.user = u
	f.mu.Unlock()
}

func (f *fakeService) setAuthed(v bool) {
	f.mu.Lock()
	f.authed = v
	f.mu.Unlock()
}

func (f *fakeService) Login(_ context.Context, creds session.Credentials) (session.Result[struct{}], error) {
	if f.login != nil {
		return f.login(creds)
	}
	return session.OK(), nil
}

func (f *fakeService) Register(_ context.Context, data session.Registration) (session.Result[struct{}], error) {
	if f.register != nil {
		return f.register(data)
	}
	return session.OK(), nil
}

func (f *fakeService) Logout(context.Context) (session.Result[struct{}], error) {
	if f.logout != nil {
		return f.logout()
	}
	return session.OK(), nil
}

func (f *fakeService) UpdateProfile(_ context.Context, update session.ProfileUpdate) (session.Result[struct{}], error) {
	if f.update != nil {
		return f.update(update)
	}
	return session.OK(), nil
}

func (f *fakeService) ForgotPassword(_ context.Context, email string) (session.Result[struct{}], error) {
	if f.forgot != nil {
		return f.forgot(email)
	}
	return session.OK(), nil
}

func (f *fakeService) ResetPassword(_ context.Context, token, password string) (session.Result[struct{}], error) {
	if f.reset != nil {
		return f.reset(token, password)
	}
	return session.OK(), nil
}

func (f *fakeService) VerifyEmail(_ context.Context, token string) (session.Result[struct{}], error) {
	if f.verify != nil {
		return f.verify(token)
	}
	return session.OK(), nil
}

func (f *fakeService) ResendVerificationEmail(context.Context) (session.Result[struct{}], error) {
	if f.resend != nil {
		return f.resend()
	}
	return session.OK(), nil
}

func (f *fakeService) ChangePassword(_ context.Context, current, next string) (session.Result[struct{}], error) {
	if f.change != nil {
		return f.change(current, next)
	}
	return session.OK(), nil
}

func (f *fakeService) SocialLogin(_ context.Context, provider, token string) (session.Result[struct{}], error) {
	if f.social != nil {
		return f.social(provider, token)
	}
	return session.OK(), nil
}

func (f *fakeService) GetActiveSessions(context.Context) (session.Result[[]map[string]any], error) {
	if f.list != nil {
		return f.list()
	}
	return session.OKWith([]map[string]any{}), nil
}

func (f *fakeService) RevokeSession(_ context.Context, id string) (session.Result[struct{}], error) {
	if f.revoke != nil {
		return f.revoke(id)
	}
	return session.OK(), nil
}

func (f *fakeService) CurrentUser() *session.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.user
}

func (f *fakeService) IsAuthenticated() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authed
}

// captureNotifier records every notification for exactly-one assertions.
type captureNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (c *captureNotifier) Success(message string) {
	c.mu.Lock()
	c.successes = append(c.successes, message)
	c.mu.Unlock()
}

func (c *captureNotifier) Failure(message string) {
	c.mu.Lock()
	c.failures = append(c.failures, message)
	c.mu.Unlock()
}

func (c *captureNotifier) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.successes), len(c.failures)
}

// captureSink records activity events.
type captureSink struct {
	mu     sync.Mutex
	events []session.ActivityEvent
}

func (c *captureSink) Record(_ context.Context, event session.ActivityEvent) error {
	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()
	return nil
}

type silentLogger struct{}

func (silentLogger) Debug(string, ...any) {}
func (silentLogger) Info(string, ...any)  {}
func (silentLogger) Warn(string, ...any)  {}
func (silentLogger) Error(string, ...any) {}

func newTestManager(svc *fakeService) (*session.Manager, *captureNotifier) {
	notifier := &captureNotifier{}
	manager := session.NewManager(svc).
		WithNotifier(notifier).
		WithLogger(silentLogger{})
	return manager, notifier
}
