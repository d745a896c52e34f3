package session_test

import (
	"context"
	"sync"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	session "github.com/wanderstay/go-session"
)

func TestLoginSuccess(t *testing.T) {
	svc := &fakeService{}
	svc.login = func(creds session.Credentials) (session.Result[struct{}], error) {
		svc.setUser(&session.User{Email: creds.Email})
		svc.setAuthed(true)
		return session.OK(), nil
	}

	manager, notifier := newTestManager(svc)
	manager.Initialize()

	err := manager.Login(context.Background(), session.Credentials{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	require.NotNil(t, manager.CurrentUser())
	assert.Equal(t, "a@b.com", manager.CurrentUser().Email)

	successes, failures := notifier.counts()
	assert.Equal(t, 1, successes)
	assert.Equal(t, 0, failures)
}

func TestLoginFailureLeavesUserUntouched(t *testing.T) {
	svc := &fakeService{}
	svc.login = func(session.Credentials) (session.Result[struct{}], error) {
		return session.Fail("Invalid credentials"), nil
	}

	manager, notifier := newTestManager(svc)
	manager.Initialize()

	err := manager.Login(context.Background(), session.Credentials{Email: "a@b.com", Password: "x"})
	require.Error(t, err)

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, "Invalid credentials", richErr.Message)
	assert.True(t, session.IsOperationFailure(err))

	assert.Nil(t, manager.CurrentUser())
	assert.False(t, manager.IsLoading())

	successes, failures := notifier.counts()
	assert.Equal(t, 0, successes)
	assert.Equal(t, 1, failures)
	assert.Equal(t, "Invalid credentials", notifier.failures[0])
}

func TestLoginFailurePreservesPreviousUser(t *testing.T) {
	svc := &fakeService{}
	svc.setUser(&session.User{Email: "old@b.com"})
	svc.setAuthed(true)

	manager, _ := newTestManager(svc)
	manager.Initialize()
	require.NotNil(t, manager.CurrentUser())

	svc.login = func(session.Credentials) (session.Result[struct{}], error) {
		return session.Fail("Invalid credentials"), nil
	}

	err := manager.Login(context.Background(), session.Credentials{Email: "new@b.com", Password: "x"})
	require.Error(t, err)

	assert.Equal(t, "old@b.com", manager.CurrentUser().Email)
}

func TestLoginServiceErrorIsNormalized(t *testing.T) {
	svc := &fakeService{}
	svc.login = func(session.Credentials) (session.Result[struct{}], error) {
		return session.Result[struct{}]{}, assert.AnError
	}

	manager, notifier := newTestManager(svc)
	manager.Initialize()

	err := manager.Login(context.Background(), session.Credentials{Email: "a@b.com", Password: "x"})
	require.Error(t, err)
	assert.False(t, session.IsOperationFailure(err))

	successes, failures := notifier.counts()
	assert.Equal(t, 0, successes)
	assert.Equal(t, 1, failures)
	assert.Equal(t, session.GenericFailureMessage, notifier.failures[0])
	assert.Nil(t, manager.CurrentUser())
}

func TestLoginValidationFailure(t *testing.T) {
	called := false
	svc := &fakeService{}
	svc.login = func(session.Credentials) (session.Result[struct{}], error) {
		called = true
		return session.OK(), nil
	}

	manager, notifier := newTestManager(svc)
	manager.Initialize()

	err := manager.Login(context.Background(), session.Credentials{Email: "not-an-email", Password: "x"})
	require.Error(t, err)

	assert.False(t, called, "remote call must not happen on invalid input")
	_, failures := notifier.counts()
	assert.Equal(t, 1, failures)
}

func TestRegisterSuccess(t *testing.T) {
	svc := &fakeService{}
	svc.register = func(data session.Registration) (session.Result[struct{}], error) {
		svc.setUser(&session.User{Email: data.Email, Name: data.Name})
		svc.setAuthed(true)
		return session.OK(), nil
	}

	manager, notifier := newTestManager(svc)
	manager.Initialize()

	err := manager.Register(context.Background(), session.Registration{
		Name:     "Trip Planner",
		Email:    "plan@b.com",
		Password: "secret-pass",
	})
	require.NoError(t, err)

	require.NotNil(t, manager.CurrentUser())
	assert.Equal(t, "plan@b.com", manager.CurrentUser().Email)

	successes, failures := notifier.counts()
	assert.Equal(t, 1, successes)
	assert.Equal(t, 0, failures)
}

func TestAuthenticatedStrictlyBetweenLoginAndLogout(t *testing.T) {
	svc := &fakeService{}
	svc.login = func(creds session.Credentials) (session.Result[struct{}], error) {
		svc.setUser(&session.User{Email: creds.Email})
		svc.setAuthed(true)
		return session.OK(), nil
	}
	svc.logout = func() (session.Result[struct{}], error) {
		svc.setUser(nil)
		svc.setAuthed(false)
		return session.OK(), nil
	}

	manager, _ := newTestManager(svc)
	manager.Initialize()

	assert.False(t, session.IsAuthenticated(manager.CurrentUser()))

	require.NoError(t, manager.Login(context.Background(), session.Credentials{Email: "a@b.com", Password: "x"}))
	assert.True(t, session.IsAuthenticated(manager.CurrentUser()))

	manager.Logout(context.Background())
	assert.False(t, session.IsAuthenticated(manager.CurrentUser()))
}

func TestLogoutFailureKeepsSession(t *testing.T) {
	svc := &fakeService{}
	svc.setUser(&session.User{Email: "a@b.com"})
	svc.setAuthed(true)
	svc.logout = func() (session.Result[struct{}], error) {
		return session.Fail("network down"), nil
	}

	manager, notifier := newTestManager(svc)
	manager.Initialize()
	require.NotNil(t, manager.CurrentUser())

	manager.Logout(context.Background())

	assert.NotNil(t, manager.CurrentUser())
	successes, failures := notifier.counts()
	assert.Equal(t, 0, successes)
	assert.Equal(t, 1, failures)
}

func TestUpdateProfileRefetchesIdentity(t *testing.T) {
	svc := &fakeService{}
	svc.setUser(&session.User{Email: "a@b.com"})
	svc.setAuthed(true)
	svc.update = func(update session.ProfileUpdate) (session.Result[struct{}], error) {
		svc.setUser(&session.User{Email: "a@b.com", Name: update.Name})
		return session.OK(), nil
	}

	manager, notifier := newTestManager(svc)
	manager.Initialize()

	err := manager.UpdateProfile(context.Background(), session.ProfileUpdate{Name: "New Name"})
	require.NoError(t, err)

	assert.Equal(t, "New Name", manager.CurrentUser().Name)
	successes, _ := notifier.counts()
	assert.Equal(t, 1, successes)
}

func TestConcurrentUpdateProfileLastToResolveWins(t *testing.T) {
	svc := &fakeService{}
	svc.setUser(&session.User{Email: "a@b.com"})
	svc.setAuthed(true)

	gateA := make(chan struct{})
	gateB := make(chan struct{})
	svc.update = func(update session.ProfileUpdate) (session.Result[struct{}], error) {
		switch update.Name {
		case "A":
			<-gateA
		case "B":
			<-gateB
		}
		svc.setUser(&session.User{Email: "a@b.com", Name: update.Name})
		return session.OK(), nil
	}

	manager, _ := newTestManager(svc)
	manager.Initialize()

	var wg sync.WaitGroup
	doneA := make(chan struct{})
	doneB := make(chan struct{})

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer close(doneA)
		_ = manager.UpdateProfile(context.Background(), session.ProfileUpdate{Name: "A"})
	}()
	go func() {
		defer wg.Done()
		defer close(doneB)
		_ = manager.UpdateProfile(context.Background(), session.ProfileUpdate{Name: "B"})
	}()

	// B resolves first, A resolves last.
	close(gateB)
	<-doneB
	close(gateA)
	<-doneA
	wg.Wait()

	assert.Equal(t, "A", manager.CurrentUser().Name)
	assert.False(t, manager.IsLoading())
}

func TestForgotPasswordGenericFallbackMessage(t *testing.T) {
	svc := &fakeService{}
	svc.forgot = func(string) (session.Result[struct{}], error) {
		return session.Fail(""), nil
	}

	manager, notifier := newTestManager(svc)
	manager.Initialize()

	ok := manager.ForgotPassword(context.Background(), "a@b.com")
	assert.False(t, ok)

	_, failures := notifier.counts()
	require.Equal(t, 1, failures)
	assert.NotEmpty(t, notifier.failures[0])
	assert.Equal(t, session.GenericFailureMessage, notifier.failures[0])
}

func TestSecondaryFamilyReturnsBoolNeverPanics(t *testing.T) {
	svc := &fakeService{}
	manager, notifier := newTestManager(svc)
	manager.Initialize()

	ctx := context.Background()

	assert.True(t, manager.ForgotPassword(ctx, "a@b.com"))
	assert.True(t, manager.ResetPassword(ctx, "token", "new-password"))
	assert.True(t, manager.VerifyEmail(ctx, "token"))
	assert.True(t, manager.ResendVerificationEmail(ctx))
	assert.True(t, manager.ChangePassword(ctx, "old", "new"))

	successes, failures := notifier.counts()
	assert.Equal(t, 5, successes)
	assert.Equal(t, 0, failures)
}

func TestSecondaryFamilySwallowsServiceErrors(t *testing.T) {
	svc := &fakeService{}
	svc.change = func(string, string) (session.Result[struct{}], error) {
		return session.Result[struct{}]{}, assert.AnError
	}

	manager, notifier := newTestManager(svc)
	manager.Initialize()

	ok := manager.ChangePassword(context.Background(), "old", "new")
	assert.False(t, ok)

	_, failures := notifier.counts()
	assert.Equal(t, 1, failures)
	assert.Equal(t, session.GenericFailureMessage, notifier.failures[0])
}

func TestSocialLoginEstablishesSession(t *testing.T) {
	svc := &fakeService{}
	svc.social = func(provider, token string) (session.Result[struct{}], error) {
		svc.setUser(&session.User{Email: "soc@b.com"})
		svc.setAuthed(true)
		return session.OK(), nil
	}

	manager, notifier := newTestManager(svc)
	manager.Initialize()

	ok := manager.SocialLogin(context.Background(), "google", "provider-token")
	assert.True(t, ok)

	require.NotNil(t, manager.CurrentUser())
	assert.Equal(t, "soc@b.com", manager.CurrentUser().Email)

	successes, _ := notifier.counts()
	assert.Equal(t, 1, successes)
}

func TestSocialLoginFailureReturnsFalse(t *testing.T) {
	svc := &fakeService{}
	svc.social = func(string, string) (session.Result[struct{}], error) {
		return session.Fail("provider rejected token"), nil
	}

	manager, notifier := newTestManager(svc)
	manager.Initialize()

	ok := manager.SocialLogin(context.Background(), "google", "bad")
	assert.False(t, ok)
	assert.Nil(t, manager.CurrentUser())

	_, failures := notifier.counts()
	assert.Equal(t, 1, failures)
	assert.Equal(t, "provider rejected token", notifier.failures[0])
}

func TestActivityEventsEmitted(t *testing.T) {
	svc := &fakeService{}
	svc.login = func(creds session.Credentials) (session.Result[struct{}], error) {
		svc.setUser(&session.User{Email: creds.Email})
		svc.setAuthed(true)
		return session.OK(), nil
	}

	sink := &captureSink{}
	notifier := &captureNotifier{}
	manager := session.NewManager(svc).
		WithNotifier(notifier).
		WithActivitySink(sink).
		WithLogger(silentLogger{})
	manager.Initialize()

	require.NoError(t, manager.Login(context.Background(), session.Credentials{Email: "a@b.com", Password: "x"}))

	require.Len(t, sink.events, 1)
	assert.Equal(t, session.ActivityEventLoginSuccess, sink.events[0].EventType)
	assert.Equal(t, "a@b.com", sink.events[0].Metadata["email"])
	assert.False(t, sink.events[0].OccurredAt.IsZero())
}
