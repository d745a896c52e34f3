// Package session provides the client-side session and identity core for a
// travel-booking application: the single source of truth for "who is logged
// in", the auth mutation operations layered on top of it, and the derived
// capability queries every surface consumes.
//
// Session lifecycle:
//   - A Manager is constructed once at application start, initialized from the
//     Store's persisted-credential check, and handed to consumers by reference
//     (WithContext/FromContext). It is never ambient global state.
//   - Mutating operations (Login, Register, Logout, UpdateProfile, the
//     password and verification flows, SocialLogin) call the IdentityService
//     collaborator, interpret its uniform Result envelope, and write through
//     the Store only on success. Failures never mutate session state.
//   - Primary transitions (Login, Register, UpdateProfile) propagate failure
//     as an error the caller must handle; secondary flows report a bool so
//     callers can branch without error plumbing. The asymmetry is deliberate:
//     callers gate navigation on primary transitions and merely branch on the
//     rest.
//
// Notifications:
//   - Every operation produces exactly one user-visible notification per
//     invocation, success or failure, via the Notifier sink. Sinks run
//     best-effort and own localization of the message strings.
//
// Throttling:
//   - Countdown is a cancellable repeating task that gates resend-style
//     operations behind a cooldown window. The flow that starts it owns the
//     handle and must Stop it on teardown.
package session
