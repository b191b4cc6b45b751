package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/hireradar/hireradar-api/internal/domain"
	"github.com/hireradar/hireradar-api/internal/util"
)

type resetFixture struct {
	db     *memDB
	mailer *fakeResetMailer
	svc    *PasswordResetService
	now    time.Time
}

func newResetFixture() *resetFixture {
	db := newMemDB()
	mailer := &fakeResetMailer{}
	f := &resetFixture{db: db, mailer: mailer, now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	f.svc = NewPasswordResetService(db, memResets{db}, mailer, nil, "https://hireradar.io/", time.Hour)
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *resetFixture) lastToken(t *testing.T) string {
	t.Helper()
	if len(f.mailer.sent) == 0 {
		t.Fatal("expected a reset email")
	}
	u, err := url.Parse(f.mailer.sent[len(f.mailer.sent)-1].resetURL)
	if err != nil {
		t.Fatalf("parse reset url: %v", err)
	}
	return u.Query().Get("token")
}

func TestRequestResetIssuesTokenAndMailsLink(t *testing.T) {
	f := newResetFixture()
	user := f.db.addUser("Ada Lovelace", "a@example.com", domain.RoleCandidate)

	if err := f.svc.RequestReset(context.Background(), "a@example.com"); err != nil {
		t.Fatalf("RequestReset returned error: %v", err)
	}

	resets := f.db.resetsFor(user.ID)
	if len(resets) != 1 {
		t.Fatalf("expected one token row, got %d", len(resets))
	}
	if !resets[0].ExpiresAt.Equal(f.now.Add(time.Hour)) {
		t.Fatalf("expected expiry one hour from now, got %s", resets[0].ExpiresAt)
	}
	if len(f.db.locked) != 1 || f.db.locked[0] != user.ID {
		t.Fatalf("expected account row lock during issuance")
	}

	sent := f.mailer.sent[0]
	if sent.email != "a@example.com" || sent.name != "Ada Lovelace" {
		t.Fatalf("unexpected recipient %+v", sent)
	}
	if !strings.HasPrefix(sent.resetURL, "https://hireradar.io/reset-password?token=") {
		t.Fatalf("unexpected reset url %q", sent.resetURL)
	}
	token := f.lastToken(t)
	if string(resets[0].TokenHash) != string(util.HashToken(token)) {
		t.Fatal("expected only the token digest to be stored")
	}
}

func TestRequestResetUnknownEmailLooksTheSame(t *testing.T) {
	f := newResetFixture()
	f.db.addUser("Ada", "a@example.com", domain.RoleCandidate)

	errKnown := f.svc.RequestReset(context.Background(), "a@example.com")
	errUnknown := f.svc.RequestReset(context.Background(), "nobody@nowhere.com")
	if errKnown != nil || errUnknown != nil {
		t.Fatalf("expected identical nil results, got %v and %v", errKnown, errUnknown)
	}
	if len(f.db.resets) != 1 {
		t.Fatalf("expected no token for unknown email, got %d rows", len(f.db.resets))
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected no email for unknown address, got %d", len(f.mailer.sent))
	}
}

func TestRequestResetMatchesTrimmedEmailExactly(t *testing.T) {
	f := newResetFixture()
	f.db.addUser("Ada", "a@example.com", domain.RoleCandidate)
	ctx := context.Background()

	if err := f.svc.RequestReset(ctx, "  a@example.com\n"); err != nil {
		t.Fatalf("RequestReset: %v", err)
	}
	if err := f.svc.RequestReset(ctx, "A@Example.com"); err != nil {
		t.Fatalf("RequestReset: %v", err)
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0].email != "a@example.com" {
		t.Fatalf("expected only the padded address to match, got %+v", f.mailer.sent)
	}
}

func TestRequestResetRequiresEmail(t *testing.T) {
	f := newResetFixture()
	if err := f.svc.RequestReset(context.Background(), "   "); !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
}

func TestRequestResetSupersedesPriorTokens(t *testing.T) {
	f := newResetFixture()
	user := f.db.addUser("Ada", "a@example.com", domain.RoleCandidate)

	for i := 0; i < 3; i++ {
		if err := f.svc.RequestReset(context.Background(), "a@example.com"); err != nil {
			t.Fatalf("RequestReset returned error: %v", err)
		}
	}

	unused := 0
	for _, r := range f.db.resetsFor(user.ID) {
		if !r.Used {
			unused++
		}
	}
	if unused != 1 {
		t.Fatalf("expected exactly one unused token, got %d", unused)
	}
}

func TestRequestResetStoreFailureRollsBack(t *testing.T) {
	f := newResetFixture()
	user := f.db.addUser("Ada", "a@example.com", domain.RoleCandidate)
	if err := f.svc.RequestReset(context.Background(), "a@example.com"); err != nil {
		t.Fatalf("RequestReset returned error: %v", err)
	}

	f.db.createResetErr = errors.New("disk full")
	if err := f.svc.RequestReset(context.Background(), "a@example.com"); err == nil {
		t.Fatal("expected store failure to surface")
	}

	resets := f.db.resetsFor(user.ID)
	if len(resets) != 1 || resets[0].Used {
		t.Fatalf("expected the earlier token to survive the rolled back supersession: %+v", resets)
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected no email after a failed request")
	}
}

func TestRequestResetLookupFailureIsNotMasked(t *testing.T) {
	f := newResetFixture()
	f.db.findByEmailErr = errors.New("connection refused")
	if err := f.svc.RequestReset(context.Background(), "a@example.com"); err == nil {
		t.Fatal("expected lookup failure to surface")
	}
}

func TestRequestResetMailFailureKeepsToken(t *testing.T) {
	f := newResetFixture()
	user := f.db.addUser("Ada", "a@example.com", domain.RoleCandidate)
	f.mailer.err = errors.New("smtp down")

	if err := f.svc.RequestReset(context.Background(), "a@example.com"); err != nil {
		t.Fatalf("expected mail failure to be swallowed, got %v", err)
	}
	resets := f.db.resetsFor(user.ID)
	if len(resets) != 1 || resets[0].Used {
		t.Fatalf("expected a pending token despite mail failure")
	}
}

func TestDispatchDecision(t *testing.T) {
	user := &domain.User{Email: "a@example.com"}
	storeErr := errors.New("boom")

	if ok, err := dispatchDecision(user, nil); !ok || err != nil {
		t.Fatalf("found account should dispatch, got %v %v", ok, err)
	}
	if ok, err := dispatchDecision(nil, errNoRows()); ok || err != nil {
		t.Fatalf("missing account should be silent, got %v %v", ok, err)
	}
	if ok, err := dispatchDecision(nil, storeErr); ok || !errors.Is(err, storeErr) {
		t.Fatalf("store failure should surface, got %v %v", ok, err)
	}
}

func TestVerifyTokenInvalidCases(t *testing.T) {
	f := newResetFixture()
	f.db.addUser("Ada", "a@example.com", domain.RoleCandidate)
	ctx := context.Background()

	if err := f.svc.VerifyToken(ctx, ""); !errors.Is(err, ErrTokenRequired) {
		t.Fatalf("expected ErrTokenRequired, got %v", err)
	}
	if err := f.svc.VerifyToken(ctx, "never-issued"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("unknown token: expected ErrResetTokenInvalid, got %v", err)
	}

	if err := f.svc.RequestReset(ctx, "a@example.com"); err != nil {
		t.Fatalf("RequestReset: %v", err)
	}
	token := f.lastToken(t)
	if err := f.svc.VerifyToken(ctx, token); err != nil {
		t.Fatalf("fresh token should verify, got %v", err)
	}
	if err := f.svc.VerifyToken(ctx, strings.ToUpper(token)); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("lookup must be exact, got %v", err)
	}

	f.now = f.now.Add(time.Hour)
	if err := f.svc.VerifyToken(ctx, token); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expired token: expected ErrResetTokenInvalid, got %v", err)
	}
	if f.db.resets[0].Used {
		t.Fatal("verify must not mutate the token")
	}
}

func TestConsumeAndResetShortPasswordMutatesNothing(t *testing.T) {
	f := newResetFixture()
	user := f.db.addUser("Ada", "a@example.com", domain.RoleCandidate)
	ctx := context.Background()
	if err := f.svc.RequestReset(ctx, "a@example.com"); err != nil {
		t.Fatalf("RequestReset: %v", err)
	}
	token := f.lastToken(t)

	if err := f.svc.ConsumeAndReset(ctx, token, "short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if f.db.resets[0].Used {
		t.Fatal("token must remain unused")
	}
	unchanged := f.db.users[user.ID]
	if unchanged.HasPassword() {
		t.Fatal("password must remain unchanged")
	}
}

func TestConsumeAndResetRequiresFields(t *testing.T) {
	f := newResetFixture()
	if err := f.svc.ConsumeAndReset(context.Background(), "", "longenough"); !errors.Is(err, ErrResetFieldsRequired) {
		t.Fatalf("expected ErrResetFieldsRequired, got %v", err)
	}
	if err := f.svc.ConsumeAndReset(context.Background(), "token", ""); !errors.Is(err, ErrResetFieldsRequired) {
		t.Fatalf("expected ErrResetFieldsRequired, got %v", err)
	}
}

func TestConsumeAndResetExpiredToken(t *testing.T) {
	f := newResetFixture()
	f.db.addUser("Ada", "a@example.com", domain.RoleCandidate)
	ctx := context.Background()
	if err := f.svc.RequestReset(ctx, "a@example.com"); err != nil {
		t.Fatalf("RequestReset: %v", err)
	}
	token := f.lastToken(t)

	f.now = f.now.Add(61 * time.Minute)
	if err := f.svc.ConsumeAndReset(ctx, token, "newpass123"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
}

func TestConsumeAndResetMissingAccount(t *testing.T) {
	f := newResetFixture()
	user := f.db.addUser("Ada", "a@example.com", domain.RoleCandidate)
	ctx := context.Background()
	if err := f.svc.RequestReset(ctx, "a@example.com"); err != nil {
		t.Fatalf("RequestReset: %v", err)
	}
	token := f.lastToken(t)
	delete(f.db.users, user.ID)

	if err := f.svc.ConsumeAndReset(ctx, token, "newpass123"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if f.db.resets[0].Used {
		t.Fatal("token must not be burned when the account is missing")
	}
}

func TestConsumeAndResetStoreFailureKeepsToken(t *testing.T) {
	f := newResetFixture()
	f.db.addUser("Ada", "a@example.com", domain.RoleCandidate)
	ctx := context.Background()
	if err := f.svc.RequestReset(ctx, "a@example.com"); err != nil {
		t.Fatalf("RequestReset: %v", err)
	}
	token := f.lastToken(t)

	f.db.updatePwErr = errors.New("deadlock detected")
	if err := f.svc.ConsumeAndReset(ctx, token, "newpass123"); err == nil {
		t.Fatal("expected store failure")
	}
	f.db.updatePwErr = nil
	if err := f.svc.VerifyToken(ctx, token); err != nil {
		t.Fatalf("token should still be consumable after rollback, got %v", err)
	}
}

func TestPasswordResetLifecycle(t *testing.T) {
	f := newResetFixture()
	user := f.db.addUser("U One", "a@example.com", domain.RoleCandidate)
	ctx := context.Background()

	if err := f.svc.RequestReset(ctx, "a@example.com"); err != nil {
		t.Fatalf("first RequestReset: %v", err)
	}
	t1 := f.lastToken(t)
	if err := f.svc.RequestReset(ctx, "a@example.com"); err != nil {
		t.Fatalf("second RequestReset: %v", err)
	}
	t2 := f.lastToken(t)

	if err := f.svc.VerifyToken(ctx, t1); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("superseded token should be invalid, got %v", err)
	}
	if err := f.svc.VerifyToken(ctx, t2); err != nil {
		t.Fatalf("latest token should be valid, got %v", err)
	}

	if err := f.svc.ConsumeAndReset(ctx, t2, "newpass123"); err != nil {
		t.Fatalf("ConsumeAndReset: %v", err)
	}
	after := f.db.users[user.ID]
	if !util.VerifyPassword("newpass123", after.PasswordSalt, after.PasswordHash) {
		t.Fatal("expected the new password to be stored")
	}

	if err := f.svc.ConsumeAndReset(ctx, t2, "again1234"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("second consume should be invalid, got %v", err)
	}
	final := f.db.users[user.ID]
	if !util.VerifyPassword("newpass123", final.PasswordSalt, final.PasswordHash) {
		t.Fatal("password must be unchanged by the rejected second reset")
	}
	for _, r := range f.db.resetsFor(user.ID) {
		if !r.Used {
			t.Fatalf("expected every token to be used, found %+v", r)
		}
	}
}
