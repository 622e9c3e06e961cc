// Package storetest holds a driver-agnostic compliance suite. Each
// store.Store implementation runs the same suite so postgres and sqlite
// cannot drift apart on semantics.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/creatorhub/engage/internal/model"
	"github.com/creatorhub/engage/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// makeStore should provide a clean, isolated store per invocation.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()
	u := &model.User{UserID: userID, Email: userID + "@example.test", Role: "user", Username: "tester"}
	if _, err := s.Users().Create(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	got, err := s.Users().Get(ctx, userID)
	if err != nil || got == nil || got.UserID != userID {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if got.Credits != 0 || got.ProfileComplete {
		t.Fatalf("GetUser: expected zero-credit incomplete profile, got=%+v", got)
	}
	if _, err := s.Users().Get(ctx, "missing-"+uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser missing: want ErrNotFound, got %v", err)
	}

	// AddCredits returns the post-update balance.
	if bal, err := s.Users().AddCredits(ctx, userID, 7); err != nil || bal != 7 {
		t.Fatalf("AddCredits: bal=%d err=%v", bal, err)
	}
	if bal, err := s.Users().AddCredits(ctx, userID, -3); err != nil || bal != 4 {
		t.Fatalf("AddCredits negative delta: bal=%d err=%v", bal, err)
	}
	if _, err := s.Users().AddCredits(ctx, "missing", 1); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("AddCredits missing: want ErrNotFound, got %v", err)
	}

	// SetBalance returns the previous value.
	if old, err := s.Users().SetBalance(ctx, userID, 100); err != nil || old != 4 {
		t.Fatalf("SetBalance: old=%d err=%v", old, err)
	}

	// AwardDailyLogin: once per calendar day.
	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	if ok, err := s.Users().AwardDailyLogin(ctx, userID, day, 5); err != nil || !ok {
		t.Fatalf("AwardDailyLogin first: ok=%v err=%v", ok, err)
	}
	if ok, err := s.Users().AwardDailyLogin(ctx, userID, day.Add(8*time.Hour), 5); err != nil || ok {
		t.Fatalf("AwardDailyLogin same day: ok=%v err=%v", ok, err)
	}
	if ok, err := s.Users().AwardDailyLogin(ctx, userID, day.AddDate(0, 0, 1), 5); err != nil || !ok {
		t.Fatalf("AwardDailyLogin next day: ok=%v err=%v", ok, err)
	}
	got, err = s.Users().Get(ctx, userID)
	if err != nil || got.Credits != 110 {
		t.Fatalf("balance after logins: got=%+v err=%v", got, err)
	}
	if got.LastLogin == nil {
		t.Fatalf("LastLogin not refreshed")
	}

	// Profile latch: requires username, bio and avatar; flips once.
	if ok, err := s.Users().LatchProfileComplete(ctx, userID); err != nil || ok {
		t.Fatalf("LatchProfileComplete incomplete profile: ok=%v err=%v", ok, err)
	}
	bio, avatar := "bio", "https://cdn.example.test/a.png"
	if err := s.Users().UpdateProfile(ctx, userID, nil, &bio, &avatar); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if ok, err := s.Users().LatchProfileComplete(ctx, userID); err != nil || !ok {
		t.Fatalf("LatchProfileComplete: ok=%v err=%v", ok, err)
	}
	if ok, err := s.Users().LatchProfileComplete(ctx, userID); err != nil || ok {
		t.Fatalf("LatchProfileComplete second time: ok=%v err=%v", ok, err)
	}

	// Activities: append-only with metadata round-trip.
	act, err := s.Activities().Append(ctx, &model.Activity{
		UserID:        userID,
		Action:        model.ActionContentSave,
		Description:   "Saved content: test",
		CreditsChange: 2,
		Metadata:      map[string]interface{}{"contentId": "c1", "source": "reddit"},
	})
	if err != nil || act.ActivityID == "" {
		t.Fatalf("AppendActivity: act=%v err=%v", act, err)
	}
	acts, err := s.Activities().ListRecent(ctx, userID, 10)
	if err != nil || len(acts) != 1 {
		t.Fatalf("ListRecent activities: n=%d err=%v", len(acts), err)
	}
	if acts[0].Metadata["contentId"] != "c1" {
		t.Fatalf("activity metadata round-trip: %+v", acts[0].Metadata)
	}
	if sums, err := s.Activities().SumByAction(ctx, userID); err != nil || sums[model.ActionContentSave] != 2 {
		t.Fatalf("SumByAction: sums=%v err=%v", sums, err)
	}
	if sum, err := s.Activities().SumCredits(ctx, userID); err != nil || sum != 2 {
		t.Fatalf("SumCredits: sum=%d err=%v", sum, err)
	}
	if all, err := s.Activities().ListAllRecent(ctx, 10); err != nil || len(all) == 0 {
		t.Fatalf("ListAllRecent: n=%d err=%v", len(all), err)
	}

	// Saves: unique per (user, contentId, source).
	sc := &model.SavedContent{UserID: userID, ContentID: "c1", Source: "reddit", Title: "t", URL: "https://example.test"}
	if _, err := s.Saves().Create(ctx, sc); err != nil {
		t.Fatalf("CreateSave: %v", err)
	}
	if _, err := s.Saves().Create(ctx, sc); !errors.Is(err, model.ErrDuplicateEngagement) {
		t.Fatalf("CreateSave duplicate: want ErrDuplicateEngagement, got %v", err)
	}
	other := *sc
	other.Source = "twitter"
	if _, err := s.Saves().Create(ctx, &other); err != nil {
		t.Fatalf("CreateSave other source: %v", err)
	}
	if saves, err := s.Saves().ListRecent(ctx, userID, 10); err != nil || len(saves) != 2 {
		t.Fatalf("ListRecent saves: n=%d err=%v", len(saves), err)
	}

	// Reports: unique per (user, contentId, source), status pending.
	rep := &model.Report{UserID: userID, ContentID: "c1", Source: "reddit", Reason: "spam"}
	created, err := s.Reports().Create(ctx, rep)
	if err != nil || created.Status != "pending" {
		t.Fatalf("CreateReport: rep=%+v err=%v", created, err)
	}
	if _, err := s.Reports().Create(ctx, rep); !errors.Is(err, model.ErrDuplicateEngagement) {
		t.Fatalf("CreateReport duplicate: want ErrDuplicateEngagement, got %v", err)
	}
	if reps, err := s.Reports().ListRecent(ctx, 10); err != nil || len(reps) == 0 {
		t.Fatalf("ListRecent reports: n=%d err=%v", len(reps), err)
	}

	// Notifications: MarkRead is scoped to the owner.
	n, err := s.Notifications().Create(ctx, &model.Notification{UserID: userID, Type: "save", Message: "m"})
	if err != nil || n.NotificationID == "" || n.Read {
		t.Fatalf("CreateNotification: n=%+v err=%v", n, err)
	}
	otherID := "u-" + uuid.New().String()
	if _, err := s.Users().Create(ctx, &model.User{UserID: otherID, Email: otherID + "@example.test", Role: "user", Username: "other"}); err != nil {
		t.Fatalf("CreateUser other: %v", err)
	}
	if err := s.Notifications().MarkRead(ctx, otherID, []string{n.NotificationID}); err != nil {
		t.Fatalf("MarkRead foreign id: %v", err)
	}
	if list, err := s.Notifications().ListRecent(ctx, userID, 10); err != nil || len(list) != 1 || list[0].Read {
		t.Fatalf("notification flipped by foreign user: list=%+v err=%v", list, err)
	}
	if err := s.Notifications().MarkRead(ctx, userID, []string{n.NotificationID, "missing-id"}); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if list, err := s.Notifications().ListRecent(ctx, userID, 10); err != nil || !list[0].Read {
		t.Fatalf("MarkRead did not flip: list=%+v err=%v", list, err)
	}

	// Users aggregates.
	if total, admins, err := s.Users().Count(ctx); err != nil || total < 2 || admins != 0 {
		t.Fatalf("Count: total=%d admins=%d err=%v", total, admins, err)
	}
	if top, err := s.Users().TopByCredits(ctx, 1); err != nil || len(top) != 1 || top[0].UserID != userID {
		t.Fatalf("TopByCredits: top=%v err=%v", top, err)
	}
	if sum, err := s.Users().TotalCredits(ctx); err != nil || sum != 110 {
		t.Fatalf("TotalCredits: sum=%d err=%v", sum, err)
	}

	// Ensure provisions missing rows and never disturbs existing ones.
	ensuredID := "u-" + uuid.New().String()
	if err := s.Users().Ensure(ctx, ensuredID, "user"); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if eu, err := s.Users().Get(ctx, ensuredID); err != nil || eu.Role != "user" || eu.Credits != 0 {
		t.Fatalf("Ensure get: got=%+v err=%v", eu, err)
	}
	// Provisioned rows carry no email; a second one must not collide.
	if err := s.Users().Ensure(ctx, "u-"+uuid.New().String(), ""); err != nil {
		t.Fatalf("Ensure second user: %v", err)
	}
	if err := s.Users().Ensure(ctx, userID, "admin"); err != nil {
		t.Fatalf("Ensure existing: %v", err)
	}
	if eu, err := s.Users().Get(ctx, userID); err != nil || eu.Role != "user" || eu.Credits != 110 {
		t.Fatalf("Ensure touched existing row: got=%+v err=%v", eu, err)
	}

	// InTx: a failing fn rolls back every write.
	sentinel := errors.New("boom")
	err = s.InTx(ctx, func(tx store.Store) error {
		if _, err := tx.Users().AddCredits(ctx, userID, 1000); err != nil {
			return err
		}
		if _, err := tx.Activities().Append(ctx, &model.Activity{
			UserID: userID, Action: model.ActionAdminAdjust, Description: "x", CreditsChange: 1000,
		}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("InTx: want sentinel error, got %v", err)
	}
	if got, err := s.Users().Get(ctx, userID); err != nil || got.Credits != 110 {
		t.Fatalf("InTx rollback: credits=%d err=%v", got.Credits, err)
	}

	// HealthPing
	if err := s.HealthPing(ctx); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}
}
