package session

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/nexuslabs/nexusauth/internal/clock"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis, *clock.Mock) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	clk := clock.NewMock(time.Unix(1_700_000_000, 0))
	return NewStore(rdb, "", clk), mr, clk
}

func testUser() User {
	return User{
		ID:          "u-1",
		Email:       "student@university.edu",
		DisplayName: "Nexus Student",
		Profile:     ProfileStudent,
		AvatarURL:   "https://ui-avatars.com/api/?name=Student",
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _, clk := newTestStore(t)
	ctx := context.Background()

	before := clk.Now()
	if err := store.Save(ctx, testUser(), "nexus_tok", 30*time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rec, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec == nil {
		t.Fatal("Load returned nil after Save")
	}
	if rec.User != testUser() {
		t.Fatalf("user mismatch: %+v", rec.User)
	}
	if rec.Token != "nexus_tok" {
		t.Fatalf("token mismatch: %q", rec.Token)
	}
	want := before.Add(30 * time.Minute).UnixMilli()
	if rec.Expires != want {
		t.Fatalf("expires = %d, want %d", rec.Expires, want)
	}
}

func TestSaveOverwritesPriorRecord(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testUser(), "first", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, testUser(), "second", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rec, err := store.Load(ctx)
	if err != nil || rec == nil {
		t.Fatalf("Load = %v, %v", rec, err)
	}
	if rec.Token != "second" {
		t.Fatalf("slot not overwritten, token = %q", rec.Token)
	}
}

func TestLoadExpiredRecordDeletesSlot(t *testing.T) {
	store, mr, clk := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testUser(), "tok", time.Minute); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	clk.Advance(time.Minute) // expiry boundary: expires <= now reads as absent

	rec, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec != nil {
		t.Fatalf("expired record returned as valid: %+v", rec)
	}
	if mr.Exists(DefaultKey) {
		t.Fatal("stale record not deleted on read")
	}
}

func TestLoadCorruptRecordReadsAsAbsent(t *testing.T) {
	store, mr, _ := newTestStore(t)
	ctx := context.Background()

	for _, blob := range []string{"not-json", `{"user":`, `{"expires":"soon"}`, `{}`} {
		mr.Set(DefaultKey, blob)

		rec, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", blob, err)
		}
		if rec != nil {
			t.Fatalf("corrupt record %q returned as valid", blob)
		}
		if mr.Exists(DefaultKey) {
			t.Fatalf("corrupt record %q not deleted", blob)
		}
	}
}

func TestLoadEmptySlot(t *testing.T) {
	store, _, _ := newTestStore(t)

	rec, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec != nil {
		t.Fatalf("empty slot returned record: %+v", rec)
	}
}

func TestClearIdempotent(t *testing.T) {
	store, mr, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, testUser(), "tok", time.Hour); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if mr.Exists(DefaultKey) {
		t.Fatal("Clear left the record behind")
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
}

func TestWireFormatIsStable(t *testing.T) {
	store, mr, clk := newTestStore(t)
	ctx := context.Background()

	// A record written by a prior implementation of the same front-end
	// must load unchanged.
	expires := clk.Now().Add(time.Hour).UnixMilli()
	mr.Set(DefaultKey, `{"user":{"id":"u-9","email":"contact@company.com","name":"Nexus Company","profile":"company","avatar":"https://ui-avatars.com/api/?name=Company"},"token":"nexus_legacy","expires":`+strconv.FormatInt(expires, 10)+`}`)

	rec, err := store.Load(ctx)
	if err != nil || rec == nil {
		t.Fatalf("Load = %v, %v", rec, err)
	}
	if rec.User.Profile != ProfileCompany || rec.Token != "nexus_legacy" {
		t.Fatalf("legacy record decoded wrong: %+v", rec)
	}
}
