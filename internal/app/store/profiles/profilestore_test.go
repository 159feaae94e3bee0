package profilestore_test

import (
	"errors"
	"testing"
	"time"

	profilestore "github.com/campusgrid/campusgrid/internal/app/store/profiles"
	"github.com/campusgrid/campusgrid/internal/app/system/indexes"
	"github.com/campusgrid/campusgrid/internal/domain/models"
	"github.com/campusgrid/campusgrid/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreateNormalizesFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := profilestore.New(db)

	created, err := store.Create(ctx, models.Profile{
		UserKey:      "user-key-1",
		DisplayName:  "  Jordan   Reyes  ",
		FieldOfStudy: " Computer   Science ",
		Interests:    []string{"AI", "  Music ", "ai", ""},
		Role:         "student",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.DisplayName != "Jordan Reyes" {
		t.Errorf("DisplayName = %q", created.DisplayName)
	}
	if created.DisplayNameCI != "jordan reyes" {
		t.Errorf("DisplayNameCI = %q", created.DisplayNameCI)
	}
	if created.FieldOfStudy != "Computer Science" {
		t.Errorf("FieldOfStudy = %q", created.FieldOfStudy)
	}
	if len(created.Interests) != 2 || created.Interests[0] != "ai" || created.Interests[1] != "music" {
		t.Errorf("Interests = %v", created.Interests)
	}
	if created.Status != "active" {
		t.Errorf("Status = %q", created.Status)
	}
	if created.HasCoordinate() || created.BucketKey != "" || created.LocationUpdatedAt != nil {
		t.Error("new profile must not carry location state")
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := profilestore.New(db)

	_, err := store.Create(ctx, models.Profile{UserKey: "k", DisplayName: "X", Role: "superuser"})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestCreateDuplicateUserKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := profilestore.New(db)

	if _, err := store.Create(ctx, models.Profile{UserKey: "same-key", DisplayName: "First", Role: "student"}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := store.Create(ctx, models.Profile{UserKey: "same-key", DisplayName: "Second", Role: "student"})
	if !errors.Is(err, profilestore.ErrDuplicateUserKey) {
		t.Fatalf("err = %v, want ErrDuplicateUserKey", err)
	}
}

func TestGetByUserKeyNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := profilestore.New(db)

	_, err := store.GetByUserKey(ctx, "missing")
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("err = %v, want ErrNoDocuments", err)
	}
}

func TestUpdateLocationRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := profilestore.New(db)

	p := fx.CreateProfile(ctx, "Locator", "Physics", nil)
	at := time.Now().UTC().Truncate(time.Millisecond)

	if err := store.UpdateLocation(ctx, p.ID, 38.9451, -92.3289, "9yzgd1x", at); err != nil {
		t.Fatalf("UpdateLocation: %v", err)
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.HasCoordinate() || *got.Lat != 38.9451 || *got.Lng != -92.3289 {
		t.Fatalf("coordinate = %v,%v", got.Lat, got.Lng)
	}
	if got.BucketKey != "9yzgd1x" {
		t.Errorf("BucketKey = %q", got.BucketKey)
	}
	if got.LocationUpdatedAt == nil || !got.LocationUpdatedAt.Equal(at) {
		t.Errorf("LocationUpdatedAt = %v, want %v", got.LocationUpdatedAt, at)
	}
}

func TestUpdateLocationUnknownProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := profilestore.New(db)

	err := store.UpdateLocation(ctx, primitive.NewObjectID(), 1, 2, "bucket", time.Now().UTC())
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Fatalf("err = %v, want ErrNoDocuments", err)
	}
}

func TestFindDiscoverableInBucket(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := profilestore.New(db)

	now := time.Now().UTC()
	self := fx.CreateProfile(ctx, "Self", "Physics", nil)
	sharing := fx.CreateProfile(ctx, "Sharing", "Physics", nil)
	optedOut := fx.CreateProfile(ctx, "Opted Out", "Physics", nil)
	elsewhere := fx.CreateProfile(ctx, "Elsewhere", "Physics", nil)

	fx.PlaceProfile(ctx, self.ID, 38.9451, -92.3289, "9yzgd1x", true, now)
	fx.PlaceProfile(ctx, sharing.ID, 38.9452, -92.3289, "9yzgd1x", true, now)
	fx.PlaceProfile(ctx, optedOut.ID, 38.9452, -92.3289, "9yzgd1x", false, now)
	fx.PlaceProfile(ctx, elsewhere.ID, 40.0, -92.3289, "other01", true, now)

	got, err := store.FindDiscoverableInBucket(ctx, "9yzgd1x", self.ID)
	if err != nil {
		t.Fatalf("FindDiscoverableInBucket: %v", err)
	}
	if len(got) != 1 || got[0].ID != sharing.ID {
		t.Fatalf("got %d profiles, want only the sharing one", len(got))
	}
}

func TestClearStaleLocations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := profilestore.New(db)

	now := time.Now().UTC()
	fresh := fx.CreateProfile(ctx, "Fresh", "", nil)
	stale := fx.CreateProfile(ctx, "Stale", "", nil)
	fx.PlaceProfile(ctx, fresh.ID, 38.9451, -92.3289, "9yzgd1x", true, now)
	fx.PlaceProfile(ctx, stale.ID, 38.9451, -92.3289, "9yzgd1x", true, now.Add(-48*time.Hour))

	count, err := store.ClearStaleLocations(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("ClearStaleLocations: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	gotStale, err := store.GetByID(ctx, stale.ID)
	if err != nil {
		t.Fatalf("GetByID stale: %v", err)
	}
	if gotStale.HasCoordinate() || gotStale.BucketKey != "" || gotStale.LocationUpdatedAt != nil {
		t.Error("stale profile still carries location state")
	}

	gotFresh, err := store.GetByID(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("GetByID fresh: %v", err)
	}
	if !gotFresh.HasCoordinate() {
		t.Error("fresh profile lost its location")
	}
}

func TestSetShareLocation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	store := profilestore.New(db)

	p := fx.CreateProfile(ctx, "Toggler", "", nil)

	if err := store.SetShareLocation(ctx, p.ID, true); err != nil {
		t.Fatalf("SetShareLocation: %v", err)
	}
	got, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.ShareLocation {
		t.Error("ShareLocation = false, want true")
	}
}
