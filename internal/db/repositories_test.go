package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/terraincognita07/pitlane/internal/models"
	"gorm.io/gorm"
)

func TestUserRepositoryRejectsCaseInsensitiveDuplicateEmail(t *testing.T) {
	repos := NewRepositories(openSQLiteForTest(t, filepath.Join(t.TempDir(), "pitlane-email-index.db")))

	first := models.User{Name: "Ava", Email: "Racer@Pitlane.Local", PasswordHash: "hash-1", CreatedAt: time.Now().UTC()}
	if err := repos.Users.Create(&first); err != nil {
		t.Fatalf("create first user: %v", err)
	}

	second := models.User{Name: "Max", Email: "racer@pitlane.local", PasswordHash: "hash-2", CreatedAt: time.Now().UTC()}
	if err := repos.Users.Create(&second); err == nil {
		t.Fatalf("expected duplicate normalized email insert to fail")
	}

	exists, err := repos.Users.ExistsByNormalizedEmail("racer@pitlane.local")
	if err != nil {
		t.Fatalf("exists by email: %v", err)
	}
	if !exists {
		t.Fatal("expected normalized email lookup to match")
	}
}

func TestUserRepositoryVerificationAndPasswordUpdates(t *testing.T) {
	repos := NewRepositories(openSQLiteForTest(t, filepath.Join(t.TempDir(), "pitlane-users.db")))

	user := models.User{Name: "Elena", Email: "elena@pitlane.local", PasswordHash: "old", CreatedAt: time.Now().UTC()}
	if err := repos.Users.Create(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	verifiedAt := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	updated, err := repos.Users.MarkEmailVerified("elena@pitlane.local", verifiedAt)
	if err != nil {
		t.Fatalf("mark verified: %v", err)
	}
	if !updated {
		t.Fatal("expected one row to be marked verified")
	}

	updated, err = repos.Users.MarkEmailVerified("nobody@pitlane.local", verifiedAt)
	if err != nil {
		t.Fatalf("mark unknown verified: %v", err)
	}
	if updated {
		t.Fatal("expected unknown email to update nothing")
	}

	if err := repos.Users.UpdatePassword(user.ID, "new"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if err := repos.Users.TouchResetRequest(user.ID, verifiedAt); err != nil {
		t.Fatalf("touch reset request: %v", err)
	}

	stored, err := repos.Users.FindByNormalizedEmail("elena@pitlane.local")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if !stored.IsVerified() {
		t.Fatal("expected stored user to be verified")
	}
	if stored.PasswordHash != "new" {
		t.Fatalf("expected updated password hash, got %q", stored.PasswordHash)
	}
	if stored.LastResetRequestAt == nil || !stored.LastResetRequestAt.Equal(verifiedAt) {
		t.Fatalf("expected reset request timestamp, got %v", stored.LastResetRequestAt)
	}

	if _, err := repos.Users.FindByID(9999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestEventRepositoryListsSeedsInStartOrder(t *testing.T) {
	repos := NewRepositories(openSQLiteForTest(t, filepath.Join(t.TempDir(), "pitlane-events.db")))

	events, err := repos.Events.ListAll()
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected seeded events")
	}
	for index := 1; index < len(events); index++ {
		if events[index].StartDate < events[index-1].StartDate {
			t.Fatalf("expected events ordered by start date, got %s before %s", events[index-1].StartDate, events[index].StartDate)
		}
	}

	extra := models.KartingEvent{Title: "Test Day", StartDate: "2030-01-01", EndDate: "2030-01-01"}
	if err := repos.Events.Create(&extra); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if extra.ID == 0 {
		t.Fatal("expected created event id")
	}
}

func TestCourseRepositoryPaging(t *testing.T) {
	repos := NewRepositories(openSQLiteForTest(t, filepath.Join(t.TempDir(), "pitlane-courses.db")))

	total, err := repos.Courses.Count()
	if err != nil {
		t.Fatalf("count courses: %v", err)
	}
	if total < 6 {
		t.Fatalf("expected at least 6 seeded courses, got %d", total)
	}

	firstPage, err := repos.Courses.ListPage(0, 5)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	secondPage, err := repos.Courses.ListPage(5, 5)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(firstPage) != 5 {
		t.Fatalf("expected 5 courses on first page, got %d", len(firstPage))
	}
	if len(secondPage) == 0 || secondPage[0].ID <= firstPage[len(firstPage)-1].ID {
		t.Fatalf("expected second page to continue after first page")
	}

	course, err := repos.Courses.FindByID(firstPage[0].ID)
	if err != nil {
		t.Fatalf("find course: %v", err)
	}
	if course.Title != firstPage[0].Title || course.ImageURL == "" {
		t.Fatalf("unexpected course %+v", course)
	}
}

func TestContactRepositoryStoresMessages(t *testing.T) {
	repos := NewRepositories(openSQLiteForTest(t, filepath.Join(t.TempDir(), "pitlane-contact.db")))

	message := models.ContactMessage{
		ID:          "0b9f1c2e-8a4b-4f52-9a1e-000000000001",
		Title:       "Group booking",
		Description: "We would like to book six karts.",
		Email:       "team@example.com",
		Language:    "en",
		CreatedAt:   time.Now().UTC(),
	}
	if err := repos.Contacts.Create(&message); err != nil {
		t.Fatalf("create contact message: %v", err)
	}

	recent, err := repos.Contacts.ListRecent(10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Title != "Group booking" {
		t.Fatalf("unexpected messages %+v", recent)
	}
}
