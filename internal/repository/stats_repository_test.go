package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"govtjobs/internal/database"
	"govtjobs/internal/database/dbtest"
	"govtjobs/internal/domain/user"

	"github.com/google/uuid"
)

func TestStatsSnapshot_UsesLocalDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	dayStart := time.Date(2026, 10, 15, 0, 0, 0, 0, ist)

	var gotArgs []any
	db := &dbtest.FakeDB{
		QueryRowFunc: func(_ string, args []any) database.Row {
			gotArgs = args
			return dbtest.Row{Values: []any{120, 7, 14, 3050}}
		},
	}
	s, err := NewPostgresStatsRepository(db).Snapshot(context.Background(), dayStart)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.TotalJobs != 120 || s.NewToday != 7 || s.Departments != 14 || s.Applications != 3050 {
		t.Fatalf("unexpected snapshot %+v", s)
	}
	if gotArgs[0] != "2026-10-15" {
		t.Fatalf("expected local date, got %v", gotArgs[0])
	}
	if end := gotArgs[2].(time.Time); !end.Equal(dayStart.Add(24 * time.Hour)) {
		t.Fatalf("unexpected day end %v", end)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	_, err := NewPostgresUserRepository(&dbtest.FakeDB{}).GetUserByEmail(context.Background(), "x@example.com")
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := NewPostgresUserRepository(&dbtest.FakeDB{}).UpdateUser(context.Background(), user.User{ID: uuid.New()}); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_CreateNormalizesEmailAndRole(t *testing.T) {
	db := &dbtest.FakeDB{}
	err := NewPostgresUserRepository(db).CreateUser(context.Background(), user.User{ID: uuid.New(), Email: " Asha@Example.COM "})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	args := db.Recorded()[0].Args
	if args[2] != "asha@example.com" || args[5] != user.RoleUser {
		t.Fatalf("unexpected args %v", args)
	}
}
