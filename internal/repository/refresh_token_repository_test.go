package repository

import (
	"errors"
	"testing"
	"time"

	"commerce-backend/internal/domain"
)

func TestRefreshTokenSetMembership(t *testing.T) {
	db := newTestDB(t)
	repo := NewRefreshTokenRepository(db)
	user := mustCreate(t, db, &domain.User{FirstName: "A", LastName: "B", Email: "a@example.com", PasswordHash: "x", Role: domain.RoleCustomer})

	if err := repo.Add(user.ID, "token-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("add: %v", err)
	}

	exists, err := repo.Exists(user.ID, "token-1")
	if err != nil || !exists {
		t.Fatalf("exists: %v %v", exists, err)
	}
	exists, err = repo.Exists(user.ID, "token-2")
	if err != nil || exists {
		t.Fatalf("unknown token must not exist: %v %v", exists, err)
	}
	exists, err = repo.Exists(user.ID+1, "token-1")
	if err != nil || exists {
		t.Fatalf("token must be scoped to its owner: %v %v", exists, err)
	}

	userID, err := repo.FindUserIDByToken("token-1")
	if err != nil || userID != user.ID {
		t.Fatalf("find user by token: %d %v", userID, err)
	}
	if _, err := repo.FindUserIDByToken("token-2"); !errors.Is(err, ErrRefreshTokenNotFound) {
		t.Fatalf("expected ErrRefreshTokenNotFound, got %v", err)
	}
}

func TestRefreshTokenExpiredEntriesAreInvisible(t *testing.T) {
	db := newTestDB(t)
	repo := NewRefreshTokenRepository(db)
	user := mustCreate(t, db, &domain.User{FirstName: "A", LastName: "B", Email: "a@example.com", PasswordHash: "x", Role: domain.RoleCustomer})

	if err := repo.Add(user.ID, "stale", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("add: %v", err)
	}
	exists, err := repo.Exists(user.ID, "stale")
	if err != nil || exists {
		t.Fatalf("expired token must not count as stored: %v %v", exists, err)
	}
	if _, err := repo.FindUserIDByToken("stale"); !errors.Is(err, ErrRefreshTokenNotFound) {
		t.Fatalf("expected ErrRefreshTokenNotFound for expired token, got %v", err)
	}

	removed, err := repo.CleanupExpired()
	if err != nil || removed != 1 {
		t.Fatalf("cleanup expired: removed=%d err=%v", removed, err)
	}
}

func TestRefreshTokenRemove(t *testing.T) {
	db := newTestDB(t)
	repo := NewRefreshTokenRepository(db)
	user := mustCreate(t, db, &domain.User{FirstName: "A", LastName: "B", Email: "a@example.com", PasswordHash: "x", Role: domain.RoleCustomer})

	if err := repo.Add(user.ID, "token-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("add: %v", err)
	}
	removed, err := repo.Remove("token-1")
	if err != nil || !removed {
		t.Fatalf("remove: %v %v", removed, err)
	}
	removed, err = repo.Remove("token-1")
	if err != nil || removed {
		t.Fatalf("second remove must report nothing deleted: %v %v", removed, err)
	}
}

func TestRefreshTokenRemoveAllForUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewRefreshTokenRepository(db)
	user := mustCreate(t, db, &domain.User{FirstName: "A", LastName: "B", Email: "a@example.com", PasswordHash: "x", Role: domain.RoleCustomer})
	other := mustCreate(t, db, &domain.User{FirstName: "C", LastName: "D", Email: "c@example.com", PasswordHash: "x", Role: domain.RoleCustomer})

	for _, token := range []string{"t1", "t2", "t3"} {
		if err := repo.Add(user.ID, token, time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := repo.Add(other.ID, "other-token", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("add other: %v", err)
	}

	removed, err := repo.RemoveAllForUser(user.ID)
	if err != nil || removed != 3 {
		t.Fatalf("remove all: removed=%d err=%v", removed, err)
	}
	exists, err := repo.Exists(other.ID, "other-token")
	if err != nil || !exists {
		t.Fatalf("other user's token must survive: %v %v", exists, err)
	}
}
