package repository

import (
	"errors"
	"testing"

	"commerce-backend/internal/domain"
)

func TestUserRepositoryCreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := &domain.User{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", PasswordHash: "x", Role: domain.RoleCustomer}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected assigned ID")
	}

	byID, err := repo.FindByID(user.ID)
	if err != nil || byID.Email != "jane@example.com" {
		t.Fatalf("find by id: %v %+v", err, byID)
	}
	byEmail, err := repo.FindByEmail("jane@example.com")
	if err != nil || byEmail.ID != user.ID {
		t.Fatalf("find by email: %v %+v", err, byEmail)
	}
}

func TestUserRepositoryNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	if _, err := repo.FindByID(12345); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByEmail("ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	first := &domain.User{FirstName: "A", LastName: "B", Email: "dup@example.com", PasswordHash: "x", Role: domain.RoleCustomer}
	if err := repo.Create(first); err != nil {
		t.Fatalf("create: %v", err)
	}
	second := &domain.User{FirstName: "C", LastName: "D", Email: "dup@example.com", PasswordHash: "y", Role: domain.RoleCustomer}
	if err := repo.Create(second); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepositoryUpdateAndList(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := mustCreate(t, db, &domain.User{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", PasswordHash: "x", Role: domain.RoleCustomer})
	mustCreate(t, db, &domain.User{FirstName: "John", LastName: "Doe", Email: "john@example.com", PasswordHash: "x", Role: domain.RoleAdmin})

	user.FirstName = "Janet"
	if err := repo.Update(user); err != nil {
		t.Fatalf("update: %v", err)
	}
	reloaded, err := repo.FindByID(user.ID)
	if err != nil || reloaded.FirstName != "Janet" {
		t.Fatalf("reload after update: %v %+v", err, reloaded)
	}

	users, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}
