package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lastmile-ai/mcp-registry-search/domain/store"
)

// Test domain type
type testUser struct {
	id     int64
	name   string
	email  string
	active bool
}

func (u testUser) ID() int64 { return u.id }

// Test entity
type testUserEntity struct {
	ID     int64 `gorm:"primaryKey"`
	Name   string
	Email  string
	Active bool
}

func (testUserEntity) TableName() string { return "users" }

// Test mapper
type testUserMapper struct{}

func (m testUserMapper) ToDomain(entity testUserEntity) testUser {
	return testUser{
		id:     entity.ID,
		name:   entity.Name,
		email:  entity.Email,
		active: entity.Active,
	}
}

func (m testUserMapper) ToModel(domain testUser) testUserEntity {
	return testUserEntity{
		ID:     domain.id,
		Name:   domain.name,
		Email:  domain.email,
		Active: domain.active,
	}
}

func setupTestRepo(t *testing.T) Repository[testUser, testUserEntity] {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(ctx, "sqlite:///"+dbPath)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	err = db.Session(ctx).Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			active BOOLEAN DEFAULT true
		)
	`).Error
	if err != nil {
		t.Fatalf("create table: %v", err)
	}

	return NewRepository[testUser, testUserEntity](db, testUserMapper{}, "user")
}

func seedUser(t *testing.T, repo Repository[testUser, testUserEntity], name, email string, active bool) testUser {
	t.Helper()
	ctx := context.Background()
	entity := testUserEntity{Name: name, Email: email, Active: active}
	if result := repo.DB(ctx).Create(&entity); result.Error != nil {
		t.Fatalf("seed user: %v", result.Error)
	}
	return repo.Mapper().ToDomain(entity)
}

func TestRepository_Find(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	seedUser(t, repo, "Alice", "alice@example.com", true)
	seedUser(t, repo, "Bob", "bob@example.com", false)
	seedUser(t, repo, "Charlie", "charlie@example.com", true)

	found, err := repo.Find(ctx, store.WithCondition("active", true))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("expected 2 active users, got %d", len(found))
	}
}

func TestRepository_Find_All(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	seedUser(t, repo, "Alice", "alice@example.com", true)
	seedUser(t, repo, "Bob", "bob@example.com", false)

	found, err := repo.Find(ctx)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("expected 2 users, got %d", len(found))
	}
}

func TestRepository_Find_InAndNotIn(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	seedUser(t, repo, "Alice", "alice@example.com", true)
	seedUser(t, repo, "Bob", "bob@example.com", false)
	seedUser(t, repo, "Charlie", "charlie@example.com", true)

	found, err := repo.Find(ctx, store.WithConditionIn("name", []string{"Alice", "Bob"}))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("expected 2 users, got %d", len(found))
	}

	found, err = repo.Find(ctx, store.WithConditionNotIn("name", []string{"Alice", "Bob"}))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 1 || found[0].name != "Charlie" {
		t.Errorf("expected only Charlie, got %v", found)
	}
}

func TestRepository_Find_OrderAndPagination(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	seedUser(t, repo, "Charlie", "charlie@example.com", true)
	seedUser(t, repo, "Alice", "alice@example.com", true)
	seedUser(t, repo, "Bob", "bob@example.com", true)

	found, err := repo.Find(ctx, store.WithOrderAsc("name"), store.WithLimit(2), store.WithOffset(1))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 users, got %d", len(found))
	}
	if found[0].name != "Bob" || found[1].name != "Charlie" {
		t.Errorf("expected [Bob Charlie], got [%s %s]", found[0].name, found[1].name)
	}

	found, err = repo.Find(ctx, store.WithOrderDesc("name"), store.WithLimit(1))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 1 || found[0].name != "Charlie" {
		t.Errorf("expected Charlie first descending, got %v", found)
	}
}

func TestRepository_FindOne(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	seeded := seedUser(t, repo, "Alice", "alice@example.com", true)

	found, err := repo.FindOne(ctx, store.WithCondition("email", "alice@example.com"))
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if found.id != seeded.id || found.name != "Alice" {
		t.Errorf("unexpected user: %+v", found)
	}
}

func TestRepository_FindOne_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	_, err := repo.FindOne(ctx, store.WithCondition("email", "missing@example.com"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_Exists(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	seedUser(t, repo, "Alice", "alice@example.com", true)

	exists, err := repo.Exists(ctx, store.WithCondition("name", "Alice"))
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Error("expected Alice to exist")
	}

	exists, err = repo.Exists(ctx, store.WithCondition("name", "Zed"))
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("expected Zed to not exist")
	}
}

func TestRepository_Count(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	seedUser(t, repo, "Alice", "alice@example.com", true)
	seedUser(t, repo, "Bob", "bob@example.com", false)
	seedUser(t, repo, "Charlie", "charlie@example.com", true)

	count, err := repo.Count(ctx, store.WithCondition("active", true))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestRepository_DeleteBy(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepo(t)

	seedUser(t, repo, "Alice", "alice@example.com", true)
	seedUser(t, repo, "Bob", "bob@example.com", false)

	if err := repo.DeleteBy(ctx, store.WithCondition("active", false)); err != nil {
		t.Fatalf("DeleteBy: %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 user left, got %d", count)
	}
}
