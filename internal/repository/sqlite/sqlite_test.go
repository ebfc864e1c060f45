package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/sakif/studytrack/internal/model"
)

// newTestDB creates a fresh in-memory database for one test.
// ":memory:" means no disk I/O and automatic cleanup on close.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var testUserSeq int

func createTestUser(t *testing.T, db *DB, email string) *model.User {
	t.Helper()
	testUserSeq++
	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$04$notarealhash",
		Name:         fmt.Sprintf("Test User %d", testUserSeq),
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestProject(t *testing.T, db *DB, ownerID, title string) *model.Project {
	t.Helper()
	project := &model.Project{
		Title:  title,
		Course: "CS-301",
		UserID: ownerID,
	}
	if err := db.CreateProject(context.Background(), project); err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}
