package service

import (
	"fmt"
	"os"
	"testing"

	"household-economy/database"
	"household-economy/database/model"
)

func setup() {
	dbPath := "test.db"
	os.Remove(dbPath)
	database.InitDB(dbPath)
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
}

func i64(v int64) *int64 {
	return &v
}

func str(s string) *string {
	return &s
}

// newUser inserts a user row directly, bypassing the creation checks.
func newUser(t *testing.T, username string, parentId *int64) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Password:     "irrelevant-hash",
		FirstName:    username,
		Email:        fmt.Sprintf("%s@example.com", username),
		ParentUserId: parentId,
	}
	if err := database.GetDB().Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func grant(t *testing.T, userId int64, permission model.Permission) {
	t.Helper()
	if err := GrantPermission(userId, permission); err != nil {
		t.Fatalf("grant %s to user %d: %v", permission, userId, err)
	}
}

func newBank(t *testing.T, name string) *model.Bank {
	t.Helper()
	bank := &model.Bank{Name: name}
	if err := database.GetDB().Create(bank).Error; err != nil {
		t.Fatalf("create bank %s: %v", name, err)
	}
	return bank
}
