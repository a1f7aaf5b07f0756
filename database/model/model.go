// Package model defines the database entities of the household economy
// backend: users, permissions, login tokens and the financial entities.
package model

import (
	"fmt"
	"time"
)

// SystemUserId is the reserved id of the distinguished root user. It is
// seeded at database initialization and can never be deleted.
const SystemUserId int64 = 1

// PermissionGroup classifies permissions into domains.
type PermissionGroup int

const (
	GroupGod PermissionGroup = iota
	GroupUsers
	GroupBanks
	GroupAccounts
)

// Permission is an enumerated capability tag. Stored ordinal, so new
// values must only ever be appended.
type Permission int

const (
	System Permission = iota
	Admin

	AddUser
	AddAllUser
	GetUser
	GetAllUser
	DeleteUser
	DeleteAllUser
	EditUser
	EditAllUser

	AddBank
	GetBank
	EditBank
	DeleteBank

	AddBankAccount
	GetBankAccount
	EditBankAccount
	DeleteBankAccount
)

// Group returns the permission's domain.
func (p Permission) Group() PermissionGroup {
	switch {
	case p <= Admin:
		return GroupGod
	case p <= EditAllUser:
		return GroupUsers
	case p <= DeleteBank:
		return GroupBanks
	default:
		return GroupAccounts
	}
}

var permissionNames = [...]string{
	"SYSTEM", "ADMIN",
	"ADD_USER", "ADD_ALL_USER", "GET_USER", "GET_ALL_USER",
	"DELETE_USER", "DELETE_ALL_USER", "EDIT_USER", "EDIT_ALL_USER",
	"ADD_BANK", "GET_BANK", "EDIT_BANK", "DELETE_BANK",
	"ADD_BANK_ACCOUNT", "GET_BANK_ACCOUNT", "EDIT_BANK_ACCOUNT", "DELETE_BANK_ACCOUNT",
}

func (p Permission) String() string {
	if p < 0 || int(p) >= len(permissionNames) {
		return "UNKNOWN"
	}
	return permissionNames[p]
}

// ParsePermission resolves a permission by its name, e.g. "ADD_BANK".
func ParsePermission(name string) (Permission, error) {
	for i, n := range permissionNames {
		if n == name {
			return Permission(i), nil
		}
	}
	return 0, fmt.Errorf("unknown permission %q", name)
}

// User is a system identity. Every non-system user has a parent, forming
// a tree rooted at the system user; the parent chain drives the scoped
// (non-ALL) permission checks.
type User struct {
	Id             int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string `json:"username" gorm:"size:50;not null;uniqueIndex"`
	Password       string `json:"-" gorm:"size:150;not null"`
	FirstName      string `json:"firstName" gorm:"size:100;not null"`
	LastName       string `json:"lastName" gorm:"size:300"`
	Email          string `json:"email" gorm:"size:250;not null;uniqueIndex"`
	EmailValidated bool   `json:"emailValidated" gorm:"not null;default:false"`
	ParentUserId   *int64 `json:"parentUserId" gorm:"index"`

	// TwoFactorSecret, when set, requires a TOTP code at login.
	TwoFactorSecret string `json:"-" gorm:"size:64"`
}

// UserPermission grants one permission to one user. Duplicate grants are
// not prevented by the schema and are semantically idempotent.
type UserPermission struct {
	Id         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Permission Permission `json:"permission" gorm:"not null"`
	UserId     int64      `json:"userId" gorm:"not null;index"`
}

// TokenType discriminates persisted tokens.
type TokenType int

const (
	LoginToken TokenType = iota
)

const TokenMaxLength = 2048

// Token is a persisted login credential. Deleting a user deletes all of
// that user's tokens.
type Token struct {
	Id      int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Token   string    `json:"token" gorm:"size:2048;not null"`
	Expires time.Time `json:"expires"`
	Type    TokenType `json:"type"`
	UserId  int64     `json:"userId" gorm:"not null;index"`
}
