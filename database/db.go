// Package database manages the sqlite database connection, migrations and
// the seeded system user.
package database

import (
	"io/fs"
	"log"
	"os"
	"path"

	"household-economy/config"
	"household-economy/database/model"
	"household-economy/util/crypto"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

const (
	defaultUsername = "system"
	defaultPassword = "system"
)

func initModels() error {
	models := []any{
		&model.User{},
		&model.UserPermission{},
		&model.Token{},
		&model.Bank{},
		&model.BankAccount{},
		&model.BankAccountOwner{},
		&model.BankCard{},
		&model.Operation{},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			log.Printf("Error auto migrating model: %v", err)
			return err
		}
	}
	return nil
}

// initSystemUser seeds the distinguished root user (id 1) holding the
// SYSTEM permission. It is the implicit parent of signed-up users.
func initSystemUser() error {
	empty, err := isTableEmpty("users")
	if err != nil {
		log.Printf("Error checking if users table is empty: %v", err)
		return err
	}
	if !empty {
		return nil
	}

	hash, err := crypto.HashPasswordAsBcrypt(defaultPassword)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := &model.User{
			Id:        model.SystemUserId,
			Username:  defaultUsername,
			Password:  hash,
			FirstName: "System",
			Email:     "system@localhost.localdomain",
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		grant := &model.UserPermission{
			Permission: model.System,
			UserId:     user.Id,
		}
		return tx.Create(grant).Error
	})
}

func isTableEmpty(tableName string) (bool, error) {
	var count int64
	err := db.Table(tableName).Count(&count).Error
	return count == 0, err
}

func InitDB(dbPath string) error {
	dir := path.Dir(dbPath)
	err := os.MkdirAll(dir, fs.ModePerm)
	if err != nil {
		return err
	}

	var gormLogger logger.Interface

	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:      gormLogger,
		PrepareStmt: true,
	}

	dsn := dbPath + "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	db, err = gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		return err
	}

	if err := initModels(); err != nil {
		return err
	}
	if err := initSystemUser(); err != nil {
		return err
	}

	return nil
}

func CloseDB() error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

func GetDB() *gorm.DB {
	return db
}

func IsNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}
