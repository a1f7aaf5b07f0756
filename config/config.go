// Package config exposes build metadata and environment-driven settings
// for the household economy backend.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("HE_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("HE_DEBUG") == "true"
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("HE_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "/etc/household-economy"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("HE_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "/var/log"
	}
	return logFolderPath
}

func GetWebListen() string {
	return os.Getenv("HE_WEB_LISTEN")
}

func GetWebPort() int {
	port, err := strconv.Atoi(os.Getenv("HE_WEB_PORT"))
	if err != nil || port <= 0 || port > 65535 {
		return 8080
	}
	return port
}

// GetTokenSecret returns the HMAC secret used to sign login tokens.
func GetTokenSecret() string {
	return os.Getenv("HE_TOKEN_SECRET")
}

func GetTokenIssuer() string {
	issuer := os.Getenv("HE_TOKEN_ISSUER")
	if issuer == "" {
		issuer = GetName()
	}
	return issuer
}

// GetTokenValidSeconds returns the login token lifetime, 24h by default.
func GetTokenValidSeconds() int {
	seconds, err := strconv.Atoi(os.Getenv("HE_TOKEN_VALID_SECONDS"))
	if err != nil || seconds <= 0 {
		return 86400
	}
	return seconds
}
