// Package job contains the scheduled background jobs of the backend.
package job

import (
	"household-economy/logger"
	"household-economy/web/service"
)

// TokenCleanupJob removes expired login tokens from the database.
type TokenCleanupJob struct {
	authService *service.AuthService
}

// NewTokenCleanupJob creates a new token cleanup job.
func NewTokenCleanupJob(authService *service.AuthService) *TokenCleanupJob {
	return &TokenCleanupJob{authService: authService}
}

// Run purges every token past its expiry.
func (j *TokenCleanupJob) Run() {
	logger.Debug("token cleanup job started")

	removed, err := j.authService.PurgeExpiredTokens()
	if err != nil {
		logger.Warning("failed to purge expired tokens:", err)
		return
	}
	if removed > 0 {
		logger.Infof("purged %d expired tokens", removed)
	}
}
