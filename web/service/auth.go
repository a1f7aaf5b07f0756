package service

import (
	"time"

	"household-economy/config"
	"household-economy/database"
	"household-economy/database/model"
	"household-economy/logger"
	"household-economy/util/common"
	"household-economy/util/crypto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xlzd/gotp"
)

// AuthService issues and validates login tokens. Tokens are HS256 JWTs
// that are also persisted, so deleting a user revokes every token that
// user ever obtained.
type AuthService struct {
	userService UserService
}

// ErrBadCredentials hides which login step failed. Username, password and
// two-factor failures are indistinguishable to the caller.
var ErrBadCredentials = common.NewError("wrong username or password")

type loginClaims struct {
	UserId   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Login authenticates a user and returns a signed token. When the user
// has a two-factor secret, twoFactorCode must be the current TOTP value.
func (s *AuthService) Login(username string, password string, twoFactorCode string) (string, *model.User, error) {
	user, err := s.userService.findUserByUsername(username)
	if err != nil {
		logger.Error("error getting user for login:", err)
		return "", nil, err
	}
	if user == nil {
		logger.Warningf("login failed: unknown username %q", username)
		return "", nil, ErrBadCredentials
	}
	if !crypto.CheckPasswordHash(user.Password, password) {
		logger.Warningf("login failed: wrong password for user %d", user.Id)
		return "", nil, ErrBadCredentials
	}
	if user.TwoFactorSecret != "" {
		totp := gotp.NewDefaultTOTP(user.TwoFactorSecret)
		if !totp.Verify(twoFactorCode, time.Now().Unix()) {
			logger.Warningf("login failed: wrong two-factor code for user %d", user.Id)
			return "", nil, ErrBadCredentials
		}
	}

	secret := config.GetTokenSecret()
	if secret == "" {
		return "", nil, common.NewError("token secret is not configured")
	}

	now := time.Now().UTC()
	expires := now.Add(time.Duration(config.GetTokenValidSeconds()) * time.Second)
	claims := loginClaims{
		UserId:   user.Id,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.GetTokenIssuer(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		logger.Error("error signing login token:", err)
		return "", nil, err
	}
	if len(signed) > model.TokenMaxLength {
		return "", nil, common.NewError("signed token exceeds storage size")
	}

	db := database.GetDB()
	token := &model.Token{
		Token:   signed,
		Expires: expires,
		Type:    model.LoginToken,
		UserId:  user.Id,
	}
	if err := db.Create(token).Error; err != nil {
		logger.Error("error persisting login token:", err)
		return "", nil, err
	}

	logger.Infof("user %d logged in", user.Id)
	return signed, user, nil
}

// ParseToken validates a presented token and resolves it to its user. The
// signature, issuer and expiry are checked first, then the persisted row:
// a token whose row is gone (user deleted, token purged) is rejected.
func (s *AuthService) ParseToken(tokenString string) (*model.User, error) {
	secret := config.GetTokenSecret()
	if secret == "" {
		return nil, common.NewError("token secret is not configured")
	}

	claims := &loginClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(config.GetTokenIssuer()),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, common.NewError("invalid login token:", err)
	}

	db := database.GetDB()
	var count int64
	err = db.Model(model.Token{}).
		Where("token = ? and type = ? and user_id = ?", tokenString, model.LoginToken, claims.UserId).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, common.NewError("login token revoked")
	}

	user, err := s.userService.findUser(claims.UserId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NewError("login token's user no longer exists")
	}
	return user, nil
}

// PurgeExpiredTokens deletes tokens past their expiry and returns how
// many were removed.
func (s *AuthService) PurgeExpiredTokens() (int64, error) {
	db := database.GetDB()
	result := db.Where("expires < ?", time.Now().UTC()).Delete(&model.Token{})
	return result.RowsAffected, result.Error
}
