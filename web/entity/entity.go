// Package entity defines the request and response shapes of the web layer.
package entity

// Msg is the standard API response envelope. ErrCode carries the
// operation-scoped error code when Success is false; 0 otherwise.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	ErrCode int    `json:"errCode,omitempty"`
	Obj     any    `json:"obj"`
}

// LoginForm is the login request body. TwoFactorCode is required only
// for users with a two-factor secret.
type LoginForm struct {
	Username      string `json:"username" form:"username"`
	Password      string `json:"password" form:"password"`
	TwoFactorCode string `json:"twoFactorCode" form:"twoFactorCode"`
}
