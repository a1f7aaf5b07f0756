package service

// ValidationResult is the outcome of a per-operation input validation
// step. Validators report the first violated rule only; the calling
// operation remaps the local code into its own Result code space.
type ValidationResult struct {
	Valid   bool
	ErrCode int
	ErrMsg  string
}

func ValidationOK() ValidationResult {
	return ValidationResult{Valid: true}
}

func ValidationError(errCode int, errMsg string) ValidationResult {
	return ValidationResult{Valid: false, ErrCode: errCode, ErrMsg: errMsg}
}
