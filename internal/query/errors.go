package query

import "errors"

var (
	// ErrMissingAPIKey - the LLM credential is not configured, /ask-db cannot work.
	ErrMissingAPIKey = errors.New("llm api key not configured")

	// ErrUnsafeStatement - a candidate statement failed the safety gate.
	// Deliberately carries no detail about which check failed, so the error
	// cannot be used as an oracle for bypass attempts.
	ErrUnsafeStatement = errors.New("sql statement not allowed")

	// ErrQuotaExceeded - the LLM provider reported an exhausted quota (429).
	ErrQuotaExceeded = errors.New("llm quota exceeded")

	// ErrUpstreamUnavailable - any other LLM transport failure.
	ErrUpstreamUnavailable = errors.New("llm unavailable")

	// ErrBadModelOutput - the model reply was not the expected JSON object.
	ErrBadModelOutput = errors.New("invalid model output")

	// ErrUserNotFound - email identity lookup found no user.
	ErrUserNotFound = errors.New("user not found")

	// ErrMissingIdentity - the question requires a caller identity, none given.
	ErrMissingIdentity = errors.New("caller identity required")
)
