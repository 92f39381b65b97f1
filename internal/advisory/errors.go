package advisory

import "errors"

// Provider conditions. Completers wrap these so the client can classify failures.
var (
	ErrUnauthorized  = errors.New("advisory provider rejected credentials")
	ErrRateLimited   = errors.New("advisory provider rate limit exceeded")
	ErrEmptyResponse = errors.New("advisory provider returned no content")
)
