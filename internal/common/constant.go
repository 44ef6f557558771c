package common

// TokenQueryParam is the query parameter carrying the session token on
// authorized requests.
const TokenQueryParam = "token"

// SessionTokenBytes is the number of random bytes behind a session token
// (128 bits, hex encoded to 32 characters).
const SessionTokenBytes = 16
