package common

// SessionTokenBytes is the number of random bytes behind a session token.
// The hex-encoded token is twice as long.
const SessionTokenBytes = 32
