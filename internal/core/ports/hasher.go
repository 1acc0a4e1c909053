package ports

// PasswordHasher is the one-way credential verifier. The core never
// re-implements hashing; it only calls through this interface.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext, digest string) bool
}
