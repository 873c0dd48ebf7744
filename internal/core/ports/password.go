package ports

// PasswordHasher turns a plain password into its stored form and checks a
// candidate against a stored value.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Matches(stored, plain string) bool
}
