// Package credentials holds the opaque password bundle the envelope codec
// and remote datasources authenticate with.
package credentials

// KeyDerivation carries the parameters an envelope was (or should be)
// encrypted with, so that loading an archive written under an older
// iteration count can be migrated forward on next save without the
// caller needing to know the envelope format's internals.
type KeyDerivation struct {
	Iterations int
}

// Credentials is an opaque bundle: a password plus optional key
// derivation parameters. The engine never logs a Credentials value or
// its fields.
type Credentials struct {
	password      string
	keyDerivation *KeyDerivation
}

// New returns Credentials for password, with no key derivation override.
func New(password string) Credentials {
	return Credentials{password: password}
}

// NewWithKeyDerivation returns Credentials for password that additionally
// carries kd, e.g. when migrating an archive encrypted under a previous
// iteration count.
func NewWithKeyDerivation(password string, kd KeyDerivation) Credentials {
	return Credentials{password: password, keyDerivation: &kd}
}

// Password returns the bundled password.
func (c Credentials) Password() string {
	return c.password
}

// KeyDerivation returns the bundled key derivation parameters, and
// whether any were set.
func (c Credentials) KeyDerivation() (KeyDerivation, bool) {
	if c.keyDerivation == nil {
		return KeyDerivation{}, false
	}
	return *c.keyDerivation, true
}

// String never exposes the password; credentials are sensitive and must
// not be logged.
func (c Credentials) String() string {
	return "credentials.Credentials{REDACTED}"
}
