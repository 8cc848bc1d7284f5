package password

import "errors"

var (
	ErrEmptyPassword   = errors.New("password must not be empty")
	ErrPasswordTooLong = errors.New("password exceeds maximum length")
	ErrUnknownFormat   = errors.New("unrecognized password hash format")
)

// DefaultMaxPasswordBytes caps Argon2 input when Config.MaxPasswordBytes is zero.
const DefaultMaxPasswordBytes = 1024

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encodedHash string) (bool, error)
}

// Algorithm is implemented by hashers that can recognize their own output.
type Algorithm interface {
	Hasher
	Recognizes(encodedHash string) bool
	NeedsUpgrade(encodedHash string) (bool, error)
}

// Multi hashes with a primary algorithm and verifies with any known one.
type Multi struct {
	primary Algorithm
	all     []Algorithm
}

// NewMulti creates a Multi. legacy hashers are only used for Verify.
func NewMulti(primary Algorithm, legacy ...Algorithm) *Multi {
	all := make([]Algorithm, 0, 1+len(legacy))
	all = append(all, primary)
	for _, h := range legacy {
		if h != nil {
			all = append(all, h)
		}
	}
	return &Multi{primary: primary, all: all}
}

// Hash hashes plain with the primary algorithm.
func (m *Multi) Hash(plain string) (string, error) {
	return m.primary.Hash(plain)
}

// Verify dispatches on the stored hash prefix.
func (m *Multi) Verify(plain, encodedHash string) (bool, error) {
	for _, h := range m.all {
		if h.Recognizes(encodedHash) {
			return h.Verify(plain, encodedHash)
		}
	}
	return false, ErrUnknownFormat
}

// MaxPasswordBytes returns the primary algorithm's input limit, or 0 when
// it does not declare one. Inputs over the limit fail Hash.
func (m *Multi) MaxPasswordBytes() int {
	if l, ok := m.primary.(interface{ MaxPasswordBytes() int }); ok {
		return l.MaxPasswordBytes()
	}
	return 0
}

// NeedsUpgrade reports whether encodedHash was produced by a legacy
// algorithm or with weaker primary parameters.
func (m *Multi) NeedsUpgrade(encodedHash string) (bool, error) {
	if !m.primary.Recognizes(encodedHash) {
		return true, nil
	}
	return m.primary.NeedsUpgrade(encodedHash)
}
