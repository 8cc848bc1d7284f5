package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "$argon2id$"

// ErrMalformedHash is wrapped by every Argon2 decode failure.
var ErrMalformedHash = errors.New("malformed argon2id hash")

// Argon2Config holds Argon2id cost parameters.
type Argon2Config struct {
	Memory      uint32 // KiB, >= 8192
	Time        uint32
	Parallelism uint8
	SaltLength  uint32 // >= 16
	KeyLength   uint32 // >= 16

	// MaxPasswordBytes bounds hashing work per call. Zero selects
	// DefaultMaxPasswordBytes.
	MaxPasswordBytes int
}

// DefaultArgon2Config returns the parameters used when Argon2id is selected.
func DefaultArgon2Config() Argon2Config {
	return Argon2Config{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (c Argon2Config) validate() error {
	switch {
	case c.Memory < 8*1024:
		return errors.New("password memory must be >= 8192 KB")
	case c.Time < 1:
		return errors.New("password time must be >= 1")
	case c.Parallelism < 1:
		return errors.New("password parallelism must be >= 1")
	case c.SaltLength < 16:
		return errors.New("password salt length must be >= 16")
	case c.KeyLength < 16:
		return errors.New("password key length must be >= 16")
	}
	return nil
}

// phc is a decoded $argon2id$v=19$m=..,t=..,p=..$salt$key string.
type phc struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func (p phc) String() string {
	b64 := base64.StdEncoding
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version,
		p.memory, p.time, p.parallelism,
		b64.EncodeToString(p.salt), b64.EncodeToString(p.key))
}

func (p phc) derive(plain string) []byte {
	return argon2.IDKey([]byte(plain), p.salt, p.time, p.memory, p.parallelism, uint32(len(p.key)))
}

func decodePHC(encoded string) (phc, error) {
	var p phc
	rest, ok := strings.CutPrefix(encoded, argon2Prefix)
	if !ok {
		return p, fmt.Errorf("%w: not argon2id", ErrMalformedHash)
	}

	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return p, fmt.Errorf("%w: want 4 fields, got %d", ErrMalformedHash, len(fields))
	}

	var version int
	if _, err := fmt.Sscanf(fields[0], "v=%d", &version); err != nil {
		return p, fmt.Errorf("%w: version: %v", ErrMalformedHash, err)
	}
	if version != argon2.Version {
		return p, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	var m, t, par uint64
	n, err := fmt.Sscanf(fields[1], "m=%d,t=%d,p=%d", &m, &t, &par)
	if err != nil || n != 3 || fmt.Sprintf("m=%d,t=%d,p=%d", m, t, par) != fields[1] {
		return p, fmt.Errorf("%w: parameters %q", ErrMalformedHash, fields[1])
	}
	if m < 8*1024 || m > 1<<32-1 || t < 1 || t > 1<<32-1 || par < 1 || par > 255 {
		return p, fmt.Errorf("%w: parameters out of range", ErrMalformedHash)
	}
	p.memory, p.time, p.parallelism = uint32(m), uint32(t), uint8(par)

	if p.salt, err = base64.StdEncoding.DecodeString(fields[2]); err != nil || len(p.salt) < 16 {
		return p, fmt.Errorf("%w: salt", ErrMalformedHash)
	}
	if p.key, err = base64.StdEncoding.DecodeString(fields[3]); err != nil || len(p.key) == 0 {
		return p, fmt.Errorf("%w: key", ErrMalformedHash)
	}
	return p, nil
}

// Argon2 hashes passwords with Argon2id. It is kept so accounts hashed before
// the move to bcrypt can still sign in and be upgraded.
type Argon2 struct {
	cfg Argon2Config
}

// NewArgon2 validates cfg and returns an Argon2 hasher.
func NewArgon2(cfg Argon2Config) (*Argon2, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.MaxPasswordBytes <= 0 {
		cfg.MaxPasswordBytes = DefaultMaxPasswordBytes
	}
	return &Argon2{cfg: cfg}, nil
}

// Hash derives a key from the raw password bytes under a fresh salt.
func (a *Argon2) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	if len(plain) > a.cfg.MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	p := phc{
		memory:      a.cfg.Memory,
		time:        a.cfg.Time,
		parallelism: a.cfg.Parallelism,
		salt:        make([]byte, a.cfg.SaltLength),
		key:         make([]byte, a.cfg.KeyLength),
	}
	if _, err := rand.Read(p.salt); err != nil {
		return "", err
	}
	p.key = p.derive(plain)
	return p.String(), nil
}

// Verify re-derives with the parameters stored in encodedHash.
func (a *Argon2) Verify(plain, encodedHash string) (bool, error) {
	if len(plain) > a.cfg.MaxPasswordBytes {
		return false, ErrPasswordTooLong
	}
	p, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(p.derive(plain), p.key) == 1, nil
}

// MaxPasswordBytes is the configured input cap.
func (a *Argon2) MaxPasswordBytes() int { return a.cfg.MaxPasswordBytes }

func (a *Argon2) Recognizes(encodedHash string) bool {
	return strings.HasPrefix(encodedHash, argon2Prefix)
}

// NeedsUpgrade reports whether encodedHash used weaker parameters than a.
func (a *Argon2) NeedsUpgrade(encodedHash string) (bool, error) {
	p, err := decodePHC(encodedHash)
	if err != nil {
		return false, err
	}
	weaker := p.memory < a.cfg.Memory ||
		p.time < a.cfg.Time ||
		p.parallelism < a.cfg.Parallelism ||
		uint32(len(p.key)) != a.cfg.KeyLength
	return weaker, nil
}
