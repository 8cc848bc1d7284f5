package password

import (
	"errors"
	"strings"
	"testing"
)

func secureConfig() Argon2Config {
	return Argon2Config{
		Memory:      65536,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func mustArgon2(t *testing.T, cfg Argon2Config) *Argon2 {
	t.Helper()
	a, err := NewArgon2(cfg)
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}
	return a
}

func TestArgon2RoundTrip(t *testing.T) {
	a := mustArgon2(t, secureConfig())

	hash, err := a.Hash("legacy-Pw1!")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}

	if ok, err := a.Verify("legacy-Pw1!", hash); err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}
	if ok, err := a.Verify("legacy-Pw2!", hash); err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}
}

func TestArgon2VerifyUsesStoredParameters(t *testing.T) {
	weak := mustArgon2(t, Argon2Config{Memory: 8192, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16})
	hash, err := weak.Hash("old-account")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	strong := mustArgon2(t, secureConfig())
	if ok, err := strong.Verify("old-account", hash); err != nil || !ok {
		t.Fatalf("expected stored parameters to be honored, ok=%v err=%v", ok, err)
	}
	upgrade, err := strong.NeedsUpgrade(hash)
	if err != nil || !upgrade {
		t.Fatalf("expected upgrade for weaker hash, upgrade=%v err=%v", upgrade, err)
	}

	own, _ := strong.Hash("new-account")
	if upgrade, err := strong.NeedsUpgrade(own); err != nil || upgrade {
		t.Fatalf("expected no upgrade for current parameters, upgrade=%v err=%v", upgrade, err)
	}
}

func TestArgon2MalformedHashes(t *testing.T) {
	a := mustArgon2(t, secureConfig())
	good, err := a.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	fields := strings.Split(good, "$")

	tests := []struct {
		name string
		hash string
	}{
		{"not phc", "not-a-phc-hash"},
		{"bcrypt", "$2a$10$abcdefghijklmnopqrstuv"},
		{"wrong version", strings.Replace(good, "$v=19$", "$v=18$", 1)},
		{"missing field", strings.Join(fields[:5], "$")},
		{"extra parameter", strings.Replace(good, "p=2", "p=2,x=1", 1)},
		{"memory too small", strings.Replace(good, "m=65536", "m=1024", 1)},
		{"bad salt", strings.Join([]string{"", fields[1], fields[2], fields[3], "!!", fields[5]}, "$")},
		{"short salt", strings.Join([]string{"", fields[1], fields[2], fields[3], "c2FsdA==", fields[5]}, "$")},
		{"empty key", strings.Join([]string{"", fields[1], fields[2], fields[3], fields[4], ""}, "$")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := a.Verify("pw", tc.hash); !errors.Is(err, ErrMalformedHash) {
				t.Fatalf("expected ErrMalformedHash, got %v", err)
			}
		})
	}
}

func TestArgon2InputBounds(t *testing.T) {
	cfg := secureConfig()
	cfg.MaxPasswordBytes = 64
	a := mustArgon2(t, cfg)

	if _, err := a.Hash(""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
	if _, err := a.Hash(strings.Repeat("a", 65)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}

	exact := strings.Repeat("b", 64)
	hash, err := a.Hash(exact)
	if err != nil {
		t.Fatalf("Hash at limit failed: %v", err)
	}
	if _, err := a.Verify(exact+"c", hash); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected Verify to reject long input, got %v", err)
	}

	def := mustArgon2(t, secureConfig())
	if _, err := def.Hash(strings.Repeat("d", DefaultMaxPasswordBytes+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected default cap of %d bytes, got %v", DefaultMaxPasswordBytes, err)
	}
}

func TestArgon2ConfigRejected(t *testing.T) {
	for _, edit := range []func(*Argon2Config){
		func(c *Argon2Config) { c.Memory = 4096 },
		func(c *Argon2Config) { c.Time = 0 },
		func(c *Argon2Config) { c.Parallelism = 0 },
		func(c *Argon2Config) { c.SaltLength = 8 },
		func(c *Argon2Config) { c.KeyLength = 8 },
	} {
		cfg := secureConfig()
		edit(&cfg)
		if _, err := NewArgon2(cfg); err == nil {
			t.Fatalf("expected config %+v to be rejected", cfg)
		}
	}
}
