package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the token signature algorithm.
type SigningMethod string

const (
	MethodEd25519 SigningMethod = "ed25519"
	MethodHS256   SigningMethod = "hs256"
)

// Kind distinguishes the two tokens of a session pair.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

var (
	ErrWrongKind     = errors.New("token kind mismatch")
	ErrMissingClaims = errors.New("token payload missing id or role")
)

// Config holds keys and validation rules for both token kinds.
//
// For hs256, AccessKey and RefreshKey are HMAC secrets. For ed25519 they are
// private keys (raw or PEM) and the *PublicKey fields hold the matching
// public keys; a manager with only public keys can verify but not issue.
type Config struct {
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	SigningMethod    SigningMethod
	AccessKey        []byte
	RefreshKey       []byte
	AccessPublicKey  []byte
	RefreshPublicKey []byte
	Issuer           string
	Audience         string
	Leeway           time.Duration
	RequireIAT       bool
	MaxFutureIAT     time.Duration
}

// Claims is the payload of both token kinds.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	Type Kind   `json:"typ"`
	jwt.RegisteredClaims
}

type keyPair struct {
	sign   any
	verify any
	ttl    time.Duration
}

// Manager signs and parses session tokens. Safe for concurrent use.
type Manager struct {
	config Config
	method jwt.SigningMethod
	keys   map[Kind]keyPair
}

// NewManager validates cfg and resolves the signing keys.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.MaxFutureIAT == 0 {
		cfg.MaxFutureIAT = 10 * time.Minute
	}
	if cfg.MaxFutureIAT < 0 || cfg.MaxFutureIAT > 24*time.Hour {
		return nil, errors.New("invalid MaxFutureIAT configuration")
	}

	m := &Manager{config: cfg, keys: make(map[Kind]keyPair, 2)}

	switch cfg.SigningMethod {
	case MethodHS256:
		m.method = jwt.SigningMethodHS256
		if len(cfg.AccessKey) == 0 || len(cfg.RefreshKey) == 0 {
			return nil, errors.New("hs256 requires access and refresh secrets")
		}
		m.keys[KindAccess] = keyPair{sign: cfg.AccessKey, verify: cfg.AccessKey, ttl: cfg.AccessTTL}
		m.keys[KindRefresh] = keyPair{sign: cfg.RefreshKey, verify: cfg.RefreshKey, ttl: cfg.RefreshTTL}
	case MethodEd25519:
		m.method = jwt.SigningMethodEdDSA
		access, err := edKeyPair(cfg.AccessKey, cfg.AccessPublicKey)
		if err != nil {
			return nil, fmt.Errorf("access key: %w", err)
		}
		refresh, err := edKeyPair(cfg.RefreshKey, cfg.RefreshPublicKey)
		if err != nil {
			return nil, fmt.Errorf("refresh key: %w", err)
		}
		access.ttl, refresh.ttl = cfg.AccessTTL, cfg.RefreshTTL
		m.keys[KindAccess] = access
		m.keys[KindRefresh] = refresh
	default:
		return nil, errors.New("unsupported signing method")
	}

	return m, nil
}

// TTL returns the lifetime of tokens of kind.
func (m *Manager) TTL(kind Kind) time.Duration {
	return m.keys[kind].ttl
}

// Issue signs a token of kind for the given account id and role.
func (m *Manager) Issue(kind Kind, id, role string) (string, error) {
	pair, ok := m.keys[kind]
	if !ok {
		return "", ErrWrongKind
	}
	if pair.sign == nil {
		return "", errors.New("signing key not configured")
	}

	now := time.Now()
	claims := Claims{
		ID:   id,
		Role: role,
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(pair.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.config.Issuer,
		},
	}
	if m.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{m.config.Audience}
	}

	return jwt.NewWithClaims(m.method, claims).SignedString(pair.sign)
}

// Parse verifies tokenStr as a token of kind and returns its claims.
func (m *Manager) Parse(kind Kind, tokenStr string) (*Claims, error) {
	pair, ok := m.keys[kind]
	if !ok {
		return nil, ErrWrongKind
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.RequireIAT {
		options = append(options, jwt.WithIssuedAt())
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}
	if m.config.Audience != "" {
		options = append(options, jwt.WithAudience(m.config.Audience))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.method.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return pair.verify, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Type != kind {
		return nil, ErrWrongKind
	}
	if claims.ID == "" || claims.Role == "" {
		return nil, ErrMissingClaims
	}
	if claims.IssuedAt != nil && m.config.MaxFutureIAT > 0 {
		if claims.IssuedAt.Time.After(time.Now().Add(m.config.MaxFutureIAT)) {
			return nil, errors.New("token iat too far in the future")
		}
	}

	return claims, nil
}

func edKeyPair(private, public []byte) (keyPair, error) {
	var pair keyPair
	if len(private) > 0 {
		priv, err := parseEdPrivateKey(private)
		if err != nil {
			return pair, err
		}
		pair.sign = priv
		pair.verify = priv.Public()
	}
	if len(public) > 0 {
		pub, err := parseEdPublicKey(public)
		if err != nil {
			return pair, err
		}
		pair.verify = pub
	}
	if pair.verify == nil {
		return pair, errors.New("ed25519 requires a private or public key")
	}
	return pair, nil
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
