package shopAuth

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/shopAuth/cache"
	"github.com/MrEthical07/shopAuth/internal/audit"
	"github.com/MrEthical07/shopAuth/internal/credentials"
	"github.com/MrEthical07/shopAuth/internal/flows"
	"github.com/MrEthical07/shopAuth/internal/ledger"
	"github.com/MrEthical07/shopAuth/internal/otp"
	"github.com/MrEthical07/shopAuth/jwt"
	"github.com/MrEthical07/shopAuth/password"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an Engine. A Builder can be built once.
type Builder struct {
	config Config
	cache  cache.Cache

	store     AccountStore
	sender    MessageSender
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the configuration. cfg is copied.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithCache sets the cache backing the OTP ledger.
func (b *Builder) WithCache(c cache.Cache) *Builder {
	b.cache = c
	return b
}

// WithRedis is shorthand for WithCache(cache.NewRedis(client)).
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.cache = cache.NewRedis(client)
	return b
}

// WithAccountStore sets the buyer/seller account store.
func (b *Builder) WithAccountStore(store AccountStore) *Builder {
	b.store = store
	return b
}

// WithSender sets the OTP message sender.
func (b *Builder) WithSender(sender MessageSender) *Builder {
	b.sender = sender
	return b
}

// WithAuditSink sets the audit sink. Audit must also be enabled in Config.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the authenticate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.cache == nil {
		return nil, errors.New("cache required")
	}
	if b.store == nil {
		return nil, errors.New("account store required")
	}
	if b.sender == nil {
		return nil, errors.New("message sender required")
	}

	// -------- PASSWORD HASHING --------
	hasher, err := newHasher(cfg.Password)
	if err != nil {
		return nil, err
	}

	// -------- TOKENS --------
	tokens, err := jwt.NewManager(jwtManagerConfig(cfg.JWT))
	if err != nil {
		return nil, err
	}

	// -------- OTP --------
	led := ledger.New(b.cache, cfg.OTP.KeyPrefix)
	otpEngine := otp.New(led, b.sender, otp.Config{
		Digits:            cfg.OTP.Digits,
		CodeTTL:           cfg.OTP.CodeTTL,
		CooldownTTL:       cfg.OTP.CooldownTTL,
		RequestWindow:     cfg.OTP.RequestWindow,
		MaxRequests:       cfg.OTP.MaxRequests,
		SpamLockTTL:       cfg.OTP.SpamLockTTL,
		MaxFailedAttempts: cfg.OTP.MaxFailedAttempts,
		AttemptsTTL:       cfg.OTP.AttemptsTTL,
		LockTTL:           cfg.OTP.LockTTL,
		Subject:           cfg.OTP.Subject,
	})

	var policy *credentials.Policy
	if cfg.Password.EnforcePolicy {
		policy = credentials.DefaultPolicy()
	}

	engine := &Engine{
		config:   cloneConfig(cfg),
		store:    b.store,
		cache:    b.cache,
		otp:      otpEngine,
		verifier: credentials.New(policy, credentials.WithMaxPasswordBytes(hasher.MaxPasswordBytes())),
		hasher:   hasher,
		tokens:   tokens,
		cookies:  newCookiePolicy(cfg.Cookie, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL),
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
	}
	engine.flows = engine.buildFlowDeps()

	b.built = true

	return engine, nil
}

func newHasher(cfg PasswordConfig) (*password.Multi, error) {
	bc, err := password.NewBcrypt(cfg.BcryptCost)
	if cfg.Algorithm != "argon2id" {
		if err != nil {
			return nil, err
		}
		// Verify reads Argon2 parameters from the stored PHC string.
		legacy, err := password.NewArgon2(password.DefaultArgon2Config())
		if err != nil {
			return nil, err
		}
		return password.NewMulti(bc, legacy), nil
	}

	argon, err := password.NewArgon2(password.Argon2Config{
		Memory:      cfg.Memory,
		Time:        cfg.Time,
		Parallelism: cfg.Parallelism,
		SaltLength:  cfg.SaltLength,
		KeyLength:   cfg.KeyLength,
	})
	if err != nil {
		return nil, err
	}
	if bc == nil {
		return password.NewMulti(argon), nil
	}
	return password.NewMulti(argon, bc), nil
}

func jwtManagerConfig(cfg JWTConfig) jwt.Config {
	out := jwt.Config{
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
		SigningMethod: jwt.SigningMethod(cfg.SigningMethod),
		Issuer:        cfg.Issuer,
		Audience:      cfg.Audience,
		Leeway:        cfg.Leeway,
	}
	if out.SigningMethod == jwt.MethodEd25519 {
		out.AccessKey = cloneBytes(cfg.AccessPrivateKey)
		out.RefreshKey = cloneBytes(cfg.RefreshPrivateKey)
		out.AccessPublicKey = cloneBytes(cfg.AccessPublicKey)
		out.RefreshPublicKey = cloneBytes(cfg.RefreshPublicKey)
		return out
	}
	out.AccessKey = cloneBytes(cfg.AccessSecret)
	out.RefreshKey = cloneBytes(cfg.RefreshSecret)
	return out
}

func (e *Engine) buildFlowDeps() flows.Deps {
	validRole := func(r string) bool { return Role(r).Valid() }

	return flows.Deps{
		Refresh: flows.RefreshDeps{
			ParseRefresh: func(tok string) (*jwt.Claims, error) {
				return e.tokens.Parse(jwt.KindRefresh, tok)
			},
			IssueAccess: func(id, role string) (string, error) {
				return e.tokens.Issue(jwt.KindAccess, id, role)
			},
			ValidRole: validRole,
			AccountExists: func(ctx context.Context, role, id string) (bool, error) {
				_, err := e.store.FindByID(ctx, Role(role), id, FindOptions{})
				if errors.Is(err, ErrAccountNotFound) {
					return false, nil
				}
				return err == nil, err
			},
		},
		Authenticate: flows.AuthenticateDeps{
			ParseAccess: func(tok string) (*jwt.Claims, error) {
				return e.tokens.Parse(jwt.KindAccess, tok)
			},
			ValidRole: validRole,
			LoadAccount: func(ctx context.Context, role, id string) (any, error) {
				r := Role(role)
				acct, err := e.store.FindByID(ctx, r, id, FindOptions{IncludeShop: r == RoleSeller})
				if errors.Is(err, ErrAccountNotFound) {
					return nil, flows.ErrNotFound
				}
				if err != nil {
					return nil, err
				}
				return acct, nil
			},
			Now: time.Now,
		},
	}
}
