package shopAuth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// memStore is an in-memory AccountStore keyed by role.
type memStore struct {
	mu       sync.Mutex
	accounts map[Role]map[string]Account
	shops    map[string]*Shop
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		accounts: map[Role]map[string]Account{
			RoleUser:   {},
			RoleSeller: {},
		},
		shops: map[string]*Shop{},
	}
}

func (s *memStore) FindByEmail(_ context.Context, role Role, email string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, a := range s.accounts[role] {
		if a.AccountEmail() == email {
			return a, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (s *memStore) FindByID(_ context.Context, role Role, id string, opts FindOptions) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	a, ok := s.accounts[role][id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	if seller, ok := a.(*SellerAccount); ok {
		cp := *seller
		cp.Shop = nil
		if opts.IncludeShop {
			cp.Shop = s.shops[id]
		}
		return &cp, nil
	}
	return a, nil
}

func (s *memStore) Create(_ context.Context, in CreateAccountInput) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	for _, a := range s.accounts[in.Role] {
		if a.AccountEmail() == in.Email {
			return nil, ErrAccountExists
		}
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	var acct Account
	switch in.Role {
	case RoleSeller:
		acct = &SellerAccount{
			ID:           id,
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: in.PasswordHash,
			PhoneNumber:  in.PhoneNumber,
			Country:      in.Country,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	default:
		acct = &BuyerAccount{
			ID:           id,
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: in.PasswordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}
	s.accounts[in.Role][id] = acct
	return acct, nil
}

func (s *memStore) Update(_ context.Context, role Role, id string, upd AccountUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	a, ok := s.accounts[role][id]
	if !ok {
		return ErrAccountNotFound
	}
	switch acct := a.(type) {
	case *BuyerAccount:
		if upd.PasswordHash != nil {
			acct.PasswordHash = *upd.PasswordHash
		}
	case *SellerAccount:
		if upd.PasswordHash != nil {
			acct.PasswordHash = *upd.PasswordHash
		}
		if upd.PaymentAccountID != nil {
			acct.PaymentAccountID = *upd.PaymentAccountID
		}
	}
	return nil
}

func (s *memStore) CreateShop(_ context.Context, sellerID string, in ShopInput) (*Shop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return nil, s.failWith
	}
	if _, ok := s.shops[sellerID]; ok {
		return nil, ErrShopExists
	}
	shop := &Shop{
		ID:           uuid.NewString(),
		SellerID:     sellerID,
		Name:         in.Name,
		Description:  in.Description,
		Address:      in.Address,
		OpeningHours: in.OpeningHours,
		Website:      in.Website,
		Category:     in.Category,
		TaxID:        in.TaxID,
		BusinessType: in.BusinessType,
		ZipCode:      in.ZipCode,
		City:         in.City,
		State:        in.State,
		Country:      in.Country,
	}
	s.shops[sellerID] = shop
	return shop, nil
}

func (s *memStore) count(role Role) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts[role])
}

// seed stores an account with a hash of plain.
func (s *memStore) seed(t testing.TB, e *Engine, role Role, name, email, plain string) Account {
	t.Helper()
	hash, err := e.hasher.Hash(plain)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	acct, err := s.Create(context.Background(), CreateAccountInput{
		Role:         role,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  "+15550100",
		Country:      "US",
	})
	if err != nil {
		t.Fatalf("seed account failed: %v", err)
	}
	return acct
}

type sentMail struct {
	to, subject, templateID string
	data                    map[string]any
}

type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (s *recordingSender) Send(_ context.Context, to, subject, templateID string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, templateID: templateID, data: data})
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *recordingSender) last(t *testing.T) sentMail {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		t.Fatal("expected a sent message")
	}
	return s.sent[len(s.sent)-1]
}

// lastCode returns the OTP carried by the most recent message.
func (s *recordingSender) lastCode(t *testing.T) string {
	t.Helper()
	code, _ := s.last(t).data["otp"].(string)
	if code == "" {
		t.Fatal("expected otp in message data")
	}
	return code
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.AccessSecret = []byte("access-secret-for-tests-0123456789")
	cfg.JWT.RefreshSecret = []byte("refresh-secret-for-tests-987654321")
	cfg.Password.BcryptCost = 4
	cfg.Metrics.Enabled = true
	return cfg
}

type testEnv struct {
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	store  *memStore
	sender *recordingSender
	engine *Engine
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, testConfig())
}

func newTestEnvWithConfig(t testing.TB, cfg Config) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	env := &testEnv{
		mr:     mr,
		rdb:    rdb,
		store:  newMemStore(),
		sender: &recordingSender{},
	}

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithAccountStore(env.store).
		WithSender(env.sender).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	env.engine = engine
	return env
}

func requireErrorKind(t *testing.T, err error, kind error, cause error) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %v, got nil", cause)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected kind %v, got %v", kind, err)
	}
	if cause != nil && !errors.Is(err, cause) {
		t.Fatalf("expected cause %v, got %v", cause, err)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	return e
}
