package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	shopAuth "github.com/MrEthical07/shopAuth"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the DDL the store expects.
//
//go:embed schema.sql
var Schema string

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// DB is the subset of *pgxpool.Pool the store uses. pgxmock pools satisfy
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a shopAuth.AccountStore backed by PostgreSQL.
type Store struct {
	db  DB
	now func() time.Time
}

// New returns a Store over db.
func New(db DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Migrate applies Schema. Statements are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const (
	selectBuyer = `
		SELECT id, name, email, password, created_at, updated_at
		FROM users
		WHERE %s = $1
		LIMIT 1`

	selectSeller = `
		SELECT id, name, email, password, phone_number, country, payment_account_id, created_at, updated_at
		FROM sellers
		WHERE %s = $1
		LIMIT 1`

	selectShop = `
		SELECT id, seller_id, name, description, address, opening_hours, website, category,
		       tax_id, business_type, zip_code, city, state, country, created_at, updated_at
		FROM shops
		WHERE seller_id = $1
		LIMIT 1`
)

func (s *Store) FindByEmail(ctx context.Context, role shopAuth.Role, email string) (shopAuth.Account, error) {
	return s.find(ctx, role, "email", email)
}

func (s *Store) FindByID(ctx context.Context, role shopAuth.Role, id string, opts shopAuth.FindOptions) (shopAuth.Account, error) {
	acct, err := s.find(ctx, role, "id", id)
	if err != nil {
		return nil, err
	}

	seller, ok := acct.(*shopAuth.SellerAccount)
	if !ok || !opts.IncludeShop {
		return acct, nil
	}
	shop, err := s.findShop(ctx, seller.ID)
	if err != nil {
		return nil, err
	}
	seller.Shop = shop
	return seller, nil
}

func (s *Store) find(ctx context.Context, role shopAuth.Role, column, value string) (shopAuth.Account, error) {
	switch role {
	case shopAuth.RoleUser:
		var a shopAuth.BuyerAccount
		err := s.db.QueryRow(ctx, fmt.Sprintf(selectBuyer, column), value).
			Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, lookupError("user", err)
		}
		return &a, nil

	case shopAuth.RoleSeller:
		var (
			a       shopAuth.SellerAccount
			payment *string
		)
		err := s.db.QueryRow(ctx, fmt.Sprintf(selectSeller, column), value).
			Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.PhoneNumber, &a.Country, &payment, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, lookupError("seller", err)
		}
		if payment != nil {
			a.PaymentAccountID = *payment
		}
		return &a, nil

	default:
		return nil, shopAuth.ErrInvalidRole
	}
}

func (s *Store) findShop(ctx context.Context, sellerID string) (*shopAuth.Shop, error) {
	var sh shopAuth.Shop
	err := s.db.QueryRow(ctx, selectShop, sellerID).Scan(
		&sh.ID, &sh.SellerID, &sh.Name, &sh.Description, &sh.Address, &sh.OpeningHours,
		&sh.Website, &sh.Category, &sh.TaxID, &sh.BusinessType, &sh.ZipCode, &sh.City,
		&sh.State, &sh.Country, &sh.CreatedAt, &sh.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return &sh, nil
}

func (s *Store) Create(ctx context.Context, in shopAuth.CreateAccountInput) (shopAuth.Account, error) {
	id := uuid.NewString()
	now := s.now()

	switch in.Role {
	case shopAuth.RoleUser:
		_, err := s.db.Exec(ctx, `
			INSERT INTO users (id, name, email, password, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, in.Name, in.Email, in.PasswordHash, now, now)
		if err != nil {
			return nil, writeError(err, shopAuth.ErrAccountExists)
		}
		return &shopAuth.BuyerAccount{
			ID:           id,
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: in.PasswordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}, nil

	case shopAuth.RoleSeller:
		_, err := s.db.Exec(ctx, `
			INSERT INTO sellers (id, name, email, password, phone_number, country, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, in.Name, in.Email, in.PasswordHash, in.PhoneNumber, in.Country, now, now)
		if err != nil {
			return nil, writeError(err, shopAuth.ErrAccountExists)
		}
		return &shopAuth.SellerAccount{
			ID:           id,
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: in.PasswordHash,
			PhoneNumber:  in.PhoneNumber,
			Country:      in.Country,
			CreatedAt:    now,
			UpdatedAt:    now,
		}, nil

	default:
		return nil, shopAuth.ErrInvalidRole
	}
}

func (s *Store) Update(ctx context.Context, role shopAuth.Role, id string, upd shopAuth.AccountUpdate) error {
	var (
		tag pgconn.CommandTag
		err error
	)

	switch role {
	case shopAuth.RoleUser:
		if upd.PaymentAccountID != nil {
			return errors.New("buyers have no payment account")
		}
		tag, err = s.db.Exec(ctx, `
			UPDATE users
			SET password = COALESCE($1, password), updated_at = $2
			WHERE id = $3`,
			optional(upd.PasswordHash), s.now(), id)
	case shopAuth.RoleSeller:
		tag, err = s.db.Exec(ctx, `
			UPDATE sellers
			SET password = COALESCE($1, password),
			    payment_account_id = COALESCE($2, payment_account_id),
			    updated_at = $3
			WHERE id = $4`,
			optional(upd.PasswordHash), optional(upd.PaymentAccountID), s.now(), id)
	default:
		return shopAuth.ErrInvalidRole
	}

	if err != nil {
		return fmt.Errorf("failed to update %s: %w", role, err)
	}
	if tag.RowsAffected() == 0 {
		return shopAuth.ErrAccountNotFound
	}
	return nil
}

func (s *Store) CreateShop(ctx context.Context, sellerID string, in shopAuth.ShopInput) (*shopAuth.Shop, error) {
	now := s.now()
	shop := &shopAuth.Shop{
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
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO shops (id, seller_id, name, description, address, opening_hours, website, category,
		                   tax_id, business_type, zip_code, city, state, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		shop.ID, shop.SellerID, shop.Name, shop.Description, shop.Address, shop.OpeningHours,
		shop.Website, shop.Category, shop.TaxID, shop.BusinessType, shop.ZipCode, shop.City,
		shop.State, shop.Country, shop.CreatedAt, shop.UpdatedAt)
	if err != nil {
		return nil, writeError(err, shopAuth.ErrShopExists)
	}
	return shop, nil
}

func lookupError(table string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return shopAuth.ErrAccountNotFound
	}
	return fmt.Errorf("failed to get %s: %w", table, err)
}

// writeError maps constraint violations to store sentinels.
func writeError(err error, duplicate error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return duplicate
		case foreignKeyViolation:
			return shopAuth.ErrAccountNotFound
		}
	}
	return fmt.Errorf("failed to insert: %w", err)
}

func optional(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
