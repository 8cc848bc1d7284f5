package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	shopAuth "github.com/MrEthical07/shopAuth"
	"github.com/MrEthical07/shopAuth/store/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	buyerColumns  = []string{"id", "name", "email", "password", "created_at", "updated_at"}
	sellerColumns = []string{"id", "name", "email", "password", "phone_number", "country", "payment_account_id", "created_at", "updated_at"}
	shopColumns   = []string{
		"id", "seller_id", "name", "description", "address", "opening_hours", "website", "category",
		"tax_id", "business_type", "zip_code", "city", "state", "country", "created_at", "updated_at",
	}
)

func TestFindByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := postgres.New(mock)
	ctx := context.Background()
	now := time.Now()

	t.Run("buyer", func(t *testing.T) {
		mock.ExpectQuery("FROM users").
			WithArgs("alice@x.com").
			WillReturnRows(pgxmock.NewRows(buyerColumns).
				AddRow("u1", "Alice", "alice@x.com", "hash", now, now))

		acct, err := s.FindByEmail(ctx, shopAuth.RoleUser, "alice@x.com")
		require.NoError(t, err)
		buyer, ok := acct.(*shopAuth.BuyerAccount)
		require.True(t, ok)
		assert.Equal(t, "u1", buyer.ID)
		assert.Equal(t, "hash", buyer.PasswordHash)
	})

	t.Run("seller without payment account", func(t *testing.T) {
		mock.ExpectQuery("FROM sellers").
			WithArgs("bob@shop.com").
			WillReturnRows(pgxmock.NewRows(sellerColumns).
				AddRow("s1", "Bob", "bob@shop.com", "hash", "+1555", "US", (*string)(nil), now, now))

		acct, err := s.FindByEmail(ctx, shopAuth.RoleSeller, "bob@shop.com")
		require.NoError(t, err)
		seller, ok := acct.(*shopAuth.SellerAccount)
		require.True(t, ok)
		assert.Equal(t, "US", seller.Country)
		assert.Empty(t, seller.PaymentAccountID)
		assert.Nil(t, seller.Shop)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("FROM users").
			WithArgs("ghost@x.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := s.FindByEmail(ctx, shopAuth.RoleUser, "ghost@x.com")
		assert.ErrorIs(t, err, shopAuth.ErrAccountNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		outage := errors.New("db error")
		mock.ExpectQuery("FROM sellers").
			WithArgs("bob@shop.com").
			WillReturnError(outage)

		_, err := s.FindByEmail(ctx, shopAuth.RoleSeller, "bob@shop.com")
		assert.ErrorIs(t, err, outage)
		assert.NotErrorIs(t, err, shopAuth.ErrAccountNotFound)
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := s.FindByEmail(ctx, shopAuth.Role("admin"), "a@x.com")
		assert.ErrorIs(t, err, shopAuth.ErrInvalidRole)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDIncludesShop(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := postgres.New(mock)
	ctx := context.Background()
	now := time.Now()
	payment := "acct_123"

	mock.ExpectQuery("FROM sellers").
		WithArgs("s1").
		WillReturnRows(pgxmock.NewRows(sellerColumns).
			AddRow("s1", "Bob", "bob@shop.com", "hash", "+1555", "US", &payment, now, now))
	mock.ExpectQuery("FROM shops").
		WithArgs("s1").
		WillReturnRows(pgxmock.NewRows(shopColumns).
			AddRow("sh1", "s1", "Bob's Bikes", "Bicycles", "1 Main St", "9-5", "", "sports",
				"", "sole_proprietor", "12345", "Springfield", "IL", "US", now, now))

	acct, err := s.FindByID(ctx, shopAuth.RoleSeller, "s1", shopAuth.FindOptions{IncludeShop: true})
	require.NoError(t, err)
	seller := acct.(*shopAuth.SellerAccount)
	assert.Equal(t, "acct_123", seller.PaymentAccountID)
	require.NotNil(t, seller.Shop)
	assert.Equal(t, "Bob's Bikes", seller.Shop.Name)

	// A seller with no shop row still resolves.
	mock.ExpectQuery("FROM sellers").
		WithArgs("s2").
		WillReturnRows(pgxmock.NewRows(sellerColumns).
			AddRow("s2", "Carol", "carol@shop.com", "hash", "+1555", "US", (*string)(nil), now, now))
	mock.ExpectQuery("FROM shops").
		WithArgs("s2").
		WillReturnError(pgx.ErrNoRows)

	acct, err = s.FindByID(ctx, shopAuth.RoleSeller, "s2", shopAuth.FindOptions{IncludeShop: true})
	require.NoError(t, err)
	assert.Nil(t, acct.(*shopAuth.SellerAccount).Shop)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := postgres.New(mock)
	ctx := context.Background()

	t.Run("seller", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO sellers").
			WithArgs(pgxmock.AnyArg(), "Bob", "bob@shop.com", "hash", "+1555", "US", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		acct, err := s.Create(ctx, shopAuth.CreateAccountInput{
			Role: shopAuth.RoleSeller, Name: "Bob", Email: "bob@shop.com",
			PasswordHash: "hash", PhoneNumber: "+1555", Country: "US",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, acct.AccountID())
		assert.Equal(t, shopAuth.RoleSeller, acct.AccountRole())
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "Alice", "alice@x.com", "hash", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := s.Create(ctx, shopAuth.CreateAccountInput{
			Role: shopAuth.RoleUser, Name: "Alice", Email: "alice@x.com", PasswordHash: "hash",
		})
		assert.ErrorIs(t, err, shopAuth.ErrAccountExists)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := postgres.New(mock)
	ctx := context.Background()
	hash := "new-hash"
	payment := "acct_1"

	t.Run("buyer password", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs(hash, pgxmock.AnyArg(), "u1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, s.Update(ctx, shopAuth.RoleUser, "u1", shopAuth.AccountUpdate{PasswordHash: &hash}))
	})

	t.Run("seller payment account", func(t *testing.T) {
		mock.ExpectExec("UPDATE sellers").
			WithArgs(nil, payment, pgxmock.AnyArg(), "s1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, s.Update(ctx, shopAuth.RoleSeller, "s1", shopAuth.AccountUpdate{PaymentAccountID: &payment}))
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec("UPDATE users").
			WithArgs(hash, pgxmock.AnyArg(), "ghost").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := s.Update(ctx, shopAuth.RoleUser, "ghost", shopAuth.AccountUpdate{PasswordHash: &hash})
		assert.ErrorIs(t, err, shopAuth.ErrAccountNotFound)
	})

	t.Run("buyer payment account rejected", func(t *testing.T) {
		err := s.Update(ctx, shopAuth.RoleUser, "u1", shopAuth.AccountUpdate{PaymentAccountID: &payment})
		assert.Error(t, err)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateShop(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := postgres.New(mock)
	ctx := context.Background()
	in := shopAuth.ShopInput{Name: "Bob's Bikes", Description: "Bicycles", Address: "1 Main St", OpeningHours: "9-5", Category: "sports", BusinessType: "llc"}

	args := []any{pgxmock.AnyArg(), "s1"}
	for i := 0; i < 14; i++ {
		args = append(args, pgxmock.AnyArg())
	}

	mock.ExpectExec("INSERT INTO shops").WithArgs(args...).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	shop, err := s.CreateShop(ctx, "s1", in)
	require.NoError(t, err)
	assert.Equal(t, "s1", shop.SellerID)
	assert.NotEmpty(t, shop.ID)

	mock.ExpectExec("INSERT INTO shops").WithArgs(args...).WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = s.CreateShop(ctx, "s1", in)
	assert.ErrorIs(t, err, shopAuth.ErrShopExists)

	mock.ExpectExec("INSERT INTO shops").WithArgs(args...).WillReturnError(&pgconn.PgError{Code: "23503"})
	_, err = s.CreateShop(ctx, "s1", in)
	assert.ErrorIs(t, err, shopAuth.ErrAccountNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	require.NoError(t, postgres.New(mock).Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
