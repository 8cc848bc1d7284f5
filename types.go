package shopAuth

import (
	"context"
	"time"
)

// Role names the account namespace a credential belongs to.
type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleSeller
}

// ParseRole converts a claim or request value into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Account is implemented by *BuyerAccount and *SellerAccount only.
type Account interface {
	AccountID() string
	AccountEmail() string
	AccountName() string
	AccountRole() Role
	passwordHash() string
}

// BuyerAccount is an account in the "user" namespace.
type BuyerAccount struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (a *BuyerAccount) AccountID() string    { return a.ID }
func (a *BuyerAccount) AccountEmail() string { return a.Email }
func (a *BuyerAccount) AccountName() string  { return a.Name }
func (a *BuyerAccount) AccountRole() Role    { return RoleUser }
func (a *BuyerAccount) passwordHash() string { return a.PasswordHash }

// SellerAccount is an account in the "seller" namespace.
type SellerAccount struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	PhoneNumber      string    `json:"phone_number"`
	Country          string    `json:"country"`
	Shop             *Shop     `json:"shop,omitempty"`
	PaymentAccountID string    `json:"paymentAccountId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (a *SellerAccount) AccountID() string    { return a.ID }
func (a *SellerAccount) AccountEmail() string { return a.Email }
func (a *SellerAccount) AccountName() string  { return a.Name }
func (a *SellerAccount) AccountRole() Role    { return RoleSeller }
func (a *SellerAccount) passwordHash() string { return a.PasswordHash }

// Shop is the storefront owned by a seller (at most one per seller).
type Shop struct {
	ID           string    `json:"id"`
	SellerID     string    `json:"sellerId"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Address      string    `json:"address"`
	OpeningHours string    `json:"opening_hours"`
	Website      string    `json:"website,omitempty"`
	Category     string    `json:"category"`
	TaxID        string    `json:"taxId,omitempty"`
	BusinessType string    `json:"businessType"`
	ZipCode      string    `json:"zipCode"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ShopInput is the payload for Engine.CreateShop.
type ShopInput struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Address      string `json:"address" validate:"required"`
	OpeningHours string `json:"opening_hours" validate:"required"`
	Website      string `json:"website,omitempty"`
	Category     string `json:"category" validate:"required"`
	TaxID        string `json:"taxId,omitempty"`
	BusinessType string `json:"businessType" validate:"required"`
	ZipCode      string `json:"zipCode"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
}

// RegisterInput is the sign-up payload. PhoneNumber and Country are
// required for sellers only.
type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Country     string `json:"country,omitempty"`
}

// VerifyRegistrationInput completes sign-up with the emailed code.
type VerifyRegistrationInput struct {
	RegisterInput
	OTP string `json:"otp"`
}

// SessionPair is the result of a successful login.
type SessionPair struct {
	AccessToken  string
	RefreshToken string
	Account      Account
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	Role    Role
	Account Account
}

// Seller returns the seller account, or nil for buyers.
func (p *Principal) Seller() *SellerAccount {
	if p == nil {
		return nil
	}
	s, _ := p.Account.(*SellerAccount)
	return s
}

// Buyer returns the buyer account, or nil for sellers.
func (p *Principal) Buyer() *BuyerAccount {
	if p == nil {
		return nil
	}
	b, _ := p.Account.(*BuyerAccount)
	return b
}

// FindOptions controls joins on AccountStore.FindByID.
type FindOptions struct {
	IncludeShop bool
}

// CreateAccountInput is persisted by AccountStore.Create. PasswordHash is
// already hashed.
type CreateAccountInput struct {
	Role         Role
	Name         string
	Email        string
	PasswordHash string
	PhoneNumber  string
	Country      string
}

// AccountUpdate carries the mutable account fields. Nil fields are left as is.
type AccountUpdate struct {
	PasswordHash     *string
	PaymentAccountID *string
}

// AccountStore persists buyer and seller accounts and seller shops.
//
// Lookups return ErrAccountNotFound when no row matches. Create returns
// ErrAccountExists on an email collision within the role's namespace.
// CreateShop returns ErrShopExists when the seller already owns a shop.
type AccountStore interface {
	FindByEmail(ctx context.Context, role Role, email string) (Account, error)
	FindByID(ctx context.Context, role Role, id string, opts FindOptions) (Account, error)
	Create(ctx context.Context, in CreateAccountInput) (Account, error)
	Update(ctx context.Context, role Role, id string, upd AccountUpdate) error
	CreateShop(ctx context.Context, sellerID string, in ShopInput) (*Shop, error)
}

// MessageSender delivers a templated message. The mail package provides an
// SMTP implementation.
type MessageSender interface {
	Send(ctx context.Context, to, subject, templateID string, data map[string]any) error
}
