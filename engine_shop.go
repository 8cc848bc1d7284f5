package shopAuth

import (
	"context"
	"errors"
	"strings"
)

// CreateShop creates the single shop owned by sellerID.
func (e *Engine) CreateShop(ctx context.Context, sellerID string, in ShopInput) (*Shop, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	shop, err := e.createShop(ctx, sellerID, in)
	if err == nil {
		e.metricInc(MetricShopCreated)
	}
	e.emitAudit(ctx, auditRecord{
		eventType: auditEventShopCreate,
		role:      RoleSeller,
		accountID: sellerID,
		err:       err,
		metadata: func() map[string]string {
			return map[string]string{"category": in.Category}
		},
	})
	return shop, err
}

func (e *Engine) createShop(ctx context.Context, sellerID string, in ShopInput) (*Shop, error) {
	if sellerID == "" {
		return nil, validationError("Missing required fields!", ErrMissingFields)
	}
	if err := e.verifier.Struct(in); err != nil {
		return nil, validationError("Missing required fields!", ErrMissingFields)
	}

	acct, err := e.store.FindByID(ctx, RoleSeller, sellerID, FindOptions{IncludeShop: true})
	if errors.Is(err, ErrAccountNotFound) {
		return nil, validationError("Seller not found!", ErrAccountNotFound)
	}
	if err != nil {
		return nil, storeError(err)
	}

	duplicate := validationError("Shop already exists for this seller!", ErrShopExists)
	if seller, ok := acct.(*SellerAccount); ok && seller.Shop != nil {
		return nil, duplicate
	}

	shop, err := e.store.CreateShop(ctx, sellerID, in)
	if errors.Is(err, ErrShopExists) {
		return nil, duplicate
	}
	if err != nil {
		return nil, storeError(err)
	}
	return shop, nil
}

// LinkPaymentAccount stores an external payment account reference on the
// seller. Re-linking replaces the previous reference.
func (e *Engine) LinkPaymentAccount(ctx context.Context, sellerID, paymentAccountID string) error {
	if err := e.ready(); err != nil {
		return err
	}

	err := e.linkPaymentAccount(ctx, sellerID, strings.TrimSpace(paymentAccountID))
	if err == nil {
		e.metricInc(MetricPaymentLinked)
	}
	e.emitAudit(ctx, auditRecord{
		eventType: auditEventPaymentLink,
		role:      RoleSeller,
		accountID: sellerID,
		err:       err,
	})
	return err
}

func (e *Engine) linkPaymentAccount(ctx context.Context, sellerID, ref string) error {
	if sellerID == "" || ref == "" {
		return validationError("Missing required fields!", ErrMissingFields)
	}

	err := e.store.Update(ctx, RoleSeller, sellerID, AccountUpdate{PaymentAccountID: &ref})
	if errors.Is(err, ErrAccountNotFound) {
		return validationError("Seller not found!", ErrAccountNotFound)
	}
	if err != nil {
		return storeError(err)
	}
	return nil
}
