package pricing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haulstead/dispatch-backend/pkg/db/models"
	"github.com/haulstead/dispatch-backend/pkg/enums"
	pkgerrors "github.com/haulstead/dispatch-backend/pkg/errors"
)

// CustomerFinder is the read surface the resolver needs from the customer store.
type CustomerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

// Service maps (customer, product) pairs to the unit price and tier to charge.
// It holds the schema capability resolved by the last reconciliation pass.
type Service struct {
	repo      *Repository
	customers CustomerFinder

	mu         sync.RWMutex
	capability Capability
}

// NewService builds a pricing service with the required dependencies.
func NewService(repo *Repository, customers CustomerFinder, capability Capability) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer finder required")
	}
	return &Service{repo: repo, customers: customers, capability: capability}, nil
}

// Capability returns the schema capability currently in effect.
func (s *Service) Capability() Capability {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capability
}

// SetCapability swaps in a freshly resolved capability after a reconciliation pass.
func (s *Service) SetCapability(capability Capability) {
	s.mu.Lock()
	s.capability = capability
	s.mu.Unlock()
}

// TierFor selects the pricing tier for the customer. A nil customer fails open
// to retail; the discount tier is never granted silently.
func TierFor(customer *models.Customer) enums.PriceTier {
	if customer != nil && customer.Contractor {
		return enums.PriceTierContractor
	}
	return enums.PriceTierRetail
}

// ResolvePrice returns the unit price and tier to charge the customer for the
// product. Missing price metadata degrades to a zero retail price; only the
// product itself being absent is an error.
func (s *Service) ResolvePrice(ctx context.Context, customer *models.Customer, productID uuid.UUID) (*ResolvedPrice, error) {
	capability := s.Capability()

	row, err := s.repo.FindPriceRow(ctx, productID, capability)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product price row")
	}

	amount, tier := ReadPrice(*row, TierFor(customer), capability)
	return &ResolvedPrice{UnitPrice: amount, Tier: tier}, nil
}

// ListPricedForCustomer annotates every active product with the price the
// customer would pay. An unknown or absent customer id prices everything at
// the retail tier.
func (s *Service) ListPricedForCustomer(ctx context.Context, customerID *uuid.UUID) ([]PricedProduct, error) {
	capability := s.Capability()

	var customer *models.Customer
	if customerID != nil && *customerID != uuid.Nil {
		found, err := s.customers.FindByID(ctx, *customerID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
		}
		customer = found
	}
	tier := TierFor(customer)

	rows, err := s.repo.ListActivePriceRows(ctx, capability)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product price rows")
	}

	priced := make([]PricedProduct, 0, len(rows))
	for _, row := range rows {
		amount, tierUsed := ReadPrice(row, tier, capability)
		priced = append(priced, PricedProduct{
			ID:           row.ID,
			Name:         row.Name,
			Unit:         row.Unit,
			CurrentPrice: amount,
			PriceType:    tierUsed,
		})
	}
	return priced, nil
}
