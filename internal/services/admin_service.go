package services

import (
	"bazaar/internal/errs"
	"bazaar/internal/models"
	"bazaar/internal/repositories"
)

// DeletionReport summarizes one deletion batch: how many primary records
// were removed and what was cascaded alongside them.
type DeletionReport struct {
	Entity  string `json:"entity"`
	Deleted int64  `json:"deleted"`
	Cascade string `json:"cascade"`
}

// AdminService executes administrator deletion batches. Each batch is one
// all-or-nothing operation; the repositories roll the whole cascade back on
// any failure and surface it as an IntegrityError naming the entity type.
type AdminService struct {
	shopkeeperRepo repositories.ShopkeeperRepository
	customerRepo   repositories.CustomerRepository
	partnerRepo    repositories.DeliveryPartnerRepository
	productRepo    repositories.ProductRepository
	orderRepo      repositories.OrderRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	shopkeeperRepo repositories.ShopkeeperRepository,
	customerRepo repositories.CustomerRepository,
	partnerRepo repositories.DeliveryPartnerRepository,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
) *AdminService {
	return &AdminService{
		shopkeeperRepo: shopkeeperRepo,
		customerRepo:   customerRepo,
		partnerRepo:    partnerRepo,
		productRepo:    productRepo,
		orderRepo:      orderRepo,
	}
}

func requireAdmin(actor models.Actor) error {
	if actor.Role != models.RoleAdmin {
		return errs.NewValidationError("administrator role required")
	}
	return nil
}

func validateBatch(ids []string) error {
	if len(ids) == 0 {
		return errs.NewValidationError("no ids given")
	}
	return nil
}

// DeleteProducts removes products; order items referencing them survive with
// the product reference nulled and their snapshots intact.
func (s *AdminService) DeleteProducts(actor models.Actor, ids []string) (*DeletionReport, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateBatch(ids); err != nil {
		return nil, err
	}
	deleted, err := s.productRepo.DeleteCascade(ids)
	if err != nil {
		return nil, err
	}
	return &DeletionReport{
		Entity:  "product",
		Deleted: deleted,
		Cascade: "order item references nulled, item snapshots preserved",
	}, nil
}

// DeleteOrders removes orders and their items.
func (s *AdminService) DeleteOrders(actor models.Actor, ids []string) (*DeletionReport, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateBatch(ids); err != nil {
		return nil, err
	}
	deleted, err := s.orderRepo.DeleteCascade(ids)
	if err != nil {
		return nil, err
	}
	return &DeletionReport{
		Entity:  "order",
		Deleted: deleted,
		Cascade: "order items deleted",
	}, nil
}

// DeleteCustomers removes customers together with their orders and items.
func (s *AdminService) DeleteCustomers(actor models.Actor, ids []string) (*DeletionReport, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateBatch(ids); err != nil {
		return nil, err
	}
	deleted, err := s.customerRepo.DeleteCascade(ids)
	if err != nil {
		return nil, err
	}
	return &DeletionReport{
		Entity:  "customer",
		Deleted: deleted,
		Cascade: "orders and their items deleted",
	}, nil
}

// DeleteShopkeepers removes shopkeepers, their direct orders (items
// included) and their products. Items on other shopkeepers' orders that
// referenced a deleted product survive with the reference nulled.
func (s *AdminService) DeleteShopkeepers(actor models.Actor, ids []string) (*DeletionReport, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateBatch(ids); err != nil {
		return nil, err
	}
	deleted, err := s.shopkeeperRepo.DeleteCascade(ids)
	if err != nil {
		return nil, err
	}
	return &DeletionReport{
		Entity:  "shopkeeper",
		Deleted: deleted,
		Cascade: "direct orders and items deleted, products deleted, foreign item references nulled",
	}, nil
}

// DeleteDeliveryPartners removes delivery partners; their orders survive
// with the partner reference cleared.
func (s *AdminService) DeleteDeliveryPartners(actor models.Actor, ids []string) (*DeletionReport, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateBatch(ids); err != nil {
		return nil, err
	}
	deleted, err := s.partnerRepo.DeleteCascade(ids)
	if err != nil {
		return nil, err
	}
	return &DeletionReport{
		Entity:  "delivery partner",
		Deleted: deleted,
		Cascade: "order partner references nulled, orders preserved",
	}, nil
}
