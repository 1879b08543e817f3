package services

import (
	"bazaar/internal/errs"
	"bazaar/internal/models"
	"bazaar/internal/repositories"
)

// CatalogService handles business logic related to products. Every mutation
// checks that the acting shopkeeper owns the product; ownership failures are
// reported as not-found so the catalog never leaks what exists.
type CatalogService struct {
	repo repositories.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// GetAllProducts retrieves the full catalog across all shopkeepers.
func (s *CatalogService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetShopProducts retrieves the acting shopkeeper's own products.
func (s *CatalogService) GetShopProducts(actor models.Actor) ([]models.Product, error) {
	return s.repo.GetByShopkeeper(actor.ID)
}

// AddProduct creates a new product owned by the acting shopkeeper.
func (s *CatalogService) AddProduct(actor models.Actor, product *models.Product) error {
	product.ShopkeeperID = actor.ID
	return s.repo.Create(product)
}

// UpdateProduct updates a product the acting shopkeeper owns.
func (s *CatalogService) UpdateProduct(actor models.Actor, product *models.Product) error {
	existing, err := s.repo.GetByID(product.ID)
	if err != nil {
		return err
	}
	if existing.ShopkeeperID != actor.ID {
		return errs.NewNotFoundError("product", product.ID)
	}
	product.ShopkeeperID = existing.ShopkeeperID
	return s.repo.Update(product)
}

// DeleteProduct removes a product the acting shopkeeper owns. Order items
// referencing it keep their snapshots and lose only the product reference.
func (s *CatalogService) DeleteProduct(actor models.Actor, id string) error {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if existing.ShopkeeperID != actor.ID {
		return errs.NewNotFoundError("product", id)
	}
	_, err = s.repo.DeleteCascade([]string{id})
	return err
}
