package repositories

import (
	"sort"
	"sync"

	"bazaar/internal/errs"
	"bazaar/internal/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of all repository interfaces
// backed by a single lock, so cross-entity cascades and the claim
// compare-and-set behave the same way they do against a real database.
// It backs unit tests and local runs without a configured DSN.
type MemoryStore struct {
	mu          sync.RWMutex
	shopkeepers map[string]models.Shopkeeper
	customers   map[string]models.Customer
	partners    map[string]models.DeliveryPartner
	products    map[string]models.Product
	orders      map[string]models.Order
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		shopkeepers: make(map[string]models.Shopkeeper),
		customers:   make(map[string]models.Customer),
		partners:    make(map[string]models.DeliveryPartner),
		products:    make(map[string]models.Product),
		orders:      make(map[string]models.Order),
	}
}

// Shopkeepers returns the store's ShopkeeperRepository view.
func (s *MemoryStore) Shopkeepers() ShopkeeperRepository { return &memShopkeeperRepo{s} }

// Customers returns the store's CustomerRepository view.
func (s *MemoryStore) Customers() CustomerRepository { return &memCustomerRepo{s} }

// DeliveryPartners returns the store's DeliveryPartnerRepository view.
func (s *MemoryStore) DeliveryPartners() DeliveryPartnerRepository { return &memPartnerRepo{s} }

// Products returns the store's ProductRepository view.
func (s *MemoryStore) Products() ProductRepository { return &memProductRepo{s} }

// Orders returns the store's OrderRepository view.
func (s *MemoryStore) Orders() OrderRepository { return &memOrderRepo{s} }

// cloneOrder copies an order so callers never alias the stored item slice.
func cloneOrder(o models.Order) models.Order {
	items := make([]models.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

func sortedByNewest(orders []models.Order) []models.Order {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

// --- Shopkeepers ---

type memShopkeeperRepo struct{ s *MemoryStore }

func (r *memShopkeeperRepo) Create(shopkeeper *models.Shopkeeper) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if shopkeeper.ID == "" {
		shopkeeper.ID = uuid.New().String()
	}
	r.s.shopkeepers[shopkeeper.ID] = *shopkeeper
	return nil
}

func (r *memShopkeeperRepo) GetByID(id string) (*models.Shopkeeper, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	shopkeeper, ok := r.s.shopkeepers[id]
	if !ok {
		return nil, errs.NewNotFoundError("shopkeeper", id)
	}
	return &shopkeeper, nil
}

func (r *memShopkeeperRepo) GetByEmail(email string) (*models.Shopkeeper, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, shopkeeper := range r.s.shopkeepers {
		if shopkeeper.Email == email {
			sk := shopkeeper
			return &sk, nil
		}
	}
	return nil, errs.NewNotFoundError("shopkeeper", email)
}

func (r *memShopkeeperRepo) DeleteCascade(ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := r.s.shopkeepers[id]; !ok {
			continue
		}

		// Direct orders go away items and all.
		for orderID, order := range r.s.orders {
			if order.ShopkeeperID == id {
				delete(r.s.orders, orderID)
			}
		}

		// Owned products are removed; items elsewhere keep their snapshots
		// and lose only the product reference.
		for productID, product := range r.s.products {
			if product.ShopkeeperID != id {
				continue
			}
			delete(r.s.products, productID)
			for orderID, order := range r.s.orders {
				order = cloneOrder(order)
				for i := range order.Items {
					if order.Items[i].ProductID != nil && *order.Items[i].ProductID == productID {
						order.Items[i].ProductID = nil
					}
				}
				r.s.orders[orderID] = order
			}
		}

		delete(r.s.shopkeepers, id)
		deleted++
	}
	return deleted, nil
}

// --- Customers ---

type memCustomerRepo struct{ s *MemoryStore }

func (r *memCustomerRepo) Create(customer *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r *memCustomerRepo) GetByID(id string) (*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	customer, ok := r.s.customers[id]
	if !ok {
		return nil, errs.NewNotFoundError("customer", id)
	}
	return &customer, nil
}

func (r *memCustomerRepo) GetByEmail(email string) (*models.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, customer := range r.s.customers {
		if customer.Email == email {
			c := customer
			return &c, nil
		}
	}
	return nil, errs.NewNotFoundError("customer", email)
}

func (r *memCustomerRepo) DeleteCascade(ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := r.s.customers[id]; !ok {
			continue
		}
		for orderID, order := range r.s.orders {
			if order.CustomerID == id {
				delete(r.s.orders, orderID)
			}
		}
		delete(r.s.customers, id)
		deleted++
	}
	return deleted, nil
}

// --- Delivery partners ---

type memPartnerRepo struct{ s *MemoryStore }

func (r *memPartnerRepo) Create(partner *models.DeliveryPartner) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if partner.ID == "" {
		partner.ID = uuid.New().String()
	}
	r.s.partners[partner.ID] = *partner
	return nil
}

func (r *memPartnerRepo) GetByID(id string) (*models.DeliveryPartner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	partner, ok := r.s.partners[id]
	if !ok {
		return nil, errs.NewNotFoundError("delivery partner", id)
	}
	return &partner, nil
}

func (r *memPartnerRepo) GetByEmail(email string) (*models.DeliveryPartner, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, partner := range r.s.partners {
		if partner.Email == email {
			p := partner
			return &p, nil
		}
	}
	return nil, errs.NewNotFoundError("delivery partner", email)
}

func (r *memPartnerRepo) DeleteCascade(ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := r.s.partners[id]; !ok {
			continue
		}
		for orderID, order := range r.s.orders {
			if order.DeliveryPartnerID != nil && *order.DeliveryPartnerID == id {
				order = cloneOrder(order)
				order.DeliveryPartnerID = nil
				r.s.orders[orderID] = order
			}
		}
		delete(r.s.partners, id)
		deleted++
	}
	return deleted, nil
}

// --- Products ---

type memProductRepo struct{ s *MemoryStore }

func (r *memProductRepo) GetAll() ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := make([]models.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		products = append(products, p)
	}
	return products, nil
}

func (r *memProductRepo) GetByID(id string) (*models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	product, ok := r.s.products[id]
	if !ok {
		return nil, errs.NewNotFoundError("product", id)
	}
	return &product, nil
}

func (r *memProductRepo) GetByShopkeeper(shopkeeperID string) ([]models.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var products []models.Product
	for _, p := range r.s.products {
		if p.ShopkeeperID == shopkeeperID {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *memProductRepo) Create(product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) Update(product *models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[product.ID]; !ok {
		return errs.NewNotFoundError("product", product.ID)
	}
	r.s.products[product.ID] = *product
	return nil
}

func (r *memProductRepo) DeleteCascade(ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := r.s.products[id]; !ok {
			continue
		}
		delete(r.s.products, id)
		for orderID, order := range r.s.orders {
			order = cloneOrder(order)
			for i := range order.Items {
				if order.Items[i].ProductID != nil && *order.Items[i].ProductID == id {
					order.Items[i].ProductID = nil
				}
			}
			r.s.orders[orderID] = order
		}
		deleted++
	}
	return deleted, nil
}

// --- Orders ---

type memOrderRepo struct{ s *MemoryStore }

func (r *memOrderRepo) GetByID(id string) (*models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	order, ok := r.s.orders[id]
	if !ok {
		return nil, errs.NewNotFoundError("order", id)
	}
	order = cloneOrder(order)
	return &order, nil
}

func (r *memOrderRepo) GetByCustomer(customerID string) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.s.orders {
		if order.CustomerID == customerID {
			orders = append(orders, cloneOrder(order))
		}
	}
	return sortedByNewest(orders), nil
}

func (r *memOrderRepo) GetByShopkeeper(shopkeeperID string) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.s.orders {
		if order.ShopkeeperID == shopkeeperID {
			orders = append(orders, cloneOrder(order))
		}
	}
	return sortedByNewest(orders), nil
}

func (r *memOrderRepo) GetByDeliveryPartner(partnerID string) ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.s.orders {
		if order.DeliveryPartnerID != nil && *order.DeliveryPartnerID == partnerID {
			orders = append(orders, cloneOrder(order))
		}
	}
	return sortedByNewest(orders), nil
}

func (r *memOrderRepo) GetReady() ([]models.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var orders []models.Order
	for _, order := range r.s.orders {
		if order.Status == models.StatusReady && order.DeliveryPartnerID == nil {
			orders = append(orders, cloneOrder(order))
		}
	}
	return sortedByNewest(orders), nil
}

func (r *memOrderRepo) CreateBatch(orders []*models.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, order := range orders {
		if order.ID == "" {
			order.ID = uuid.New().String()
		}
		for i := range order.Items {
			if order.Items[i].ID == "" {
				order.Items[i].ID = uuid.New().String()
			}
			order.Items[i].OrderID = order.ID
		}
		r.s.orders[order.ID] = cloneOrder(*order)
	}
	return nil
}

func (r *memOrderRepo) UpdateStatus(id string, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[id]
	if !ok {
		return errs.NewNotFoundError("order", id)
	}
	order.Status = status
	r.s.orders[id] = order
	return nil
}

func (r *memOrderRepo) Claim(orderID, partnerID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[orderID]
	if !ok {
		return false, nil
	}
	// Same condition the SQL conditional update checks; the store lock makes
	// the read-and-write one step.
	if order.Status != models.StatusReady || order.DeliveryPartnerID != nil {
		return false, nil
	}
	order.Status = models.StatusAssigned
	order.DeliveryPartnerID = &partnerID
	r.s.orders[orderID] = order
	return true, nil
}

func (r *memOrderRepo) DeleteCascade(ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := r.s.orders[id]; !ok {
			continue
		}
		delete(r.s.orders, id)
		deleted++
	}
	return deleted, nil
}
