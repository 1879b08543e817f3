package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bazaar/internal/handlers"
	"bazaar/internal/middleware"
	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"
)

// newTestApp wires the full HTTP stack against an in-memory SQLite database,
// mirroring the production wiring without RabbitMQ.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Shopkeeper{},
		&models.Customer{},
		&models.DeliveryPartner{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))

	shopkeeperRepo := repositories.NewGORMShopkeeperRepository(db)
	customerRepo := repositories.NewGORMCustomerRepository(db)
	partnerRepo := repositories.NewGORMDeliveryPartnerRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	authService := services.NewAuthService(
		shopkeeperRepo, customerRepo, partnerRepo,
		"test_jwt_secret",
		[]string{"admin@shop.test"},
	)
	catalogService := services.NewCatalogService(productRepo)
	checkoutService := services.NewCheckoutService(orderRepo, productRepo, nil)
	orderService := services.NewOrderService(orderRepo, nil)
	adminService := services.NewAdminService(shopkeeperRepo, customerRepo, partnerRepo, productRepo, orderRepo)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewProductHandler(catalogService).RegisterRoutes(protected)
	handlers.NewOrderHandler(checkoutService, orderService).RegisterRoutes(protected)
	handlers.NewAdminHandler(adminService).RegisterRoutes(protected)

	return app
}

// doJSON performs one request and decodes the JSON response body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func registerAndLogin(t *testing.T, app *fiber.App, role string, account map[string]interface{}) string {
	t.Helper()

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/"+role+"/register", "", account)
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/"+role+"/login", "", map[string]interface{}{
		"email":    account["email"],
		"password": account["password"],
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func addProduct(t *testing.T, app *fiber.App, token, name string, price float64) string {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/products/", token, map[string]interface{}{
		"name":     name,
		"price":    price,
		"quantity": "1kg",
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	product := body["product"].(map[string]interface{})
	return product["id"].(string)
}

func TestMarketplaceFlow(t *testing.T) {
	app := newTestApp(t)

	shopA := registerAndLogin(t, app, "shopkeeper", map[string]interface{}{
		"name": "Asha General Store", "email": "asha@shop.test",
		"address": "12 Market Road", "password": "secret123",
	})
	shopB := registerAndLogin(t, app, "shopkeeper", map[string]interface{}{
		"name": "Bharat Dairy", "email": "bharat@shop.test",
		"address": "3 Milk Lane", "password": "secret123",
	})
	customer := registerAndLogin(t, app, "customer", map[string]interface{}{
		"name": "Ravi Kumar", "email": "ravi@cust.test",
		"phone": "9876543210", "password": "secret123",
	})
	partner := registerAndLogin(t, app, "delivery", map[string]interface{}{
		"name": "Dinesh Rider", "email": "dinesh@dp.test",
		"vehicle": "bike", "password": "secret123",
	})
	rival := registerAndLogin(t, app, "delivery", map[string]interface{}{
		"name": "Rekha Rider", "email": "rekha@dp.test",
		"vehicle": "scooter", "password": "secret123",
	})

	riceID := addProduct(t, app, shopA, "Basmati Rice", 120.00)
	dalID := addProduct(t, app, shopA, "Toor Dal", 85.50)
	milkID := addProduct(t, app, shopB, "Milk 1L", 30.00)

	// A mixed cart spanning both shops becomes one order per shop.
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/checkout", customer, map[string]interface{}{
		"full_name":      "Ravi Kumar",
		"phone":          "9876543210",
		"address":        "44 Lake View",
		"payment_method": models.PaymentCashOnDelivery,
		"items": []map[string]interface{}{
			{"product_id": riceID, "quantity": 2, "price": 120.00},
			{"product_id": milkID, "quantity": 3, "price": 30.00},
			{"product_id": dalID, "quantity": 1, "price": 85.50},
		},
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	assert.Equal(t, "Orders placed successfully!", body["message"])
	orders := body["orders"].([]interface{})
	require.Len(t, orders, 2)

	orderA := orders[0].(map[string]interface{})
	orderAID := orderA["id"].(string)
	assert.Equal(t, models.StatusPending, orderA["status"])
	assert.Equal(t, 325.50, orderA["total_amount"])

	// The shopkeeper sees the order and its pending count.
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/shop/orders", shopA, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["pending_count"])

	// Confirm, then mark ready for pickup.
	status, body = doJSON(t, app, http.MethodPatch, "/api/v1/shop/orders/"+orderAID+"/status", shopA,
		map[string]interface{}{"status": models.StatusConfirmed})
	require.Equal(t, http.StatusOK, status, "body: %v", body)

	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/shop/orders/"+orderAID+"/status", shopA,
		map[string]interface{}{"status": models.StatusReady})
	require.Equal(t, http.StatusOK, status)

	// A status outside the enum is rejected.
	status, body = doJSON(t, app, http.MethodPatch, "/api/v1/shop/orders/"+orderAID+"/status", shopA,
		map[string]interface{}{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body["status"])

	// The other shopkeeper cannot even see the order.
	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/shop/orders/"+orderAID+"/status", shopB,
		map[string]interface{}{"status": models.StatusCancelled})
	assert.Equal(t, http.StatusNotFound, status)

	// The ready order shows up for delivery partners.
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/delivery/orders/available", partner, nil)
	require.Equal(t, http.StatusOK, status)

	// First claim wins, second conflicts.
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/delivery/orders/"+orderAID+"/claim", partner, nil)
	require.Equal(t, http.StatusOK, status, "body: %v", body)

	status, body = doJSON(t, app, http.MethodPost, "/api/v1/delivery/orders/"+orderAID+"/claim", rival, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", body["status"])

	// The winner drives the delivery leg to completion.
	status, _ = doJSON(t, app, http.MethodPatch, "/api/v1/delivery/orders/"+orderAID+"/status", partner,
		map[string]interface{}{"status": models.StatusOutForDelivery})
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodPatch, "/api/v1/delivery/orders/"+orderAID+"/status", partner,
		map[string]interface{}{"status": models.StatusDelivered})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["message"], "delivered successfully")

	// The customer sees both orders throughout.
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/orders", customer, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestCheckoutSkipsDeletedProduct(t *testing.T) {
	app := newTestApp(t)

	shop := registerAndLogin(t, app, "shopkeeper", map[string]interface{}{
		"name": "Asha General Store", "email": "asha@shop.test",
		"address": "12 Market Road", "password": "secret123",
	})
	customer := registerAndLogin(t, app, "customer", map[string]interface{}{
		"name": "Ravi Kumar", "email": "ravi@cust.test",
		"phone": "9876543210", "password": "secret123",
	})

	teaID := addProduct(t, app, shop, "Tea 250g", 90.00)
	gheeID := addProduct(t, app, shop, "Ghee 500g", 250.00)

	status, _ := doJSON(t, app, http.MethodDelete, "/api/v1/products/"+gheeID, shop, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/checkout", customer, map[string]interface{}{
		"full_name":      "Ravi Kumar",
		"phone":          "9876543210",
		"address":        "44 Lake View",
		"payment_method": models.PaymentOnline,
		"items": []map[string]interface{}{
			{"product_id": teaID, "quantity": 1, "price": 90.00},
			{"product_id": gheeID, "quantity": 1, "price": 250.00},
		},
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	require.Len(t, body["orders"].([]interface{}), 1)
	require.Len(t, body["skipped"].([]interface{}), 1)

	order := body["orders"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, 90.00, order["total_amount"])
}

func TestAuthAndRoleEnforcement(t *testing.T) {
	app := newTestApp(t)

	customer := registerAndLogin(t, app, "customer", map[string]interface{}{
		"name": "Ravi Kumar", "email": "ravi@cust.test",
		"phone": "9876543210", "password": "secret123",
	})

	t.Run("missing token", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/v1/products/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("garbage token", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/v1/products/", "not.a.token", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("wrong role", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/v1/shop/orders", customer, nil)
		assert.Equal(t, http.StatusForbidden, status)

		status, _ = doJSON(t, app, http.MethodPost, "/api/v1/admin/orders/delete", customer,
			map[string]interface{}{"ids": []string{"o-1"}})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("wrong password", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/customer/login", "", map[string]interface{}{
			"email": "ravi@cust.test", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("duplicate registration", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/customer/register", "", map[string]interface{}{
			"name": "Ravi Again", "email": "ravi@cust.test",
			"phone": "9876543210", "password": "secret123",
		})
		assert.Equal(t, http.StatusConflict, status)
	})
}

func TestAdminDeletionCascades(t *testing.T) {
	app := newTestApp(t)

	// The admin is a shopkeeper whose email is on the admin list.
	admin := registerAndLogin(t, app, "shopkeeper", map[string]interface{}{
		"name": "Site Owner", "email": "admin@shop.test",
		"address": "HQ", "password": "secret123",
	})
	shop := registerAndLogin(t, app, "shopkeeper", map[string]interface{}{
		"name": "Asha General Store", "email": "asha@shop.test",
		"address": "12 Market Road", "password": "secret123",
	})
	customer := registerAndLogin(t, app, "customer", map[string]interface{}{
		"name": "Ravi Kumar", "email": "ravi@cust.test",
		"phone": "9876543210", "password": "secret123",
	})

	riceID := addProduct(t, app, shop, "Basmati Rice", 120.00)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/checkout", customer, map[string]interface{}{
		"full_name":      "Ravi Kumar",
		"phone":          "9876543210",
		"address":        "44 Lake View",
		"payment_method": models.PaymentCashOnDelivery,
		"items": []map[string]interface{}{
			{"product_id": riceID, "quantity": 1, "price": 120.00},
		},
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	order := body["orders"].([]interface{})[0].(map[string]interface{})
	orderID := order["id"].(string)
	shopID := order["shopkeeper_id"].(string)

	status, body = doJSON(t, app, http.MethodPost, "/api/v1/admin/shopkeepers/delete", admin,
		map[string]interface{}{"ids": []string{shopID}})
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	report := body["report"].(map[string]interface{})
	assert.Equal(t, float64(1), report["deleted"])

	// The shop's order went with it, and its catalog is gone.
	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+orderID, customer, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/products/"+riceID, customer, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
