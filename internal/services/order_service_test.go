package services_test

import (
	"sync"
	"testing"

	"bazaar/internal/errs"
	"bazaar/internal/models"
	"bazaar/internal/repositories"
	"bazaar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedOrder stores an order with a fixed id and returns it.
func seedOrder(t *testing.T, store *repositories.MemoryStore, id, customerID, shopkeeperID, status string) models.Order {
	t.Helper()
	order := models.Order{
		ID:            id,
		CustomerID:    customerID,
		ShopkeeperID:  shopkeeperID,
		PaymentMethod: models.PaymentCashOnDelivery,
		TotalAmount:   100.00,
		Status:        status,
		Items: []models.OrderItem{
			{ProductName: "Tea 250g", Quantity: 1, Price: 100.00},
		},
	}
	require.NoError(t, store.Orders().CreateBatch([]*models.Order{&order}))
	return order
}

func TestGetOrderVisibility(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrder(t, store, "o-1", "cust-1", "shop-a", models.StatusPending)
	svc := services.NewOrderService(store.Orders(), nil)

	t.Run("owning customer sees it", func(t *testing.T) {
		order, err := svc.GetOrder(models.Actor{ID: "cust-1", Role: models.RoleCustomer}, "o-1")
		require.NoError(t, err)
		assert.Equal(t, "o-1", order.ID)
	})

	t.Run("owning shopkeeper sees it", func(t *testing.T) {
		_, err := svc.GetOrder(models.Actor{ID: "shop-a", Role: models.RoleShopkeeper}, "o-1")
		assert.NoError(t, err)
	})

	t.Run("admin sees it", func(t *testing.T) {
		_, err := svc.GetOrder(models.Actor{ID: "shop-z", Role: models.RoleAdmin}, "o-1")
		assert.NoError(t, err)
	})

	t.Run("another customer gets not found", func(t *testing.T) {
		_, err := svc.GetOrder(models.Actor{ID: "cust-2", Role: models.RoleCustomer}, "o-1")
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("unassigned delivery partner gets not found", func(t *testing.T) {
		_, err := svc.GetOrder(models.Actor{ID: "dp-1", Role: models.RoleDelivery}, "o-1")
		assert.True(t, errs.IsNotFound(err))
	})
}

func TestUpdateStatus(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrder(t, store, "o-1", "cust-1", "shop-a", models.StatusPending)
	svc := services.NewOrderService(store.Orders(), nil)
	shopkeeper := models.Actor{ID: "shop-a", Role: models.RoleShopkeeper}

	t.Run("rejects statuses outside the enum and leaves the order unchanged", func(t *testing.T) {
		_, err := svc.UpdateStatus(shopkeeper, "o-1", "shipped")
		assert.True(t, errs.IsValidation(err))

		order, err := store.Orders().GetByID("o-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, order.Status)
	})

	t.Run("another shopkeeper gets not found, not forbidden", func(t *testing.T) {
		_, err := svc.UpdateStatus(models.Actor{ID: "shop-b", Role: models.RoleShopkeeper}, "o-1", models.StatusConfirmed)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("owner confirms the order", func(t *testing.T) {
		message, err := svc.UpdateStatus(shopkeeper, "o-1", models.StatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, "Order o-1 confirmed successfully!", message)

		order, err := store.Orders().GetByID("o-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, order.Status)
	})

	t.Run("owner may move backwards", func(t *testing.T) {
		_, err := svc.UpdateStatus(shopkeeper, "o-1", models.StatusPending)
		require.NoError(t, err)

		order, err := store.Orders().GetByID("o-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, order.Status)
	})

	t.Run("ready and cancelled messages", func(t *testing.T) {
		message, err := svc.UpdateStatus(shopkeeper, "o-1", models.StatusReady)
		require.NoError(t, err)
		assert.Equal(t, "Order o-1 marked as ready for pickup!", message)

		message, err = svc.UpdateStatus(shopkeeper, "o-1", models.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, "Order o-1 cancelled successfully.", message)
	})
}

func TestClaim(t *testing.T) {
	t.Run("claims a ready order", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		seedOrder(t, store, "o-1", "cust-1", "shop-a", models.StatusReady)
		svc := services.NewOrderService(store.Orders(), nil)

		message, err := svc.Claim(models.Actor{ID: "dp-1", Role: models.RoleDelivery}, "o-1")
		require.NoError(t, err)
		assert.Equal(t, "Order o-1 accepted successfully! You can now start the delivery.", message)

		order, err := store.Orders().GetByID("o-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusAssigned, order.Status)
		require.NotNil(t, order.DeliveryPartnerID)
		assert.Equal(t, "dp-1", *order.DeliveryPartnerID)
	})

	t.Run("rejects orders that are not ready", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		seedOrder(t, store, "o-1", "cust-1", "shop-a", models.StatusPending)
		svc := services.NewOrderService(store.Orders(), nil)

		_, err := svc.Claim(models.Actor{ID: "dp-1", Role: models.RoleDelivery}, "o-1")
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("second partner gets a conflict", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		seedOrder(t, store, "o-1", "cust-1", "shop-a", models.StatusReady)
		svc := services.NewOrderService(store.Orders(), nil)

		_, err := svc.Claim(models.Actor{ID: "dp-1", Role: models.RoleDelivery}, "o-1")
		require.NoError(t, err)

		_, err = svc.Claim(models.Actor{ID: "dp-2", Role: models.RoleDelivery}, "o-1")
		assert.True(t, errs.IsConflict(err))

		order, err := store.Orders().GetByID("o-1")
		require.NoError(t, err)
		assert.Equal(t, "dp-1", *order.DeliveryPartnerID)
	})

	t.Run("concurrent claims produce exactly one winner", func(t *testing.T) {
		store := repositories.NewMemoryStore()
		seedOrder(t, store, "o-1", "cust-1", "shop-a", models.StatusReady)
		svc := services.NewOrderService(store.Orders(), nil)

		partners := []string{"dp-1", "dp-2", "dp-3", "dp-4"}
		results := make([]error, len(partners))

		var wg sync.WaitGroup
		for i, partnerID := range partners {
			wg.Add(1)
			go func(i int, partnerID string) {
				defer wg.Done()
				_, results[i] = svc.Claim(models.Actor{ID: partnerID, Role: models.RoleDelivery}, "o-1")
			}(i, partnerID)
		}
		wg.Wait()

		winners := 0
		for _, err := range results {
			if err == nil {
				winners++
			} else {
				assert.True(t, errs.IsConflict(err) || errs.IsValidation(err))
			}
		}
		assert.Equal(t, 1, winners)

		order, err := store.Orders().GetByID("o-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusAssigned, order.Status)
		assert.NotNil(t, order.DeliveryPartnerID)
	})
}

func TestUpdateDeliveryStatus(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrder(t, store, "o-1", "cust-1", "shop-a", models.StatusReady)
	svc := services.NewOrderService(store.Orders(), nil)
	partner := models.Actor{ID: "dp-1", Role: models.RoleDelivery}

	_, err := svc.Claim(partner, "o-1")
	require.NoError(t, err)

	t.Run("rejects statuses outside the delivery leg", func(t *testing.T) {
		_, err := svc.UpdateDeliveryStatus(partner, "o-1", models.StatusCancelled)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("another partner gets not found", func(t *testing.T) {
		_, err := svc.UpdateDeliveryStatus(models.Actor{ID: "dp-2", Role: models.RoleDelivery}, "o-1", models.StatusOutForDelivery)
		assert.True(t, errs.IsNotFound(err))
	})

	t.Run("assigned partner advances the order", func(t *testing.T) {
		message, err := svc.UpdateDeliveryStatus(partner, "o-1", models.StatusOutForDelivery)
		require.NoError(t, err)
		assert.Equal(t, "Order o-1 marked as out for delivery!", message)

		message, err = svc.UpdateDeliveryStatus(partner, "o-1", models.StatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, "Order o-1 marked as delivered successfully!", message)

		order, err := store.Orders().GetByID("o-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusDelivered, order.Status)
	})
}

func TestGetShopOrdersCountsPending(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrder(t, store, "o-1", "cust-1", "shop-a", models.StatusPending)
	seedOrder(t, store, "o-2", "cust-2", "shop-a", models.StatusPending)
	seedOrder(t, store, "o-3", "cust-1", "shop-a", models.StatusDelivered)
	seedOrder(t, store, "o-4", "cust-1", "shop-b", models.StatusPending)
	svc := services.NewOrderService(store.Orders(), nil)

	orders, pending, err := svc.GetShopOrders(models.Actor{ID: "shop-a", Role: models.RoleShopkeeper})
	require.NoError(t, err)
	assert.Len(t, orders, 3)
	assert.Equal(t, 2, pending)
}

func TestGetAvailableOrders(t *testing.T) {
	store := repositories.NewMemoryStore()
	seedOrder(t, store, "o-ready", "cust-1", "shop-a", models.StatusReady)
	seedOrder(t, store, "o-pending", "cust-1", "shop-a", models.StatusPending)
	seedOrder(t, store, "o-claimed", "cust-1", "shop-a", models.StatusReady)
	svc := services.NewOrderService(store.Orders(), nil)

	_, err := svc.Claim(models.Actor{ID: "dp-1", Role: models.RoleDelivery}, "o-claimed")
	require.NoError(t, err)

	available, err := svc.GetAvailableOrders()
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "o-ready", available[0].ID)
}
