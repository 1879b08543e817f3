package handlers

import (
	"log"

	"bazaar/internal/middleware"
	"bazaar/internal/models"
	"bazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout and the order lifecycle.
type OrderHandler struct {
	checkoutService *services.CheckoutService
	orderService    *services.OrderService
	validate        *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(checkoutService *services.CheckoutService, orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	customerOnly := middleware.RequireRole(models.RoleCustomer)
	shopOnly := middleware.RequireRole(models.RoleShopkeeper)
	deliveryOnly := middleware.RequireRole(models.RoleDelivery)

	router.Post("/checkout", customerOnly, h.HandleCheckout)
	router.Get("/orders", customerOnly, h.HandleGetCustomerOrders)
	router.Get("/orders/:id", h.HandleGetOrderByID)

	router.Get("/shop/orders", shopOnly, h.HandleGetShopOrders)
	router.Patch("/shop/orders/:id/status", shopOnly, h.HandleUpdateOrderStatus)

	deliveryRoutes := router.Group("/delivery", deliveryOnly)
	deliveryRoutes.Get("/orders/available", h.HandleGetAvailableOrders)
	deliveryRoutes.Get("/orders", h.HandleGetAssignedOrders)
	deliveryRoutes.Post("/orders/:id/claim", h.HandleClaimOrder)
	deliveryRoutes.Patch("/orders/:id/status", h.HandleUpdateDeliveryStatus)
}

// HandleCheckout turns the submitted cart into one order per shopkeeper.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid cart data",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	result, err := h.checkoutService.Checkout(actor, req)
	if err != nil {
		log.Printf("Error during checkout for customer %s: %v", actor.ID, err)
		return respondError(c, err)
	}

	message := "Order placed successfully!"
	if len(result.Orders) > 1 {
		message = "Orders placed successfully!"
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"orders":  result.Orders,
		"skipped": result.Skipped,
	})
}

// HandleGetCustomerOrders lists the acting customer's orders.
func (h *OrderHandler) HandleGetCustomerOrders(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	orders, err := h.orderService.GetCustomerOrders(actor)
	if err != nil {
		log.Printf("Error getting orders for customer %s: %v", actor.ID, err)
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves one order visible to the acting identity.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	order, err := h.orderService.GetOrder(actor, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleGetShopOrders lists the acting shopkeeper's orders plus the count
// still pending.
func (h *OrderHandler) HandleGetShopOrders(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	orders, pending, err := h.orderService.GetShopOrders(actor)
	if err != nil {
		log.Printf("Error getting orders for shopkeeper %s: %v", actor.ID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"orders":        orders,
		"pending_count": pending,
	})
}

// statusUpdateRequest is the body for status transitions.
type statusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus sets a new status on an order owned by the acting
// shopkeeper.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	orderID := c.Params("id")

	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	message, err := h.orderService.UpdateStatus(actor, orderID, req.Status)
	if err != nil {
		log.Printf("Error updating status for order %s: %v", orderID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}

// HandleGetAvailableOrders lists unassigned ready orders.
func (h *OrderHandler) HandleGetAvailableOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetAvailableOrders()
	if err != nil {
		log.Printf("Error getting available orders: %v", err)
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetAssignedOrders lists the acting delivery partner's orders.
func (h *OrderHandler) HandleGetAssignedOrders(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	orders, err := h.orderService.GetAssignedOrders(actor)
	if err != nil {
		log.Printf("Error getting orders for delivery partner %s: %v", actor.ID, err)
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleClaimOrder lets the acting delivery partner claim a ready order.
func (h *OrderHandler) HandleClaimOrder(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	orderID := c.Params("id")

	message, err := h.orderService.Claim(actor, orderID)
	if err != nil {
		log.Printf("Error claiming order %s by partner %s: %v", orderID, actor.ID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}

// HandleUpdateDeliveryStatus advances an order assigned to the acting
// delivery partner.
func (h *OrderHandler) HandleUpdateDeliveryStatus(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	orderID := c.Params("id")

	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	message, err := h.orderService.UpdateDeliveryStatus(actor, orderID, req.Status)
	if err != nil {
		log.Printf("Error updating delivery status for order %s: %v", orderID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": message})
}
