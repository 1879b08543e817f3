package handlers

import (
	"log"

	"bazaar/internal/middleware"
	"bazaar/internal/models"
	"bazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles administrator deletion batches.
type AdminHandler struct {
	service  *services.AdminService
	validate *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *services.AdminService) *AdminHandler {
	return &AdminHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the admin routes with the Fiber app.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/shopkeepers/delete", h.deleteHandler(h.service.DeleteShopkeepers))
	adminRoutes.Post("/customers/delete", h.deleteHandler(h.service.DeleteCustomers))
	adminRoutes.Post("/delivery-partners/delete", h.deleteHandler(h.service.DeleteDeliveryPartners))
	adminRoutes.Post("/products/delete", h.deleteHandler(h.service.DeleteProducts))
	adminRoutes.Post("/orders/delete", h.deleteHandler(h.service.DeleteOrders))
}

// deleteRequest is the body for a deletion batch.
type deleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

func (h *AdminHandler) deleteHandler(
	del func(models.Actor, []string) (*services.DeletionReport, error),
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := middleware.ActorFromContext(c)

		var req deleteRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
			})
		}
		if err := h.validate.Struct(req); err != nil {
			return respondValidationErrors(c, err)
		}

		report, err := del(actor, req.IDs)
		if err != nil {
			log.Printf("Error deleting %v: %v", req.IDs, err)
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"message": "Deleted successfully",
			"report":  report,
		})
	}
}
