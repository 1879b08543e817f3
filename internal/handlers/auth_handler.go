package handlers

import (
	"log"

	"bazaar/internal/models"
	"bazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for registration and login of the three
// marketplace roles.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/shopkeeper/register", h.HandleRegisterShopkeeper)
	authRoutes.Post("/customer/register", h.HandleRegisterCustomer)
	authRoutes.Post("/delivery/register", h.HandleRegisterDeliveryPartner)
	authRoutes.Post("/shopkeeper/login", h.loginHandler(models.RoleShopkeeper))
	authRoutes.Post("/customer/login", h.loginHandler(models.RoleCustomer))
	authRoutes.Post("/delivery/login", h.loginHandler(models.RoleDelivery))
}

// HandleRegisterShopkeeper handles new shopkeeper registration.
func (h *AuthHandler) HandleRegisterShopkeeper(c *fiber.Ctx) error {
	var shopkeeper models.Shopkeeper
	if err := c.BodyParser(&shopkeeper); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(shopkeeper); err != nil {
		return respondValidationErrors(c, err)
	}
	if err := h.authService.RegisterShopkeeper(&shopkeeper); err != nil {
		log.Printf("Error registering shopkeeper: %v", err)
		return respondError(c, err)
	}
	shopkeeper.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Shop registered successfully! Please login.",
		"shopkeeper": shopkeeper,
	})
}

// HandleRegisterCustomer handles new customer registration.
func (h *AuthHandler) HandleRegisterCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(customer); err != nil {
		return respondValidationErrors(c, err)
	}
	if err := h.authService.RegisterCustomer(&customer); err != nil {
		log.Printf("Error registering customer: %v", err)
		return respondError(c, err)
	}
	customer.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Account created successfully! Please login.",
		"customer": customer,
	})
}

// HandleRegisterDeliveryPartner handles new delivery partner registration.
func (h *AuthHandler) HandleRegisterDeliveryPartner(c *fiber.Ctx) error {
	var partner models.DeliveryPartner
	if err := c.BodyParser(&partner); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(partner); err != nil {
		return respondValidationErrors(c, err)
	}
	if err := h.authService.RegisterDeliveryPartner(&partner); err != nil {
		log.Printf("Error registering delivery partner: %v", err)
		return respondError(c, err)
	}
	partner.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":          "Application submitted successfully! Please login.",
		"delivery_partner": partner,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) loginHandler(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
			})
		}
		if err := h.validate.Struct(req); err != nil {
			return respondValidationErrors(c, err)
		}

		token, err := h.authService.Login(role, req.Email, req.Password)
		if err != nil {
			log.Printf("Error during %s login for %s: %v", role, req.Email, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid credentials",
			})
		}
		return c.JSON(fiber.Map{
			"message": "Login successful!",
			"token":   token,
		})
	}
}
