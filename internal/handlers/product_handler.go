package handlers

import (
	"log"

	"bazaar/internal/middleware"
	"bazaar/internal/models"
	"bazaar/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. The
// catalog is readable by any authenticated actor; mutations are
// shopkeeper-only and scoped to owned products.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)

	shopOnly := middleware.RequireRole(models.RoleShopkeeper)
	productRoutes.Post("/", shopOnly, h.HandleAddProduct)
	productRoutes.Put("/:id", shopOnly, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", shopOnly, h.HandleDeleteProduct)

	router.Get("/shop/products", shopOnly, h.HandleGetShopProducts)
}

// HandleGetProducts retrieves the full catalog.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleGetShopProducts retrieves the acting shopkeeper's own products.
func (h *ProductHandler) HandleGetShopProducts(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	products, err := h.service.GetShopProducts(actor)
	if err != nil {
		log.Printf("Error getting shop products: %v", err)
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleAddProduct creates a new product owned by the acting shopkeeper.
func (h *ProductHandler) HandleAddProduct(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	product.ShopkeeperID = actor.ID
	if err := h.validate.Struct(product); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.service.AddProduct(actor, &product); err != nil {
		log.Printf("Error adding product: %v", err)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product \"" + product.Name + "\" added successfully!",
		"product": product,
	})
}

// HandleUpdateProduct updates a product the acting shopkeeper owns.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	product.ID = c.Params("id")
	product.ShopkeeperID = actor.ID
	if err := h.validate.Struct(product); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.service.UpdateProduct(actor, &product); err != nil {
		log.Printf("Error updating product %s: %v", product.ID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product \"" + product.Name + "\" updated successfully!",
		"product": product,
	})
}

// HandleDeleteProduct removes a product the acting shopkeeper owns.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	actor := middleware.ActorFromContext(c)
	id := c.Params("id")

	if err := h.service.DeleteProduct(actor, id); err != nil {
		log.Printf("Error deleting product %s: %v", id, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully!",
	})
}
