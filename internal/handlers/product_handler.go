package handlers

import (
	"log"

	"inventory/internal/dto"
	"inventory/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts returns a page of products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var query dto.ProductListQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	if err := query.Validate().Err(); err != nil {
		return writeError(c, err)
	}

	page, err := h.service.FindAll(c.UserContext(), query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID", err)
	}

	product, err := h.service.FindOne(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input dto.CreateProductDTO
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return badRequest(c, "Invalid request body", err)
	}
	if err := input.Validate().Err(); err != nil {
		return writeError(c, err)
	}

	product, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct merges the non-empty fields of the body into a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID", err)
	}

	var input dto.UpdateProductDTO
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return badRequest(c, "Invalid request body", err)
	}
	if err := input.Validate().Err(); err != nil {
		return writeError(c, err)
	}

	product, err := h.service.Update(c.UserContext(), id, input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct soft-deletes a product and returns its last state.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid product ID", err)
	}

	product, err := h.service.Delete(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}
