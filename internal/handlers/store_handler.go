package handlers

import (
	"log"

	"inventory/internal/dto"
	"inventory/internal/services"

	"github.com/gofiber/fiber/v2"
)

// StoreHandler handles HTTP requests for stores and their products.
type StoreHandler struct {
	stores   *services.StoreService
	products *services.ProductService
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(stores *services.StoreService, products *services.ProductService) *StoreHandler {
	return &StoreHandler{
		stores:   stores,
		products: products,
	}
}

// RegisterRoutes registers the store routes with the Fiber app.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	storeRoutes := router.Group("/stores")
	storeRoutes.Get("/", h.HandleGetStores)
	storeRoutes.Get("/:id", h.HandleGetStoreByID)
	storeRoutes.Post("/", h.HandleCreateStore)
	storeRoutes.Put("/:id", h.HandleUpdateStore)
	storeRoutes.Delete("/:id", h.HandleDeleteStore)

	storeRoutes.Get("/:id/products-quantity", h.HandleGetProductsQuantity)
	storeRoutes.Get("/:id/available-products", h.HandleGetAvailableProducts)
	storeRoutes.Post("/:storeId/products/:productId", h.HandleAddProduct)
	storeRoutes.Delete("/:storeId/products/:productId", h.HandleRemoveProduct)
}

// HandleGetStores returns a page of stores.
func (h *StoreHandler) HandleGetStores(c *fiber.Ctx) error {
	var query dto.PaginatedQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	if err := query.Validate().Err(); err != nil {
		return writeError(c, err)
	}

	page, err := h.stores.FindAll(c.UserContext(), query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// HandleGetStoreByID retrieves a single store by its ID.
func (h *StoreHandler) HandleGetStoreByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid store ID", err)
	}

	store, err := h.stores.FindOne(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(store)
}

// HandleCreateStore creates a new store.
func (h *StoreHandler) HandleCreateStore(c *fiber.Ctx) error {
	var input dto.StoreDTO
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return badRequest(c, "Invalid request body", err)
	}
	if err := input.Validate().Err(); err != nil {
		return writeError(c, err)
	}

	store, err := h.stores.Create(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}

// HandleUpdateStore replaces the fields of a store.
func (h *StoreHandler) HandleUpdateStore(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid store ID", err)
	}

	var input dto.StoreDTO
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing request body: %v", err)
		return badRequest(c, "Invalid request body", err)
	}
	if err := input.Validate().Err(); err != nil {
		return writeError(c, err)
	}

	store, err := h.stores.Update(c.UserContext(), id, input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(store)
}

// HandleDeleteStore soft-deletes a store and returns its last state.
func (h *StoreHandler) HandleDeleteStore(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid store ID", err)
	}

	store, err := h.stores.Delete(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(store)
}

// HandleGetProductsQuantity returns the total qty of the store's products.
func (h *StoreHandler) HandleGetProductsQuantity(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid store ID", err)
	}

	total, err := h.stores.GetAggregatedStockQuantity(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"totalQty": total})
}

// HandleGetAvailableProducts returns a page of products not yet in the store.
func (h *StoreHandler) HandleGetAvailableProducts(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid store ID", err)
	}

	var query dto.PaginatedQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	if err := query.Validate().Err(); err != nil {
		return writeError(c, err)
	}

	page, err := h.products.FindProductsNotInStore(c.UserContext(), id, query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// HandleAddProduct assigns a product to a store.
func (h *StoreHandler) HandleAddProduct(c *fiber.Ctx) error {
	storeID, productID, err := storeProductParams(c)
	if err != nil {
		return badRequest(c, "Invalid store or product ID", err)
	}

	product, err := h.stores.AddProductToStore(c.UserContext(), storeID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

// HandleRemoveProduct unassigns a product from a store.
func (h *StoreHandler) HandleRemoveProduct(c *fiber.Ctx) error {
	storeID, productID, err := storeProductParams(c)
	if err != nil {
		return badRequest(c, "Invalid store or product ID", err)
	}

	product, err := h.stores.DeleteProductFromStore(c.UserContext(), storeID, productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(product)
}

func storeProductParams(c *fiber.Ctx) (storeID, productID int64, err error) {
	if storeID, err = paramID(c, "storeId"); err != nil {
		return 0, 0, err
	}
	if productID, err = paramID(c, "productId"); err != nil {
		return 0, 0, err
	}
	return storeID, productID, nil
}
