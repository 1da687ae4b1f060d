package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque/internal/application/catalog"
	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos e inventario (protegido).
type InventoryHandler struct {
	svc           *catalog.Service
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(svc *catalog.Service, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{svc: svc, replenishment: replenishment}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  ENTRADA suma al stock; SAÍDA resta y falla si lo deja negativo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type, quantity, reason"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/stock-movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if _, err := await(c, h.svc.RegisterMovement(c.UserContext(), in)); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "movimiento registrado"})
}

// ListMovements godoc
// @Summary      Listar movimientos de stock
// @Description  Más recientes primero; product_id filtra por producto.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        page        query  int     false  "Página (desde 1)"
// @Param        page_size   query  int     false  "Tamaño de página (máx. 100)"
// @Param        product_id  query  string  false  "Filtro por producto"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/stock-movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	in := dto.ListMovementsRequest{
		PageRequest: dto.PageRequest{Page: c.QueryInt("page", 1), PageSize: c.QueryInt("page_size", dto.DefaultMovementPageSize)},
		ProductID:   c.Query("product_id"),
	}
	out, err := h.svc.Movements(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos en o bajo su stock mínimo con pedido sugerido hasta el máximo.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/stock-movements/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
