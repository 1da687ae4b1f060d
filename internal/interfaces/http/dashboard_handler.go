package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque/internal/application/catalog"
)

// DashboardHandler maneja el endpoint del dashboard.
type DashboardHandler struct {
	svc *catalog.Service
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(svc *catalog.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GetSummary devuelve KPIs, valorización, productos con stock bajo y movimientos por categoría.
// GET /api/dashboard
//
// La respuesta sale del caché de consultas; cualquier escritura sobre productos, movimientos o
// categorías la invalida.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	out, err := h.svc.Dashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
