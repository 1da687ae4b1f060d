package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque/internal/application/catalog"
	"github.com/jhoicas/estoque/internal/application/dto"
)

// SettingsHandler categorías y proveedores. Escritura sólo para admin (ver router).
type SettingsHandler struct {
	svc *catalog.Service
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(svc *catalog.Service) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *SettingsHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.svc.Categories(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *SettingsHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := await(c, h.svc.CreateCategory(c.UserContext(), in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCategory godoc
// @Summary      Actualizar categoría
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Campos"
// @Success      200   {object}  dto.CategoryResponse
// @Router       /api/categories/{id} [put]
func (h *SettingsHandler) UpdateCategory(c *fiber.Ctx) error {
	var in dto.UpdateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := await(c, h.svc.UpdateCategory(c.UserContext(), c.Params("id"), in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteCategory godoc
// @Summary      Eliminar categoría
// @Description  Los productos de la categoría quedan como "Sin categoría".
// @Tags         settings
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Router       /api/categories/{id} [delete]
func (h *SettingsHandler) DeleteCategory(c *fiber.Ctx) error {
	if _, err := await(c, h.svc.DeleteCategory(c.UserContext(), c.Params("id"))); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SupplierResponse
// @Router       /api/suppliers [get]
func (h *SettingsHandler) ListSuppliers(c *fiber.Ctx) error {
	out, err := h.svc.Suppliers(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierRequest  true  "Proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Router       /api/suppliers [post]
func (h *SettingsHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := await(c, h.svc.CreateSupplier(c.UserContext(), in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateSupplier godoc
// @Summary      Actualizar proveedor
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID"
// @Param        body  body  dto.UpdateSupplierRequest  true  "Campos"
// @Success      200   {object}  dto.SupplierResponse
// @Router       /api/suppliers/{id} [put]
func (h *SettingsHandler) UpdateSupplier(c *fiber.Ctx) error {
	var in dto.UpdateSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := await(c, h.svc.UpdateSupplier(c.UserContext(), c.Params("id"), in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteSupplier godoc
// @Summary      Eliminar proveedor
// @Tags         settings
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Router       /api/suppliers/{id} [delete]
func (h *SettingsHandler) DeleteSupplier(c *fiber.Ctx) error {
	if _, err := await(c, h.svc.DeleteSupplier(c.UserContext(), c.Params("id"))); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
