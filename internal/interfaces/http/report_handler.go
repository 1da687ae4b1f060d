package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque/internal/application/analytics"
	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/domain"
	"github.com/jhoicas/estoque/internal/domain/entity"
)

const (
	dateLayout         = "2006-01-02"
	defaultReportLimit = 5
)

// ReportPDF exportador de PDFs (infraestructura).
type ReportPDF interface {
	GenerateProductsPDF(ctx context.Context, products []*entity.Product, categories []*entity.Category) ([]byte, error)
	GenerateReportPDF(ctx context.Context, r *dto.ReportDTO) ([]byte, error)
}

// ReportHandler reportes en JSON y PDF.
type ReportHandler struct {
	uc  *analytics.ReportUseCase
	pdf ReportPDF
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase, pdf ReportPDF) *ReportHandler {
	return &ReportHandler{uc: uc, pdf: pdf}
}

// Get godoc
// @Summary      Reporte de inventario
// @Description  Ventas, costo, utilidad, ventas por categoría, composición del stock y top de productos movidos.
// @Description  El filtro de fechas aplica sólo con from y to; to es inclusivo.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to     query  string  false  "Hasta (YYYY-MM-DD, inclusivo)"
// @Param        limit  query  int     false  "Tamaño del top (por defecto 5)"
// @Success      200  {object}  dto.ReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports [get]
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	in, err := parseReportRequest(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Generate(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReportPDF godoc
// @Summary      Reporte de inventario en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        from   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to     query  string  false  "Hasta (YYYY-MM-DD, inclusivo)"
// @Param        limit  query  int     false  "Tamaño del top"
// @Success      200  {file}  binary
// @Router       /api/reports/report.pdf [get]
func (h *ReportHandler) ReportPDF(c *fiber.Ctx) error {
	in, err := parseReportRequest(c)
	if err != nil {
		return writeError(c, err)
	}
	report, err := h.uc.Generate(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.pdf.GenerateReportPDF(c.UserContext(), report)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, "relatorio-estoque.pdf", out)
}

// ProductsPDF godoc
// @Summary      Catálogo de productos en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/products.pdf [get]
func (h *ReportHandler) ProductsPDF(c *fiber.Ctx) error {
	data, err := h.uc.Load(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.pdf.GenerateProductsPDF(c.UserContext(), data.Products, data.Categories)
	if err != nil {
		return writeError(c, err)
	}
	return sendPDF(c, "produtos.pdf", out)
}

func sendPDF(c *fiber.Ctx, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}

// parseReportRequest lee from/to como fechas UTC; to cubre el día completo.
func parseReportRequest(c *fiber.Ctx) (dto.ReportRequest, error) {
	in := dto.ReportRequest{Limit: c.QueryInt("limit", defaultReportLimit)}
	var v domain.Validator
	if s := c.Query("from"); s != "" {
		from, err := time.Parse(dateLayout, s)
		v.Check(err == nil, "from", "formato esperado YYYY-MM-DD")
		if err == nil {
			in.From = &from
		}
	}
	if s := c.Query("to"); s != "" {
		to, err := time.Parse(dateLayout, s)
		v.Check(err == nil, "to", "formato esperado YYYY-MM-DD")
		if err == nil {
			end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
			in.To = &end
		}
	}
	v.Check(in.Limit > 0, "limit", "debe ser mayor que 0")
	if in.From != nil && in.To != nil {
		v.Check(!in.From.After(*in.To), "from", "no puede ser posterior a to")
	}
	return in, v.Err()
}
