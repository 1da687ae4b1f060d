package dto

import "github.com/jhoicas/estoque/internal/domain"

// Tamaños de página por defecto y máximo.
const (
	DefaultProductPageSize  = 10
	DefaultMovementPageSize = 20
	MaxPageSize             = 100
)

// PageRequest paginación por número de página.
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

// Normalize aplica page >= 1 y pageSize en (0, MaxPageSize], usando def cuando falta o es inválido.
func (p *PageRequest) Normalize(def int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = def
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset desplazamiento de la página actual.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Count      int `json:"count"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse calcula totalPages = max(1, ceil(count/pageSize)).
func NewPageResponse(p PageRequest, count int) PageResponse {
	total := 1
	if p.PageSize > 0 && count > 0 {
		total = (count + p.PageSize - 1) / p.PageSize
	}
	return PageResponse{Page: p.Page, PageSize: p.PageSize, Count: count, TotalPages: total}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code       string                  `json:"code"`
	Message    string                  `json:"message"`
	Violations []domain.FieldViolation `json:"violations,omitempty"`
}
