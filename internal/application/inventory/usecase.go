package inventory

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/estoque/internal/application/dto"
	"github.com/jhoicas/estoque/internal/domain"
	"github.com/jhoicas/estoque/internal/domain/entity"
	"github.com/jhoicas/estoque/internal/domain/repository"
)

const minReasonLen = 3

// StockMovementUseCase registra y lista movimientos del ledger.
// El delta de stock y la inserción del movimiento los aplica el procedimiento del backend en una
// sola operación; este caso de uso solo valida la forma de la entrada.
type StockMovementUseCase struct {
	repo repository.StockMovementRepository
}

// NewStockMovementUseCase construye el caso de uso.
func NewStockMovementUseCase(repo repository.StockMovementRepository) *StockMovementUseCase {
	return &StockMovementUseCase{repo: repo}
}

// Register valida y delega en el procedimiento de stock.
// Stock insuficiente o producto inexistente llegan del backend como ErrBusinessRule / ErrNotFound.
func (uc *StockMovementUseCase) Register(ctx context.Context, in dto.RegisterMovementRequest) error {
	input, err := ValidateMovement(in)
	if err != nil {
		return err
	}
	return uc.repo.Register(ctx, input)
}

// ValidateMovement comprueba la forma del movimiento y lo convierte a la entrada del repositorio.
func ValidateMovement(in dto.RegisterMovementRequest) (repository.MovementInput, error) {
	var v domain.Validator
	productID := strings.TrimSpace(in.ProductID)
	reason := strings.TrimSpace(in.Reason)
	v.Check(productID != "", "product_id", "obligatorio")
	typ, typeErr := entity.ParseMovementType(in.Type)
	v.Check(typeErr == nil, "type", "debe ser ENTRADA o SAÍDA")
	v.Check(in.Quantity > 0, "quantity", "debe ser un entero positivo")
	v.Check(utf8.RuneCountInString(reason) >= minReasonLen, "reason", "mínimo 3 caracteres")
	if err := v.Err(); err != nil {
		return repository.MovementInput{}, err
	}
	return repository.MovementInput{
		ProductID: productID,
		Type:      typ,
		Quantity:  in.Quantity,
		Reason:    reason,
	}, nil
}

// List ledger paginado, más reciente primero. page_size por defecto 20.
func (uc *StockMovementUseCase) List(ctx context.Context, in dto.ListMovementsRequest) (*dto.MovementListResponse, error) {
	in.Normalize(dto.DefaultMovementPageSize)
	list, count, err := uc.repo.ListWithCount(ctx, repository.MovementListParams{
		ProductID: strings.TrimSpace(in.ProductID),
		Limit:     in.PageSize,
		Offset:    in.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.NewPageResponse(in.PageRequest, count)}, nil
}

// ToMovementResponse convierte la entidad al DTO de salida.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		Reason:      m.Reason,
		CreatedAt:   m.CreatedAt,
	}
}
