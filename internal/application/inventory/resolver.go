package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/inventory"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
	"github.com/jhoicas/servicampo-api/pkg/logger"
)

// LineResolver normaliza las líneas laxas de los documentos origen a la tupla
// canónica (artículo, cantidad). La referencia se resuelve con una cadena de
// fallback ordenada y explícita: ID del artículo → SKU → nombre normalizado.
type LineResolver struct {
	itemRepo repository.InventoryItemRepository
	log      *logger.Logger
}

// NewLineResolver construye el resolutor de líneas.
func NewLineResolver(itemRepo repository.InventoryItemRepository, log *logger.Logger) *LineResolver {
	return &LineResolver{itemRepo: itemRepo, log: log}
}

// Resolve devuelve el ID del artículo de inventario para una línea, o
// domain.ErrUnresolvedItem envuelto con el motivo si ninguna estrategia aplica.
func (r *LineResolver) Resolve(line entity.DocumentLine) (string, error) {
	if line.ItemID != "" {
		item, err := r.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return "", err
		}
		if item != nil {
			return item.ID, nil
		}
	}
	if line.SKU != "" {
		item, err := r.itemRepo.GetBySKU(line.SKU)
		if err != nil {
			return "", err
		}
		if item != nil {
			return item.ID, nil
		}
	}
	if line.Name != "" {
		item, err := r.itemRepo.GetByNameKey(inventory.NameKey(line.Name))
		if err != nil {
			return "", err
		}
		if item != nil {
			return item.ID, nil
		}
	}
	return "", fmt.Errorf("%w: id=%q sku=%q nombre=%q",
		domain.ErrUnresolvedItem, line.ItemID, line.SKU, line.Name)
}

// DesiredByItem agrega las líneas resueltas en el mapa artículo → cantidad
// deseada que consume el motor de reservas. Las cantidades de líneas repetidas
// del mismo artículo se suman. Las líneas sin resolver se omiten con warning y
// quedan en skipped; el lote continúa (el fallo parcial es aceptable).
func (r *LineResolver) DesiredByItem(lines []entity.DocumentLine) (map[string]decimal.Decimal, []string) {
	desired := make(map[string]decimal.Decimal, len(lines))
	var skipped []string
	for _, line := range lines {
		if !line.Qty.GreaterThan(decimal.Zero) {
			continue
		}
		itemID, err := r.Resolve(line)
		if err != nil {
			r.log.Warn().Err(err).Msg("línea de documento omitida")
			skipped = append(skipped, lineRef(line))
			continue
		}
		desired[itemID] = desired[itemID].Add(line.Qty)
	}
	return desired, skipped
}

// lineRef devuelve la referencia más específica disponible para el mensaje de aviso.
func lineRef(line entity.DocumentLine) string {
	switch {
	case line.ItemID != "":
		return line.ItemID
	case line.SKU != "":
		return line.SKU
	default:
		return line.Name
	}
}
