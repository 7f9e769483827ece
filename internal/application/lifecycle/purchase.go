package lifecycle

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/application/inventory"
	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
	"github.com/jhoicas/servicampo-api/pkg/logger"
)

// PurchaseConverter traduce el ciclo de vida de una orden de compra a
// movimientos de entrada:
//
//	pending (con fecha prevista)  in planificado por cantidad pedida
//	partial                       in realizado por lo recibido + planificado por el resto
//	received                      in realizado por lo recibido (o lo pedido si no se indicó)
//	canceled                      solo rastro de auditoría, sin efecto en stock
type PurchaseConverter struct {
	purchaseRepo repository.PurchaseOrderRepository
	resolver     *inventory.LineResolver
	engine       *inventory.ReservationEngine
	log          *logger.Logger
}

// NewPurchaseConverter construye el convertidor de órdenes de compra.
func NewPurchaseConverter(
	purchaseRepo repository.PurchaseOrderRepository,
	resolver *inventory.LineResolver,
	engine *inventory.ReservationEngine,
	log *logger.Logger,
) *PurchaseConverter {
	return &PurchaseConverter{purchaseRepo: purchaseRepo, resolver: resolver, engine: engine, log: log}
}

// HandleStatusChange aplica la transición y devuelve el mensaje para la UI.
func (c *PurchaseConverter) HandleStatusChange(ctx context.Context, p StatusChanged) (string, error) {
	po, err := c.purchaseRepo.GetByID(p.ID)
	if err != nil {
		return "", err
	}
	if po == nil {
		return "", domain.ErrNotFound
	}

	switch p.NewStatus {
	case entity.PurchaseStatusPending:
		if po.ExpectedAt == nil {
			return (&inventory.SyncReport{}).Summary(), nil
		}
		lines, skipped := c.incomingLines(po, false)
		return c.sync(ctx, po, po.ExpectedAt, lines, skipped)

	case entity.PurchaseStatusPartial:
		lines, skipped := c.incomingLines(po, false)
		return c.sync(ctx, po, po.ExpectedAt, lines, skipped)

	case entity.PurchaseStatusReceived:
		lines, skipped := c.incomingLines(po, true)
		return c.sync(ctx, po, nil, lines, skipped)

	case entity.PurchaseStatusCanceled:
		ordered, _ := c.resolver.DesiredByItem(po.Lines)
		report, err := c.engine.CancelIncoming(ctx, po.ID, po.Number, ordered)
		if err != nil {
			return "", err
		}
		c.log.Info().Str("purchase_id", po.ID).Str("resultado", report.Summary()).
			Msg("orden de compra cancelada")
		return report.Summary(), nil
	}

	return (&inventory.SyncReport{}).Summary(), nil
}

func (c *PurchaseConverter) sync(
	ctx context.Context,
	po *entity.PurchaseOrder,
	expectedAt *time.Time,
	lines map[string]inventory.IncomingLine,
	skipped []string,
) (string, error) {
	report, err := c.engine.SyncIncoming(ctx, po.ID, po.Number, expectedAt, lines)
	if err != nil {
		return "", err
	}
	report.Skipped = append(report.Skipped, skipped...)
	c.log.Info().Str("purchase_id", po.ID).Str("status", po.Status).
		Str("resultado", report.Summary()).Msg("orden de compra sincronizada")
	return report.Summary(), nil
}

// incomingLines resuelve las líneas de la orden al mapa artículo → cantidades.
// En estado pending todo va como planificado; en partial lo recibido va como
// done y la diferencia como planificado; con fullReceipt (received) todo lo
// recibido va como done, usando la cantidad pedida si no se indicó recepción.
func (c *PurchaseConverter) incomingLines(po *entity.PurchaseOrder, fullReceipt bool) (map[string]inventory.IncomingLine, []string) {
	lines := make(map[string]inventory.IncomingLine, len(po.Lines))
	var skipped []string
	for _, dl := range po.Lines {
		if !dl.Qty.GreaterThan(decimal.Zero) {
			continue
		}
		itemID, err := c.resolver.Resolve(dl)
		if err != nil {
			c.log.Warn().Err(err).Str("purchase_id", po.ID).Msg("línea de compra omitida")
			ref := dl.ItemID
			if ref == "" {
				ref = dl.SKU
			}
			if ref == "" {
				ref = dl.Name
			}
			skipped = append(skipped, ref)
			continue
		}
		ln := lines[itemID]
		switch {
		case fullReceipt:
			received := dl.QtyReceived
			if !received.GreaterThan(decimal.Zero) {
				received = dl.Qty
			}
			ln.DoneQty = ln.DoneQty.Add(received)
		case po.Status == entity.PurchaseStatusPartial:
			ln.DoneQty = ln.DoneQty.Add(dl.QtyReceived)
			if rest := dl.Qty.Sub(dl.QtyReceived); rest.GreaterThan(decimal.Zero) {
				ln.PlannedQty = ln.PlannedQty.Add(rest)
			}
		default:
			ln.PlannedQty = ln.PlannedQty.Add(dl.Qty)
		}
		lines[itemID] = ln
	}
	return lines, skipped
}
