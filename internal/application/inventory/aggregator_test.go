package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/servicampo-api/internal/application/inventory"
	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Agregador de stock: recompute completo desde el historial
// ──────────────────────────────────────────────────────────────────────────────

// on_hand = Σ in(done) − Σ out(done); los planificados no cuentan.
func TestRecompute_DerivaDesdeElHistorial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemID := env.newItem(t, "TUB-32", "Tubería PVC 32mm", entity.ItemTypeConsumable)

	for _, m := range []*entity.Movement{
		{ItemID: itemID, Type: entity.MovementTypeIn, Status: entity.MovementStatusDone, Source: entity.MovementSourceManual, Qty: dec(100)},
		{ItemID: itemID, Type: entity.MovementTypeOut, Status: entity.MovementStatusDone, Source: entity.MovementSourceManual, Qty: dec(30)},
		{ItemID: itemID, Type: entity.MovementTypeExpectedOut, Status: entity.MovementStatusPlanned, Source: entity.MovementSourceQuote, RefID: "q-1", Qty: dec(12)},
		// Cancelados y planificados de entrada no afectan las cantidades.
		{ItemID: itemID, Type: entity.MovementTypeIn, Status: entity.MovementStatusCanceled, Source: entity.MovementSourcePurchase, RefID: "po-1", Qty: dec(500)},
		{ItemID: itemID, Type: entity.MovementTypeIn, Status: entity.MovementStatusPlanned, Source: entity.MovementSourcePurchase, RefID: "po-2", Qty: dec(200)},
	} {
		require.NoError(t, env.movRepo.Create(m))
	}

	require.NoError(t, env.aggregator.Recompute(ctx, itemID))

	onHand, reserved := env.quantities(t, itemID)
	assert.True(t, onHand.Equal(dec(70)))
	assert.True(t, reserved.Equal(dec(12)))
}

// Un on_hand que saldría negativo se recorta a cero (bug aguas arriba, no un
// estado válido que propagar).
func TestRecompute_RecortaNegativosACero(t *testing.T) {
	env := newTestEnv(t)
	itemID := env.newItem(t, "SIL-1", "Silicona neutra", entity.ItemTypeConsumable)

	require.NoError(t, env.movRepo.Create(&entity.Movement{
		ItemID: itemID, Type: entity.MovementTypeOut, Status: entity.MovementStatusDone,
		Source: entity.MovementSourceManual, Qty: dec(5),
	}))
	require.NoError(t, env.aggregator.Recompute(context.Background(), itemID))

	onHand, _ := env.quantities(t, itemID)
	assert.True(t, onHand.IsZero())
}

// Recompute de un artículo inexistente retorna ErrNotFound.
func TestRecompute_ArticuloInexistente(t *testing.T) {
	env := newTestEnv(t)
	err := env.aggregator.Recompute(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// RecomputeAll repara la deriva de todo el catálogo: cantidades materializadas
// corruptas vuelven a coincidir con el historial.
func TestRecomputeAll_ReparaDeriva(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemA := env.newItem(t, "TUB-32", "Tubería PVC 32mm", entity.ItemTypeConsumable)
	itemB := env.newItem(t, "BOM-1", "Bomba sumergible 1HP", entity.ItemTypeMaterial)
	env.stockIn(t, itemA, 100)
	env.stockIn(t, itemB, 4)

	// Corrupción simulada de los campos materializados.
	require.NoError(t, env.itemRepo.UpdateQuantities(itemA, dec(999), dec(999)))
	require.NoError(t, env.itemRepo.UpdateQuantities(itemB, decimal.Zero, dec(7)))

	n, err := env.aggregator.RecomputeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	onHandA, reservedA := env.quantities(t, itemA)
	onHandB, reservedB := env.quantities(t, itemB)
	assert.True(t, onHandA.Equal(dec(100)))
	assert.True(t, reservedA.IsZero())
	assert.True(t, onHandB.Equal(dec(4)))
	assert.True(t, reservedB.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos manuales
// ──────────────────────────────────────────────────────────────────────────────

// Una salida manual mayor que el stock físico se rechaza.
func TestRegisterManual_SalidaSinStockSuficiente(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemID := env.newItem(t, "CAB-25", "Cable eléctrico 2.5mm", entity.ItemTypeConsumable)
	env.stockIn(t, itemID, 10)

	err := env.engine.RegisterManual(ctx, inventory.ManualMovementInput{
		ItemID: itemID, Type: entity.MovementTypeOut, Qty: dec(11),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	onHand, _ := env.quantities(t, itemID)
	assert.True(t, onHand.Equal(dec(10)), "el rechazo no altera el stock")
}

// Solo in y out son movimientos manuales válidos.
func TestRegisterManual_TipoInvalido(t *testing.T) {
	env := newTestEnv(t)
	itemID := env.newItem(t, "VAL-1", "Válvula de esfera", entity.ItemTypeMaterial)

	err := env.engine.RegisterManual(context.Background(), inventory.ManualMovementInput{
		ItemID: itemID, Type: entity.MovementTypeReserve, Qty: dec(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
