package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/servicampo-api/internal/application/inventory"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
	"github.com/jhoicas/servicampo-api/internal/infrastructure/memory"
	"github.com/jhoicas/servicampo-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	engine     *inventory.ReservationEngine
	aggregator *inventory.StockAggregator
	movRepo    *memory.MovementRepo
	itemRepo   *memory.InventoryItemRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	movRepo := memory.NewMovementRepository()
	itemRepo := memory.NewInventoryItemRepository()
	txRunner := memory.NewTxRunner(movRepo, itemRepo)
	log := logger.NewNop()
	return &testEnv{
		engine:     inventory.NewReservationEngine(txRunner, log),
		aggregator: inventory.NewStockAggregator(txRunner, itemRepo, log),
		movRepo:    movRepo,
		itemRepo:   itemRepo,
	}
}

// newItem da de alta un artículo y devuelve su ID.
func (env *testEnv) newItem(t *testing.T, sku, name, itemType string) string {
	t.Helper()
	item := &entity.InventoryItem{SKU: sku, Name: name, Type: itemType}
	require.NoError(t, env.itemRepo.Create(item))
	return item.ID
}

// stockIn registra una entrada manual realizada (deja on_hand = qty).
func (env *testEnv) stockIn(t *testing.T, itemID string, qty int64) {
	t.Helper()
	err := env.engine.RegisterManual(context.Background(), inventory.ManualMovementInput{
		ItemID: itemID,
		Type:   entity.MovementTypeIn,
		Qty:    decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
}

// quantities devuelve (on_hand, reserved) del artículo.
func (env *testEnv) quantities(t *testing.T, itemID string) (decimal.Decimal, decimal.Decimal) {
	t.Helper()
	item, err := env.itemRepo.GetByID(itemID)
	require.NoError(t, err)
	require.NotNil(t, item)
	return item.QtyOnHand, item.QtyReserved
}

// plannedFor devuelve los movimientos planificados del documento.
func (env *testEnv) plannedFor(t *testing.T, source, refID string) []*entity.Movement {
	t.Helper()
	movs, err := env.movRepo.Query(repository.MovementFilter{
		Source: source,
		RefID:  refID,
		Status: entity.MovementStatusPlanned,
	})
	require.NoError(t, err)
	return movs
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ──────────────────────────────────────────────────────────────────────────────
// Reservas: cotización aceptada con consumible (expected_out)
// ──────────────────────────────────────────────────────────────────────────────

// Un consumible reservado anticipa su salida: qty_reserved sube y qty_on_hand
// no cambia hasta que el trabajo se complete.
func TestSyncReservations_ConsumibleReservaSinDescontar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemID := env.newItem(t, "TUB-32", "Tubería PVC 32mm", entity.ItemTypeConsumable)
	env.stockIn(t, itemID, 100)

	report, err := env.engine.SyncReservations(ctx, entity.MovementSourceQuote, "q-1", "COT-0001", nil,
		map[string]decimal.Decimal{itemID: dec(10)})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	onHand, reserved := env.quantities(t, itemID)
	assert.True(t, onHand.Equal(dec(100)), "reservar no descuenta stock físico")
	assert.True(t, reserved.Equal(dec(10)))

	planned := env.plannedFor(t, entity.MovementSourceQuote, "q-1")
	require.Len(t, planned, 1)
	assert.Equal(t, entity.MovementTypeExpectedOut, planned[0].Type,
		"un consumible reserva como expected_out")
}

// Un material reserva como reserve, nunca como expected_out.
func TestSyncReservations_MaterialReservaComoReserve(t *testing.T) {
	env := newTestEnv(t)
	itemID := env.newItem(t, "BOM-1", "Bomba sumergible 1HP", entity.ItemTypeMaterial)
	env.stockIn(t, itemID, 5)

	_, err := env.engine.SyncReservations(context.Background(),
		entity.MovementSourceIntervention, "iv-1", "INT-0001", nil,
		map[string]decimal.Decimal{itemID: dec(2)})
	require.NoError(t, err)

	planned := env.plannedFor(t, entity.MovementSourceIntervention, "iv-1")
	require.Len(t, planned, 1)
	assert.Equal(t, entity.MovementTypeReserve, planned[0].Type)

	onHand, reserved := env.quantities(t, itemID)
	assert.True(t, onHand.Equal(dec(5)))
	assert.True(t, reserved.Equal(dec(2)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Idempotencia y edición del documento (cancelar todo y reinsertar)
// ──────────────────────────────────────────────────────────────────────────────

// Repetir el sync con las mismas líneas no duplica reservas: el total
// reservado queda igual.
func TestSyncReservations_Idempotente(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemID := env.newItem(t, "CAB-25", "Cable eléctrico 2.5mm", entity.ItemTypeConsumable)
	env.stockIn(t, itemID, 200)

	desired := map[string]decimal.Decimal{itemID: dec(30)}
	for i := 0; i < 3; i++ {
		_, err := env.engine.SyncReservations(ctx, entity.MovementSourceQuote, "q-7", "COT-0007", nil, desired)
		require.NoError(t, err)
	}

	_, reserved := env.quantities(t, itemID)
	assert.True(t, reserved.Equal(dec(30)), "tres syncs idénticos dejan una sola reserva efectiva")
	assert.Len(t, env.plannedFor(t, entity.MovementSourceQuote, "q-7"), 1)
}

// Editar la cotización tras aceptarla reescribe las reservas: las cantidades
// nuevas sustituyen a las viejas y los artículos quitados quedan liberados.
func TestSyncReservations_EdicionReescribeReservas(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemA := env.newItem(t, "SIL-1", "Silicona neutra", entity.ItemTypeConsumable)
	itemB := env.newItem(t, "VAL-1", "Válvula de esfera", entity.ItemTypeMaterial)
	env.stockIn(t, itemA, 50)
	env.stockIn(t, itemB, 10)

	_, err := env.engine.SyncReservations(ctx, entity.MovementSourceQuote, "q-2", "COT-0002", nil,
		map[string]decimal.Decimal{itemA: dec(5), itemB: dec(3)})
	require.NoError(t, err)

	// Edición: itemA sube a 8, itemB desaparece del documento.
	report, err := env.engine.SyncReservations(ctx, entity.MovementSourceQuote, "q-2", "COT-0002", nil,
		map[string]decimal.Decimal{itemA: dec(8)})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Canceled)
	assert.Equal(t, 1, report.Created)

	_, reservedA := env.quantities(t, itemA)
	_, reservedB := env.quantities(t, itemB)
	assert.True(t, reservedA.Equal(dec(8)))
	assert.True(t, reservedB.IsZero(), "el artículo quitado del documento queda liberado")
}

// Un artículo desconocido en el documento se omite con aviso y el resto del
// lote se procesa.
func TestSyncReservations_ArticuloDesconocidoSeOmite(t *testing.T) {
	env := newTestEnv(t)
	itemID := env.newItem(t, "TUB-32", "Tubería PVC 32mm", entity.ItemTypeConsumable)

	report, err := env.engine.SyncReservations(context.Background(),
		entity.MovementSourceQuote, "q-3", "COT-0003", nil,
		map[string]decimal.Decimal{itemID: dec(4), "no-existe": dec(9)})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, []string{"no-existe"}, report.Skipped)

	_, reserved := env.quantities(t, itemID)
	assert.True(t, reserved.Equal(dec(4)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumo al completar el trabajo
// ──────────────────────────────────────────────────────────────────────────────

// Un consumible consumido sale del stock: el expected_out se cancela y se
// registra un out realizado por la misma cantidad.
func TestConsume_ConsumibleDescuentaStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemID := env.newItem(t, "TUB-32", "Tubería PVC 32mm", entity.ItemTypeConsumable)
	env.stockIn(t, itemID, 100)

	_, err := env.engine.SyncReservations(ctx, entity.MovementSourceIntervention, "iv-9", "INT-0009", nil,
		map[string]decimal.Decimal{itemID: dec(10)})
	require.NoError(t, err)

	report, err := env.engine.Consume(ctx, entity.MovementSourceIntervention, "iv-9", "INT-0009")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Canceled)
	assert.Equal(t, 1, report.Done)

	onHand, reserved := env.quantities(t, itemID)
	assert.True(t, onHand.Equal(dec(90)), "el consumible consumido descuenta on_hand")
	assert.True(t, reserved.IsZero())
}

// Un material consumido solo se libera: la herramienta vuelve a bodega y
// on_hand no cambia.
func TestConsume_MaterialSoloLibera(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemID := env.newItem(t, "BOM-1", "Bomba sumergible 1HP", entity.ItemTypeMaterial)
	env.stockIn(t, itemID, 5)

	_, err := env.engine.SyncReservations(ctx, entity.MovementSourceIntervention, "iv-4", "INT-0004", nil,
		map[string]decimal.Decimal{itemID: dec(2)})
	require.NoError(t, err)

	report, err := env.engine.Consume(ctx, entity.MovementSourceIntervention, "iv-4", "INT-0004")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Canceled)
	assert.Equal(t, 0, report.Done, "los materiales no generan out al consumirse")

	onHand, reserved := env.quantities(t, itemID)
	assert.True(t, onHand.Equal(dec(5)), "liberar un material no toca el stock físico")
	assert.True(t, reserved.IsZero())
}

// Consume es seguro de repetir: la segunda llamada no encuentra planificados
// y no duplica salidas.
func TestConsume_RepetirNoDuplicaSalidas(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemID := env.newItem(t, "CAB-25", "Cable eléctrico 2.5mm", entity.ItemTypeConsumable)
	env.stockIn(t, itemID, 40)

	_, err := env.engine.SyncReservations(ctx, entity.MovementSourceQuote, "q-5", "COT-0005", nil,
		map[string]decimal.Decimal{itemID: dec(15)})
	require.NoError(t, err)

	_, err = env.engine.Consume(ctx, entity.MovementSourceQuote, "q-5", "COT-0005")
	require.NoError(t, err)
	second, err := env.engine.Consume(ctx, entity.MovementSourceQuote, "q-5", "COT-0005")
	require.NoError(t, err)
	assert.True(t, second.Empty(), "el segundo consume no debe tener efecto")

	onHand, _ := env.quantities(t, itemID)
	assert.True(t, onHand.Equal(dec(25)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Liberación y reprogramación
// ──────────────────────────────────────────────────────────────────────────────

// Unreserve cancela todos los planificados del documento, de cualquier tipo.
func TestUnreserve_LiberaTodoElDocumento(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemA := env.newItem(t, "SIL-1", "Silicona neutra", entity.ItemTypeConsumable)
	itemB := env.newItem(t, "VAL-1", "Válvula de esfera", entity.ItemTypeMaterial)
	env.stockIn(t, itemA, 20)
	env.stockIn(t, itemB, 20)

	_, err := env.engine.SyncReservations(ctx, entity.MovementSourceQuote, "q-6", "COT-0006", nil,
		map[string]decimal.Decimal{itemA: dec(2), itemB: dec(1)})
	require.NoError(t, err)

	report, err := env.engine.Unreserve(ctx, entity.MovementSourceQuote, "q-6")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Canceled)

	_, reservedA := env.quantities(t, itemA)
	_, reservedB := env.quantities(t, itemB)
	assert.True(t, reservedA.IsZero())
	assert.True(t, reservedB.IsZero())
	assert.Empty(t, env.plannedFor(t, entity.MovementSourceQuote, "q-6"))
}

// Reschedule mueve la fecha prevista de los planificados sin tocar cantidades.
func TestReschedule_ActualizaFechaSinTocarCantidades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemID := env.newItem(t, "TUB-32", "Tubería PVC 32mm", entity.ItemTypeConsumable)
	env.stockIn(t, itemID, 50)

	firstDate := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	_, err := env.engine.SyncReservations(ctx, entity.MovementSourceIntervention, "iv-2", "INT-0002", &firstDate,
		map[string]decimal.Decimal{itemID: dec(6)})
	require.NoError(t, err)

	newDate := time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, env.engine.Reschedule(ctx, entity.MovementSourceIntervention, "iv-2", newDate))

	planned := env.plannedFor(t, entity.MovementSourceIntervention, "iv-2")
	require.Len(t, planned, 1)
	require.NotNil(t, planned[0].ScheduledAt)
	assert.True(t, planned[0].ScheduledAt.Equal(newDate))
	assert.True(t, planned[0].Qty.Equal(dec(6)))

	_, reserved := env.quantities(t, itemID)
	assert.True(t, reserved.Equal(dec(6)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserve individual (upsert)
// ──────────────────────────────────────────────────────────────────────────────

// Reserve actualiza en sitio el planificado existente en vez de crear otro.
func TestReserve_UpsertActualizaEnSitio(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	itemID := env.newItem(t, "CAB-25", "Cable eléctrico 2.5mm", entity.ItemTypeConsumable)
	env.stockIn(t, itemID, 100)

	in := inventory.ReserveInput{
		ItemID: itemID, Qty: dec(10),
		Source: entity.MovementSourceQuote, RefID: "q-8", RefNumber: "COT-0008",
	}
	require.NoError(t, env.engine.Reserve(ctx, in))
	in.Qty = dec(25)
	require.NoError(t, env.engine.Reserve(ctx, in))

	planned := env.plannedFor(t, entity.MovementSourceQuote, "q-8")
	require.Len(t, planned, 1, "el upsert no crea una segunda fila")
	assert.True(t, planned[0].Qty.Equal(dec(25)))

	_, reserved := env.quantities(t, itemID)
	assert.True(t, reserved.Equal(dec(25)))
}
