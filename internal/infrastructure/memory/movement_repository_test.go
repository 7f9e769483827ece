package memory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/domain/repository"
	"github.com/jhoicas/servicampo-api/internal/infrastructure/memory"
)

func validMovement() *entity.Movement {
	return &entity.Movement{
		ItemID: "item-1",
		Type:   entity.MovementTypeIn,
		Status: entity.MovementStatusDone,
		Source: entity.MovementSourceManual,
		Qty:    decimal.NewFromInt(10),
	}
}

// ─────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────

func TestCreate_AsignaIDyFecha(t *testing.T) {
	repo := memory.NewMovementRepository()
	m := validMovement()

	require.NoError(t, repo.Create(m))
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.CreatedAt.IsZero())

	got, err := repo.GetByID(m.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Qty.Equal(decimal.NewFromInt(10)))
}

func TestCreate_RechazaCantidadNoPositiva(t *testing.T) {
	repo := memory.NewMovementRepository()
	m := validMovement()
	m.Qty = decimal.Zero

	assert.ErrorIs(t, repo.Create(m), domain.ErrInvalidInput)
}

func TestCreate_RechazaEnumsDesconocidos(t *testing.T) {
	repo := memory.NewMovementRepository()

	m := validMovement()
	m.Type = "teleport"
	assert.ErrorIs(t, repo.Create(m), domain.ErrInvalidInput)

	m = validMovement()
	m.Status = "maybe"
	assert.ErrorIs(t, repo.Create(m), domain.ErrInvalidInput)

	m = validMovement()
	m.Source = "oracle"
	assert.ErrorIs(t, repo.Create(m), domain.ErrInvalidInput)
}

// GetByID devuelve copias; mutar el resultado no toca el registro.
func TestGetByID_DevuelveCopia(t *testing.T) {
	repo := memory.NewMovementRepository()
	m := validMovement()
	require.NoError(t, repo.Create(m))

	got, err := repo.GetByID(m.ID)
	require.NoError(t, err)
	got.Qty = decimal.NewFromInt(999)

	again, err := repo.GetByID(m.ID)
	require.NoError(t, err)
	assert.True(t, again.Qty.Equal(decimal.NewFromInt(10)))
}

func TestGetByID_NilSiNoExiste(t *testing.T) {
	repo := memory.NewMovementRepository()
	got, err := repo.GetByID("no-existe")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// ─────────────────────────────────────────────
// SetStatus / UpdatePlanned
// ─────────────────────────────────────────────

func TestSetStatus_FijaEffectiveAtAlConfirmar(t *testing.T) {
	repo := memory.NewMovementRepository()
	m := validMovement()
	m.Status = entity.MovementStatusPlanned
	m.Type = entity.MovementTypeReserve
	require.NoError(t, repo.Create(m))

	require.NoError(t, repo.SetStatus(m.ID, entity.MovementStatusDone))

	got, err := repo.GetByID(m.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusDone, got.Status)
	require.NotNil(t, got.EffectiveAt)
}

func TestSetStatus_EstadosTerminalesInmutables(t *testing.T) {
	repo := memory.NewMovementRepository()
	m := validMovement() // nace done
	require.NoError(t, repo.Create(m))

	assert.ErrorIs(t, repo.SetStatus(m.ID, entity.MovementStatusCanceled), domain.ErrInvalidTransition)

	canceled := validMovement()
	canceled.Status = entity.MovementStatusCanceled
	require.NoError(t, repo.Create(canceled))
	assert.ErrorIs(t, repo.SetStatus(canceled.ID, entity.MovementStatusDone), domain.ErrInvalidTransition)
}

func TestSetStatus_ValidaEntrada(t *testing.T) {
	repo := memory.NewMovementRepository()
	assert.ErrorIs(t, repo.SetStatus("cualquiera", "ready"), domain.ErrInvalidInput)
	assert.ErrorIs(t, repo.SetStatus("no-existe", entity.MovementStatusDone), domain.ErrNotFound)
}

func TestUpdatePlanned(t *testing.T) {
	repo := memory.NewMovementRepository()
	m := validMovement()
	m.Status = entity.MovementStatusPlanned
	m.Type = entity.MovementTypeExpectedOut
	require.NoError(t, repo.Create(m))

	when := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdatePlanned(m.ID, decimal.NewFromInt(7), &when))

	got, err := repo.GetByID(m.ID)
	require.NoError(t, err)
	assert.True(t, got.Qty.Equal(decimal.NewFromInt(7)))
	require.NotNil(t, got.ScheduledAt)
	assert.True(t, got.ScheduledAt.Equal(when))

	// cantidad no positiva y movimientos terminales quedan rechazados
	assert.ErrorIs(t, repo.UpdatePlanned(m.ID, decimal.Zero, nil), domain.ErrInvalidInput)
	require.NoError(t, repo.SetStatus(m.ID, entity.MovementStatusCanceled))
	assert.ErrorIs(t, repo.UpdatePlanned(m.ID, decimal.NewFromInt(3), nil), domain.ErrInvalidTransition)
}

// ─────────────────────────────────────────────
// Query
// ─────────────────────────────────────────────

func TestQuery_Filtros(t *testing.T) {
	repo := memory.NewMovementRepository()

	seed := []*entity.Movement{
		{ItemID: "a", Type: entity.MovementTypeIn, Status: entity.MovementStatusDone, Source: entity.MovementSourcePurchase, RefID: "oc-1", Qty: decimal.NewFromInt(5)},
		{ItemID: "a", Type: entity.MovementTypeReserve, Status: entity.MovementStatusPlanned, Source: entity.MovementSourceQuote, RefID: "dev-1", Qty: decimal.NewFromInt(2)},
		{ItemID: "b", Type: entity.MovementTypeExpectedOut, Status: entity.MovementStatusPlanned, Source: entity.MovementSourceQuote, RefID: "dev-1", Qty: decimal.NewFromInt(3)},
		{ItemID: "a", Type: entity.MovementTypeOut, Status: entity.MovementStatusCanceled, Source: entity.MovementSourceManual, Qty: decimal.NewFromInt(1)},
	}
	for _, m := range seed {
		require.NoError(t, repo.Create(m))
	}

	byItem, err := repo.Query(repository.MovementFilter{ItemID: "a"})
	require.NoError(t, err)
	assert.Len(t, byItem, 3)

	byDoc, err := repo.Query(repository.MovementFilter{Source: entity.MovementSourceQuote, RefID: "dev-1"})
	require.NoError(t, err)
	assert.Len(t, byDoc, 2)

	planned, err := repo.Query(repository.MovementFilter{Status: entity.MovementStatusPlanned, Types: []string{entity.MovementTypeReserve, entity.MovementTypeExpectedOut}})
	require.NoError(t, err)
	assert.Len(t, planned, 2)

	none, err := repo.Query(repository.MovementFilter{ItemID: "z"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestQuery_OrdenYPaginado(t *testing.T) {
	repo := memory.NewMovementRepository()

	d1 := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	old := validMovement()
	old.EffectiveAt = &d1
	recent := validMovement()
	recent.EffectiveAt = &d3
	middle := validMovement()
	middle.Status = entity.MovementStatusPlanned
	middle.Type = entity.MovementTypeReserve
	middle.ScheduledAt = &d2 // sin effective_at, ordena por fecha prevista
	for _, m := range []*entity.Movement{old, recent, middle} {
		require.NoError(t, repo.Create(m))
	}

	got, err := repo.Query(repository.MovementFilter{OrderByDateDesc: true})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, recent.ID, got[0].ID)
	assert.Equal(t, middle.ID, got[1].ID)
	assert.Equal(t, old.ID, got[2].ID)

	page, err := repo.Query(repository.MovementFilter{OrderByDateDesc: true, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, middle.ID, page[0].ID)

	beyond, err := repo.Query(repository.MovementFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}
