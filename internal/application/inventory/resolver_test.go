package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/servicampo-api/internal/application/inventory"
	"github.com/jhoicas/servicampo-api/internal/domain"
	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	domaininv "github.com/jhoicas/servicampo-api/internal/domain/inventory"
	"github.com/jhoicas/servicampo-api/pkg/logger"
)

func newTestResolver(t *testing.T) (*inventory.LineResolver, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return inventory.NewLineResolver(env.itemRepo, logger.NewNop()), env
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución de líneas: cadena de fallback ID → SKU → nombre
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_CadenaDeFallback(t *testing.T) {
	resolver, env := newTestResolver(t)
	itemID := env.newItem(t, "TUB-32", "Tubería PVC 32mm", entity.ItemTypeConsumable)

	// Por ID directo.
	got, err := resolver.Resolve(entity.DocumentLine{ItemID: itemID})
	require.NoError(t, err)
	assert.Equal(t, itemID, got)

	// Por SKU cuando el ID no viene.
	got, err = resolver.Resolve(entity.DocumentLine{SKU: "TUB-32"})
	require.NoError(t, err)
	assert.Equal(t, itemID, got)

	// Por nombre cuando tampoco hay SKU.
	got, err = resolver.Resolve(entity.DocumentLine{Name: "Tubería PVC 32mm"})
	require.NoError(t, err)
	assert.Equal(t, itemID, got)

	// Un ID roto cae al SKU de la misma línea.
	got, err = resolver.Resolve(entity.DocumentLine{ItemID: "roto", SKU: "TUB-32"})
	require.NoError(t, err)
	assert.Equal(t, itemID, got)
}

// El nombre casa ignorando mayúsculas, tildes y espacios repetidos.
func TestResolve_NombreInsensibleATildes(t *testing.T) {
	resolver, env := newTestResolver(t)
	itemID := env.newItem(t, "", "Tubería PVC 32mm", entity.ItemTypeConsumable)

	got, err := resolver.Resolve(entity.DocumentLine{Name: "  TUBERIA   pvc 32MM "})
	require.NoError(t, err)
	assert.Equal(t, itemID, got)
}

func TestResolve_SinCoincidenciaRetornaErrUnresolved(t *testing.T) {
	resolver, _ := newTestResolver(t)
	_, err := resolver.Resolve(entity.DocumentLine{Name: "algo que no existe"})
	assert.ErrorIs(t, err, domain.ErrUnresolvedItem)
}

// ──────────────────────────────────────────────────────────────────────────────
// Agregación de líneas al mapa deseado
// ──────────────────────────────────────────────────────────────────────────────

// Líneas repetidas del mismo artículo se suman; las irresolubles quedan en
// skipped sin frenar el lote; las de cantidad cero se ignoran.
func TestDesiredByItem_SumaYOmite(t *testing.T) {
	resolver, env := newTestResolver(t)
	itemID := env.newItem(t, "CAB-25", "Cable eléctrico 2.5mm", entity.ItemTypeConsumable)

	desired, skipped := resolver.DesiredByItem([]entity.DocumentLine{
		{SKU: "CAB-25", Qty: dec(10)},
		{Name: "Cable eléctrico 2.5mm", Qty: dec(5)},
		{SKU: "NO-EXISTE", Qty: dec(3)},
		{SKU: "CAB-25"}, // qty cero, se ignora
	})

	require.Len(t, desired, 1)
	assert.True(t, desired[itemID].Equal(dec(15)))
	assert.Equal(t, []string{"NO-EXISTE"}, skipped)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clave de nombre normalizada
// ──────────────────────────────────────────────────────────────────────────────

func TestNameKey_Normaliza(t *testing.T) {
	assert.Equal(t, "tuberia pvc 32mm", domaininv.NameKey("  Tubería   PVC 32mm "))
	assert.Equal(t, "valvula de esfera 1\"", domaininv.NameKey("VÁLVULA DE ESFERA 1\""))
	assert.Equal(t, "", domaininv.NameKey("   "))
}
