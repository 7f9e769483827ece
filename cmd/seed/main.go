// seed crea el esquema de la base de datos y carga un catálogo de demostración.
//
// Uso: go run ./cmd/seed
// Es idempotente: las tablas se crean con IF NOT EXISTS y los artículos de
// demo se insertan solo si el catálogo está vacío.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/servicampo-api/internal/domain/entity"
	"github.com/jhoicas/servicampo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/servicampo-api/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS inventory_items (
    id            UUID PRIMARY KEY,
    sku           TEXT NOT NULL DEFAULT '',
    name          TEXT NOT NULL,
    name_key      TEXT NOT NULL,
    type          TEXT NOT NULL CHECK (type IN ('consumable', 'material')),
    qty_on_hand   NUMERIC(18,4) NOT NULL DEFAULT 0,
    qty_reserved  NUMERIC(18,4) NOT NULL DEFAULT 0,
    min_qty_alert NUMERIC(18,4) NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_items_sku ON inventory_items (sku) WHERE sku <> '';
CREATE INDEX IF NOT EXISTS idx_items_name_key ON inventory_items (name_key);

CREATE TABLE IF NOT EXISTS movements (
    id           UUID PRIMARY KEY,
    item_id      UUID NOT NULL REFERENCES inventory_items (id),
    type         TEXT NOT NULL CHECK (type IN ('in', 'out', 'reserve', 'expected_out')),
    status       TEXT NOT NULL CHECK (status IN ('planned', 'done', 'canceled')),
    source       TEXT NOT NULL CHECK (source IN ('purchase', 'quote', 'intervention', 'manual')),
    ref_id       TEXT NOT NULL DEFAULT '',
    ref_number   TEXT NOT NULL DEFAULT '',
    qty          NUMERIC(18,4) NOT NULL CHECK (qty > 0),
    scheduled_at TIMESTAMPTZ,
    effective_at TIMESTAMPTZ,
    note         TEXT NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_movements_item ON movements (item_id, status);
CREATE INDEX IF NOT EXISTS idx_movements_ref ON movements (source, ref_id);

CREATE TABLE IF NOT EXISTS quotes (
    id          UUID PRIMARY KEY,
    number      TEXT NOT NULL DEFAULT '',
    client_name TEXT NOT NULL,
    status      TEXT NOT NULL,
    date        TIMESTAMPTZ NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_quotes_number ON quotes (number) WHERE number <> '';

CREATE TABLE IF NOT EXISTS quote_lines (
    quote_id     UUID NOT NULL REFERENCES quotes (id) ON DELETE CASCADE,
    position     INT NOT NULL,
    item_id      TEXT NOT NULL DEFAULT '',
    sku          TEXT NOT NULL DEFAULT '',
    name         TEXT NOT NULL DEFAULT '',
    qty          NUMERIC(18,4) NOT NULL DEFAULT 0,
    qty_received NUMERIC(18,4) NOT NULL DEFAULT 0,
    PRIMARY KEY (quote_id, position)
);

CREATE TABLE IF NOT EXISTS interventions (
    id          UUID PRIMARY KEY,
    number      TEXT NOT NULL DEFAULT '',
    client_name TEXT NOT NULL,
    status      TEXT NOT NULL,
    quote_id    UUID REFERENCES quotes (id),
    date        TIMESTAMPTZ,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_interventions_number ON interventions (number) WHERE number <> '';

CREATE TABLE IF NOT EXISTS intervention_lines (
    intervention_id UUID NOT NULL REFERENCES interventions (id) ON DELETE CASCADE,
    position        INT NOT NULL,
    item_id         TEXT NOT NULL DEFAULT '',
    sku             TEXT NOT NULL DEFAULT '',
    name            TEXT NOT NULL DEFAULT '',
    qty             NUMERIC(18,4) NOT NULL DEFAULT 0,
    qty_received    NUMERIC(18,4) NOT NULL DEFAULT 0,
    PRIMARY KEY (intervention_id, position)
);

CREATE TABLE IF NOT EXISTS purchase_orders (
    id            UUID PRIMARY KEY,
    number        TEXT NOT NULL DEFAULT '',
    supplier_name TEXT NOT NULL,
    status        TEXT NOT NULL,
    expected_at   TIMESTAMPTZ,
    received_at   TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_purchase_orders_number ON purchase_orders (number) WHERE number <> '';

CREATE TABLE IF NOT EXISTS purchase_order_lines (
    purchase_order_id UUID NOT NULL REFERENCES purchase_orders (id) ON DELETE CASCADE,
    position          INT NOT NULL,
    item_id           TEXT NOT NULL DEFAULT '',
    sku               TEXT NOT NULL DEFAULT '',
    name              TEXT NOT NULL DEFAULT '',
    qty               NUMERIC(18,4) NOT NULL DEFAULT 0,
    qty_received      NUMERIC(18,4) NOT NULL DEFAULT 0,
    PRIMARY KEY (purchase_order_id, position)
);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		fmt.Fprintf(os.Stderr, "crear esquema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("esquema creado")

	var count int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM inventory_items`).Scan(&count); err != nil {
		fmt.Fprintf(os.Stderr, "consultar catálogo: %v\n", err)
		os.Exit(1)
	}
	if count > 0 {
		fmt.Printf("catálogo con %d artículos, demo omitida\n", count)
		return
	}

	itemRepo := postgres.NewInventoryItemRepository(pool)
	demo := []*entity.InventoryItem{
		{SKU: "TUB-PVC-32", Name: "Tubería PVC 32mm", Type: entity.ItemTypeConsumable, MinQtyAlert: decimal.NewFromInt(20)},
		{SKU: "CAB-2.5", Name: "Cable eléctrico 2.5mm", Type: entity.ItemTypeConsumable, MinQtyAlert: decimal.NewFromInt(50)},
		{SKU: "SIL-NEU", Name: "Silicona neutra", Type: entity.ItemTypeConsumable, MinQtyAlert: decimal.NewFromInt(10)},
		{SKU: "BOM-SUM-1", Name: "Bomba sumergible 1HP", Type: entity.ItemTypeMaterial, MinQtyAlert: decimal.NewFromInt(2)},
		{SKU: "CAL-GAS-11", Name: "Calentador a gas 11L", Type: entity.ItemTypeMaterial, MinQtyAlert: decimal.NewFromInt(1)},
		{SKU: "VAL-ESF-1", Name: "Válvula de esfera 1\"", Type: entity.ItemTypeMaterial, MinQtyAlert: decimal.NewFromInt(5)},
	}
	for _, item := range demo {
		if err := itemRepo.Create(item); err != nil {
			fmt.Fprintf(os.Stderr, "insertar %s: %v\n", item.SKU, err)
			os.Exit(1)
		}
	}
	fmt.Printf("%d artículos de demo insertados\n", len(demo))
}
