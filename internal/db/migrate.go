package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// RunClickHouseMigrations ensures the observations table exists. This keeps
// the service self-contained without an external migration step.
func RunClickHouseMigrations(ctx context.Context, conn clickhouse.Conn) error {
	err := conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS observations
(
	visit_id          Int64,
	coefficient_id    Int64,
	product_id        Int64,
	data_source_type  LowCardinality(String),
	value_numeric     Nullable(Float64),
	value_text        Nullable(String),
	value_boolean     Nullable(Bool),
	visit_start_date  DateTime('UTC'),
	created_at        DateTime('UTC') DEFAULT now(),
	outlet_id         Int64,
	outlet_name       String,
	outlet_code       String,
	channel_id        Int64,
	channel_name      String,
	district_id       Int64,
	city_id           Int64,
	region_id         Int64,
	region_name       String,
	country_id        Int64,
	notes             String DEFAULT ''
)
ENGINE = MergeTree
PARTITION BY toYYYYMM(visit_start_date)
ORDER BY (coefficient_id, visit_start_date, outlet_id)
SETTINGS index_granularity = 8192;
`)
	if err != nil {
		return fmt.Errorf("apply clickhouse migrations: %w", err)
	}
	return nil
}

var postgresMigrations = []string{
	`CREATE TABLE IF NOT EXISTS dashboards (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		level TEXT,
		level_order INT NOT NULL DEFAULT 0,
		widgets_config JSONB NOT NULL DEFAULT '{"widgets": []}',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS coefficients (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		data_type TEXT NOT NULL DEFAULT 'MON',
		value_type TEXT NOT NULL DEFAULT 'numeric',
		unit TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS attribute_definitions (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		data_type TEXT NOT NULL,
		is_required BOOLEAN NOT NULL DEFAULT FALSE,
		is_filterable BOOLEAN NOT NULL DEFAULT FALSE,
		min_value DOUBLE PRECISION,
		max_value DOUBLE PRECISION,
		max_length INT,
		choices JSONB,
		unit TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS product_attribute_values (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL,
		attribute_id BIGINT NOT NULL REFERENCES attribute_definitions (id),
		value_text TEXT,
		value_integer BIGINT,
		value_decimal DOUBLE PRECISION,
		value_boolean BOOLEAN,
		value_date DATE,
		value_choice TEXT,
		value_multi_choice JSONB,
		value_file TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (product_id, attribute_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attribute_values_product ON product_attribute_values (product_id)`,
}

// RunPostgresMigrations ensures the reference-store tables exist.
func RunPostgresMigrations(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range postgresMigrations {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply postgres migrations: %w", err)
		}
	}
	return nil
}
