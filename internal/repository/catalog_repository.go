package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"retail-analytics-service/internal/model"
)

// ErrNotFound is returned when a reference entity does not exist.
var ErrNotFound = errors.New("not found")

// CatalogRepository defines reference-store operations for coefficients and
// the dynamic attribute (EAV) schema.
type CatalogRepository interface {
	GetCoefficient(ctx context.Context, id int64) (*model.Coefficient, error)

	GetAttributeDefinition(ctx context.Context, code string) (*model.AttributeDefinition, error)

	// GetAttributeValue loads the single value row for a (product, attribute)
	// pair, or ErrNotFound.
	GetAttributeValue(ctx context.Context, productID, attributeID int64) (*model.AttributeValue, error)

	// ListAttributeValues returns all attribute values of a product with
	// their definitions attached.
	ListAttributeValues(ctx context.Context, productID int64) ([]model.AttributeValue, error)

	// UpsertAttributeValue writes the value row, replacing any existing row
	// for the same (product, attribute) pair. Last write wins.
	UpsertAttributeValue(ctx context.Context, value *model.AttributeValue) error

	// ProductIDsByAttributeCodes returns products that carry a value for
	// every one of the given attribute codes.
	ProductIDsByAttributeCodes(ctx context.Context, codes []string) ([]int64, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a CatalogRepository backed by PostgreSQL.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetCoefficient(ctx context.Context, id int64) (*model.Coefficient, error) {
	query := `
		SELECT id, name, code, description, data_type, value_type, unit, is_active, created_at, updated_at
		FROM coefficients WHERE id = $1`

	var c model.Coefficient
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Code, &c.Description,
		&c.SourceType, &c.ValueType, &c.Unit, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("coefficient %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query coefficient: %w", err)
	}
	return &c, nil
}

func (r *catalogRepository) GetAttributeDefinition(ctx context.Context, code string) (*model.AttributeDefinition, error) {
	query := `
		SELECT id, name, code, data_type, is_required, is_filterable,
		       min_value, max_value, max_length, choices, unit, created_at, updated_at
		FROM attribute_definitions WHERE code = $1`

	var (
		def     model.AttributeDefinition
		choices []byte
	)
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&def.ID, &def.Name, &def.Code, &def.DataType,
		&def.IsRequired, &def.IsFilterable,
		&def.MinValue, &def.MaxValue, &def.MaxLength,
		&choices, &def.Unit, &def.CreatedAt, &def.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("attribute %q: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query attribute definition: %w", err)
	}

	if len(choices) > 0 {
		if err := json.Unmarshal(choices, &def.Choices); err != nil {
			return nil, fmt.Errorf("decode choices for %q: %w", code, err)
		}
	}
	return &def, nil
}

const attributeValueColumns = `
	v.id, v.product_id, v.attribute_id,
	v.value_text, v.value_integer, v.value_decimal, v.value_boolean,
	v.value_date, v.value_choice, v.value_multi_choice, v.value_file,
	v.created_at, v.updated_at,
	a.id, a.name, a.code, a.data_type, a.is_required, a.is_filterable,
	a.min_value, a.max_value, a.max_length, a.choices, a.unit, a.created_at, a.updated_at`

func scanAttributeValue(scan func(dest ...any) error) (*model.AttributeValue, error) {
	var (
		v           model.AttributeValue
		multiChoice []byte
		choices     []byte
	)
	err := scan(
		&v.ID, &v.ProductID, &v.AttributeID,
		&v.ValueText, &v.ValueInteger, &v.ValueDecimal, &v.ValueBoolean,
		&v.ValueDate, &v.ValueChoice, &multiChoice, &v.ValueFile,
		&v.CreatedAt, &v.UpdatedAt,
		&v.Attribute.ID, &v.Attribute.Name, &v.Attribute.Code, &v.Attribute.DataType,
		&v.Attribute.IsRequired, &v.Attribute.IsFilterable,
		&v.Attribute.MinValue, &v.Attribute.MaxValue, &v.Attribute.MaxLength,
		&choices, &v.Attribute.Unit, &v.Attribute.CreatedAt, &v.Attribute.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(multiChoice) > 0 {
		if err := json.Unmarshal(multiChoice, &v.ValueMultiChoice); err != nil {
			return nil, fmt.Errorf("decode multi_choice value: %w", err)
		}
	}
	if len(choices) > 0 {
		if err := json.Unmarshal(choices, &v.Attribute.Choices); err != nil {
			return nil, fmt.Errorf("decode attribute choices: %w", err)
		}
	}
	return &v, nil
}

func (r *catalogRepository) GetAttributeValue(ctx context.Context, productID, attributeID int64) (*model.AttributeValue, error) {
	query := `
		SELECT ` + attributeValueColumns + `
		FROM product_attribute_values v
		JOIN attribute_definitions a ON a.id = v.attribute_id
		WHERE v.product_id = $1 AND v.attribute_id = $2`

	row := r.db.QueryRowContext(ctx, query, productID, attributeID)
	value, err := scanAttributeValue(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query attribute value: %w", err)
	}
	return value, nil
}

func (r *catalogRepository) ListAttributeValues(ctx context.Context, productID int64) ([]model.AttributeValue, error) {
	query := `
		SELECT ` + attributeValueColumns + `
		FROM product_attribute_values v
		JOIN attribute_definitions a ON a.id = v.attribute_id
		WHERE v.product_id = $1
		ORDER BY a.code`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("query attribute values: %w", err)
	}
	defer rows.Close()

	var values []model.AttributeValue
	for rows.Next() {
		value, err := scanAttributeValue(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan attribute value: %w", err)
		}
		values = append(values, *value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return values, nil
}

func (r *catalogRepository) UpsertAttributeValue(ctx context.Context, value *model.AttributeValue) error {
	var multiChoice any
	if value.ValueMultiChoice != nil {
		encoded, err := json.Marshal(value.ValueMultiChoice)
		if err != nil {
			return fmt.Errorf("encode multi_choice value: %w", err)
		}
		multiChoice = encoded
	}

	query := `
		INSERT INTO product_attribute_values
			(product_id, attribute_id, value_text, value_integer, value_decimal,
			 value_boolean, value_date, value_choice, value_multi_choice, value_file,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		ON CONFLICT (product_id, attribute_id) DO UPDATE SET
			value_text = EXCLUDED.value_text,
			value_integer = EXCLUDED.value_integer,
			value_decimal = EXCLUDED.value_decimal,
			value_boolean = EXCLUDED.value_boolean,
			value_date = EXCLUDED.value_date,
			value_choice = EXCLUDED.value_choice,
			value_multi_choice = EXCLUDED.value_multi_choice,
			value_file = EXCLUDED.value_file,
			updated_at = now()`

	_, err := r.db.ExecContext(ctx, query,
		value.ProductID, value.AttributeID,
		value.ValueText, value.ValueInteger, value.ValueDecimal,
		value.ValueBoolean, value.ValueDate, value.ValueChoice,
		multiChoice, value.ValueFile,
	)
	if err != nil {
		return fmt.Errorf("upsert attribute value: %w", err)
	}
	return nil
}

func (r *catalogRepository) ProductIDsByAttributeCodes(ctx context.Context, codes []string) ([]int64, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	query := `
		SELECT v.product_id
		FROM product_attribute_values v
		JOIN attribute_definitions a ON a.id = v.attribute_id
		WHERE a.code = ANY($1)
		GROUP BY v.product_id
		HAVING COUNT(DISTINCT a.code) = $2`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(codes), len(codes))
	if err != nil {
		return nil, fmt.Errorf("query products by attributes: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return ids, nil
}
