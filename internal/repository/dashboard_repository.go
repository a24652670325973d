package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"retail-analytics-service/internal/model"
)

// DashboardRepository defines reference-store operations for dashboards.
type DashboardRepository interface {
	List(ctx context.Context) ([]model.Dashboard, error)
	Get(ctx context.Context, id int64) (*model.Dashboard, error)
	Create(ctx context.Context, d *model.Dashboard) (int64, error)
	Update(ctx context.Context, d *model.Dashboard) error
	Delete(ctx context.Context, id int64) error

	// ListLevelDashboards returns active dashboards bound to a geo level,
	// ordered by level_order, for the multi-level switcher.
	ListLevelDashboards(ctx context.Context) ([]model.Dashboard, error)
}

type dashboardRepository struct {
	db *sql.DB
}

// NewDashboardRepository creates a DashboardRepository backed by PostgreSQL.
func NewDashboardRepository(db *sql.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

const dashboardColumns = `id, name, code, description, level, level_order, widgets_config, is_active, created_at, updated_at`

func scanDashboard(scan func(dest ...any) error) (*model.Dashboard, error) {
	var (
		d     model.Dashboard
		level sql.NullString
	)
	err := scan(
		&d.ID, &d.Name, &d.Code, &d.Description,
		&level, &d.LevelOrder, &d.WidgetsConfig,
		&d.IsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Level = level.String
	return &d, nil
}

func (r *dashboardRepository) List(ctx context.Context) ([]model.Dashboard, error) {
	query := `SELECT ` + dashboardColumns + ` FROM dashboards ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query dashboards: %w", err)
	}
	defer rows.Close()

	return collectDashboards(rows)
}

func (r *dashboardRepository) ListLevelDashboards(ctx context.Context) ([]model.Dashboard, error) {
	query := `
		SELECT ` + dashboardColumns + `
		FROM dashboards
		WHERE is_active AND level IS NOT NULL AND level <> ''
		ORDER BY level_order`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query level dashboards: %w", err)
	}
	defer rows.Close()

	return collectDashboards(rows)
}

func collectDashboards(rows *sql.Rows) ([]model.Dashboard, error) {
	var dashboards []model.Dashboard
	for rows.Next() {
		d, err := scanDashboard(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan dashboard: %w", err)
		}
		dashboards = append(dashboards, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return dashboards, nil
}

func (r *dashboardRepository) Get(ctx context.Context, id int64) (*model.Dashboard, error) {
	query := `SELECT ` + dashboardColumns + ` FROM dashboards WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	d, err := scanDashboard(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dashboard %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query dashboard: %w", err)
	}
	return d, nil
}

func (r *dashboardRepository) Create(ctx context.Context, d *model.Dashboard) (int64, error) {
	query := `
		INSERT INTO dashboards (name, code, description, level, level_order, widgets_config, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, now(), now())
		RETURNING id`

	widgets := d.WidgetsConfig
	if len(widgets) == 0 {
		widgets = []byte(`{"widgets": []}`)
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		d.Name, d.Code, d.Description, d.Level, d.LevelOrder, widgets, d.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert dashboard: %w", err)
	}
	return id, nil
}

func (r *dashboardRepository) Update(ctx context.Context, d *model.Dashboard) error {
	query := `
		UPDATE dashboards
		SET name = $2, code = $3, description = $4, level = NULLIF($5, ''),
		    level_order = $6, widgets_config = $7, is_active = $8, updated_at = now()
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		d.ID, d.Name, d.Code, d.Description, d.Level, d.LevelOrder, d.WidgetsConfig, d.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update dashboard: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update dashboard: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("dashboard %d: %w", d.ID, ErrNotFound)
	}
	return nil
}

func (r *dashboardRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dashboards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dashboard: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dashboard: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("dashboard %d: %w", id, ErrNotFound)
	}
	return nil
}
