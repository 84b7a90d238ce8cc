package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/HerbHall/rigplanner/internal/store"
	"github.com/HerbHall/rigplanner/pkg/catalog"
	"github.com/HerbHall/rigplanner/pkg/models"
)

// ComponentFilter controls which components are returned by List.
type ComponentFilter struct {
	Type     models.SlotKind // Restrict to one slot kind.
	Search   string          // Substring of the name.
	MaxPrice float64         // Zero means no ceiling.
	InStock  bool            // Only components with stock.
}

// ImportResult summarizes a catalog import.
type ImportResult struct {
	Components int `json:"components"`
	Prebuilts  int `json:"prebuilts"`
}

// ComponentRepository persists catalog components and prebuilts.
type ComponentRepository interface {
	catalog.Accessor
	catalog.PrebuiltSource

	// Get returns a single component by ID.
	Get(ctx context.Context, id string) (*models.Component, error)

	// List returns a filtered, paginated list of components.
	List(ctx context.Context, filter ComponentFilter, opts ListOptions) (*ListResult[models.Component], error)

	// Import replaces the stored catalog with doc in one transaction.
	Import(ctx context.Context, doc *catalog.Document) (*ImportResult, error)
}

// Compile-time interface guard.
var _ ComponentRepository = (*SQLiteComponentRepository)(nil)

// SQLiteComponentRepository implements ComponentRepository using SQLite.
// Specs and prebuilt parts are stored as JSON text; Specs keeps key order
// through its JSON encoding.
type SQLiteComponentRepository struct {
	db *sql.DB
}

var componentMigrations = []store.Migration{
	{
		Version:     1,
		Description: "create catalog tables",
		Up: func(tx *sql.Tx) error {
			stmts := []string{
				`CREATE TABLE catalog_components (
					id          TEXT PRIMARY KEY,
					position    INTEGER NOT NULL,
					type        TEXT NOT NULL,
					name        TEXT NOT NULL DEFAULT '',
					price       REAL NOT NULL DEFAULT 0 CHECK (price >= 0),
					stock_count INTEGER NOT NULL DEFAULT 0 CHECK (stock_count >= 0),
					image       TEXT NOT NULL DEFAULT '',
					specs       TEXT NOT NULL DEFAULT '{}'
				)`,
				`CREATE INDEX idx_catalog_components_type ON catalog_components(type, position)`,
				`CREATE TABLE catalog_prebuilts (
					slug     TEXT PRIMARY KEY,
					position INTEGER NOT NULL,
					name     TEXT NOT NULL DEFAULT '',
					subtitle TEXT NOT NULL DEFAULT '',
					parts    TEXT NOT NULL DEFAULT '{}'
				)`,
			}
			for _, stmt := range stmts {
				if _, err := tx.Exec(stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

// NewSQLiteComponentRepository creates a ComponentRepository and runs the
// catalog migrations.
func NewSQLiteComponentRepository(ctx context.Context, s *store.SQLiteStore) (*SQLiteComponentRepository, error) {
	if err := s.Migrate(ctx, "catalog", componentMigrations); err != nil {
		return nil, fmt.Errorf("catalog migrations: %w", err)
	}
	return &SQLiteComponentRepository{db: s.DB()}, nil
}

const componentColumns = `id, type, name, price, stock_count, image, specs`

func (r *SQLiteComponentRepository) All(ctx context.Context) ([]models.Component, error) {
	return r.query(ctx, `SELECT `+componentColumns+` FROM catalog_components ORDER BY position`)
}

func (r *SQLiteComponentRepository) ByType(ctx context.Context, kind models.SlotKind) ([]models.Component, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownSlot, kind)
	}
	return r.query(ctx,
		`SELECT `+componentColumns+` FROM catalog_components WHERE type = ? ORDER BY position`,
		string(kind))
}

func (r *SQLiteComponentRepository) Get(ctx context.Context, id string) (*models.Component, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+componentColumns+` FROM catalog_components WHERE id = ?`, id)
	c, err := scanComponent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("component %q: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get component %q: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteComponentRepository) List(ctx context.Context, filter ComponentFilter, opts ListOptions) (*ListResult[models.Component], error) {
	opts = normalizeListOptions(opts)

	sortCol := "position"
	allowedSorts := map[string]string{
		"name":  "name",
		"price": "price",
		"stock": "stock_count",
	}
	if col, ok := allowedSorts[opts.SortBy]; ok {
		sortCol = col
	}

	where := "1=1"
	var args []any
	if filter.Type != "" {
		where += " AND type = ?"
		args = append(args, string(filter.Type))
	}
	if filter.Search != "" {
		where += " AND name LIKE ?"
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.MaxPrice > 0 {
		where += " AND price <= ?"
		args = append(args, filter.MaxPrice)
	}
	if filter.InStock {
		where += " AND stock_count > 0"
	}

	var total int
	//nolint:gosec // where uses parameterized placeholders only
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM catalog_components WHERE "+where, args...,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("count components: %w", err)
	}

	orderDir := "ASC"
	if opts.SortOrder == "desc" {
		orderDir = "DESC"
	}

	//nolint:gosec // where and sortCol are validated above, not user input
	query := fmt.Sprintf(
		"SELECT %s FROM catalog_components WHERE %s ORDER BY %s %s, position ASC LIMIT ? OFFSET ?",
		componentColumns, where, sortCol, orderDir,
	)
	items, err := r.query(ctx, query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, err
	}
	return &ListResult[models.Component]{Items: items, Total: total}, nil
}

func (r *SQLiteComponentRepository) Prebuilts(ctx context.Context) ([]models.Prebuilt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT slug, name, subtitle, parts FROM catalog_prebuilts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list prebuilts: %w", err)
	}
	defer rows.Close()

	out := []models.Prebuilt{}
	for rows.Next() {
		var p models.Prebuilt
		var partsJSON string
		if err := rows.Scan(&p.Slug, &p.Name, &p.Subtitle, &partsJSON); err != nil {
			return nil, fmt.Errorf("scan prebuilt: %w", err)
		}
		if err := json.Unmarshal([]byte(partsJSON), &p.Parts); err != nil {
			return nil, fmt.Errorf("decode prebuilt %q parts: %w", p.Slug, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prebuilts: %w", err)
	}
	return out, nil
}

func (r *SQLiteComponentRepository) Import(ctx context.Context, doc *catalog.Document) (*ImportResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_components`); err != nil {
		return nil, fmt.Errorf("clear components: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_prebuilts`); err != nil {
		return nil, fmt.Errorf("clear prebuilts: %w", err)
	}

	for i := range doc.Components {
		c := &doc.Components[i]
		specsJSON, err := json.Marshal(c.Specs)
		if err != nil {
			return nil, fmt.Errorf("encode specs of %q: %w", c.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO catalog_components (id, position, type, name, price, stock_count, image, specs)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, i, string(c.Type), c.Name, c.Price, c.StockCount, c.Image, string(specsJSON),
		)
		if err != nil {
			return nil, fmt.Errorf("insert component %q: %w", c.ID, err)
		}
	}

	for i := range doc.Prebuilts {
		p := &doc.Prebuilts[i]
		partsJSON, err := json.Marshal(p.Parts)
		if err != nil {
			return nil, fmt.Errorf("encode parts of %q: %w", p.Slug, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO catalog_prebuilts (slug, position, name, subtitle, parts)
			VALUES (?, ?, ?, ?, ?)`,
			p.Slug, i, p.Name, p.Subtitle, string(partsJSON),
		)
		if err != nil {
			return nil, fmt.Errorf("insert prebuilt %q: %w", p.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return &ImportResult{Components: len(doc.Components), Prebuilts: len(doc.Prebuilts)}, nil
}

func (r *SQLiteComponentRepository) query(ctx context.Context, query string, args ...any) ([]models.Component, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()

	out := []models.Component{}
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate components: %w", err)
	}
	return out, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanComponent(row rowScanner) (*models.Component, error) {
	var c models.Component
	var kind, specsJSON string
	if err := row.Scan(&c.ID, &kind, &c.Name, &c.Price, &c.StockCount, &c.Image, &specsJSON); err != nil {
		return nil, err
	}
	c.Type = models.SlotKind(kind)
	if err := json.Unmarshal([]byte(specsJSON), &c.Specs); err != nil {
		return nil, fmt.Errorf("decode specs of %q: %w", c.ID, err)
	}
	return &c, nil
}
