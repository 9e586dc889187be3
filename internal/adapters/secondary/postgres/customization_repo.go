package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"etemplate-service/internal/core/domain"
	output "etemplate-service/internal/core/ports/output"
)

const customizationSchema = `
	CREATE TABLE IF NOT EXISTS etemplate_customization (
		app          TEXT        NOT NULL,
		template_set TEXT        NOT NULL,
		name         TEXT        NOT NULL,
		body         TEXT        NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (app, template_set, name)
	)
`

// CustomizationRepo holds operator overrides of shipped templates. It
// serves them ahead of the install tree.
type CustomizationRepo struct {
	pool *pgxpool.Pool
	// now stamps updated_at with this service's clock, the one cache
	// entries are dated by.
	now func() time.Time
}

var (
	_ output.TemplateSource = (*CustomizationRepo)(nil)
	_ output.TemplateLister = (*CustomizationRepo)(nil)
)

func NewCustomizationRepository(pool *pgxpool.Pool) *CustomizationRepo {
	return &CustomizationRepo{pool: pool, now: time.Now}
}

// EnsureSchema creates the customization table if it is missing.
func (r *CustomizationRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, customizationSchema); err != nil {
		return fmt.Errorf("create customization table: %w", err)
	}
	return nil
}

func (r *CustomizationRepo) Name() string {
	return "postgres"
}

func (r *CustomizationRepo) Stat(ctx context.Context, ref domain.TemplateRef) (*domain.TemplateInfo, error) {
	query := `
		SELECT updated_at
		FROM etemplate_customization
		WHERE app = $1 AND template_set = $2 AND name = $3
	`
	var updatedAt time.Time
	err := r.pool.QueryRow(ctx, query, ref.App, ref.Set, ref.Name).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, ref.PathInfo)
		}
		return nil, fmt.Errorf("stat customization: %w", err)
	}

	return &domain.TemplateInfo{Ref: ref, Origin: "pgsql:" + ref.PathInfo, ModTime: updatedAt}, nil
}

func (r *CustomizationRepo) Read(ctx context.Context, info *domain.TemplateInfo) ([]byte, error) {
	query := `
		SELECT body
		FROM etemplate_customization
		WHERE app = $1 AND template_set = $2 AND name = $3
	`
	var body string
	ref := info.Ref
	err := r.pool.QueryRow(ctx, query, ref.App, ref.Set, ref.Name).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, ref.PathInfo)
		}
		return nil, fmt.Errorf("read customization: %w", err)
	}
	return []byte(body), nil
}

func (r *CustomizationRepo) List(ctx context.Context) ([]domain.TemplateRef, error) {
	query := `
		SELECT app, template_set, name
		FROM etemplate_customization
		ORDER BY app, template_set, name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list customizations: %w", err)
	}
	defer rows.Close()

	var refs []domain.TemplateRef
	for rows.Next() {
		var app, set, name string
		if err := rows.Scan(&app, &set, &name); err != nil {
			return nil, fmt.Errorf("scan customization: %w", err)
		}
		ref, err := domain.ParsePathInfo("/" + app + "/templates/" + set + "/" + name + domain.TemplateExt)
		if err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list customizations: %w", err)
	}
	return refs, nil
}

// Save stores or replaces the override for ref.
func (r *CustomizationRepo) Save(ctx context.Context, ref domain.TemplateRef, body []byte) error {
	query := `
		INSERT INTO etemplate_customization (app, template_set, name, body, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (app, template_set, name)
		DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.pool.Exec(ctx, query, ref.App, ref.Set, ref.Name, string(body), r.now()); err != nil {
		return fmt.Errorf("save customization: %w", err)
	}
	return nil
}

// Delete removes the override for ref; the shipped template is served again.
func (r *CustomizationRepo) Delete(ctx context.Context, ref domain.TemplateRef) error {
	query := `
		DELETE FROM etemplate_customization
		WHERE app = $1 AND template_set = $2 AND name = $3
	`
	tag, err := r.pool.Exec(ctx, query, ref.App, ref.Set, ref.Name)
	if err != nil {
		return fmt.Errorf("delete customization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, ref.PathInfo)
	}
	return nil
}
