package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"website_revolution/internal/domain"
	"website_revolution/internal/domain/entity"
	"website_revolution/internal/domain/value"
	"website_revolution/pkg/errcodes"
)

type RedesignRepository struct {
	db *sqlx.DB
}

func NewRedesignRepository(db *sqlx.DB) *RedesignRepository {
	return &RedesignRepository{db: db}
}

// Save inserts or replaces the redesign stored under the same filename.
func (r *RedesignRepository) Save(ctx context.Context, redesign entity.Redesign) error {
	schema, err := fromRedesign(redesign)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode redesign")
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO redesigns (
				filename, business_id, business_name, html, css,
				improvements, design_notes, created_at
			) VALUES (
				:filename, :business_id, :business_name, :html, :css,
				:improvements, :design_notes, :created_at
			)
			ON CONFLICT (filename) DO UPDATE SET
				business_id = excluded.business_id,
				business_name = excluded.business_name,
				html = excluded.html,
				css = excluded.css,
				improvements = excluded.improvements,
				design_notes = excluded.design_notes,
				created_at = excluded.created_at`

		if _, err := tx.NamedExecContext(ctx, query, schema); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to save redesign")
		}

		return nil
	})
}

func (r *RedesignRepository) Get(ctx context.Context, filename value.RedesignFilename) (entity.Redesign, error) {
	var schema redesignSchema

	query := r.db.Rebind(`SELECT * FROM redesigns WHERE filename = ?`)
	if err := r.db.GetContext(ctx, &schema, query, filename.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Redesign{}, domain.NewError(errcodes.RedesignNotFound, "redesign not found")
		}
		return entity.Redesign{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get redesign")
	}

	redesign, err := schema.toDomain()
	if err != nil {
		return entity.Redesign{}, domain.WrapError(err, errcodes.InternalServerError, "corrupt redesign row")
	}

	return redesign, nil
}
