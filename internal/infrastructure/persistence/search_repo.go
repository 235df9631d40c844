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
	"website_revolution/pkg/lox"
)

type SearchRepository struct {
	db *sqlx.DB
}

func NewSearchRepository(db *sqlx.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Save stores the run and its businesses in one transaction.
func (r *SearchRepository) Save(ctx context.Context, run entity.SearchRun) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		schema := fromSearchRun(run)

		query := `
			INSERT INTO search_runs (id, location, niche, result_count, created_at)
			VALUES (:id, :location, :niche, :result_count, :created_at)`

		if _, err := tx.NamedExecContext(ctx, query, schema); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to save search run")
		}

		for i, b := range run.Businesses {
			row, err := fromBusiness(schema.ID, i, b)
			if err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to encode business")
			}

			query := `
				INSERT INTO businesses (
					search_id, position, id, name, website, phone, email,
					address, score, issues, redesign_url, outreach
				) VALUES (
					:search_id, :position, :id, :name, :website, :phone, :email,
					:address, :score, :issues, :redesign_url, :outreach
				)`

			if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to save business")
			}
		}

		return nil
	})
}

// Recent returns the newest runs first.
func (r *SearchRepository) Recent(ctx context.Context, limit int) ([]entity.SearchSummary, error) {
	query := r.db.Rebind(`
		SELECT id, location, niche, result_count, created_at
		FROM search_runs
		ORDER BY created_at DESC
		LIMIT ?`)

	var rows []searchRunSchema
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list search runs")
	}

	out, err := lox.MapErr(rows, searchRunSchema.toSummary)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "corrupt search run")
	}

	return out, nil
}

func (r *SearchRepository) Get(ctx context.Context, id value.SearchID) (entity.SearchRun, error) {
	var run searchRunSchema

	query := r.db.Rebind(`SELECT id, location, niche, result_count, created_at FROM search_runs WHERE id = ?`)
	if err := r.db.GetContext(ctx, &run, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.SearchRun{}, domain.NewError(errcodes.SearchNotFound, "search run not found")
		}
		return entity.SearchRun{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get search run")
	}

	var rows []businessSchema

	query = r.db.Rebind(`SELECT * FROM businesses WHERE search_id = ? ORDER BY position`)
	if err := r.db.SelectContext(ctx, &rows, query, run.ID); err != nil {
		return entity.SearchRun{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get businesses")
	}

	businesses, err := lox.MapErr(rows, businessSchema.toDomain)
	if err != nil {
		return entity.SearchRun{}, domain.WrapError(err, errcodes.InternalServerError, "corrupt business row")
	}

	return entity.SearchRun{
		ID:         id,
		Location:   run.Location,
		Niche:      run.Niche,
		Businesses: businesses,
		CreatedAt:  run.CreatedAt,
	}, nil
}
