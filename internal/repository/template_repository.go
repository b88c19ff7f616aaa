package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/secureguard/phishsim-service/internal/domain"
)

// TemplateRepository encapsulates template persistence.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.Template) error
	Update(ctx context.Context, tpl *domain.Template) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Template, error)
	List(ctx context.Context) ([]domain.Template, error)
	Count(ctx context.Context) (int, error)
}

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository instantiates repository.
func NewTemplateRepository(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepository{pool: pool}
}

const templateColumns = `id, name, subject, sender_name, sender_email, body, category, created_at, updated_at`

func (r *templateRepository) Create(ctx context.Context, tpl *domain.Template) error {
	const query = `
        INSERT INTO templates (name, subject, sender_name, sender_email, body, category)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		tpl.Name,
		tpl.Subject,
		tpl.SenderName,
		tpl.SenderEmail,
		tpl.Body,
		tpl.Category,
	).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.UpdatedAt)
}

func (r *templateRepository) Update(ctx context.Context, tpl *domain.Template) error {
	const query = `
        UPDATE templates SET name=$1, subject=$2, sender_name=$3, sender_email=$4, body=$5, category=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		tpl.Name,
		tpl.Subject,
		tpl.SenderName,
		tpl.SenderEmail,
		tpl.Body,
		tpl.Category,
		tpl.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	var tpl domain.Template
	if err := r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM templates WHERE id=$1`, id).Scan(
		&tpl.ID,
		&tpl.Name,
		&tpl.Subject,
		&tpl.SenderName,
		&tpl.SenderEmail,
		&tpl.Body,
		&tpl.Category,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepository) List(ctx context.Context) ([]domain.Template, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+templateColumns+` FROM templates ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Template
	for rows.Next() {
		var tpl domain.Template
		if err := rows.Scan(
			&tpl.ID,
			&tpl.Name,
			&tpl.Subject,
			&tpl.SenderName,
			&tpl.SenderEmail,
			&tpl.Body,
			&tpl.Category,
			&tpl.CreatedAt,
			&tpl.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tpl)
	}
	return result, rows.Err()
}

func (r *templateRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM templates`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
