package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/secureguard/phishsim-service/internal/domain"
)

// ErrTokenCollision is returned when a recipient insert trips the global
// tracking-token unique index. Callers regenerate tokens and retry.
var ErrTokenCollision = errors.New("tracking token collision")

// CampaignRepository encapsulates campaign persistence, including the
// transactional launch that freezes the template snapshot and issues
// recipient rows atomically.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context, limit, offset int) ([]domain.Campaign, error)
	ListDueScheduled(ctx context.Context, now time.Time) ([]domain.Campaign, error)
	// TransitionStatus flips status to `to` only when the current status is
	// one of `from`, reporting whether a row changed. This is the guard that
	// keeps lifecycle transitions forward-only under concurrent calls.
	TransitionStatus(ctx context.Context, id string, from []domain.CampaignStatus, to domain.CampaignStatus) (bool, error)
	// Launch runs in a single transaction: flips DRAFT/SCHEDULED to ACTIVE,
	// stores the template snapshot and launch time, and inserts every
	// recipient. A token collision aborts the whole transaction with
	// ErrTokenCollision so a retried launch never double-issues tokens.
	Launch(ctx context.Context, campaign *domain.Campaign, recipients []domain.Recipient) error
	CountLiveByTemplate(ctx context.Context, templateID string) (int, error)
	CountByStatus(ctx context.Context, status domain.CampaignStatus) (int, error)
}

type campaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository instantiates repository.
func NewCampaignRepository(pool *pgxpool.Pool) CampaignRepository {
	return &campaignRepository{pool: pool}
}

const campaignColumns = `id, name, template_id, target_group, status, scheduled_at, launched_at,
        snap_name, snap_subject, snap_sender_name, snap_sender_email, snap_body, snap_category,
        created_at, updated_at`

func (r *campaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	const query = `
        INSERT INTO campaigns (name, template_id, target_group, status, scheduled_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		campaign.Name,
		campaign.TemplateID,
		campaign.TargetGroup,
		campaign.Status,
		campaign.ScheduledAt,
	).Scan(&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt)
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id=$1`, id)
	return scanCampaign(row)
}

func (r *campaignRepository) List(ctx context.Context, limit, offset int) ([]domain.Campaign, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCampaigns(rows)
}

func (r *campaignRepository) ListDueScheduled(ctx context.Context, now time.Time) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE status=$1 AND scheduled_at <= $2 ORDER BY scheduled_at`,
		domain.CampaignStatusScheduled, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCampaigns(rows)
}

func (r *campaignRepository) TransitionStatus(ctx context.Context, id string, from []domain.CampaignStatus, to domain.CampaignStatus) (bool, error) {
	const query = `UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2 AND status = ANY($3)`
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}
	cmd, err := r.pool.Exec(ctx, query, to, id, states)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *campaignRepository) Launch(ctx context.Context, campaign *domain.Campaign, recipients []domain.Recipient) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const update = `
        UPDATE campaigns
        SET status=$1, launched_at=$2,
            snap_name=$3, snap_subject=$4, snap_sender_name=$5, snap_sender_email=$6, snap_body=$7, snap_category=$8,
            updated_at=NOW()
        WHERE id=$9 AND status = ANY($10)`
	cmd, err := tx.Exec(ctx, update,
		domain.CampaignStatusActive,
		campaign.LaunchedAt,
		campaign.Snapshot.Name,
		campaign.Snapshot.Subject,
		campaign.Snapshot.SenderName,
		campaign.Snapshot.SenderEmail,
		campaign.Snapshot.Body,
		campaign.Snapshot.Category,
		campaign.ID,
		[]string{string(domain.CampaignStatusDraft), string(domain.CampaignStatusScheduled)},
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	const insert = `
        INSERT INTO campaign_recipients (campaign_id, user_id, group_name, tracking_token, delivered_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	for i := range recipients {
		rec := &recipients[i]
		if err := tx.QueryRow(ctx, insert,
			rec.CampaignID,
			rec.UserID,
			rec.Group,
			rec.TrackingToken,
			rec.DeliveredAt,
		).Scan(&rec.ID); err != nil {
			if isUniqueViolation(err, "idx_recipients_token") {
				return ErrTokenCollision
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *campaignRepository) CountLiveByTemplate(ctx context.Context, templateID string) (int, error) {
	const query = `SELECT COUNT(*) FROM campaigns WHERE template_id=$1 AND status = ANY($2)`
	live := []string{
		string(domain.CampaignStatusDraft),
		string(domain.CampaignStatusScheduled),
		string(domain.CampaignStatusActive),
	}
	var count int
	if err := r.pool.QueryRow(ctx, query, templateID, live).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *campaignRepository) CountByStatus(ctx context.Context, status domain.CampaignStatus) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM campaigns WHERE status=$1`, status).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var (
		campaign domain.Campaign
		snapName, snapSubject, snapSenderName, snapSenderEmail, snapBody, snapCategory *string
	)
	if err := row.Scan(
		&campaign.ID,
		&campaign.Name,
		&campaign.TemplateID,
		&campaign.TargetGroup,
		&campaign.Status,
		&campaign.ScheduledAt,
		&campaign.LaunchedAt,
		&snapName,
		&snapSubject,
		&snapSenderName,
		&snapSenderEmail,
		&snapBody,
		&snapCategory,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if snapName != nil {
		campaign.Snapshot = &domain.TemplateSnapshot{
			Name:        *snapName,
			Subject:     *snapSubject,
			SenderName:  *snapSenderName,
			SenderEmail: *snapSenderEmail,
			Body:        *snapBody,
			Category:    *snapCategory,
		}
	}
	return &campaign, nil
}

func scanCampaigns(rows pgx.Rows) ([]domain.Campaign, error) {
	var result []domain.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *campaign)
	}
	return result, rows.Err()
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && (constraint == "" || pgErr.ConstraintName == constraint)
}
