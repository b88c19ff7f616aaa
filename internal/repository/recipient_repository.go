package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/secureguard/phishsim-service/internal/domain"
)

// RecipientRepository covers per-recipient tracking state and the aggregate
// queries the stats layer derives metrics from. Counters are never stored;
// every number is computed from the authoritative recipient rows.
type RecipientRepository interface {
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.Recipient, error)
	GetByToken(ctx context.Context, token string) (*domain.Recipient, error)
	// ClaimFirstClick atomically sets clicked_at only when it is still NULL.
	// Exactly one concurrent caller per token observes claimed=true.
	ClaimFirstClick(ctx context.Context, token string, at time.Time) (campaignID, userID string, claimed bool, err error)
	// RecordRepeatClick bumps the audit counter without touching clicked_at.
	// Returns pgx.ErrNoRows for unknown tokens.
	RecordRepeatClick(ctx context.Context, token string) (campaignID, userID string, err error)
	CampaignTotals(ctx context.Context, campaignID string) (sent, clicked int, err error)
	GroupTotals(ctx context.Context, campaignID string) (map[string]domain.GroupStats, error)
	GlobalTotals(ctx context.Context) (sent, clicked int, err error)
}

type recipientRepository struct {
	pool *pgxpool.Pool
}

// NewRecipientRepository instantiates repository.
func NewRecipientRepository(pool *pgxpool.Pool) RecipientRepository {
	return &recipientRepository{pool: pool}
}

const recipientColumns = `id, campaign_id, user_id, group_name, tracking_token, delivered_at, clicked_at, click_count`

func (r *recipientRepository) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Recipient, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recipientColumns+` FROM campaign_recipients WHERE campaign_id=$1 ORDER BY delivered_at`,
		campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Recipient
	for rows.Next() {
		var rec domain.Recipient
		if err := rows.Scan(
			&rec.ID,
			&rec.CampaignID,
			&rec.UserID,
			&rec.Group,
			&rec.TrackingToken,
			&rec.DeliveredAt,
			&rec.ClickedAt,
			&rec.ClickCount,
		); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *recipientRepository) GetByToken(ctx context.Context, token string) (*domain.Recipient, error) {
	var rec domain.Recipient
	if err := r.pool.QueryRow(ctx,
		`SELECT `+recipientColumns+` FROM campaign_recipients WHERE tracking_token=$1`,
		token).Scan(
		&rec.ID,
		&rec.CampaignID,
		&rec.UserID,
		&rec.Group,
		&rec.TrackingToken,
		&rec.DeliveredAt,
		&rec.ClickedAt,
		&rec.ClickCount,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recipientRepository) ClaimFirstClick(ctx context.Context, token string, at time.Time) (string, string, bool, error) {
	// Single-statement compare-and-set: the WHERE clause on clicked_at IS
	// NULL guarantees first-click-wins under concurrent duplicate hits.
	const query = `
        UPDATE campaign_recipients
        SET clicked_at=$2, click_count=click_count+1
        WHERE tracking_token=$1 AND clicked_at IS NULL
        RETURNING campaign_id, user_id`

	var campaignID, userID string
	err := r.pool.QueryRow(ctx, query, token, at).Scan(&campaignID, &userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", false, nil
		}
		return "", "", false, err
	}
	return campaignID, userID, true, nil
}

func (r *recipientRepository) RecordRepeatClick(ctx context.Context, token string) (string, string, error) {
	const query = `
        UPDATE campaign_recipients
        SET click_count=click_count+1
        WHERE tracking_token=$1
        RETURNING campaign_id, user_id`

	var campaignID, userID string
	if err := r.pool.QueryRow(ctx, query, token).Scan(&campaignID, &userID); err != nil {
		return "", "", err
	}
	return campaignID, userID, nil
}

func (r *recipientRepository) CampaignTotals(ctx context.Context, campaignID string) (int, int, error) {
	const query = `
        SELECT COUNT(*), COUNT(clicked_at)
        FROM campaign_recipients WHERE campaign_id=$1`

	var sent, clicked int
	if err := r.pool.QueryRow(ctx, query, campaignID).Scan(&sent, &clicked); err != nil {
		return 0, 0, err
	}
	return sent, clicked, nil
}

func (r *recipientRepository) GroupTotals(ctx context.Context, campaignID string) (map[string]domain.GroupStats, error) {
	const query = `
        SELECT group_name, COUNT(*), COUNT(clicked_at)
        FROM campaign_recipients WHERE campaign_id=$1
        GROUP BY group_name`

	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]domain.GroupStats)
	for rows.Next() {
		var group string
		var stats domain.GroupStats
		if err := rows.Scan(&group, &stats.Sent, &stats.Clicked); err != nil {
			return nil, err
		}
		result[group] = stats
	}
	return result, rows.Err()
}

func (r *recipientRepository) GlobalTotals(ctx context.Context) (int, int, error) {
	var sent, clicked int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(clicked_at) FROM campaign_recipients`,
	).Scan(&sent, &clicked); err != nil {
		return 0, 0, err
	}
	return sent, clicked, nil
}
