package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/xavierca1/zapvendas/internal/entity"
)

const leadColumns = `id, phone_number, customer_name, city, status, needs_human_agent, last_message_at, created_at, updated_at`

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// GetOrCreate returns the lead for phone, refreshing its activity timestamp,
// or inserts a new one. A concurrent first contact from another process
// surfaces as entity.ErrLeadAlreadyExists.
func (r *LeadRepository) GetOrCreate(ctx context.Context, phone string) (*entity.Lead, error) {
	lead, err := scanLead(r.DB.QueryRowContext(ctx, `
		UPDATE leads
		SET last_message_at = NOW(), updated_at = NOW()
		WHERE phone_number = $1
		RETURNING `+leadColumns, phone))
	if err == nil {
		return lead, nil
	}
	if !errors.Is(err, entity.ErrLeadNotFound) {
		return nil, fmt.Errorf("refresh lead: %w", err)
	}

	lead, err = scanLead(r.DB.QueryRowContext(ctx, `
		INSERT INTO leads (id, phone_number, status, needs_human_agent, last_message_at, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW(), NOW())
		RETURNING `+leadColumns,
		uuid.New().String(), phone, string(entity.LeadStatusNew),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrLeadAlreadyExists
		}
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrLeadNotFound
	}
	lead, err := scanLead(r.DB.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
	if err != nil && !errors.Is(err, entity.ErrLeadNotFound) {
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return lead, err
}

// List returns leads ordered by most recent activity. Empty filter fields
// match everything.
func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	var statuses []string
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE ($1::text[] IS NULL OR status = ANY($1::text[]))
		  AND ($2::boolean IS NULL OR needs_human_agent = $2::boolean)
		ORDER BY last_message_at DESC`,
		pq.Array(statuses), filter.NeedsHumanAgent,
	)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// Update merges the non-nil fields of update and always refreshes updated_at.
func (r *LeadRepository) Update(ctx context.Context, id string, update entity.LeadUpdate) (*entity.Lead, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrLeadNotFound
	}

	var status *string
	if update.Status != nil {
		s := string(*update.Status)
		status = &s
	}

	lead, err := scanLead(r.DB.QueryRowContext(ctx, `
		UPDATE leads SET
			customer_name = COALESCE($2, customer_name),
			city = COALESCE($3, city),
			status = COALESCE($4, status),
			needs_human_agent = COALESCE($5, needs_human_agent),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, update.CustomerName, update.City, status, update.NeedsHumanAgent,
	))
	if err != nil && !errors.Is(err, entity.ErrLeadNotFound) {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return lead, err
}

func (r *LeadRepository) MarkForHumanAgent(ctx context.Context, phone string) (*entity.Lead, error) {
	lead, err := scanLead(r.DB.QueryRowContext(ctx, `
		UPDATE leads
		SET needs_human_agent = TRUE, status = $2, updated_at = NOW()
		WHERE phone_number = $1
		RETURNING `+leadColumns,
		phone, string(entity.LeadStatusQualified),
	))
	if err != nil && !errors.Is(err, entity.ErrLeadNotFound) {
		return nil, fmt.Errorf("mark lead for human agent: %w", err)
	}
	return lead, err
}

func (r *LeadRepository) Statistics(ctx context.Context) (*entity.Statistics, error) {
	var total, converted, needsHuman, orders int
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM leads),
			(SELECT COUNT(*) FROM leads WHERE status = 'converted'),
			(SELECT COUNT(*) FROM leads WHERE needs_human_agent),
			(SELECT COUNT(*) FROM orders)`,
	).Scan(&total, &converted, &needsHuman, &orders)
	if err != nil {
		return nil, fmt.Errorf("lead statistics: %w", err)
	}
	return entity.NewStatistics(total, converted, needsHuman, orders), nil
}

// MarkStaleAsLost moves new/contacted leads without activity since cutoff to
// lost and returns how many rows changed.
func (r *LeadRepository) MarkStaleAsLost(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE leads
		SET status = 'lost', updated_at = NOW()
		WHERE status IN ('new', 'contacted')
		  AND NOT needs_human_agent
		  AND last_message_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("mark stale leads: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var name, city sql.NullString
	err := row.Scan(
		&lead.ID,
		&lead.PhoneNumber,
		&name,
		&city,
		&lead.Status,
		&lead.NeedsHumanAgent,
		&lead.LastMessageAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrLeadNotFound
		}
		return nil, err
	}
	lead.CustomerName = nullableString(name)
	lead.City = nullableString(city)
	return &lead, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
