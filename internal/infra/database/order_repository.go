package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/xavierca1/zapvendas/internal/entity"
)

const orderColumns = `id, lead_id, phone_number, products, total_amount, status, notes, created_at, updated_at`

type OrderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	products, err := json.Marshal(o.Products)
	if err != nil {
		return fmt.Errorf("encode order products: %w", err)
	}

	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO orders (id, lead_id, phone_number, products, total_amount, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		o.ID, o.LeadID, o.PhoneNumber, string(products), o.TotalAmount, string(o.Status), o.Notes, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order %s already exists: %w", o.ID, err)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrOrderNotFound
	}
	order, err := scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil && !errors.Is(err, entity.ErrOrderNotFound) {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, err
}

// ListByPhone returns the orders for phone, newest first.
func (r *OrderRepository) ListByPhone(ctx context.Context, phone string) ([]*entity.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE phone_number = $1
		ORDER BY created_at DESC`,
		phone,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []*entity.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrOrderNotFound
	}
	order, err := scanOrder(r.DB.QueryRowContext(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		id, string(status),
	))
	if err != nil && !errors.Is(err, entity.ErrOrderNotFound) {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return order, err
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var (
		o        entity.Order
		products []byte
		total    sql.NullFloat64
		status   string
		notes    sql.NullString
	)
	err := row.Scan(&o.ID, &o.LeadID, &o.PhoneNumber, &products, &total, &status, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrOrderNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(products, &o.Products); err != nil {
		return nil, fmt.Errorf("decode order products: %w", err)
	}
	if total.Valid {
		o.TotalAmount = &total.Float64
	}
	o.Status = entity.OrderStatus(status)
	o.Notes = nullableString(notes)
	return &o, nil
}
