package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"parcelTrackingManagement/internal/db"
	"parcelTrackingManagement/internal/store"
)

// OrderRepository persists order rows for the local store stub. It speaks the
// same wire shape (store.Row) the remote table does, so the stub's responses
// are indistinguishable from the real store's.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(d *sql.DB) *OrderRepository {
	return &OrderRepository{db: d}
}

const orderSelect = `SELECT id, order_code, customer_name, customer_phone, customer_address,
product_name, quantity, total_price, weight, volume, payment_method, status,
current_location, customer_lat, customer_lng, driver_lat, driver_lng, updated_at FROM orders`

func scanOrder(scan func(...any) error) (*store.Row, error) {
	var r store.Row
	var cLat, cLng, dLat, dLng sql.NullFloat64
	err := scan(&r.ID, &r.OrderCode, &r.CustomerName, &r.CustomerPhone, &r.CustomerAddress,
		&r.ProductName, &r.Quantity, &r.TotalPrice, &r.Weight, &r.Volume, &r.PaymentMethod,
		&r.Status, &r.CurrentLocation, &cLat, &cLng, &dLat, &dLng, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if cLat.Valid {
		v := cLat.Float64
		r.CustomerLat = &v
	}
	if cLng.Valid {
		v := cLng.Float64
		r.CustomerLng = &v
	}
	if dLat.Valid {
		v := dLat.Float64
		r.DriverLat = &v
	}
	if dLng.Valid {
		v := dLng.Float64
		r.DriverLng = &v
	}
	return &r, nil
}

// List returns all rows ordered by updated_at descending.
func (r *OrderRepository) List(ctx context.Context) ([]store.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, orderSelect+` ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []store.Row
	for rows.Next() {
		row, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, rows.Err()
}

// GetByCode fetches a row by exact order_code. Returns nil when absent.
func (r *OrderRepository) GetByCode(ctx context.Context, code string) (*store.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	row, err := scanOrder(r.db.QueryRowContext(ctx, orderSelect+` WHERE order_code = ?`, code).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return row, err
}

// GetByID fetches a row by internal id. Returns nil when absent.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*store.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	row, err := scanOrder(r.db.QueryRowContext(ctx, orderSelect+` WHERE id = ?`, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return row, err
}

// Insert stores a new row. A missing id is assigned server-side, matching the
// remote store's behavior.
func (r *OrderRepository) Insert(ctx context.Context, row store.Row) (*store.Row, error) {
	if strings.TrimSpace(row.OrderCode) == "" {
		return nil, errors.New("order_code is required")
	}
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if row.UpdatedAt == "" {
		row.UpdatedAt = time.Now().UTC().Format(store.TimeFormat)
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `INSERT INTO orders (id, order_code, customer_name, customer_phone,
customer_address, product_name, quantity, total_price, weight, volume, payment_method, status,
current_location, customer_lat, customer_lng, driver_lat, driver_lng, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		row.ID, row.OrderCode, row.CustomerName, row.CustomerPhone, row.CustomerAddress,
		row.ProductName, row.Quantity, row.TotalPrice, row.Weight, row.Volume, row.PaymentMethod,
		row.Status, row.CurrentLocation, row.CustomerLat, row.CustomerLng, row.DriverLat, row.DriverLng,
		row.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, row.ID)
}

// Patch applies a partial update to the row with the given id. Only known
// columns are accepted; unknown fields are rejected rather than ignored so a
// schema drift surfaces instead of silently dropping data. Returns nil when
// no row has the id.
func (r *OrderRepository) Patch(ctx context.Context, id string, fields map[string]any) (*store.Row, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		if !db.IsOrderColumn(name) {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var set []string
	var args []any
	for _, name := range names {
		set = append(set, name+" = ?")
		args = append(args, fields[name])
	}
	args = append(args, id)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// Delete removes a row by id, reporting whether a row was removed.
func (r *OrderRepository) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
