package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"parcelTrackingManagement/internal/store"
)

// NotificationRepository persists the stub's notification rows. The customer
// surface only ever polls them; writes exist so operators can seed messages.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(d *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: d}
}

// List returns all notifications ordered by timestamp descending.
func (r *NotificationRepository) List(ctx context.Context) ([]store.NotificationRow, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, order_code, body, timestamp, is_read FROM notifications ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []store.NotificationRow
	for rows.Next() {
		var n store.NotificationRow
		var isRead int
		if err := rows.Scan(&n.ID, &n.OrderCode, &n.Body, &n.Timestamp, &isRead); err != nil {
			return nil, err
		}
		n.IsRead = isRead != 0
		out = append(out, n)
	}
	return out, rows.Err()
}

// Insert stores a notification, assigning id and timestamp when absent.
func (r *NotificationRepository) Insert(ctx context.Context, n store.NotificationRow) (*store.NotificationRow, error) {
	if strings.TrimSpace(n.OrderCode) == "" {
		return nil, errors.New("order_code is required")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Timestamp == "" {
		n.Timestamp = time.Now().UTC().Format(store.TimeFormat)
	}
	isRead := 0
	if n.IsRead {
		isRead = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `INSERT INTO notifications (id, order_code, body, timestamp, is_read) VALUES (?,?,?,?,?)`,
		n.ID, n.OrderCode, n.Body, n.Timestamp, isRead)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
