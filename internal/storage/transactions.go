package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/levynexus/nexus/internal/common"
	"github.com/levynexus/nexus/internal/model"
	"github.com/levynexus/nexus/internal/service"
)

// SaveTransaction persists a transaction record, assigning an ID and
// creation timestamp if absent. The ID is derived from the receipt's
// content hash, so ingesting the same receipt twice collides on the
// primary key and reports ErrDuplicateEntry instead of double-counting.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("transaction must not be nil")
	}
	if txn.ID == "" {
		txn.ID = "txn_" + txn.GenerateHash()[:16]
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	items, err := json.Marshal(txn.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, owner, merchant, receipt_date, amount, subtotal, tax,
			 category, subcategory, is_discretionary, recurrence,
			 payment_method, backend, confidence, items, raw_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.Owner, txn.Merchant, txn.Date, txn.Amount, txn.Subtotal, txn.Tax,
		txn.Category, txn.Subcategory, boolToInt(txn.IsDiscretionary), string(txn.Recurrence),
		txn.PaymentMethod, string(txn.Backend), txn.Confidence, string(items), txn.RawText,
		txn.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: transaction %s", common.ErrDuplicateEntry, txn.ID)
		}
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// GetTransactionByID fetches one transaction, or common.ErrNotFound.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, selectTransaction+` WHERE id = ?`, id)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetTransactions lists transactions matching the filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	query := selectTransaction + ` WHERE 1=1`
	var args []any
	if filter.Owner != "" {
		query += ` AND owner = ?`
		args = append(args, filter.Owner)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	query += ` ORDER BY created_at DESC`
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, *txn)
	}
	return out, rows.Err()
}

// DetectSubscriptions finds recurring merchant+amount charges in the
// last six months. Frequency is inferred from how many distinct months
// the charge appears in.
func (s *SQLiteStorage) DetectSubscriptions(ctx context.Context, owner string) ([]model.SubscriptionPattern, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT merchant, amount, COUNT(*) AS charge_count,
		       COUNT(DISTINCT strftime('%Y-%m', created_at)) AS month_count
		FROM transactions
		WHERE owner = ?
		  AND created_at > datetime('now', '-6 months')
		GROUP BY merchant, amount
		HAVING charge_count >= 2
		ORDER BY charge_count DESC`, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []model.SubscriptionPattern
	for rows.Next() {
		var p model.SubscriptionPattern
		var monthCount int
		if err := rows.Scan(&p.Merchant, &p.Amount, &p.ChargeCount, &monthCount); err != nil {
			return nil, fmt.Errorf("failed to scan subscription pattern: %w", err)
		}
		switch {
		case monthCount >= 6:
			p.Frequency = "monthly"
		case monthCount >= 2:
			p.Frequency = "quarterly"
		default:
			p.Frequency = "unknown"
		}
		p.Confidence = float64(p.ChargeCount) / 6
		if p.Confidence > 1 {
			p.Confidence = 1
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

// CalculateRunway projects days of spending remaining: the owner's
// average monthly burn over the last three months, divided into the
// supplied balance.
func (s *SQLiteStorage) CalculateRunway(ctx context.Context, owner string, balance float64) (*model.RunwayReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT AVG(monthly_spend)
		FROM (
			SELECT strftime('%Y-%m', created_at) AS month,
			       SUM(amount) AS monthly_spend
			FROM transactions
			WHERE owner = ?
			  AND created_at > datetime('now', '-3 months')
			GROUP BY month
		)`, owner)

	var avgMonthly sql.NullFloat64
	if err := row.Scan(&avgMonthly); err != nil {
		return nil, fmt.Errorf("failed to query monthly burn: %w", err)
	}
	if !avgMonthly.Valid || avgMonthly.Float64 <= 0 {
		return nil, fmt.Errorf("%w: no spending recorded for %q in the last three months", common.ErrNotFound, owner)
	}

	dailyBurn := avgMonthly.Float64 / 30
	days := int(balance / dailyBurn)

	status := "healthy"
	switch {
	case days < 30:
		status = "critical"
	case days < 90:
		status = "warning"
	}

	return &model.RunwayReport{
		DaysRemaining:      days,
		MonthsRemaining:    math.Round(float64(days)/30*10) / 10,
		DailyBurn:          dailyBurn,
		MonthlyBurn:        avgMonthly.Float64,
		CurrentBalance:     balance,
		ProjectedDepletion: time.Now().UTC().AddDate(0, 0, days),
		Status:             status,
	}, nil
}

const selectTransaction = `
	SELECT id, owner, merchant, receipt_date, amount, subtotal, tax,
	       category, subcategory, is_discretionary, recurrence,
	       payment_method, backend, confidence, items, raw_text, created_at
	FROM transactions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var discretionary int
	var recurrence, backend, items string
	err := row.Scan(&txn.ID, &txn.Owner, &txn.Merchant, &txn.Date, &txn.Amount,
		&txn.Subtotal, &txn.Tax, &txn.Category, &txn.Subcategory, &discretionary,
		&recurrence, &txn.PaymentMethod, &backend, &txn.Confidence, &items,
		&txn.RawText, &txn.CreatedAt)
	if err != nil {
		return nil, err
	}
	txn.IsDiscretionary = discretionary != 0
	txn.Recurrence = model.RecurrenceType(recurrence)
	txn.Backend = model.OCRBackend(backend)
	if items != "" {
		if err := json.Unmarshal([]byte(items), &txn.Items); err != nil {
			return nil, fmt.Errorf("corrupt items payload: %w", err)
		}
	}
	return &txn, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
