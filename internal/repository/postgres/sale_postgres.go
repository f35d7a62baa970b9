package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"posadmin/internal/model"
	"posadmin/internal/repository"
)

// SalePostgres is a PostgreSQL implementation of repository.SaleRepository.
type SalePostgres struct {
	db *sql.DB
}

// NewSalePostgres creates a new SalePostgres repository.
func NewSalePostgres(db *sql.DB) *SalePostgres {
	return &SalePostgres{db: db}
}

var _ repository.SaleRepository = (*SalePostgres)(nil)

const saleColumns = `id, voucher_number, voucher_description, client, warehouse, observation, sub_total, tax, total_amount, state, created_at`

func scanSale(row interface{ Scan(...any) error }) (*model.Sale, error) {
	var s model.Sale
	if err := row.Scan(
		&s.ID,
		&s.VoucherNumber,
		&s.VoucherDescription,
		&s.Client,
		&s.Warehouse,
		&s.Observation,
		&s.SubTotal,
		&s.Tax,
		&s.TotalAmount,
		&s.State,
		&s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts the sale and its line items inside one transaction.
func (r *SalePostgres) Create(ctx context.Context, s *model.Sale) (*model.Sale, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const qSale = `
		INSERT INTO sales (voucher_number, voucher_description, client, warehouse, observation, sub_total, tax, total_amount, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + saleColumns
	row := tx.QueryRowContext(ctx, qSale,
		s.VoucherNumber,
		s.VoucherDescription,
		s.Client,
		s.Warehouse,
		s.Observation,
		s.SubTotal,
		s.Tax,
		s.TotalAmount,
		s.State,
		s.CreatedAt,
	)
	stored, err := scanSale(row)
	if err != nil {
		return nil, err
	}

	const qDetail = `
		INSERT INTO sale_details (sale_id, code, product, unit_price, quantity, total)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, d := range s.Details {
		if _, err := tx.ExecContext(ctx, qDetail, stored.ID, d.Code, d.Product, d.UnitPrice, d.Quantity, d.Total); err != nil {
			return nil, fmt.Errorf("insert sale detail: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	stored.Details = s.Details
	return stored, nil
}

// FindByID fetches a sale together with its line items.
func (r *SalePostgres) FindByID(ctx context.Context, id int) (*model.Sale, error) {
	const q = `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	s, err := scanSale(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}

	const qDetails = `
		SELECT code, product, unit_price, quantity, total
		FROM sale_details
		WHERE sale_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, qDetails, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d model.SaleDetail
		if err := rows.Scan(&d.Code, &d.Product, &d.UnitPrice, &d.Quantity, &d.Total); err != nil {
			return nil, err
		}
		s.Details = append(s.Details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// ListAll returns every sale ordered by identity, without line items.
func (r *SalePostgres) ListAll(ctx context.Context) ([]model.Sale, error) {
	const q = `SELECT ` + saleColumns + ` FROM sales ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]model.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sales, nil
}

// UpdateState sets the state of a sale; sql.ErrNoRows when the row is gone.
func (r *SalePostgres) UpdateState(ctx context.Context, id, state int) error {
	const q = `UPDATE sales SET state = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, state, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
