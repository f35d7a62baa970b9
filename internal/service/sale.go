package service

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"posadmin/internal/apperr"
	"posadmin/internal/model"
	"posadmin/internal/query"
	"posadmin/internal/repository"
)

// Searchable column selectors accepted by the sale listing.
const (
	SaleTextFieldVoucherNumber = 1
	SaleTextFieldClient        = 2
)

// TaxRate applied to the subtotal of a registered sale.
const TaxRate = 0.18

// SaleListItem is the row shape of the sale listing and spreadsheet export.
type SaleListItem struct {
	SaleID          int       `json:"saleId"`
	VoucherNumber   string    `json:"voucherNumber"`
	Client          string    `json:"client"`
	Warehouse       string    `json:"warehouse"`
	TotalAmount     float64   `json:"totalAmount"`
	AuditCreateDate time.Time `json:"auditCreateDate"`
	State           int       `json:"state"`
	StateSale       string    `json:"stateSale"`
}

// SaleDetailResponse is the single-sale shape, also fed to the invoice
// document export.
type SaleDetailResponse struct {
	SaleID             int                `json:"saleId"`
	VoucherNumber      string             `json:"voucherNumber"`
	VoucherDescription string             `json:"voucherDescription"`
	Client             string             `json:"client"`
	Warehouse          string             `json:"warehouse"`
	Observation        string             `json:"observation"`
	SubTotal           float64            `json:"subTotal"`
	Tax                float64            `json:"tax"`
	TotalAmount        float64            `json:"totalAmount"`
	AuditCreateDate    time.Time          `json:"auditCreateDate"`
	Details            []model.SaleDetail `json:"details"`
}

// SaleItemRequest is one incoming line item.
type SaleItemRequest struct {
	Code      string  `json:"code"`
	Product   string  `json:"product"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// SaleRequest carries the Register input. Totals are computed server-side.
type SaleRequest struct {
	VoucherNumber      string            `json:"voucherNumber"`
	VoucherDescription string            `json:"voucherDescription"`
	Client             string            `json:"client"`
	Warehouse          string            `json:"warehouse"`
	Observation        string            `json:"observation"`
	Items              []SaleItemRequest `json:"items"`
}

// SaleService exposes the sale use cases. Sales carry no asset, so the
// lifecycle is repository-only.
type SaleService interface {
	List(ctx context.Context, spec query.Spec) (*query.Page[SaleListItem], error)
	GetByID(ctx context.Context, id int) (*SaleDetailResponse, error)
	Register(ctx context.Context, req SaleRequest) error
	Cancel(ctx context.Context, id int) error
}

type saleService struct {
	repo repository.SaleRepository
}

// NewSaleService constructs a SaleService.
func NewSaleService(repo repository.SaleRepository) SaleService {
	return &saleService{repo: repo}
}

var saleFields = query.Fields[model.Sale]{
	ID: func(s model.Sale) int { return s.ID },
	Text: map[int]func(model.Sale) string{
		SaleTextFieldVoucherNumber: func(s model.Sale) string { return s.VoucherNumber },
		SaleTextFieldClient:        func(s model.Sale) string { return s.Client },
	},
	State:     func(s model.Sale) int { return s.State },
	CreatedAt: func(s model.Sale) time.Time { return s.CreatedAt },
	Sort: map[string]query.Comparator[model.Sale]{
		"voucherNumber":   func(a, b model.Sale) int { return cmp.Compare(a.VoucherNumber, b.VoucherNumber) },
		"client":          func(a, b model.Sale) int { return cmp.Compare(a.Client, b.Client) },
		"totalAmount":     func(a, b model.Sale) int { return cmp.Compare(a.TotalAmount, b.TotalAmount) },
		"auditCreateDate": func(a, b model.Sale) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
}

func toSaleListItem(s model.Sale) SaleListItem {
	return SaleListItem{
		SaleID:          s.ID,
		VoucherNumber:   s.VoucherNumber,
		Client:          s.Client,
		Warehouse:       s.Warehouse,
		TotalAmount:     s.TotalAmount,
		AuditCreateDate: s.CreatedAt,
		State:           s.State,
		StateSale:       model.SaleStateLabel(s.State),
	}
}

func (s *saleService) List(ctx context.Context, spec query.Spec) (*query.Page[SaleListItem], error) {
	const op = "sale.list"
	sales, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.E(apperr.Persistence, op, err)
	}
	return query.Execute(spec, sales, saleFields, toSaleListItem)
}

func (s *saleService) GetByID(ctx context.Context, id int) (*SaleDetailResponse, error) {
	const op = "sale.byid"
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.E(apperr.NotFound, op, err)
		}
		return nil, apperr.E(apperr.Persistence, op, err)
	}
	return &SaleDetailResponse{
		SaleID:             sale.ID,
		VoucherNumber:      sale.VoucherNumber,
		VoucherDescription: sale.VoucherDescription,
		Client:             sale.Client,
		Warehouse:          sale.Warehouse,
		Observation:        sale.Observation,
		SubTotal:           sale.SubTotal,
		Tax:                sale.Tax,
		TotalAmount:        sale.TotalAmount,
		AuditCreateDate:    sale.CreatedAt,
		Details:            sale.Details,
	}, nil
}

func (s *saleService) Register(ctx context.Context, req SaleRequest) error {
	const op = "sale.register"
	if req.VoucherNumber == "" || len(req.Items) == 0 {
		return apperr.Errorf(apperr.Validation, op, "voucherNumber and at least one item are required")
	}

	sale := model.Sale{
		VoucherNumber:      req.VoucherNumber,
		VoucherDescription: req.VoucherDescription,
		Client:             req.Client,
		Warehouse:          req.Warehouse,
		Observation:        req.Observation,
		State:              model.StateActive,
		CreatedAt:          time.Now().UTC(),
	}

	var subTotal float64
	for _, it := range req.Items {
		if it.Quantity <= 0 || it.UnitPrice < 0 {
			return apperr.Errorf(apperr.Validation, op, "item %q has invalid quantity or price", it.Code)
		}
		lineTotal := round2(it.UnitPrice * float64(it.Quantity))
		subTotal += lineTotal
		sale.Details = append(sale.Details, model.SaleDetail{
			Code:      it.Code,
			Product:   it.Product,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Total:     lineTotal,
		})
	}
	sale.SubTotal = round2(subTotal)
	sale.Tax = round2(subTotal * TaxRate)
	sale.TotalAmount = round2(sale.SubTotal + sale.Tax)

	if err := ctx.Err(); err != nil {
		return apperr.E(apperr.Unexpected, op, err)
	}
	if _, err := s.repo.Create(ctx, &sale); err != nil {
		return apperr.E(apperr.Persistence, op, err)
	}
	return nil
}

func (s *saleService) Cancel(ctx context.Context, id int) error {
	const op = "sale.cancel"
	if err := s.repo.UpdateState(ctx, id, model.StateInactive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.E(apperr.NotFound, op, err)
		}
		return apperr.E(apperr.Persistence, op, err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
