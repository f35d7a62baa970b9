package model

import "time"

// Sale is a completed point-of-sale transaction. Details are loaded only
// when a single sale is fetched; listings leave them empty.
type Sale struct {
	ID                 int          `json:"id"`
	VoucherNumber      string       `json:"voucherNumber"`
	VoucherDescription string       `json:"voucherDescription"`
	Client             string       `json:"client"`
	Warehouse          string       `json:"warehouse"`
	Observation        string       `json:"observation"`
	SubTotal           float64      `json:"subTotal"`
	Tax                float64      `json:"tax"`
	TotalAmount        float64      `json:"totalAmount"`
	State              int          `json:"state"`
	CreatedAt          time.Time    `json:"createdAt"`
	Details            []SaleDetail `json:"details,omitempty"`
}

// SaleDetail is one line item of a sale.
type SaleDetail struct {
	Code      string  `json:"code"`
	Product   string  `json:"product"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}
