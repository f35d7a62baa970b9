package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"posadmin/internal/apperr"
	"posadmin/internal/export"
	"posadmin/internal/response"
	"posadmin/internal/service"
)

// ListSales serves the paged sale listing, or the full filtered set as a
// spreadsheet when download=true.
func ListSales(svc service.SaleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		spec, download := parseFilterSpec(c)

		page, err := svc.List(c.UserContext(), spec)
		if err != nil {
			return writeFailure(c, err)
		}

		if download {
			data, err := saleSpreadsheet(page.Items)
			if err != nil {
				return writeFailure(c, apperr.E(apperr.Unexpected, "sale.export", err))
			}
			c.Set(fiber.HeaderContentDisposition, `attachment; filename="sales.xlsx"`)
			c.Set(fiber.HeaderContentType, export.ContentTypeExcel)
			return c.Send(data)
		}

		msg := response.MsgQuery
		if len(page.Items) == 0 {
			msg = response.MsgQueryEmpty
		}
		return c.JSON(response.OKCount(page.Items, msg, page.Total))
	}
}

// GetSale serves a single sale with its line items.
func GetSale(svc service.SaleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return validationFailure(c)
		}
		sale, err := svc.GetByID(c.UserContext(), id)
		if err != nil {
			return writeFailure(c, err)
		}
		return c.JSON(response.OK(sale, response.MsgQuery))
	}
}

// RegisterSale creates a sale from a JSON body; totals are computed
// server-side.
func RegisterSale(svc service.SaleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.SaleRequest
		if err := c.BodyParser(&req); err != nil {
			return validationFailure(c)
		}
		if err := svc.Register(c.UserContext(), req); err != nil {
			return writeFailure(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(response.OK[any](nil, response.MsgSaved))
	}
}

// CancelSale voids a sale. The record stays for audit; only its state flips.
func CancelSale(svc service.SaleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return validationFailure(c)
		}
		if err := svc.Cancel(c.UserContext(), id); err != nil {
			return writeFailure(c, err)
		}
		return c.JSON(response.OK[any](nil, response.MsgUpdated))
	}
}

// ExportSaleInvoice renders one sale as a PDF invoice.
func ExportSaleInvoice(svc service.SaleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return validationFailure(c)
		}
		sale, err := svc.GetByID(c.UserContext(), id)
		if err != nil {
			return writeFailure(c, err)
		}

		inv := export.Invoice{
			VoucherNumber:      sale.VoucherNumber,
			VoucherDescription: sale.VoucherDescription,
			Client:             sale.Client,
			Warehouse:          sale.Warehouse,
			Observation:        sale.Observation,
			DateOfSale:         sale.AuditCreateDate,
			SubTotal:           sale.SubTotal,
			Tax:                sale.Tax,
			TotalAmount:        sale.TotalAmount,
		}
		for _, d := range sale.Details {
			inv.Lines = append(inv.Lines, export.InvoiceLine{
				Code:      d.Code,
				Product:   d.Product,
				UnitPrice: d.UnitPrice,
				Quantity:  d.Quantity,
				Total:     d.Total,
			})
		}

		data, err := export.InvoicePDF(inv)
		if err != nil {
			return writeFailure(c, apperr.E(apperr.Unexpected, "sale.invoice", err))
		}
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", sale.VoucherNumber+".pdf"))
		c.Set(fiber.HeaderContentType, export.ContentTypePDF)
		return c.Send(data)
	}
}

func saleSpreadsheet(items []service.SaleListItem) ([]byte, error) {
	columns := []string{"SaleId", "VoucherNumber", "Client", "Warehouse", "TotalAmount", "State", "CreatedAt"}
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{
			it.SaleID,
			it.VoucherNumber,
			it.Client,
			it.Warehouse,
			it.TotalAmount,
			it.StateSale,
			it.AuditCreateDate.Format("2006-01-02 15:04:05"),
		})
	}
	return export.Spreadsheet("Sales", columns, rows)
}
