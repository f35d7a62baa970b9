package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"posadmin/internal/apperr"
	"posadmin/internal/export"
	"posadmin/internal/model"
	"posadmin/internal/query"
	"posadmin/internal/response"
	"posadmin/internal/service"
	serviceMocks "posadmin/internal/service/mocks"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body response.Envelope[any]
		json.NewDecoder(resp.Body).Decode(&body)
		assert.False(t, body.IsSuccess)
		assert.Equal(t, response.MsgFailed, body.Message)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListUsers(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Get("/api/users", ListUsers(mockSvc))

	t.Run("success", func(t *testing.T) {
		page := &query.Page[service.UserListItem]{
			Items: []service.UserListItem{{UserID: 1, UserName: "alice", StateUser: "Active"}},
			Total: 7,
		}
		mockSvc.On("List", mock.Anything, mock.MatchedBy(func(spec query.Spec) bool {
			return spec.TextField == service.UserTextFieldEmail &&
				spec.Text == "alice" &&
				spec.Desc &&
				spec.Page == 2 &&
				!spec.Export
		})).Return(page, nil).Once()

		req := httptest.NewRequest(http.MethodGet,
			"/api/users?numFilter=2&textFilter=alice&sort=email&order=desc&page=2", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body response.Envelope[[]service.UserListItem]
		json.NewDecoder(resp.Body).Decode(&body)
		assert.True(t, body.IsSuccess)
		assert.Equal(t, response.MsgQuery, body.Message)
		require.NotNil(t, body.TotalRecords)
		assert.Equal(t, 7, *body.TotalRecords)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "alice", body.Data[0].UserName)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty result message", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, mock.Anything).
			Return(&query.Page[service.UserListItem]{Items: []service.UserListItem{}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		resp, _ := app.Test(req)

		var body response.Envelope[[]service.UserListItem]
		json.NewDecoder(resp.Body).Decode(&body)
		assert.True(t, body.IsSuccess)
		assert.Equal(t, response.MsgQueryEmpty, body.Message)
	})

	t.Run("download returns a spreadsheet", func(t *testing.T) {
		page := &query.Page[service.UserListItem]{
			Items: []service.UserListItem{{UserID: 1, UserName: "alice", AuditCreateDate: time.Now()}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, mock.MatchedBy(func(spec query.Spec) bool {
			return spec.Export
		})).Return(page, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/users?download=true", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, export.ContentTypeExcel, resp.Header.Get(fiber.HeaderContentType))
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "users.xlsx")
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown sort is a validation failure", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, mock.Anything).
			Return(nil, apperr.Errorf(apperr.Validation, "query.order", "unknown sort field %q", "bogus")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/users?sort=bogus", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body response.Envelope[any]
		json.NewDecoder(resp.Body).Decode(&body)
		assert.False(t, body.IsSuccess)
		assert.Equal(t, response.MsgValidation, body.Message)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, mock.Anything).
			Return(nil, apperr.Errorf(apperr.Persistence, "user.list", "db down")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body response.Envelope[any]
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, response.MsgFailed, body.Message)
	})
}

func TestListSelectUsers(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Get("/api/users/select", ListSelectUsers(mockSvc))

	mockSvc.On("ListSelect", mock.Anything).
		Return([]service.SelectOption{{ID: 1, Description: "alice"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/users/select", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body response.Envelope[[]service.SelectOption]
	json.NewDecoder(resp.Body).Decode(&body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "alice", body.Data[0].Description)
}

func TestGetUser(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Get("/api/users/:id", GetUser(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("GetByID", mock.Anything, 5).
			Return(&service.UserDetail{UserID: 5, UserName: "alice"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/users/5", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body response.Envelope[service.UserDetail]
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, 5, body.Data.UserID)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body response.Envelope[any]
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, response.MsgValidation, body.Message)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("GetByID", mock.Anything, 9).
			Return(nil, apperr.Errorf(apperr.NotFound, "user.byid", "no row")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/users/9", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var body response.Envelope[any]
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, response.MsgNotFound, body.Message)
	})
}

func userForm(t *testing.T, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.WriteField("userName", "alice")
	writer.WriteField("email", "alice@example.com")
	writer.WriteField("password", "s3cret")
	writer.WriteField("authType", "local")
	writer.WriteField("state", "1")
	if withImage {
		part, _ := writer.CreateFormFile("image", "avatar.png")
		part.Write([]byte("png-bytes"))
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestRegisterUser(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Post("/api/users", RegisterUser(mockSvc))

	t.Run("success with image", func(t *testing.T) {
		mockSvc.On("Register", mock.Anything, mock.MatchedBy(func(req service.UserRequest) bool {
			return req.UserName == "alice" &&
				req.Email == "alice@example.com" &&
				req.State == 1 &&
				req.Image != nil &&
				req.Image.Filename == "avatar.png"
		})).Return(nil).Once()

		body, ct := userForm(t, true)
		req := httptest.NewRequest(http.MethodPost, "/api/users", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var env response.Envelope[any]
		json.NewDecoder(resp.Body).Decode(&env)
		assert.True(t, env.IsSuccess)
		assert.Equal(t, response.MsgSaved, env.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("image is optional", func(t *testing.T) {
		mockSvc.On("Register", mock.Anything, mock.MatchedBy(func(req service.UserRequest) bool {
			return req.Image == nil
		})).Return(nil).Once()

		body, ct := userForm(t, false)
		req := httptest.NewRequest(http.MethodPost, "/api/users", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service validation error", func(t *testing.T) {
		mockSvc.On("Register", mock.Anything, mock.Anything).
			Return(apperr.Errorf(apperr.Validation, "user.register", "missing fields")).Once()

		body, ct := userForm(t, false)
		req := httptest.NewRequest(http.MethodPost, "/api/users", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestEditUser(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Put("/api/users/:id", EditUser(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Edit", mock.Anything, 3, mock.Anything).Return(nil).Once()

		body, ct := userForm(t, false)
		req := httptest.NewRequest(http.MethodPut, "/api/users/3", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var env response.Envelope[any]
		json.NewDecoder(resp.Body).Decode(&env)
		assert.Equal(t, response.MsgUpdated, env.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		body, ct := userForm(t, false)
		req := httptest.NewRequest(http.MethodPut, "/api/users/abc", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRemoveUser(t *testing.T) {
	mockSvc := new(serviceMocks.MockUserService)
	app := fiber.New()
	app.Delete("/api/users/:id", RemoveUser(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Remove", mock.Anything, 4).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/users/4", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var env response.Envelope[any]
		json.NewDecoder(resp.Body).Decode(&env)
		assert.Equal(t, response.MsgDeleted, env.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Remove", mock.Anything, 9).
			Return(apperr.Errorf(apperr.NotFound, "user.remove", "no row")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/users/9", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListSales(t *testing.T) {
	mockSvc := new(serviceMocks.MockSaleService)
	app := fiber.New()
	app.Get("/api/sales", ListSales(mockSvc))

	t.Run("success", func(t *testing.T) {
		page := &query.Page[service.SaleListItem]{
			Items: []service.SaleListItem{{SaleID: 1, VoucherNumber: "B001-1", StateSale: "Issued"}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, mock.Anything).Return(page, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/sales", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body response.Envelope[[]service.SaleListItem]
		json.NewDecoder(resp.Body).Decode(&body)
		require.Len(t, body.Data, 1)
		assert.Equal(t, "B001-1", body.Data[0].VoucherNumber)
	})

	t.Run("download returns a spreadsheet", func(t *testing.T) {
		page := &query.Page[service.SaleListItem]{
			Items: []service.SaleListItem{{SaleID: 1, VoucherNumber: "B001-1", AuditCreateDate: time.Now()}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, mock.MatchedBy(func(spec query.Spec) bool {
			return spec.Export
		})).Return(page, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/sales?download=true", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, export.ContentTypeExcel, resp.Header.Get(fiber.HeaderContentType))
	})
}

func TestRegisterSale(t *testing.T) {
	mockSvc := new(serviceMocks.MockSaleService)
	app := fiber.New()
	app.Post("/api/sales", RegisterSale(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Register", mock.Anything, mock.MatchedBy(func(req service.SaleRequest) bool {
			return req.VoucherNumber == "B001-9" && len(req.Items) == 1
		})).Return(nil).Once()

		payload, _ := json.Marshal(service.SaleRequest{
			VoucherNumber: "B001-9",
			Items:         []service.SaleItemRequest{{Code: "P-1", Product: "Mouse", UnitPrice: 35, Quantity: 2}},
		})
		req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewReader(payload))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCancelSale(t *testing.T) {
	mockSvc := new(serviceMocks.MockSaleService)
	app := fiber.New()
	app.Put("/api/sales/:id/cancel", CancelSale(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Cancel", mock.Anything, 2).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/sales/2/cancel", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var env response.Envelope[any]
		json.NewDecoder(resp.Body).Decode(&env)
		assert.Equal(t, response.MsgUpdated, env.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Cancel", mock.Anything, 9).
			Return(apperr.Errorf(apperr.NotFound, "sale.cancel", "no row")).Once()

		req := httptest.NewRequest(http.MethodPut, "/api/sales/9/cancel", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestExportSaleInvoice(t *testing.T) {
	mockSvc := new(serviceMocks.MockSaleService)
	app := fiber.New()
	app.Get("/api/sales/:id/invoice", ExportSaleInvoice(mockSvc))

	mockSvc.On("GetByID", mock.Anything, 1).Return(&service.SaleDetailResponse{
		SaleID:        1,
		VoucherNumber: "B001-1",
		Client:        "ACME",
		SubTotal:      100,
		Tax:           18,
		TotalAmount:   118,
		Details:       []model.SaleDetail{{Code: "P-1", Product: "Mouse", UnitPrice: 35, Quantity: 2, Total: 70}},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/sales/1/invoice", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentTypePDF, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "B001-1.pdf")
	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	RegisterRoutes(app, nil, new(serviceMocks.MockUserService), new(serviceMocks.MockSaleService))

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var env response.Envelope[any]
		json.NewDecoder(resp.Body).Decode(&env)
		assert.False(t, env.IsSuccess)
		assert.Equal(t, response.MsgNotFound, env.Message)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

		var env response.Envelope[any]
		json.NewDecoder(resp.Body).Decode(&env)
		assert.Equal(t, response.MsgNotAllowed, env.Message)
	})
}
