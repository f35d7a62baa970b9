package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"posadmin/internal/apperr"
	"posadmin/internal/export"
	"posadmin/internal/response"
	"posadmin/internal/service"
	"posadmin/internal/storage"
)

// ListUsers serves the paged user listing, or the full filtered set as a
// spreadsheet when download=true.
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		spec, download := parseFilterSpec(c)

		page, err := svc.List(c.UserContext(), spec)
		if err != nil {
			return writeFailure(c, err)
		}

		if download {
			data, err := userSpreadsheet(page.Items)
			if err != nil {
				return writeFailure(c, apperr.E(apperr.Unexpected, "user.export", err))
			}
			c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.xlsx"`)
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

// ListSelectUsers serves the active-users dropdown source.
func ListSelectUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		opts, err := svc.ListSelect(c.UserContext())
		if err != nil {
			return writeFailure(c, err)
		}
		msg := response.MsgQuery
		if len(opts) == 0 {
			msg = response.MsgQueryEmpty
		}
		return c.JSON(response.OK(opts, msg))
	}
}

// GetUser serves a single user by numeric id.
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return validationFailure(c)
		}
		u, err := svc.GetByID(c.UserContext(), id)
		if err != nil {
			return writeFailure(c, err)
		}
		return c.JSON(response.OK(u, response.MsgQuery))
	}
}

// RegisterUser creates a user from a multipart form. The profile image
// travels in the optional "image" file field.
func RegisterUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, closeUpload, err := parseUserForm(c)
		if err != nil {
			return validationFailure(c)
		}
		defer closeUpload()

		if err := svc.Register(c.UserContext(), req); err != nil {
			return writeFailure(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(response.OK[any](nil, response.MsgSaved))
	}
}

// EditUser updates a user from a multipart form. An empty password field
// keeps the stored credential; a new image replaces the previous asset.
func EditUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return validationFailure(c)
		}

		req, closeUpload, err := parseUserForm(c)
		if err != nil {
			return validationFailure(c)
		}
		defer closeUpload()

		if err := svc.Edit(c.UserContext(), id, req); err != nil {
			return writeFailure(c, err)
		}
		return c.JSON(response.OK[any](nil, response.MsgUpdated))
	}
}

// RemoveUser deletes a user and its profile image.
func RemoveUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return validationFailure(c)
		}
		if err := svc.Remove(c.UserContext(), id); err != nil {
			return writeFailure(c, err)
		}
		return c.JSON(response.OK[any](nil, response.MsgDeleted))
	}
}

// parseUserForm reads the shared write-path form fields. The returned
// cleanup closes the upload stream and is safe to call when no file came.
func parseUserForm(c *fiber.Ctx) (service.UserRequest, func(), error) {
	req := service.UserRequest{
		UserName: c.FormValue("userName"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		AuthType: c.FormValue("authType"),
	}
	if state, err := strconv.Atoi(c.FormValue("state")); err == nil {
		req.State = state
	}

	closeUpload := func() {}
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return service.UserRequest{}, closeUpload, err
		}
		closeUpload = func() { _ = f.Close() }

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		req.Image = &storage.Upload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
		}
	}
	return req, closeUpload, nil
}

func userSpreadsheet(items []service.UserListItem) ([]byte, error) {
	columns := []string{"UserId", "UserName", "Email", "AuthType", "State", "CreatedAt"}
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{
			it.UserID,
			it.UserName,
			it.Email,
			it.AuthType,
			it.StateUser,
			it.AuditCreateDate.Format("2006-01-02 15:04:05"),
		})
	}
	return export.Spreadsheet("Users", columns, rows)
}
