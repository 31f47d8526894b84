package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goliatone/alumni-api/internal/approval"
	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/importer"
	"github.com/goliatone/alumni-api/internal/repository"
)

type AdminController struct {
	users     repository.Users
	approve   *approval.ApproveUserHandler
	reject    *approval.RejectUserHandler
	admins    *approval.CreateAdminHandler
	importer  *approval.BulkImportHandler
	broadcast *approval.BroadcastHandler
	logger    auth.Logger
}

// PendingUsers lists registrations waiting for a decision, oldest first.
func (ctrl *AdminController) PendingUsers(c *fiber.Ctx) error {
	users, err := ctrl.users.ListPending(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, u.PublicInfo())
	}

	return c.JSON(fiber.Map{"users": out})
}

// ApprovedUsers lists verified accounts, optionally filtered by batch and branch.
func (ctrl *AdminController) ApprovedUsers(c *fiber.Ctx) error {
	batch := c.QueryInt("batch")
	branch := c.Query("branch")

	users, err := ctrl.users.ListVerified(c.UserContext(), batch, branch)
	if err != nil {
		return err
	}

	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, u.PublicInfo())
	}

	return c.JSON(fiber.Map{"users": out})
}

func (ctrl *AdminController) Approve(c *fiber.Ctx) error {
	payload := approval.ApproveUserMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}

	user, err := ctrl.approve.Execute(c.UserContext(), payload)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "User approved, credentials sent by mail",
		"user":    user.PublicInfo(),
	})
}

func (ctrl *AdminController) Reject(c *fiber.Ctx) error {
	payload := approval.RejectUserMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}

	if err := ctrl.reject.Execute(c.UserContext(), payload); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Registration rejected",
	})
}

func (ctrl *AdminController) CreateAdmin(c *fiber.Ctx) error {
	payload := approval.CreateAdminMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}

	user, err := ctrl.admins.Execute(c.UserContext(), payload)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Admin account created",
		"user":    user.PublicInfo(),
	})
}

// BulkAddAlumni takes a multipart upload named "file" holding the roster CSV.
// The batch is inserted atomically; any bad row rejects the whole file.
func (ctrl *AdminController) BulkAddAlumni(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest("multipart field 'file' is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return badRequest("could not read uploaded file")
	}
	defer f.Close()

	records, err := importer.ParseAlumniCSV(f)
	if err != nil {
		return err
	}

	count, err := ctrl.importer.Execute(c.UserContext(), approval.BulkImportMessage{Records: records})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Alumni imported",
		"count":   count,
	})
}

// SendEmails broadcasts a message to every verified alumnus, optionally
// narrowed by batch or branch.
func (ctrl *AdminController) SendEmails(c *fiber.Ctx) error {
	payload := approval.BroadcastMessage{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}

	count, err := ctrl.broadcast.Execute(c.UserContext(), payload)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":    "Broadcast sent",
		"recipients": count,
	})
}
