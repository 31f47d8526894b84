package server

import (
	"github.com/gofiber/fiber/v2"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/auth/jwtware"
	"github.com/goliatone/alumni-api/internal/model"
	"github.com/goliatone/alumni-api/internal/repository"
	"github.com/goliatone/alumni-api/internal/storage"
)

type UsersController struct {
	users  repository.Users
	media  storage.MediaStore
	logger auth.Logger
}

// profile fields a user may edit about themselves
type ProfileUpdatePayload struct {
	Name                string `json:"name"`
	Phone               string `json:"phone"`
	Biography           string `json:"biography"`
	CurrentWorkingPlace string `json:"currentWorkingPlace"`
	Linkedin            string `json:"linkedin"`
	Facebook            string `json:"facebook"`
}

func (p ProfileUpdatePayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Length(1, 200)),
		validation.Field(&p.Biography, validation.Length(0, 2000)),
		validation.Field(&p.CurrentWorkingPlace, validation.Length(0, 300)),
	)
}

type PasswordResetPayload struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (p PasswordResetPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.OldPassword, validation.Required),
		validation.Field(&p.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

// Me returns the profile behind the access token.
func (ctrl *UsersController) Me(c *fiber.Ctx) error {
	user, err := ctrl.currentUser(c)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"user": user.PublicInfo()})
}

// UpdateProfile applies the editable profile fields. Empty payload fields
// leave the stored value alone.
func (ctrl *UsersController) UpdateProfile(c *fiber.Ctx) error {
	payload := ProfileUpdatePayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return badRequest(err.Error())
	}

	user, err := ctrl.currentUser(c)
	if err != nil {
		return err
	}

	applyProfileUpdate(user, payload)

	updated, err := ctrl.users.Update(c.UserContext(), user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"user": updated.PublicInfo()})
}

// UploadProfilePhoto stores the multipart "photo" upload and saves its URL
// on the profile.
func (ctrl *UsersController) UploadProfilePhoto(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return badRequest("multipart field 'photo' is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return badRequest("could not read uploaded file")
	}
	defer f.Close()

	user, err := ctrl.currentUser(c)
	if err != nil {
		return err
	}

	url, err := ctrl.media.Save(
		c.UserContext(),
		"profiles",
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		f,
	)
	if err != nil {
		return err
	}

	user.ProfilePhoto = url

	updated, err := ctrl.users.Update(c.UserContext(), user)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"profilePhoto": updated.ProfilePhoto,
	})
}

// ResetPassword replaces the caller's password after verifying the current one.
func (ctrl *UsersController) ResetPassword(c *fiber.Ctx) error {
	payload := PasswordResetPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return badRequest(err.Error())
	}

	user, err := ctrl.currentUser(c)
	if err != nil {
		return err
	}

	if err := auth.ComparePasswordAndHash(payload.OldPassword, user.PasswordHash); err != nil {
		return auth.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}

	if err := ctrl.users.ResetPassword(c.UserContext(), user.ID, hash); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Password updated",
	})
}

func (ctrl *UsersController) currentUser(c *fiber.Ctx) (*model.User, error) {
	claims, ok := jwtware.ClaimsFromCtx(c)
	if !ok {
		return nil, auth.ErrMissingToken
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, auth.ErrTokenMalformed
	}

	return ctrl.users.FindByID(c.UserContext(), id)
}

func applyProfileUpdate(user *model.User, payload ProfileUpdatePayload) {
	if payload.Name != "" {
		user.Name = payload.Name
	}
	if payload.Phone != "" {
		user.Phone = payload.Phone
	}
	if payload.Biography != "" {
		user.Biography = payload.Biography
	}
	if payload.CurrentWorkingPlace != "" {
		user.CurrentWorkingPlace = payload.CurrentWorkingPlace
	}
	if payload.Linkedin != "" {
		user.Linkedin = payload.Linkedin
	}
	if payload.Facebook != "" {
		user.Facebook = payload.Facebook
	}
}
