package server

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/auth/jwtware"
	"github.com/goliatone/alumni-api/internal/model"
	"github.com/goliatone/alumni-api/internal/repository"
	"github.com/goliatone/alumni-api/internal/storage"
	"github.com/goliatone/alumni-api/internal/visitors"
)

type ContentController struct {
	repo     repository.Manager
	media    storage.MediaStore
	visitors visitors.Counter
	logger   auth.Logger
}

type NewsPayload struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl"`
}

func (p NewsPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&p.Content, validation.Required),
		validation.Field(&p.ImageURL, is.URL),
	)
}

type EventPayload struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Organizer string `json:"organizer"`
	EventDate string `json:"event_date"`
	EventTime string `json:"event_time"`
	ImageURL  string `json:"imageUrl"`
}

func (p EventPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&p.Content, validation.Required),
		validation.Field(&p.EventDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&p.ImageURL, is.URL),
	)
}

type PostPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (p PostPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&p.Content, validation.Required),
	)
}

type FeedbackPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (p FeedbackPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Message, validation.Required, validation.Length(1, 3000)),
	)
}

func (ctrl *ContentController) ListNews(c *fiber.Ctx) error {
	records, err := ctrl.repo.News().ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"news": records})
}

func (ctrl *ContentController) GetNews(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	record, err := ctrl.repo.News().Find(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"news": record})
}

func (ctrl *ContentController) CreateNews(c *fiber.Ctx) error {
	payload := NewsPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return badRequest(err.Error())
	}

	record, err := ctrl.repo.News().Create(c.UserContext(), &model.News{
		ID:       uuid.New(),
		Title:    payload.Title,
		Content:  payload.Content,
		ImageURL: payload.ImageURL,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"news": record})
}

func (ctrl *ContentController) DeleteNews(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := ctrl.repo.News().Remove(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "News deleted"})
}

func (ctrl *ContentController) ListEvents(c *fiber.Ctx) error {
	records, err := ctrl.repo.Events().ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"events": records})
}

func (ctrl *ContentController) GetEvent(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	record, err := ctrl.repo.Events().Find(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"event": record})
}

func (ctrl *ContentController) CreateEvent(c *fiber.Ctx) error {
	payload := EventPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return badRequest(err.Error())
	}

	record, err := ctrl.repo.Events().Create(c.UserContext(), &model.Event{
		ID:        uuid.New(),
		Title:     payload.Title,
		Content:   payload.Content,
		Organizer: payload.Organizer,
		EventDate: payload.EventDate,
		EventTime: payload.EventTime,
		ImageURL:  payload.ImageURL,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"event": record})
}

func (ctrl *ContentController) DeleteEvent(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := ctrl.repo.Events().Remove(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Event deleted"})
}

func (ctrl *ContentController) ListPosts(c *fiber.Ctx) error {
	records, err := ctrl.repo.Posts().ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"posts": records})
}

// CreatePost stores a post owned by the authenticated user.
func (ctrl *ContentController) CreatePost(c *fiber.Ctx) error {
	claims, ok := jwtware.ClaimsFromCtx(c)
	if !ok {
		return auth.ErrMissingToken
	}

	authorID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return auth.ErrTokenMalformed
	}

	payload := PostPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return badRequest(err.Error())
	}

	record, err := ctrl.repo.Posts().Create(c.UserContext(), &model.Post{
		ID:       uuid.New(),
		AuthorID: authorID,
		Title:    payload.Title,
		Content:  payload.Content,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": record})
}

func (ctrl *ContentController) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := ctrl.repo.Posts().Remove(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

func (ctrl *ContentController) ListPhotos(c *fiber.Ctx) error {
	records, err := ctrl.repo.Photos().ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"images": records})
}

// UploadPhoto stores the multipart "image" upload in the media store and
// records its URL in the gallery.
func (ctrl *ContentController) UploadPhoto(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return badRequest("multipart field 'image' is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return badRequest("could not read uploaded file")
	}
	defer f.Close()

	url, err := ctrl.media.Save(
		c.UserContext(),
		"gallery",
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		f,
	)
	if err != nil {
		return err
	}

	record, err := ctrl.repo.Photos().Create(c.UserContext(), &model.Photo{
		ID:  uuid.New(),
		URL: url,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"image": record})
}

func (ctrl *ContentController) DeletePhoto(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := ctrl.repo.Photos().Remove(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Image deleted"})
}

func (ctrl *ContentController) CreateFeedback(c *fiber.Ctx) error {
	payload := FeedbackPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest("invalid request body")
	}
	if err := payload.Validate(); err != nil {
		return badRequest(err.Error())
	}

	_, err := ctrl.repo.Feedback().Create(c.UserContext(), &model.Feedback{
		ID:      uuid.New(),
		Name:    payload.Name,
		Email:   payload.Email,
		Message: payload.Message,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Feedback received"})
}

func (ctrl *ContentController) ListFeedback(c *fiber.Ctx) error {
	records, err := ctrl.repo.Feedback().ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"feedback": records})
}

// ListAlumni serves the public directory, optionally filtered by batch and branch.
func (ctrl *ContentController) ListAlumni(c *fiber.Ctx) error {
	batch := c.QueryInt("batch")
	branch := c.Query("branch")

	records, err := ctrl.repo.Alumni().ListByCohort(c.UserContext(), batch, branch)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"alumni": records})
}

// CountVisit bumps the visitor counter and returns the new total.
func (ctrl *ContentController) CountVisit(c *fiber.Ctx) error {
	count, err := ctrl.visitors.Increment(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"visitors": count})
}

func (ctrl *ContentController) Visitors(c *fiber.Ctx) error {
	count, err := ctrl.visitors.Current(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"visitors": count})
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, badRequest("invalid id")
	}
	return id, nil
}
