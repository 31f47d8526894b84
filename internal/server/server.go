// Package server mounts the HTTP surface: fiber app, middleware chain,
// route table, and the controllers behind it.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/alumni-api/internal/approval"
	"github.com/goliatone/alumni-api/internal/auth"
	"github.com/goliatone/alumni-api/internal/auth/jwtware"
	"github.com/goliatone/alumni-api/internal/config"
	"github.com/goliatone/alumni-api/internal/notify"
	"github.com/goliatone/alumni-api/internal/repository"
	"github.com/goliatone/alumni-api/internal/storage"
	"github.com/goliatone/alumni-api/internal/visitors"
)

// Server owns the fiber app and the wired controllers.
type Server struct {
	app    *fiber.App
	cfg    *config.Config
	logger auth.Logger
}

// Deps carries everything the route table needs.
type Deps struct {
	Config        *config.Config
	Repo          repository.Manager
	Authenticator *auth.Auther
	Notifier      notify.Notifier
	Media         storage.MediaStore
	Visitors      visitors.Counter
	Logger        auth.Logger
}

func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	app := fiber.New(fiber.Config{
		AppName:      "alumni-api",
		ErrorHandler: errorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CORSAllowedOrigins,
		AllowCredentials: deps.Config.CORSAllowedOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        deps.Config.RateLimitMax,
		Expiration: deps.Config.RateLimitWindow,
	}))

	s := &Server{
		app:    app,
		cfg:    deps.Config,
		logger: logger,
	}

	s.registerRoutes(deps)

	return s
}

// App exposes the fiber instance, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	return s.app.Listen(":" + s.cfg.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes(deps Deps) {
	machine := approval.NewStateMachine(approval.WithStateMachineLogger(s.logger))

	authCtrl := &AuthController{
		cfg:      s.cfg,
		auther:   deps.Authenticator,
		register: approval.NewRegisterUserHandler(deps.Repo).WithLogger(s.logger),
		users:    deps.Repo.Users(),
		logger:   s.logger,
	}

	adminCtrl := &AdminController{
		users:     deps.Repo.Users(),
		approve:   approval.NewApproveUserHandler(deps.Repo, machine, deps.Notifier).WithLogger(s.logger),
		reject:    approval.NewRejectUserHandler(deps.Repo, machine).WithLogger(s.logger),
		admins:    approval.NewCreateAdminHandler(deps.Repo).WithLogger(s.logger),
		importer:  approval.NewBulkImportHandler(deps.Repo).WithLogger(s.logger),
		broadcast: approval.NewBroadcastHandler(deps.Repo, deps.Notifier).WithLogger(s.logger),
		logger:    s.logger,
	}

	userCtrl := &UsersController{
		users:  deps.Repo.Users(),
		media:  deps.Media,
		logger: s.logger,
	}

	contentCtrl := &ContentController{
		repo:     deps.Repo,
		media:    deps.Media,
		visitors: deps.Visitors,
		logger:   s.logger,
	}

	protect := jwtware.New(jwtware.Config{
		TokenLookup: s.cfg.TokenLookup(),
		Verifier:    deps.Authenticator.TokenService(),
	})

	adminOnly := jwtware.RequireRoles(auth.AdminRoles...)
	superOnly := jwtware.RequireRoles(auth.RoleSuperuser)

	api := s.app.Group("/api")

	// public
	api.Post("/auth/register", authCtrl.Register)
	api.Post("/auth/login", authCtrl.Login)
	api.Post("/auth/refresh-token", authCtrl.RefreshToken)
	api.Post("/auth/logout", authCtrl.Logout)
	api.Get("/auth/check-auth", protect, authCtrl.CheckAuth)

	api.Get("/news", contentCtrl.ListNews)
	api.Get("/news/:id", contentCtrl.GetNews)
	api.Get("/events", contentCtrl.ListEvents)
	api.Get("/events/:id", contentCtrl.GetEvent)
	api.Get("/posts", contentCtrl.ListPosts)
	api.Get("/images", contentCtrl.ListPhotos)
	api.Get("/alumni", contentCtrl.ListAlumni)
	api.Post("/feedback", contentCtrl.CreateFeedback)
	api.Post("/visitors", contentCtrl.CountVisit)
	api.Get("/visitors", contentCtrl.Visitors)

	// authenticated users
	user := api.Group("/user", protect)
	user.Get("/me", userCtrl.Me)
	user.Put("/profile", userCtrl.UpdateProfile)
	user.Post("/profile-photo", userCtrl.UploadProfilePhoto)
	user.Post("/reset-password", userCtrl.ResetPassword)
	user.Post("/posts", contentCtrl.CreatePost)

	// admin
	admin := api.Group("/admin", protect, adminOnly)
	admin.Get("/pending-users", adminCtrl.PendingUsers)
	admin.Get("/approved-users", adminCtrl.ApprovedUsers)
	admin.Post("/approve", adminCtrl.Approve)
	admin.Post("/reject-user", adminCtrl.Reject)
	admin.Post("/bulk-add-alumni", adminCtrl.BulkAddAlumni)
	admin.Post("/send-emails", adminCtrl.SendEmails)
	admin.Post("/create-admin", superOnly, adminCtrl.CreateAdmin)

	admin.Post("/news", contentCtrl.CreateNews)
	admin.Delete("/news/:id", contentCtrl.DeleteNews)
	admin.Post("/events", contentCtrl.CreateEvent)
	admin.Delete("/events/:id", contentCtrl.DeleteEvent)
	admin.Post("/images", contentCtrl.UploadPhoto)
	admin.Delete("/images/:id", contentCtrl.DeletePhoto)
	admin.Get("/feedback", contentCtrl.ListFeedback)
	admin.Delete("/posts/:id", contentCtrl.DeletePost)
}

// errorHandler maps rich errors to their HTTP shape and hides everything
// else behind a generic 500.
func errorHandler(logger auth.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			status := richErr.Code
			if status < 400 || status > 599 {
				status = fiber.StatusInternalServerError
			}

			return c.Status(status).JSON(fiber.Map{
				"error": richErr.Message,
				"code":  richErr.TextCode,
			})
		}

		var fiberErr *fiber.Error
		if goerrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiberErr.Message,
			})
		}

		logger.Error("unhandled error", "path", c.Path(), "error", err)

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}
