package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Skotchmaster/noteet/internal/docs" // Swagger docs
	authmw "github.com/Skotchmaster/noteet/internal/middleware/auth"
	"github.com/Skotchmaster/noteet/pkg/ids"
	loggingmw "github.com/Skotchmaster/noteet/pkg/middleware/logging"
)

const welcome = "Welcome to noteet, a minimal note-taking API. Docs live at /swagger/index.html"

// Checker reports whether a dependency can serve traffic.
type Checker func(ctx context.Context) error

type Deps struct {
	AuthHandler  *AuthHTTP
	NotesHandler *NotesHTTP
	Gate         *authmw.Gate
	Ready        map[string]Checker
	Logger       *slog.Logger
}

// New builds the echo instance with the shared middleware chain and all
// routes registered.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: ids.RequestID}))
	e.Use(middleware.CORS())
	e.Use(loggingmw.RequestLogger(d.Logger))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, welcome) })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	e.GET("/swagger/*", echo.WrapHandler(httpSwagger.Handler()))

	// the unversioned routes predate /v1 and share its handlers
	mount(e.Group(""), d)
	mount(e.Group("/v1"), d)
}

func mount(g *echo.Group, d *Deps) {
	requireLogin := d.Gate.RequireLogin

	g.POST("/user/signup", d.AuthHandler.Signup)
	g.POST("/user/login", d.AuthHandler.Login)
	g.POST("/user/token", d.AuthHandler.Token)
	g.GET("/user", d.AuthHandler.Profile, requireLogin)

	g.GET("/notes", d.NotesHandler.ListNotes, requireLogin)
	g.GET("/notes/search", d.NotesHandler.SearchNotes, requireLogin)
	g.GET("/notes/:id", d.NotesHandler.GetNote, requireLogin)
	g.POST("/notes", d.NotesHandler.CreateNote, requireLogin)
	g.PUT("/notes/:id", d.NotesHandler.UpdateNote, requireLogin)
	g.DELETE("/notes/:id", d.NotesHandler.DeleteNote, requireLogin)
}

func (d *Deps) ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	code := http.StatusOK
	for name, check := range d.Ready {
		if err := check(ctx); err != nil {
			status[name] = err.Error()
			code = http.StatusServiceUnavailable
			continue
		}
		status[name] = "ok"
	}
	return c.JSON(code, status)
}
