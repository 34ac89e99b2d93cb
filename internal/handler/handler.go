package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/avdeyev/bookhub/config"
	mw "github.com/avdeyev/bookhub/pkg/middleware"
	"github.com/avdeyev/bookhub/pkg/validate"
)

type Handler struct {
	bookSvc   BookService
	borrowSvc BorrowService
	authSvc   AuthService
	cdn       config.Cloudinary
	log       *zap.Logger
}

func New(bookSvc BookService, borrowSvc BorrowService, authSvc AuthService, cdn config.Cloudinary, log *zap.Logger) *Handler {
	return &Handler{
		bookSvc:   bookSvc,
		borrowSvc: borrowSvc,
		authSvc:   authSvc,
		cdn:       cdn,
		log:       log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", mw.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(mw.RequestLoggerConfig()),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			Generator: uuid.NewString,
		}),
		mw.NewRateLimiter(apiRPS),
	)

	api.POST("/register", h.Register)
	api.POST("/login", h.Login)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)

	authed := api.Group("", mw.JwtAuthentication)
	authed.GET("/borrows", h.ListBorrows)
	authed.POST("/borrows", h.CreateBorrow)
	authed.POST("/borrows/:id/return", h.ReturnBorrow)

	admin := authed.Group("", mw.AdminOnly)
	admin.POST("/books", h.CreateBook)
	admin.PATCH("/books/:id", h.UpdateBook)
	admin.DELETE("/books/:id", h.DeleteBook)
	admin.GET("/users", h.ListUsers)
	admin.POST("/upload/signature", h.UploadSignature)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
