package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/second-brain-labs/secondbrain-back/internal/config"
	"github.com/second-brain-labs/secondbrain-back/internal/models"
	"github.com/second-brain-labs/secondbrain-back/internal/service"
	"github.com/second-brain-labs/secondbrain-back/internal/store"
)

const userIDContextKey = "userID"

type (
	CustomValidator struct {
		validator *validator.Validate
	}

	HTTPServer struct {
		auth    *service.Auth
		content *service.Content
		share   *service.Share
		logger  *zap.SugaredLogger
		echo    *echo.Echo
	}
)

func NewHTTPServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	auth *service.Auth,
	content *service.Content,
	share *service.Share,
	logger *zap.SugaredLogger,
) *HTTPServer {
	instance := newServer(auth, content, share, cfg.CORSOrigin, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.Host + ":" + cfg.Port
				if err := instance.echo.Start(listen); err != nil && err != http.ErrServerClosed {
					instance.echo.Logger.Fatal("shutting down the server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return instance.echo.Shutdown(ctx)
		},
	})

	return instance
}

func newServer(
	auth *service.Auth,
	content *service.Content,
	share *service.Share,
	corsOrigin string,
	logger *zap.SugaredLogger,
) *HTTPServer {
	e := echo.New()
	e.HideBanner = true

	instance := HTTPServer{
		auth:    auth,
		content: content,
		share:   share,
		logger:  logger,
		echo:    e,
	}

	api := e.Group("/api/v1")
	api.POST("/signup", instance.Signup)
	api.POST("/signin", instance.Signin)
	api.POST("/content", instance.ContentCreate, instance.Authenticated)
	api.GET("/content", instance.ContentList, instance.Authenticated)
	api.DELETE("/content/:contentId", instance.ContentDelete, instance.Authenticated)
	api.DELETE("/content", instance.ContentDeleteByBody, instance.Authenticated)
	api.POST("/brain/share", instance.ShareToggle, instance.Authenticated)
	api.GET("/brain/:shareLink", instance.BrainResolve)

	e.GET("/health", instance.Health)

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{corsOrigin},
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == http.MethodGet
		},
		Handler: func(c echo.Context, reqBody, _ []byte) {
			logger.Debugw("request body", "path", c.Path(), "body", string(censorBody(reqBody)))
		},
	}))

	e.Validator = &CustomValidator{validator: validator.New()}

	e.HTTPErrorHandler = instance.errorHandler

	return &instance
}

func (s *HTTPServer) Signup(c echo.Context) error {
	req := models.SignupReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := s.auth.Signup(c.Request().Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusConflict, "username already taken")
		}
		return err
	}

	return c.JSON(http.StatusOK, models.MessageResp{Message: "user created"})
}

func (s *HTTPServer) Signin(c echo.Context) error {
	req := models.SigninReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := s.auth.Signin(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusForbidden, "invalid credentials")
		}
		return err
	}

	return c.JSON(http.StatusOK, models.TokenResp{Token: token})
}

func (s *HTTPServer) ContentCreate(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.ContentReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := s.content.Add(c.Request().Context(), user, req.Link, req.Type, req.Title); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.MessageResp{Message: "content added"})
}

func (s *HTTPServer) ContentList(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	contents, err := s.content.List(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.ContentListResp{Content: contentToResp(contents)})
}

func (s *HTTPServer) ContentDelete(c echo.Context) error {
	id, err := GetParam(c, "contentId")
	if err != nil {
		return err
	}
	return s.contentRemove(c, id)
}

func (s *HTTPServer) ContentDeleteByBody(c echo.Context) error {
	req := models.ContentDeleteReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	return s.contentRemove(c, req.ContentID)
}

func (s *HTTPServer) contentRemove(c echo.Context, id string) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	if err := s.content.Remove(c.Request().Context(), user, id); err != nil {
		if errors.Is(err, service.ErrBadContentID) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid content id")
		}
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "content not found or not authorized")
		}
		return err
	}

	return c.JSON(http.StatusOK, models.MessageResp{Message: "content deleted"})
}

func (s *HTTPServer) ShareToggle(c echo.Context) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.ShareReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	if *req.Share {
		hash, err := s.share.Enable(c.Request().Context(), user)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, models.ShareResp{Hash: hash})
	}

	if err := s.share.Disable(c.Request().Context(), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.MessageResp{Message: "share link removed"})
}

func (s *HTTPServer) BrainResolve(c echo.Context) error {
	code, err := GetParam(c, "shareLink")
	if err != nil {
		return err
	}

	brain, err := s.share.Resolve(c.Request().Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrBadShareCode) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid share link format")
		}
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "share link not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, models.BrainResp{
		Username: brain.Username,
		Content:  contentToResp(brain.Content),
	})
}

func (s *HTTPServer) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResp{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Authenticated extracts a bearer credential from the Authorization header,
// in either raw or "Bearer <token>" form, verifies it, and binds the
// resolved identity into the request-scoped context.
func (s *HTTPServer) Authenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
		if header == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized: credential required")
		}

		raw := header
		if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
			raw = strings.TrimSpace(raw[7:])
		}

		userID, err := s.auth.ParseToken(raw)
		if err != nil {
			if errors.Is(err, service.ErrTokenMalformed) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden: malformed credential")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized: invalid or expired credential")
		}

		c.Set(userIDContextKey, userID)
		return next(c)
	}
}

// errorHandler is the terminal boundary for every failed request: explicit
// HTTP errors pass through as-is, everything else is logged server-side and
// collapsed into one generic 500 response.
func (s *HTTPServer) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			_ = c.JSON(he.Code, models.MessageResp{Message: msg})
			return
		}
		_ = c.JSON(he.Code, he.Message)
		return
	}

	s.logger.Errorw("request failed", "path", c.Path(), "error", err)
	_ = c.JSON(http.StatusInternalServerError, models.MessageResp{Message: "internal server error"})
}

////////

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func BindAndValidate(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(v); err != nil {
		fieldErrs := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fieldErrs[strings.ToLower(fe.Field())] = fmt.Sprintf("failed on '%s' rule", fe.Tag())
			}
		}
		return echo.NewHTTPError(http.StatusBadRequest, models.ValidationErrResp{
			Message: "validation failed",
			Errors:  fieldErrs,
		})
	}
	return nil
}

func GetUserFromContext(c echo.Context) (primitive.ObjectID, error) {
	userID, ok := c.Get(userIDContextKey).(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("no user found in context")
	}
	return userID, nil
}

func GetParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if value == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid path param '%s'", name))
	}
	return value, nil
}

func contentToResp(contents []models.Content) []models.ContentResp {
	resp := make([]models.ContentResp, len(contents))
	for i := range contents {
		tags := make([]string, len(contents[i].Tags))
		for j := range contents[i].Tags {
			tags[j] = contents[i].Tags[j].Hex()
		}
		resp[i] = models.ContentResp{
			ID:    contents[i].ID.Hex(),
			Link:  contents[i].Link,
			Type:  contents[i].Type,
			Title: contents[i].Title,
			Tags:  tags,
		}
	}
	return resp
}

// censorBody blanks the password field before a request body reaches the
// debug log.
func censorBody(b []byte) []byte {
	body := map[string]interface{}{}
	if err := json.Unmarshal(b, &body); err != nil {
		return b
	}
	if _, ok := body["password"]; !ok {
		return b
	}
	body["password"] = "$censored"
	censored, err := json.Marshal(body)
	if err != nil {
		return b
	}
	return censored
}
