package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fulfillment/api"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewRouter builds the echo instance: health check, OpenAPI document,
// Swagger UI and the validated API routes.
func NewRouter(server ServerInterface, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := api.Load()
	if err != nil {
		return nil, err
	}

	validator, err := requestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler(logger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", api.Raw())
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.yaml")))

	RegisterHandlers(e, server)

	return e, nil
}

// requestValidator checks every request that matches an OpenAPI operation
// against the document. Requests outside the document pass through.
func requestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
					return next(c)
				}
				return writeError(c, http.StatusBadRequest, err.Error())
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options: &openapi3filter.Options{
					AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				},
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				var reqErr *openapi3filter.RequestError
				if errors.As(err, &reqErr) {
					return writeError(c, http.StatusBadRequest, reqErr.Error())
				}
				return writeError(c, http.StatusBadRequest, err.Error())
			}

			return next(c)
		}
	}, nil
}

func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal error"
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		} else {
			logger.ErrorContext(c.Request().Context(), "Unhandled request error", "path", c.Path(), "error", err)
		}

		if writeErr := writeError(c, status, message); writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "Failed to write error response", "error", writeErr)
		}
	}
}
