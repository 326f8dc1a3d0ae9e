package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/controller/user"
)

// Error codes of the json error body. 401 and 403 responses are told apart by them.
const (
	CodeUnauthenticated = "unauthenticated"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeInvalidInput    = "invalid_input"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeInternal        = "internal_error"
	CodeHTTP            = "http_error"
)

// ErrorBody is the json body of every failed api request.
type ErrorBody struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Fields []string `json:"fields,omitempty"`
}

// Classify maps an error to its status code and body.
// Persistence failures are reported without detail.
func Classify(err error) (int, ErrorBody) {
	var (
		validation *controller.ValidationError
		fiberErr   *fiber.Error
	)

	switch {
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, user.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, ErrorBody{Error: err.Error(), Code: CodeUnauthenticated}
	case errors.Is(err, auth.ErrUnauthorized):
		return fiber.StatusForbidden, ErrorBody{Error: "not authorized", Code: CodeUnauthorized}
	case errors.Is(err, controller.ErrForbidden):
		return fiber.StatusForbidden, ErrorBody{Error: err.Error(), Code: CodeForbidden}
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, ErrorBody{Error: validation.Error(), Code: CodeInvalidInput, Fields: validation.Fields}
	case errors.Is(err, controller.ErrValidation):
		return fiber.StatusBadRequest, ErrorBody{Error: err.Error(), Code: CodeInvalidInput}
	case errors.Is(err, controller.ErrNotFound):
		return fiber.StatusNotFound, ErrorBody{Error: err.Error(), Code: CodeNotFound}
	case errors.Is(err, controller.ErrConflict):
		return fiber.StatusConflict, ErrorBody{Error: err.Error(), Code: CodeConflict}
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorBody{Error: fiberErr.Message, Code: CodeHTTP}
	default:
		return fiber.StatusInternalServerError, ErrorBody{Error: "internal server error", Code: CodeInternal}
	}
}

// ErrorHandler is the fiber error handler of the app. Api and json requests get a json body,
// pages render the error template.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, body := Classify(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	}

	c.Status(status)

	if strings.HasPrefix(c.Path(), APIPath) || c.Is("json") || c.App().Config().Views == nil {
		return c.JSON(body)
	}

	if renderErr := c.Render("error", fiber.Map{"Status": status, "Message": body.Error}, BaseLayout); renderErr != nil {
		log.Error().Err(renderErr).Msg("failed to render error page")

		return c.JSON(body)
	}

	return nil
}

// Bind parses the request body into v. Malformed bodies are validation errors.
func Bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return controller.NewValidationError("malformed request body: " + err.Error())
	}

	return nil
}

// QueryID reads the numeric query parameter name. present is false when it is missing.
func QueryID(c *fiber.Ctx, name string) (id uint, present bool, err error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false, nil
	}

	id, err = parseID(raw, name)

	return id, true, err
}

// RequireQueryID is QueryID for mandatory parameters.
func RequireQueryID(c *fiber.Ctx, name string) (uint, error) {
	id, present, err := QueryID(c, name)
	if err != nil {
		return 0, err
	}

	if !present {
		return 0, controller.NewValidationError("missing query parameter", name)
	}

	return id, nil
}

// ParamID reads the numeric route parameter name.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	return parseID(c.Params(name), name)
}

// parseID accepts positive ids that fit in uint.
func parseID(raw, name string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, controller.NewValidationError("not a valid id", name)
	}

	return uint(id), nil
}
