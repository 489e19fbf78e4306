// Package common holds the helpers shared by the HTTP handlers:
// response envelopes, RFC 9457 problem details, request binding with
// validation, and the user identity middleware.
package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/pennywiseapp/pennywise/pkg/domain"
)

// HeaderUserID carries the caller's identity. Authentication is handled
// upstream; handlers trust this header.
const HeaderUserID = "X-User-ID"

const localsUserID = "userID"

var validate = validator.New()

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	Errors   any    `json:"errors,omitempty"`
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON returns a response following RFC 9457 Problem Details.
func ErrorResponseJSON(c *fiber.Ctx, status int, title string, detail any) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()
	c.Set(fiber.HeaderContentType, "application/problem+json")

	return c.Status(status).JSON(pd)
}

// ProblemFromError maps a service error to the matching problem
// response via the error category sentinels.
func ProblemFromError(c *fiber.Ctx, err error) error {
	return ErrorResponseJSON(c, ErrorToStatusCode(err), titleFor(err), err.Error())
}

// ErrorToStatusCode maps domain errors to HTTP status codes. Specific
// errors wrap one of the category sentinels, so matching on the
// categories covers them all.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrExternalService):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrConsistency):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func titleFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Not Found"
	case errors.Is(err, domain.ErrValidation):
		return "Validation Failed"
	case errors.Is(err, domain.ErrExternalService):
		return "Upstream Service Unavailable"
	case errors.Is(err, domain.ErrConsistency):
		return "Conflict"
	default:
		return "Internal Server Error"
	}
}

// BindAndValidate parses the request body into T and validates it with
// go-playground/validator. On failure it writes the error response and
// returns a non-nil error.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		_ = ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		_ = ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
		return nil, err
	}
	return &input, nil
}

// RequireUserID is the identity middleware: it parses HeaderUserID and
// stores the UUID in locals for handlers to read.
func RequireUserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(HeaderUserID)
		if raw == "" {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Missing user identity", HeaderUserID+" header is required")
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return ErrorResponseJSON(c, fiber.StatusUnauthorized, "Invalid user identity", err.Error())
		}
		c.Locals(localsUserID, id)
		return c.Next()
	}
}

// UserID reads the caller's UUID stored by RequireUserID.
func UserID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(localsUserID).(uuid.UUID)
	return id
}

// ParseIDParam parses a UUID path parameter or writes a 400 response.
func ParseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		_ = ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid identifier", err.Error())
		return uuid.Nil, err
	}
	return id, nil
}
