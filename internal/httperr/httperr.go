package httperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// withStack enables stack traces on infrastructure errors. Off in production.
var withStack = true

func SetStackTraces(enabled bool) {
	withStack = enabled
}

type HTTPError struct {
	Success   bool         `json:"success"`
	Code      string       `json:"error_code"`
	Message   string       `json:"message"`
	Errors    []FieldError `json:"errors,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

func Write(c *gin.Context, status int, code, message string, fields ...FieldError) {
	c.AbortWithStatusJSON(status, HTTPError{
		Code:      code,
		Message:   message,
		Errors:    fields,
		RequestID: c.GetString(RequestIDKey),
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func TooManyRequests(c *gin.Context) {
	Write(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, slow down.")
}

func StatusOf(kind Kind) int {
	switch kind {
	case KindValidation, KindDomain:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindIntegrity:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Respond maps err onto the error envelope and logs it by severity.
func Respond(c *gin.Context, err error) {
	be, ok := AsBusiness(err)
	if !ok {
		be, ok = fromPg(err)
	}
	if !ok {
		ev := log.Error().Err(err).
			Str("request_id", c.GetString(RequestIDKey)).
			Str("path", c.FullPath())
		if withStack {
			ev = ev.Str("stack", string(debug.Stack()))
		}
		ev.Msg("infrastructure error")

		Internal(c, "internal_error", "Something went wrong, please try again.")
		return
	}

	if be.Kind == KindIntegrity {
		log.Error().Err(err).
			Str("request_id", c.GetString(RequestIDKey)).
			Str("code", be.Code).
			Msg("data integrity violation")
	} else {
		log.Debug().Err(err).Str("kind", be.Kind.String()).Msg("request rejected")
	}

	message := be.Message
	if message == "" {
		message = strings.ReplaceAll(be.Code, "_", " ")
	}
	Write(c, StatusOf(be.Kind), be.Code, message, be.Fields...)
}

// FromBinding turns a gin binding failure into a validation BusinessError
// with one entry per offending field.
func FromBinding(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fieldPath(fe),
				Message: messageFor(fe),
			})
		}
		return ValidationErr("invalid_request", "Request validation failed.", fields...)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return ValidationErr("invalid_request", "Request validation failed.", FieldError{
			Field:   typeErr.Field,
			Message: "must be of type " + typeErr.Type.String(),
		})
	}

	var timeErr *time.ParseError
	if errors.As(err, &timeErr) {
		return ValidationErr("invalid_request", "Request validation failed.", FieldError{
			Field:   "appointment_date",
			Message: "must be an ISO-8601 timestamp",
		})
	}

	return ValidationErr("invalid_request", "Malformed request body.")
}

// fieldPath drops the root struct name: "BookRequest.services[0].price" -> "services[0].price".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "required_if":
		return "is required for this status"
	case "uuid", "uuid4":
		return "must be a valid uuid"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "appointment_status":
		return "must be one of: pending accepted in-progress completed rejected cancelled"
	case "payment_mode":
		return "must be one of: cash online other"
	case "gender":
		return "must be one of: male female unisex others"
	case "latitude":
		return "must be a latitude between -90 and 90"
	case "longitude":
		return "must be a longitude between -180 and 180"
	default:
		return "failed on " + fe.Tag()
	}
}
