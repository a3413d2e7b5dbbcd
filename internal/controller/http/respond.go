package http

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"inkwell/internal/entity"
	"inkwell/pkg/apperr"
	"inkwell/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func respondError(c *gin.Context, err error) {
	status, body := apperr.Envelope(err)
	c.JSON(status, body)
}

// identityFromContext rebuilds the caller Identity from the claims the
// auth middleware stored. Protected routes only.
func identityFromContext(c *gin.Context) entity.Identity {
	return entity.Identity{
		ID:    c.GetUint(middleware.CtxUserID),
		Email: c.GetString(middleware.CtxUserEmail),
		Name:  c.GetString(middleware.CtxUserName),
		Role:  entity.UserRole(c.GetString(middleware.CtxUserRole)),
	}
}

// bindingError translates gin binding failures into the validation error
// shape with field-level details.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]apperr.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, apperr.FieldError{
				Field:   toSnakeCase(fe.Field()),
				Message: bindingMessage(fe),
			})
		}
		return apperr.Validation("invalid request", details...)
	}
	return apperr.Validation("invalid request body")
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "eqfield":
		return "must match " + toSnakeCase(fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
