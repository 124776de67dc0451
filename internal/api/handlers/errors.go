package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhunter5/Backend/internal/identity"
	"github.com/jhunter5/Backend/internal/services"
	"github.com/jhunter5/Backend/internal/utils"
)

const unknownError = "An unknown error occurred"

// respondError writes the JSON error body matching err's kind.
// Anything unrecognised is a 500 with a generic message; the cause goes to c.Error for logging.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	var svcErr *services.Error
	var upstream *identity.UpstreamError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "errors": verr.Fields})
	case errors.As(err, &svcErr) && errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": svcErr.Message})
	case errors.As(err, &svcErr) && (errors.Is(err, services.ErrConflict) || errors.Is(err, services.ErrInvalidTransition)):
		c.JSON(http.StatusConflict, gin.H{"error": svcErr.Message})
	case errors.As(err, &svcErr) && errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": svcErr.Message})
	case errors.Is(err, identity.ErrRoleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
	case errors.As(err, &upstream):
		_ = c.Error(err)
		status := http.StatusBadGateway
		if upstream.Status >= 400 && upstream.Status < 500 {
			status = upstream.Status
		}
		c.JSON(status, gin.H{"error": "Identity provider request failed"})
	case services.IsUploadError(err):
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "File upload failed"})
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timed out"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": unknownError})
	}
}

// bindJSON decodes and validates the body into obj, writing a 400 on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrorBody(err))
		return false
	}
	return true
}

func bindingErrorBody(err error) gin.H {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return gin.H{"error": "Invalid request body"}
	}
	fields := make([]services.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, services.FieldError{Field: fieldPath(fe), Message: describe(fe)})
	}
	msg := "Invalid request body"
	if len(fields) == 1 {
		msg = fmt.Sprintf("%s: %s", fields[0].Field, fields[0].Message)
	}
	return gin.H{"error": msg, "errors": fields}
}

// fieldPath turns the validator namespace into the JSON path of the field.
// The first segment is the root request type; capitalised segments after it are embedded structs.
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 0 {
		parts = parts[1:]
	}
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" && unicode.IsUpper(rune(p[0])) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return fe.Field()
	}
	return strings.Join(kept, ".")
}

// jsonName lower-cases the leading letter of a Go field name given as a tag parameter.
func jsonName(field string) string {
	if field == "" {
		return field
	}
	r := []rune(field)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "phone":
		return "must be 10 to 15 digits"
	case "enum":
		return fmt.Sprintf("%v is not an accepted value", fe.Value())
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gtfield":
		return "must be after " + jsonName(fe.Param())
	}
	return "failed " + fe.Tag() + " validation"
}

// objectIDParam parses the named path parameter, writing a 400 when it is not an ObjectID.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s format", name)})
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseQueryID parses the named query parameter, writing a 400 when it is not an ObjectID.
func parseQueryID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := utils.ParseID(c.Query(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s format", name)})
		return primitive.NilObjectID, err
	}
	return id, nil
}
