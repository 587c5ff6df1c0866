package api

import (
	"encoding/json" // Body decoding errors
	"errors"        // Error matching
	"net/http"      // HTTP status codes
	"reflect"       // Struct field lookup for JSON names
	"strconv"       // Path and query parsing
	"strings"       // String manipulation

	"storefront/internal/domain" // Domain errors

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Gin request binding
	"github.com/go-playground/validator/v10" // Binding validation errors
	"github.com/sirupsen/logrus"             // Logging library
)

func init() {
	// Report binding failures under the JSON field name, not the Go one
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	}
}

// respondError maps a service error to its HTTP status and the JSON error envelope
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrValidation.Error(), "fields": verr.Fields})
	case errors.Is(err, domain.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "fields": gin.H{"quantity": err.Error()}})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrProductInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err) // Surfaced by the request logger
		logrus.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// bindJSON binds the request body and answers 400 on failure. It reports whether the handler may continue.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := domain.NewValidationError()
		for _, fe := range verrs {
			fields.Add(fe.Field(), fieldMessage(fe))
		}
		respondError(c, fields)
		return false
	}
	var verr *domain.ValidationError // Raised by request field decoders such as costInput
	if errors.As(err, &verr) {
		respondError(c, verr)
		return false
	}
	var typeErr *json.UnmarshalTypeError // e.g. a string where a number belongs
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		respondError(c, domain.FieldError(typeErr.Field, typeErr.Field+" must be of type "+typeErr.Type.String()))
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " is not valid"
	case "min", "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "max", "lte":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// pathID parses a positive numeric path parameter
func pathID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, domain.FieldError(name, name+" must be a positive integer")
	}
	return uint(v), nil
}

// queryID parses an optional positive numeric query parameter, 0 when absent
func queryID(c *gin.Context, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, domain.FieldError(name, name+" must be a positive integer")
	}
	return uint(v), nil
}

// pagination reads page and page_size with the defaults 1 and 20, page_size capped at 100
func pagination(c *gin.Context) (page, pageSize int) {
	page = 1      // Default page number
	pageSize = 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	return (int(total) + pageSize - 1) / pageSize
}
