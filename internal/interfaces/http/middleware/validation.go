package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/hotelops/backend/internal/domain/payment"
	"github.com/hotelops/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format accepted in query parameters
const DateLayout = "2006-01-02"

// SetupValidator configures gin's validator with field naming and the payment tags
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidations(v)
	}
}

// RegisterValidations installs the tag name func and custom tags on v:
//
//	payment_source  one of the consolidated sources
//	payment_type    income or expense
//	date_only       YYYY-MM-DD
//	decimal_amount  non-negative decimal number
func RegisterValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("payment_source", func(fl validator.FieldLevel) bool {
		_, err := payment.ParseSource(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("payment_type", func(fl validator.FieldLevel) bool {
		_, err := payment.ParsePaymentType(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("date_only", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("decimal_amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})
}

// FormatValidationErrors formats validation errors into a standard response
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse(
		"Request validation failed",
		requestID,
		details,
	)
}

// HandleValidationError writes a 400 validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "payment_source":
		return "Must be one of: pos, reservation, supplier, invoice, petty_cash_income, petty_cash_expense"
	case "payment_type":
		return "Must be one of: income, expense"
	case "date_only":
		return "Must be a date in YYYY-MM-DD format"
	case "decimal_amount":
		return "Must be a non-negative decimal number"
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	default:
		return "Invalid value"
	}
}
