package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/markjakearzadon/mindcare-gobackend/internal/apperr"
)

// DateLayout is the wire format of calendar dates (session_date etc).
const DateLayout = "2006-01-02"

var (
	kenyanPhone = regexp.MustCompile(`^(\+254|254|07|01)\d{8,9}$`)
	clockTime   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:[0-5]\d$`)
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("kephone", func(fl validator.FieldLevel) bool {
			return kenyanPhone.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			return clockTime.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(DateLayout, fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return primitive.IsValidObjectID(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Struct validates s and returns one issue per failing field, nil when valid.
func Struct(s any) []apperr.FieldIssue {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []apperr.FieldIssue{{Field: "_", Message: err.Error()}}
	}

	out := make([]apperr.FieldIssue, 0, len(ve))
	for _, fe := range ve {
		out = append(out, apperr.FieldIssue{
			Field:   fieldPath(fe.Namespace()),
			Message: messageFor(fe),
		})
	}
	return out
}

// Summary renders issues as "field: message, field: message".
func Summary(issues []apperr.FieldIssue) string {
	parts := make([]string, 0, len(issues))
	for _, is := range issues {
		parts = append(parts, is.Field+": "+is.Message)
	}
	return strings.Join(parts, ", ")
}

// IsPhoneNumber reports whether s is one of the accepted Kenyan phone shapes.
func IsPhoneNumber(s string) bool {
	return kenyanPhone.MatchString(s)
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// decimalValue exposes a decimal to the validator as its exact string form.
// An unset decimal becomes "" so that required fails on it.
func decimalValue(field reflect.Value) interface{} {
	d, ok := field.Interface().(decimal.Decimal)
	if !ok || d == (decimal.Decimal{}) {
		return ""
	}
	return d.String()
}

// compareDecimal builds a validator comparing the field against the tag
// parameter without going through float64.
func compareDecimal(ok func(cmp int) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		limit, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return ok(d.Cmp(limit))
	}
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "url":
		return "Invalid url"
	case "kephone":
		return "Invalid phone number format. Use formats like +254XXXXXXXXX, 254XXXXXXXXX, or 07XXXXXXXX"
	case "clock":
		return "Invalid time format"
	case "ymd":
		return "Invalid date format, expected YYYY-MM-DD"
	case "objectid":
		return "Invalid id"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "gt", "decimal_gt":
		return "Must be greater than " + fe.Param()
	case "gte", "decimal_min":
		return "Must be at least " + fe.Param()
	case "lte", "decimal_max":
		return "Must be at most " + fe.Param()
	case "min":
		if isString(fe) {
			return "Must contain at least " + fe.Param() + " character(s)"
		}
		return "Must be at least " + fe.Param()
	case "max":
		if isString(fe) {
			return "Cannot exceed " + fe.Param() + " characters"
		}
		return "Must be at most " + fe.Param()
	default:
		return "Invalid value"
	}
}

func isString(fe validator.FieldError) bool {
	return fe.Kind() == reflect.String
}
