package request

import (
	"reflect"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"github.com/sangkips/invowise-api/internal/domain/enum"
	"github.com/sangkips/invowise-api/pkg/apperror"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator and
// makes field errors report JSON names
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}

	var err error
	registerOnce.Do(func() {
		v.RegisterTagNameFunc(jsonName)
		if err = v.RegisterValidation("invoice_status", validInvoiceStatus); err != nil {
			return
		}
		err = v.RegisterValidation("discount_type", validDiscountType)
	})
	return err
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func validInvoiceStatus(fl validator.FieldLevel) bool {
	_, err := enum.ParseInvoiceStatus(fl.Field().String())
	return err == nil
}

func validDiscountType(fl validator.FieldLevel) bool {
	return enum.DiscountType(strings.ToLower(fl.Field().String())).IsValid()
}

// FieldErrors converts binding validation failures into API field errors.
// ok is false when err is not a validation failure, e.g. malformed JSON.
func FieldErrors(err error) (fields []apperror.FieldError, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	return lo.Map(verrs, func(fe validator.FieldError, _ int) apperror.FieldError {
		return apperror.FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)}
	}), true
}

// fieldPath drops the struct name from the namespace, e.g. items[0].quantity
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	case "uuid":
		return "Must be a valid UUID"
	case "datetime":
		return "Must be a date formatted as YYYY-MM-DD"
	case "invoice_status":
		return "Must be one of " + strings.Join(lo.Map(enum.InvoiceStatuses, func(s enum.InvoiceStatus, _ int) string {
			return s.String()
		}), ", ")
	case "discount_type":
		return "Must be amount or percent"
	}
	return "Invalid value"
}
