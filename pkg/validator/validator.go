package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shenikar/incident_hub/internal/models"
	"github.com/shenikar/incident_hub/pkg/e"
)

// New создает валидатор с кастомными правилами домена.
// Имена полей в ошибках берутся из json-тегов.
func New() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	RegisterCustomValidations(validate)
	return validate
}

func RegisterCustomValidations(validate *validator.Validate) {
	validate.RegisterValidation("lat", validateLat)
	validate.RegisterValidation("lng", validateLng)
	validate.RegisterValidation("incident_type", func(fl validator.FieldLevel) bool {
		return models.IncidentType(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("severity", func(fl validator.FieldLevel) bool {
		return models.Severity(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("incident_status", func(fl validator.FieldLevel) bool {
		return models.IncidentStatus(fl.Field().String()).Valid()
	})
	validate.RegisterValidation("risk_level", func(fl validator.FieldLevel) bool {
		return models.RiskLevel(fl.Field().String()).Valid()
	})
}

func validateLat(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90.0 && lat <= 90.0
}

func validateLng(fl validator.FieldLevel) bool {
	lng := fl.Field().Float()
	return lng >= -180.0 && lng <= 180.0
}

// Collect переводит ошибку validator в ValidationError со всеми полями.
// Ошибки другого типа возвращаются как есть.
func Collect(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &e.ValidationError{}
	for _, fe := range verrs {
		out.Add(fe.Field(), reason(fe))
	}
	return out
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "lat":
		return "must be within [-90, 90]"
	case "lng":
		return "must be within [-180, 180]"
	case "incident_type":
		return "unknown incident type"
	case "severity":
		return "must be one of low, medium, high, critical"
	case "incident_status":
		return "must be one of active, resolved"
	case "risk_level":
		return "must be one of safe, low, medium, high, critical"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must not be less than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	}
	return "failed on the '" + fe.Tag() + "' rule"
}
