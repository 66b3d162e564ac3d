package web

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vbonduro/ecoleta/internal/domain"
)

// pointForm holds the text fields of a create-point request as submitted.
type pointForm struct {
	Name      string `form:"name" validate:"required"`
	Email     string `form:"email" validate:"required,email"`
	Whatsapp  string `form:"whatsapp" validate:"required"`
	Latitude  string `form:"latitude" validate:"required,latitude"`
	Longitude string `form:"longitude" validate:"required,longitude"`
	City      string `form:"city" validate:"required"`
	UF        string `form:"uf" validate:"required,max=2"`
	Items     string `form:"items" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

func formValue(get func(string) string, key string) string {
	return strings.TrimSpace(get(key))
}

func readPointForm(get func(string) string) *pointForm {
	return &pointForm{
		Name:      formValue(get, "name"),
		Email:     formValue(get, "email"),
		Whatsapp:  formValue(get, "whatsapp"),
		Latitude:  formValue(get, "latitude"),
		Longitude: formValue(get, "longitude"),
		City:      formValue(get, "city"),
		UF:        formValue(get, "uf"),
		Items:     formValue(get, "items"),
	}
}

// validate reports every rejected field, in form order.
func (f *pointForm) validate(v *validator.Validate) []FieldError {
	var errs []FieldError
	if err := v.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []FieldError{{Message: err.Error()}}
		}
		for _, fe := range verrs {
			errs = append(errs, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
	}
	if f.Items != "" {
		if _, err := parseIDList(f.Items); err != nil {
			errs = append(errs, FieldError{Field: "items", Message: err.Error()})
		}
	}
	return errs
}

// toNewPoint converts a form that passed validate.
func (f *pointForm) toNewPoint() (*domain.NewPoint, error) {
	lat, err := strconv.ParseFloat(f.Latitude, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(f.Longitude, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude: %w", err)
	}
	ids, err := parseIDList(f.Items)
	if err != nil {
		return nil, err
	}
	return &domain.NewPoint{
		Name:      f.Name,
		Email:     f.Email,
		Whatsapp:  f.Whatsapp,
		Latitude:  lat,
		Longitude: lng,
		City:      f.City,
		UF:        f.UF,
		ItemIDs:   ids,
	}, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "latitude":
		return "latitude must be a number between -90 and 90"
	case "longitude":
		return "longitude must be a number between -180 and 180"
	default:
		return fe.Field() + " is invalid"
	}
}

// parseIDList parses a comma-separated list of positive item ids such as
// "1,2, 3".
func parseIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("items must be a comma-separated list of item ids, got %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
