package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var pinPattern = regexp.MustCompile(`^\d{6}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	_ = v.RegisterValidation("pin6", func(fl validator.FieldLevel) bool {
		return pinPattern.MatchString(fl.Field().String())
	})
	return v
}

// messenger lets a request map field/tag failures to user-facing text.
type messenger interface {
	validationMessage(field, tag string) string
}

var errInvalidBody = errors.New("invalid request body")

func decodeJSON(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return errInvalidBody
	}
	return nil
}

// validationError returns the message for the most relevant failure:
// missing fields are reported before malformed ones.
func validationError(dest messenger, err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "요청 형식이 올바르지 않습니다."
	}
	first := errs[0]
	for _, fe := range errs {
		if fe.Tag() == "required" {
			first = fe
			break
		}
	}
	if msg := dest.validationMessage(first.Field(), first.Tag()); msg != "" {
		return msg
	}
	return first.Field() + " 값이 올바르지 않습니다."
}
