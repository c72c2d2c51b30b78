package pagecraft

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/pagecraft/client-go/internal/apierrors"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("pagecraft: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateRequest checks req against its declared tags. The first failing
// field becomes the error's Field; every failure is listed in Details.
func validateRequest(req any) error {
	if req == nil || (reflect.ValueOf(req).Kind() == reflect.Pointer && reflect.ValueOf(req).IsNil()) {
		return apierrors.NewValidationError("request is required", "request")
	}

	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return apierrors.NewValidationError(err.Error(), "")
	}

	fields := make(map[string]any, len(verrors))
	for _, verror := range verrors {
		fields[fieldPath(verror)] = customErrForTag(verror.Tag(), verror)
	}

	first := verrors[0]
	verr := apierrors.NewValidationError(customErrForTag(first.Tag(), first), fieldPath(first))
	verr.Details = map[string]any{"fields": fields}
	return verr
}

// requireID rejects an empty identifier before it reaches a path.
func requireID(id, field string) error {
	if strings.TrimSpace(id) == "" {
		return apierrors.NewValidationError(field+" is required", field)
	}
	return nil
}

// fieldPath drops the struct name from the namespace: "ScrapeRequest.url" -> "url".
func fieldPath(verror validator.FieldError) string {
	ns := verror.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return verror.Field()
}

func customErrForTag(tag string, verror validator.FieldError) string {
	switch tag {
	case "required":
		return verror.Field() + " is required"
	case "required_without":
		return verror.Field() + " is required when " + lowerFirst(verror.Param()) + " is not set"
	default:
		return verror.Translate(translator)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
