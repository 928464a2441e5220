package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
)

var (
	trans     ut.Translator
	setupOnce sync.Once
)

// Setup registers Japanese translations on Gin's binding engine.
// Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}

		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		jaLocale := ja.New()
		uni := ut.New(jaLocale, jaLocale)
		trans, _ = uni.GetTranslator("ja")
		_ = ja_translations.RegisterDefaultTranslations(v, trans)
	})
}

// TranslateErrors maps a binding/validation error to field name → message.
// Anything that is not a validation error lands under "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// Struct validates a value decoded outside Gin binding, such as a
// WebSocket action payload.
func Struct(v interface{}) map[string]string {
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
