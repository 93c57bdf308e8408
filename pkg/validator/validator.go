package validator

import (
	"database/sql/driver"
	"fmt"
	"mime"
	"reflect"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
	"github.com/guregu/null/v6"

	"github.com/beanbocchi/multipart/internal/model"
)

var (
	once     sync.Once
	validate *CustomValidator
)

type CustomValidator struct {
	uni       *ut.UniversalTranslator
	validator *validator.Validate
}

func New() (*CustomValidator, error) {
	en := en.New()
	uni := ut.New(en, en)
	validate := validator.New(
		validator.WithRequiredStructEnabled(),
	)

	// Report fields by their JSON name, that is what clients send
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	// Register default translations (en)
	trans, _ := uni.GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register translations: %w", err)
	}

	if err := validate.RegisterValidation("mediatype", isMediaType); err != nil {
		return nil, fmt.Errorf("failed to register mediatype validation: %w", err)
	}
	if err := validate.RegisterTranslation("mediatype", trans,
		func(ut ut.Translator) error {
			return ut.Add("mediatype", "{0} must be a valid media type", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("mediatype", fe.Field())
			return t
		},
	); err != nil {
		return nil, fmt.Errorf("failed to register mediatype translation: %w", err)
	}

	// Register all nullable types to use the ParseNullable CustomTypeFunc
	validate.RegisterCustomTypeFunc(
		ParseNullable,
		null.Bool{},
		null.Float{},
		null.Int32{},
		null.Int64{},
		null.String{},
		model.Scalar{},
		// uuid.UUID has TextUnmarshaler implemented, no need to register
		uuid.NullUUID{},
	)

	return &CustomValidator{
		uni:       uni,
		validator: validate,
	}, nil
}

func (cv *CustomValidator) Validate(i any) error {
	err := cv.validator.Struct(i)
	if valErr, ok := err.(validator.ValidationErrors); ok {
		trans, _ := cv.uni.GetTranslator("en")
		fields := make(map[string]string, len(valErr))
		for _, fe := range valErr {
			fields[fe.Field()] = fe.Translate(trans)
		}
		text, err := sonic.Marshal(fields)
		if err != nil {
			return model.ErrInvalidInput.Fmt(valErr.Error())
		}

		return model.ErrInvalidInput.Fmt(string(text))
	}
	if err != nil {
		// Nil or non-struct input
		return model.ErrInvalidInput.Fmt(err.Error())
	}

	return nil
}

type Nullable interface {
	driver.Valuer
}

// Workaround for omitnil not working with "untyped nil"
// https://github.com/go-playground/validator/issues/1209#issuecomment-1892359649
var nilValue *struct{}

// ParseNullable implements validator.CustomTypeFunc
func ParseNullable(field reflect.Value) any {
	if nullValue, ok := field.Interface().(Nullable); ok {
		if val, err := nullValue.Value(); err == nil {
			if val == nil {
				return nilValue // Return typed nil to indicate "nil" value
			}
			return val
		}
	}

	return nil // Return untyped nil means we tell the validator to throw error (because we cannot parse the value)
}

// isMediaType accepts RFC 2045 type/subtype media types such as
// "text/plain; charset=utf-8".
func isMediaType(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(field.String())
	if err != nil {
		return false
	}
	typ, subtype, ok := strings.Cut(mediaType, "/")
	return ok && typ != "" && subtype != "" && !strings.Contains(subtype, "/")
}

// Export shortcut to get the singleton validator instance
func Validate(i any) error {
	once.Do(func() {
		var err error
		validate, err = New()
		if err != nil {
			panic(fmt.Sprintf("failed to create validator: %v", err))
		}
	})
	return validate.Validate(i)
}
