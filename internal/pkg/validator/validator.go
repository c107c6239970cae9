package validator

import (
	"regexp"

	"github.com/MirrorChyan/dxvk-manager/internal/model/types"
	"github.com/MirrorChyan/dxvk-manager/internal/pkg/errs"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

var (
	versionRegexp = regexp.MustCompile(`^[^:*?"<>|\x00-\x1f]{1,128}$`)
)

var (
	uni   = ut.New(en.New())
	trans ut.Translator
)

func init() {
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, trans)

	registerTranslation("channel", "{0} must be one of dxvk, dxvk-gplasync")
	registerTranslation("version", "{0} must be a version name without path separators or reserved characters")
}

func registerTranslation(tag, text string) {
	_ = Validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
		return ut.Add(tag, text, true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(tag, fe.Field())
		return t
	})
}

var Validate = New()

func New() *validator.Validate {

	validate := validator.New()

	_ = validate.RegisterValidation("channel", channel)
	_ = validate.RegisterValidation("version", version)

	return validate
}

func channel(fl validator.FieldLevel) bool {
	return types.Channel(fl.Field().String()).Known()
}

func version(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val != "." && val != ".." && versionRegexp.MatchString(val)
}

type ValidationError struct {
	Field     string `json:"field"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

func convertValidationErrors(ves validator.ValidationErrors) []*ValidationError {

	errors := make([]*ValidationError, 0, len(ves))

	for _, fe := range ves {

		errors = append(errors, &ValidationError{
			Field:     fe.Field(),
			Violation: fe.Tag(),
			Message:   fe.Translate(trans),
		})
	}

	return errors
}

// Struct validates dest and converts violations into an InvalidParams error.
func Struct(dest any) error {
	err := Validate.Struct(dest)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return errs.ErrInvalidParams.Wrap(err)
	}

	return errs.ErrInvalidParams.WithDetails(fiber.Map{
		"violations": convertValidationErrors(ves),
	})
}

func ValidateBody(c *fiber.Ctx, dest any) error {

	if err := c.BodyParser(dest); err != nil {
		return errs.ErrInvalidParams.WithMessage("invalid request body").Wrap(err)
	}

	return Struct(dest)
}
