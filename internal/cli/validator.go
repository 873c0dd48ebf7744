package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/tiendademo/storefront/internal/messages"
)

const dateLayout = "2006-01-02"

// now is replaced in tests.
var now = time.Now

// registrationForm mirrors the sign-up screen.
type registrationForm struct {
	FullName  string `validate:"required"`
	Handle    string `validate:"required,min=3"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,strongpwd"`
	Confirm   string `validate:"required"`
	BirthDate string `validate:"required,datetime=2006-01-02,notfuture,minage=13"`
	Address   string
}

type passwordChangeForm struct {
	Current  string `validate:"required"`
	Password string `validate:"required,profilepwd"`
	Confirm  string `validate:"required"`
}

type recoveryResetForm struct {
	Email    string `validate:"required,email"`
	Code     string `validate:"required,len=6,numeric"`
	Password string `validate:"required,strongpwd"`
	Confirm  string `validate:"required"`
}

type recoveryCodeForm struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,len=6,numeric"`
}

type emailForm struct {
	Email string `validate:"required,email"`
}

type couponForm struct {
	Code string `validate:"required,min=4"`
}

type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	v := validator.New()
	_ = v.RegisterValidation("hasupper", containsRune(unicode.IsUpper))
	_ = v.RegisterValidation("hasdigit", containsRune(unicode.IsDigit))
	_ = v.RegisterValidation("hasspecial", containsRune(func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	}))
	_ = v.RegisterValidation("notfuture", notFuture)
	_ = v.RegisterValidation("minage", minAge)
	v.RegisterAlias("strongpwd", "min=6,max=18,hasupper,hasdigit,hasspecial")
	v.RegisterAlias("profilepwd", "min=6,max=18,hasupper,hasdigit")
	return &formValidator{v: v}
}

// Validate checks form and, for forms with a confirmation field, that both
// passwords match. Failures wrap messages.ErrInvalidFields or
// messages.ErrPasswordsDiffer.
func (fv *formValidator) Validate(form any) error {
	if err := fv.v.Struct(form); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%w: %s", messages.ErrInvalidFields, strings.Join(msgs, "; "))
		}
		return err
	}

	var pw, confirm string
	switch f := form.(type) {
	case *registrationForm:
		pw, confirm = f.Password, f.Confirm
	case *passwordChangeForm:
		pw, confirm = f.Password, f.Confirm
	case *recoveryResetForm:
		pw, confirm = f.Password, f.Confirm
	default:
		return nil
	}
	if pw != confirm {
		return messages.ErrPasswordsDiffer
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "numeric":
		return field + " must contain only digits"
	case "datetime":
		return field + " must be a date (YYYY-MM-DD)"
	case "notfuture":
		return field + " cannot be in the future"
	case "minage":
		return fmt.Sprintf("you must be at least %s years old", fe.Param())
	case "strongpwd":
		return field + " needs 6-18 characters with an uppercase letter, a digit and a symbol"
	case "profilepwd":
		return field + " needs 6-18 characters with an uppercase letter and a digit"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func containsRune(pred func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), pred) >= 0
	}
}

// notFuture accepts dates up to and including today.
func notFuture(fl validator.FieldLevel) bool {
	d, err := time.Parse(dateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	return !d.After(today())
}

// minAge accepts birth dates at least param whole years ago.
func minAge(fl validator.FieldLevel) bool {
	years, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	d, err := time.Parse(dateLayout, fl.Field().String())
	if err != nil {
		return false
	}
	return !d.AddDate(years, 0, 0).After(today())
}

func today() time.Time {
	y, m, d := now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
