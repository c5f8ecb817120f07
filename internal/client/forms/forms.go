// Package forms checks user input before it reaches the auth gateway or the
// memorial repository. Every rejection is a *ValidationError whose message can
// be shown to the user as is.
package forms

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/memoria/internal/client/models"
	"github.com/go-playground/validator/v10"
)

// MinPasswordLen is the shortest password accepted at registration.
const MinPasswordLen = 6

// MinBirthYear is the earliest birth year accepted for a memorial.
const MinBirthYear = 1800

const (
	MsgRequired         = "Please fill in all fields."
	MsgRequiredMemorial = "Please fill in all required fields."
	MsgPasswordMismatch = "Passwords do not match."
	MsgPasswordTooShort = "Password must be at least 6 characters long."
	MsgInvalidEmail     = "Please enter a valid email address."
	MsgYearOrder        = "Birth year must be before death year."
	MsgYearRange        = "Please check the years."
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("mailaddr", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidationError is a rejected form with a single user-facing message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RegistrationForm is the input of the register screen.
type RegistrationForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,mailaddr"`
	Password string `validate:"required,min=6"`
	Confirm  string `validate:"required,eqfield=Password"`
}

// LoginForm is the input of the login screen.
type LoginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// MemorialForm is the raw input of the create screen. Years are kept as typed.
type MemorialForm struct {
	Name        string `validate:"required"`
	BirthYear   string `validate:"required"`
	DeathYear   string `validate:"required"`
	Description string
}

type memorialYears struct {
	Birth       int `validate:"ltfield=Death,gte=1800"`
	Death       int `validate:"ltefield=CurrentYear"`
	CurrentYear int
}

// rule is one failing tag mapped to its message. Lower rank is reported first.
type rule struct {
	rank    int
	message string
}

var registrationRules = map[string]rule{
	"required": {0, MsgRequired},
	"eqfield":  {1, MsgPasswordMismatch},
	"min":      {2, MsgPasswordTooShort},
	"mailaddr": {3, MsgInvalidEmail},
}

var loginRules = map[string]rule{
	"required": {0, MsgRequired},
}

var memorialRules = map[string]rule{
	"required": {0, MsgRequiredMemorial},
}

var yearRules = map[string]rule{
	"ltfield":  {0, MsgYearOrder},
	"gte":      {1, MsgYearRange},
	"ltefield": {1, MsgYearRange},
}

// ValidateRegistration checks, in order: all fields present, confirmation
// matches, password length, email shape.
func ValidateRegistration(f RegistrationForm) error {
	return check(f, registrationRules)
}

// ValidateLogin requires both email and password.
func ValidateLogin(f LoginForm) error {
	return check(f, loginRules)
}

// ValidateMemorial turns the create form into a draft. Years must be
// integers with birth < death, birth >= MinBirthYear and death not after
// the year of now.
func ValidateMemorial(f MemorialForm, now time.Time) (models.MemorialDraft, error) {
	if err := check(f, memorialRules); err != nil {
		return models.MemorialDraft{}, err
	}

	birth, err := strconv.Atoi(strings.TrimSpace(f.BirthYear))
	if err != nil {
		return models.MemorialDraft{}, &ValidationError{Field: "BirthYear", Message: MsgYearRange}
	}
	death, err := strconv.Atoi(strings.TrimSpace(f.DeathYear))
	if err != nil {
		return models.MemorialDraft{}, &ValidationError{Field: "DeathYear", Message: MsgYearRange}
	}

	years := memorialYears{Birth: birth, Death: death, CurrentYear: now.Year()}
	if err := check(years, yearRules); err != nil {
		return models.MemorialDraft{}, err
	}

	return models.MemorialDraft{
		Name:        f.Name,
		BirthYear:   birth,
		DeathYear:   death,
		Description: f.Description,
	}, nil
}

func check(form any, rules map[string]rule) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var (
		best  *ValidationError
		bestR = -1
	)
	for _, fe := range fieldErrs {
		r, ok := rules[fe.Tag()]
		if !ok {
			continue
		}
		if best == nil || r.rank < bestR {
			best = &ValidationError{Field: fe.Field(), Message: r.message}
			bestR = r.rank
		}
	}
	if best == nil {
		return fieldErrs
	}
	return best
}
