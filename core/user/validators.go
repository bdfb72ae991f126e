package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/schoolhub/backend/core"
)

var (
	userRoleTag  = "user_role"
	userRoleText = "role must be one of admin, teacher, student, parent"

	nameMinLen     = 2
	nameMinLenTag  = "namemin"
	nameMinLenText = "name must be at least 2 characters in length"
)

// InitValidators registers the user validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(userRoleTag, userRoleValidation)
	core.RegisterCustomTranslation(validate, translator, userRoleTag, userRoleText)

	validate.RegisterStructValidation(updateProfileStructValidation, UpdateProfile{})
	core.RegisterCustomTranslation(validate, translator, nameMinLenTag, nameMinLenText)
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Clean()
	return validate.Struct(nu)
}

func (up *UpdateProfile) Validate(validate *validator.Validate) error {
	up.Clean()
	return validate.Struct(up)
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Clean()
	return validate.Struct(c)
}

// Custom Validators

// userRoleValidation checks that the provided role is one of AllRoles
func userRoleValidation(fl validator.FieldLevel) bool {
	return IsValidRole(fl.Field().String())
}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if role == r {
			return true
		}
	}
	return false
}

// updateProfileStructValidation applies the registration name policy to provided names.
func updateProfileStructValidation(sl validator.StructLevel) {
	if up, ok := sl.Current().Interface().(UpdateProfile); ok {
		if up.Name != nil && len([]rune(*up.Name)) < nameMinLen {
			sl.ReportError(*up.Name, "name", "Name", nameMinLenTag, "")
		}
	}
}
