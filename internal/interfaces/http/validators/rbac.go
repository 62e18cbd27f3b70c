// Package validators registers the binding tags that check request fields against the
// permission vocabulary.
package validators

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	vo "github.com/wardgate/wardgate/internal/domain/permission/value_objects"
	"github.com/wardgate/wardgate/internal/shared/utils"
)

const (
	TagResource       = "rbac_resource"
	TagAction         = "rbac_action"
	TagPermissionCode = "permission_code"
)

// Register installs the rbac tags on gin's default validator.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return RegisterOn(v)
}

// RegisterOn installs the rbac tags on v and makes it report fields by json name.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(utils.JSONTagName)

	validations := map[string]validator.Func{
		TagResource:       isResource,
		TagAction:         isAction,
		TagPermissionCode: isPermissionCode,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func isResource(fl validator.FieldLevel) bool {
	_, err := vo.NewResource(fl.Field().String())
	return err == nil
}

func isAction(fl validator.FieldLevel) bool {
	_, err := vo.NewAction(fl.Field().String())
	return err == nil
}

func isPermissionCode(fl validator.FieldLevel) bool {
	_, err := vo.ParsePair(fl.Field().String())
	return err == nil
}
