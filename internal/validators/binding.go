package validators

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/ajo-backend/internal/models"
)

// Register adds the custom binding tags to gin's validator engine.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("validators: gin engine is not validator/v10")
	}
	return RegisterOn(v)
}

func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("user_status", userStatus); err != nil {
		return err
	}
	return v.RegisterValidation("menu_status", menuStatus)
}

func userStatus(fl validator.FieldLevel) bool {
	return models.UserStatus(fl.Field().String()).Valid()
}

func menuStatus(fl validator.FieldLevel) bool {
	return models.MenuStatus(fl.Field().String()).Valid()
}
