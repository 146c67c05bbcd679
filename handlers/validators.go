package handlers

import (
	"food-delivery-backend/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators wires custom binding rules into gin's validator
// engine. Call once at startup before serving requests.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return models.ValidRole(fl.Field().String())
		})
	}
}
