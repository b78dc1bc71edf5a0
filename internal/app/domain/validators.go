package domain

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/FACorreiaa/go-ellarises/internal/app/models"
)

var registerOnce sync.Once

// registerValidators adds the custom binding tags to gin's validator engine.
//
// email_addr accepts anything that is a valid address once normalized, so " Jo@Example.com " binds and the handler
// stores "jo@example.com".
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("email_addr", func(fl validator.FieldLevel) bool {
			return v.Var(models.NormalizeEmail(fl.Field().String()), "email") == nil
		})
	})
}
