package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/medictrans/oncall-api/internal/model"
	appvalidator "github.com/medictrans/oncall-api/pkg/validator"
)

// RegisterValidators installs the domain binding rules on gin's validator
// and makes errors report json field names. Call once before serving.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	appvalidator.UseJSONNames(v)
	if err := appvalidator.RegisterEnum(v, "locale", func(s string) bool {
		return s == string(model.LocaleBG) || s == string(model.LocaleEN)
	}); err != nil {
		return err
	}
	return appvalidator.RegisterEnum(v, "service_type", func(s string) bool {
		return model.IsKnownServiceType(model.ServiceType(s))
	})
}
