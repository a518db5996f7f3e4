package validators

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domain "github.com/BruksfildServices01/hyperlocal-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/hyperlocal-booking/internal/models"
)

var once sync.Once

// Register installs the custom tags on gin's validator and makes field
// errors report json (or form) names. Safe to call more than once.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(fieldName)

		mustRegister(v, "appointment_status", func(fl validator.FieldLevel) bool {
			return domain.Status(fl.Field().String()).Valid()
		})
		mustRegister(v, "payment_mode", func(fl validator.FieldLevel) bool {
			return domain.PaymentMode(fl.Field().String()).Label() != ""
		})
		mustRegister(v, "gender", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case models.GenderMale, models.GenderFemale, models.GenderUnisex, models.GenderOthers:
				return true
			}
			return false
		})
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}
