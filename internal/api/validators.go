package api

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/foodgram/backend/internal/models"
)

var registerOnce sync.Once

// RegisterValidators adds the domain rules to gin's validator and makes
// validation errors report JSON field names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		rules := map[string]func(string) bool{
			"username": models.ValidUsername,
			"slug":     models.ValidSlug,
			"hexcolor": models.ValidHexColor,
		}
		for tag, valid := range rules {
			valid := valid
			err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return valid(fl.Field().String())
			})
			if err != nil {
				panic(fmt.Sprintf("register %q validator: %v", tag, err))
			}
		}
	})
}
