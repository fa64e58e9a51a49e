package validation

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Struct runs validator tags on a request body struct.
func Struct(s interface{}) error {
	return validate.Struct(s)
}
