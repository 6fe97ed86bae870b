package model

import "github.com/go-playground/validator/v10"

// RegisterParams holds validated inputs for creating an account. The CLI
// layer parses raw input; range rules are still enforced here so the store
// never trusts the caller.
type RegisterParams struct {
	Name string `validate:"required,alpha,max=50"`
	PIN  int    `validate:"gte=1000,lte=9999"`
}

var validate = validator.New()

// Validate checks the registration rules: alphabetic name of bounded length
// and a 4-digit PIN.
func (p RegisterParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	return nil
}
