package helper

import "github.com/go-playground/validator/v10"

// Shared validator instance for DTO structs.
var Validate = validator.New()
