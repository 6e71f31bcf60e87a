// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"mediapress/internal/apperr"
)

// validate is the shared validator instance; struct tags on request
// DTOs carry the rules (field limits included).
var validate = validator.New(validator.WithRequiredStructEnabled())

// checkStruct runs struct-tag validation and converts the first failure
// into a user-facing validation error naming the offending field.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if ok := errorsAs(err, &errs); ok && len(errs) > 0 {
		fe := errs[0]
		return apperr.Validationf(fieldName(fe), "field %s fails rule %q", fieldName(fe), fe.Tag())
	}
	return apperr.Validationf("", "invalid request")
}

func errorsAs(err error, target *validator.ValidationErrors) bool {
	e, ok := err.(validator.ValidationErrors)
	if ok {
		*target = e
	}
	return ok
}

// fieldName lowercases the first rune so errors name JSON fields, not
// Go struct fields.
func fieldName(fe validator.FieldError) string {
	f := fe.Field()
	if f == "" {
		return ""
	}
	return strings.ToLower(f[:1]) + f[1:]
}
