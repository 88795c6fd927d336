package admin

import (
	"strings"

	"repairhub/models"
	"repairhub/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MinPasswordLength matches the Firebase Auth minimum.
const MinPasswordLength = 6

// ValidPhone reports whether s is a local mobile number of exactly 11 ASCII
// digits.
func ValidPhone(s string) bool {
	return validate.Var(s, "len=11,number") == nil
}

// normalize trims the request and checks every field.
func normalize(req models.AccountRequest) (models.AccountRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Email == "" {
		return req, utils.NewValidationError("email", "is required")
	}
	if err := validate.Var(req.Email, "email"); err != nil {
		return req, utils.NewValidationError("email", "is not a valid address")
	}
	if len(req.Password) < MinPasswordLength {
		return req, utils.NewValidationError("password", "must be at least 6 characters")
	}
	if !ValidPhone(req.Phone) {
		return req, utils.NewValidationError("phone", "must be exactly 11 digits")
	}
	return req, nil
}
