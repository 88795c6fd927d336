package admin

import "errors"

// ErrNotAdmin is returned when the caller is not listed in the admins
// collection.
var ErrNotAdmin = errors.New("caller is not an administrator")

// ErrEmailExists is returned when the email already has an Auth account.
var ErrEmailExists = errors.New("email is already registered")
