package app_errors

import "errors"

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrRoleExists = errors.New("role already exists")
var ErrRoleNotFound = errors.New("role not found")
var ErrRoleAlreadyAssigned = errors.New("user already has this role")
var ErrRoleNotAssigned = errors.New("user does not have this role")
var ErrIncorrectPassword = errors.New("incorrect username or password")
var ErrTokenExpired = errors.New("token expired")
var ErrInvalidToken = errors.New("invalid token")
var ErrMalformedHash = errors.New("malformed password hash")
var ErrMissingSigningKey = errors.New("jwt signing key is not set")
