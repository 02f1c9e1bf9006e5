package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrPropertyNotFound   = errors.New("property not found")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrNotListingOwner    = errors.New("not the owner of this listing")
	ErrGeocodeNoMatch     = errors.New("geocode: no match for location")
)
