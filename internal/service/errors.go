package service

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrNoOfficialProfile  = errors.New("account has no official profile")
	ErrSessionNotActive   = errors.New("parking session is not active")
	ErrSpotOccupied       = errors.New("parking spot is already occupied")
	ErrCompoundNotUnpaid  = errors.New("compound is not unpaid")
	ErrPlateNotRecognized = errors.New("no licence plate recognised in image")
	ErrStorageDisabled    = errors.New("image storage is not configured")
)
