package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUpstreamParse      = errors.New("order payload is not structurally usable")
	ErrInvalidSignature   = errors.New("invalid webhook signature")
	ErrShopRequired       = errors.New("shop domain is required")
	ErrRenderFailed       = errors.New("invoice rendering failed")
	ErrUploadFailed       = errors.New("invoice upload to storage failed")
	ErrInvalidTemplate    = errors.New("invalid template configuration")
	ErrNotificationFailed = errors.New("invoice notification failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)
