package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken        = errors.New("INVALID_TOKEN")
	ErrProductNotFound     = errors.New("PRODUCT_NOT_FOUND")
	ErrMarketplaceNotFound = errors.New("MARKETPLACE_NOT_FOUND")
	ErrListingNotFound     = errors.New("LISTING_NOT_FOUND")
	ErrDuplicateName       = errors.New("DUPLICATE_NAME")
	ErrMissingName         = errors.New("MISSING_NAME")
)
