package domain

import "errors"

var (
	// ErrNoUsableText is returned when no line of the OCR text survives filtering
	ErrNoUsableText = errors.New("no usable product text found")

	// ErrNoCandidates is returned when the shopping search yields no resolvable results
	ErrNoCandidates = errors.New("no product candidates found")

	// ErrSearchProviderFailure is returned when the shopping search request fails
	ErrSearchProviderFailure = errors.New("shopping search request failed")

	// ErrDetailProviderFailure is returned when the product detail request fails
	ErrDetailProviderFailure = errors.New("product detail request failed")

	// ErrUnresolvableToken is returned when the provider rejects a page token
	ErrUnresolvableToken = errors.New("product page token could not be resolved")

	// ErrNoTextDetected is returned when OCR succeeds but finds no text in the image
	ErrNoTextDetected = errors.New("no text detected in image")

	// ErrOCRFailure is returned when the OCR provider request fails
	ErrOCRFailure = errors.New("text extraction request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
