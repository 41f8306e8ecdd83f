package domain

import "errors"

var (
	// ErrNetwork signals a connect, timeout or TLS failure while fetching.
	ErrNetwork = errors.New("network failure")
	// ErrMalformedHeader signals an unparseable subscription-userinfo header.
	ErrMalformedHeader = errors.New("malformed userinfo header")
	// ErrDecode signals a failed body decode. Always recovered locally.
	ErrDecode = errors.New("decode failed")
	// ErrParse signals that no usable traffic fields were found.
	ErrParse = errors.New("no usable traffic fields")
	// ErrProbeExhausted signals that every probe path was tried without result.
	ErrProbeExhausted = errors.New("probe paths exhausted")

	// ErrNotFound signals a missing subscription.
	ErrNotFound = errors.New("subscription not found")
	// ErrAlreadyExists signals a duplicate subscription name.
	ErrAlreadyExists = errors.New("subscription already exists")
)
