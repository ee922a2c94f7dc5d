// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package errs holds the error categories shared across agriwatch packages. Callers wrap
// them with fmt.Errorf and "%w" and test for them with errors.Is.
package errs

import "errors"

var (
	// ErrInvalidInput marks malformed caller input such as an out-of-range coordinate or a
	// forecast that is too short. It is surfaced to the caller.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable marks a failing weather or satellite provider. It is recovered
	// by the fallback generators and never reaches the end user.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrConfiguration marks a missing or invalid setting or gazetteer entry. It is fatal
	// at startup.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotFound marks a lookup of a region or place that the gazetteer does not know.
	ErrNotFound = errors.New("not found")
)
