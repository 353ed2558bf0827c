// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package base

import "errors"

// ----- pkg/aac -----------------------------------------------------------------------------------------------------

var ErrSamplingFrequencyIndex = errors.New("transmux.aac: invalid sampling frequency index")

// ----- pkg/avc -----------------------------------------------------------------------------------------------------

var (
	ErrAvc          = errors.New("transmux.avc: malformed NAL unit")
	ErrExpGolombEof = errors.New("transmux.avc: exp-golomb reader ran out of bits")
)
