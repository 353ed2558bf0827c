// Copyright 2026 the transmux authors.
// Use of this source code is governed by a MIT-style license
// that can be found in the LICENSE file.

package transmux

// Options configures a Transmuxer: a plain struct built up by
// functional-option constructors, not a CLI flag set or an env-parsed
// config framework.
type Options struct {
	BaseMediaDecodeTime    int64
	KeepOriginalTimestamps bool
	Remux                  bool
	AlignGopsAtEnd         bool
}

type Option func(*Options)

func WithBaseMediaDecodeTime(t int64) Option {
	return func(o *Options) { o.BaseMediaDecodeTime = t }
}

func WithKeepOriginalTimestamps(v bool) Option {
	return func(o *Options) { o.KeepOriginalTimestamps = v }
}

func WithRemux(v bool) Option {
	return func(o *Options) { o.Remux = v }
}

func WithAlignGopsAtEnd(v bool) Option {
	return func(o *Options) { o.AlignGopsAtEnd = v }
}

func newOptions(opts ...Option) Options {
	var o Options
	for _, apply := range opts {
		apply(&o)
	}
	return o
}
