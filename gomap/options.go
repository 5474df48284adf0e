package gomap

import (
	"github.com/kdl-format/go-kdl/encode"
	"github.com/kdl-format/go-kdl/parse"
)

// MapOption controls marshaling from Go values to KDL.
type MapOption interface {
	applyMap(*mapConfig)
}

// UnmapOption controls unmarshaling from KDL to Go values.
type UnmapOption interface {
	applyUnmap(*unmapConfig)
}

type mapConfig struct {
	EncodeOptions []encode.EncodeOption
}

type unmapConfig struct {
	ParseOptions []parse.ParseOption
}

type encodeOptions []encode.EncodeOption

func (o encodeOptions) applyMap(cfg *mapConfig) {
	cfg.EncodeOptions = append(cfg.EncodeOptions, o...)
}

// WithEncodeOptions passes options through to encode.Encode.
func WithEncodeOptions(opts ...encode.EncodeOption) MapOption {
	return encodeOptions(opts)
}

type parseOptions []parse.ParseOption

func (o parseOptions) applyUnmap(cfg *unmapConfig) {
	cfg.ParseOptions = append(cfg.ParseOptions, o...)
}

// WithParseOptions passes options through to parse.Parse.
func WithParseOptions(opts ...parse.ParseOption) UnmapOption {
	return parseOptions(opts)
}

// ToEncodeOptions extracts encode options from a slice of MapOptions.
func ToEncodeOptions(opts ...MapOption) []encode.EncodeOption {
	cfg := &mapConfig{}
	for _, opt := range opts {
		opt.applyMap(cfg)
	}
	return cfg.EncodeOptions
}

// ToParseOptions extracts parse options from a slice of UnmapOptions.
func ToParseOptions(opts ...UnmapOption) []parse.ParseOption {
	cfg := &unmapConfig{}
	for _, opt := range opts {
		opt.applyUnmap(cfg)
	}
	return cfg.ParseOptions
}
