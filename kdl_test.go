package kdl

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kdl-format/go-kdl/encode"
)

type settings struct {
	Enabled bool   `kdl:"field=enabled,prop"`
	Name    string `kdl:"field=name,prop,optional"`
}

type config struct {
	Settings settings `kdl:"field=settings,child"`
	Includes []string `kdl:"field=include,child,optional"`
}

func TestUnmarshal(t *testing.T) {
	in := `
settings enabled=#true name="prod"
include "base.kdl"
include "extra.kdl"
`
	var cfg config
	if err := Unmarshal([]byte(in), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := config{
		Settings: settings{Enabled: true, Name: "prod"},
		Includes: []string{"base.kdl", "extra.kdl"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalChildBlock(t *testing.T) {
	type blockSettings struct {
		Enabled bool `kdl:"field=enabled,prop"`
	}
	type blockConfig struct {
		Settings blockSettings `kdl:"field=settings,child"`
	}
	in := `
settings {
    enabled #true
}
`
	var cfg blockConfig
	if err := Unmarshal([]byte(in), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !cfg.Settings.Enabled {
		t.Errorf("Unmarshal() Settings.Enabled = false, want true")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	orig := config{
		Settings: settings{Enabled: true},
		Includes: []string{"a.kdl"},
	}
	out, err := Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back config
	if err := Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v\ndocument:\n%s", err, out)
	}
	if diff := cmp.Diff(orig, back); diff != "" {
		t.Errorf("round trip mismatch (-orig +back):\n%s", diff)
	}
}

func TestParseEncode(t *testing.T) {
	doc, err := Parse([]byte("a { b 1; c 2 }"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	var buf bytes.Buffer
	if err := Encode(doc, &buf, encode.Compact(true)); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if want := "a { b 1; c 2 }\n"; buf.String() != want {
		t.Errorf("Encode() = %q, want %q", buf.String(), want)
	}
}
