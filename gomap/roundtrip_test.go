package gomap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoundTrip(t *testing.T) {
	orig := appConfig{
		Server: serverConfig{
			Name:  "edge",
			Port:  443,
			Hosts: []string{"h1", "h2", "h3"},
			TLS:   tlsConfig{Enabled: true, Cert: "/srv/tls.pem"},
		},
		Workers: []workerConfig{{ID: 10, Quiet: true}, {ID: 20}},
		Env:     map[string]string{"PATH": "/usr/bin", "SHELL": "/bin/sh"},
		Title:   "round trip",
	}
	out, err := Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back appConfig
	if err := Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v\ndocument:\n%s", err, out)
	}
	if diff := cmp.Diff(orig, back); diff != "" {
		t.Errorf("round trip mismatch (-orig +back):\n%s", diff)
	}
}

func TestRoundTripScalarVariety(t *testing.T) {
	type scalars struct {
		S   string  `kdl:"field=s,prop"`
		B   bool    `kdl:"field=b,prop"`
		I8  int8    `kdl:"field=i8,prop"`
		U16 uint16  `kdl:"field=u16,prop"`
		I64 int64   `kdl:"field=i64,prop"`
		F32 float32 `kdl:"field=f32,prop"`
		F64 float64 `kdl:"field=f64,prop"`
		R   rune    `kdl:"field=r,prop,rune"`
		L   level   `kdl:"field=l,prop"`
	}
	type root struct {
		V scalars `kdl:"field=v,child"`
	}
	orig := root{V: scalars{
		S:   "two words",
		B:   true,
		I8:  -128,
		U16: 65535,
		I64: -1 << 62,
		F32: 0.5,
		F64: -2.25,
		R:   'x',
		L:   3,
	}}
	out, err := Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back root
	if err := Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v\ndocument:\n%s", err, out)
	}
	if diff := cmp.Diff(orig, back); diff != "" {
		t.Errorf("round trip mismatch (-orig +back):\n%s", diff)
	}
}

func TestRoundTripOptionalAsymmetry(t *testing.T) {
	type root struct {
		Mode *string `kdl:"field=mode,child"`
	}
	// absent stays absent
	out, err := Marshal(root{})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("empty struct emitted %q", out)
	}
	var back root
	if err := Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if back.Mode != nil {
		t.Errorf("Mode = %v, want nil", back.Mode)
	}
}
