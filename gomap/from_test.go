package gomap

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kdl-format/go-kdl/shape"
)

type tlsConfig struct {
	Enabled bool   `kdl:"field=enabled,prop"`
	Cert    string `kdl:"field=cert,prop,optional"`
}

type serverConfig struct {
	Name  string    `kdl:"field=name,arg"`
	Port  uint16    `kdl:"field=port,prop"`
	Hosts []string  `kdl:"field=hosts,prop,optional"`
	TLS   tlsConfig `kdl:"field=tls,child"`
}

type appConfig struct {
	Server  serverConfig      `kdl:"field=server,child"`
	Workers []workerConfig    `kdl:"field=worker,child"`
	Env     map[string]string `kdl:"field=env,child,optional"`
	Title   string            `kdl:"field=title,child,optional"`
}

type workerConfig struct {
	ID    int  `kdl:"field=id,arg"`
	Quiet bool `kdl:"field=quiet,prop,optional"`
}

func TestUnmarshal(t *testing.T) {
	in := `
server main port=8080 hosts="a" hosts="b" {
    tls enabled=#true cert="/etc/cert"
}
worker 1
worker 2 quiet=#true
env {
    HOME "/root"
    TERM "xterm"
}
title "demo app"
`
	var cfg appConfig
	if err := Unmarshal([]byte(in), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := appConfig{
		Server: serverConfig{
			Name:  "main",
			Port:  8080,
			Hosts: []string{"a", "b"},
			TLS:   tlsConfig{Enabled: true, Cert: "/etc/cert"},
		},
		Workers: []workerConfig{{ID: 1}, {ID: 2, Quiet: true}},
		Env:     map[string]string{"HOME": "/root", "TERM": "xterm"},
		Title:   "demo app",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalArgOrder(t *testing.T) {
	type node struct {
		A string   `kdl:"field=a,arg"`
		B int      `kdl:"field=b,arg"`
		C []string `kdl:"field=c,arg"`
	}
	type root struct {
		N node `kdl:"field=n,child"`
	}
	var cfg root
	if err := Unmarshal([]byte(`n "first" 2 "x" "y" "z"`), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := node{A: "first", B: 2, C: []string{"x", "y", "z"}}
	if diff := cmp.Diff(want, cfg.N); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalTooManyArgs(t *testing.T) {
	type node struct {
		A string `kdl:"field=a,arg"`
	}
	type root struct {
		N node `kdl:"field=n,child"`
	}
	var cfg root
	err := Unmarshal([]byte(`n "one" "two"`), &cfg)
	if err == nil {
		t.Fatal("expected error for extra positional argument")
	}
	if !strings.Contains(err.Error(), "no argument field for position 1") {
		t.Errorf("error = %v", err)
	}
}

func TestUnmarshalUnknownNames(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "unknown node",
			in:   "nonsense 1",
			want: `unknown node "nonsense"`,
		},
		{
			name: "unknown property",
			in:   `server main port=1 bogus=2 { tls enabled=#true }`,
			want: `unknown property "bogus"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg appConfig
			err := Unmarshal([]byte(tt.in), &cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestUnmarshalMissingRequired(t *testing.T) {
	// server is entered but incomplete; worker and env are sequences
	// or maps and never required
	var cfg appConfig
	err := Unmarshal([]byte("server main { tls }"), &cfg)
	if err == nil {
		t.Fatal("expected missing fields error")
	}
	var missing *shape.MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want wrapped MissingFieldsError", err)
	}
	want := []string{"server.port", "server.tls.enabled"}
	if diff := cmp.Diff(want, missing.Fields); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalMissingRootChild(t *testing.T) {
	var cfg appConfig
	err := Unmarshal([]byte(""), &cfg)
	var missing *shape.MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want wrapped MissingFieldsError", err)
	}
	want := []string{"server"}
	if diff := cmp.Diff(want, missing.Fields); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalDuplicateNode(t *testing.T) {
	var cfg appConfig
	in := `
server a port=1 { tls enabled=#true }
server b port=2 { tls enabled=#true }
`
	err := Unmarshal([]byte(in), &cfg)
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if !strings.Contains(err.Error(), "duplicate node") {
		t.Errorf("error = %v", err)
	}
}

func TestUnmarshalDuplicateProperty(t *testing.T) {
	var cfg appConfig
	err := Unmarshal([]byte(`server a port=1 port=2 { tls enabled=#true }`), &cfg)
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if !strings.Contains(err.Error(), "duplicate property") {
		t.Errorf("error = %v", err)
	}
}

func TestUnmarshalScalarChildForms(t *testing.T) {
	type root struct {
		Title string   `kdl:"field=title,child"`
		Tags  []string `kdl:"field=tag,child,optional"`
	}
	var cfg root
	in := "title \"hello\"\ntag \"a\" \"b\"\ntag \"c\"\n"
	if err := Unmarshal([]byte(in), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Title != "hello" {
		t.Errorf("Title = %q", cfg.Title)
	}
	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, cfg.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalBlockFormProperties(t *testing.T) {
	type blockSettings struct {
		Name    string `kdl:"field=name,arg,optional"`
		Enabled bool   `kdl:"field=enabled,prop"`
	}
	type root struct {
		Settings blockSettings `kdl:"field=settings,child"`
	}
	in := `
settings {
    enabled #true
    name "prod"
}
`
	var cfg root
	if err := Unmarshal([]byte(in), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := blockSettings{Name: "prod", Enabled: true}
	if diff := cmp.Diff(want, cfg.Settings); diff != "" {
		t.Errorf("Settings mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalBlockFormDuplicate(t *testing.T) {
	type blockSettings struct {
		Enabled bool `kdl:"field=enabled,prop"`
	}
	type root struct {
		Settings blockSettings `kdl:"field=settings,child"`
	}
	err := Unmarshal([]byte("settings enabled=#true { enabled #false }"), &root{})
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %v", err)
	}
}

func TestUnmarshalScalarChildErrors(t *testing.T) {
	type root struct {
		Title string `kdl:"field=title,child"`
	}
	tests := []struct {
		name string
		in   string
	}{
		{name: "no argument", in: "title"},
		{name: "two arguments", in: `title "a" "b"`},
		{name: "property", in: `title text="a"`},
		{name: "children", in: "title { x }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg root
			if err := Unmarshal([]byte(tt.in), &cfg); err == nil {
				t.Fatalf("Unmarshal(%q) expected error", tt.in)
			}
		})
	}
}

func TestUnmarshalMapForms(t *testing.T) {
	type root struct {
		Env map[string]string `kdl:"field=env,child"`
	}
	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{
			name: "child value nodes",
			in:   "env {\n  A \"1\"\n  B \"2\"\n}",
			want: map[string]string{"A": "1", "B": "2"},
		},
		{
			name: "props on the map node",
			in:   `env A="1" B="2"`,
			want: map[string]string{"A": "1", "B": "2"},
		},
		{
			name: "empty block",
			in:   "env",
			want: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg root
			if err := Unmarshal([]byte(tt.in), &cfg); err != nil {
				t.Fatalf("Unmarshal(%q) error = %v", tt.in, err)
			}
			if diff := cmp.Diff(tt.want, cfg.Env); diff != "" {
				t.Errorf("Env mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmarshalMapOfStructs(t *testing.T) {
	type rule struct {
		Allow bool `kdl:"field=allow,prop"`
	}
	type root struct {
		Rules map[string]rule `kdl:"field=rules,child"`
	}
	var cfg root
	in := "rules {\n  admin allow=#true\n  guest allow=#false\n}"
	if err := Unmarshal([]byte(in), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := map[string]rule{"admin": {Allow: true}, "guest": {Allow: false}}
	if diff := cmp.Diff(want, cfg.Rules); diff != "" {
		t.Errorf("Rules mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalOptionalNull(t *testing.T) {
	type root struct {
		Mode *string `kdl:"field=mode,child"`
	}
	var cfg root
	if err := Unmarshal([]byte("mode #null"), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	// a present null writes the zero value rather than leaving nil
	if cfg.Mode == nil || *cfg.Mode != "" {
		t.Errorf("Mode = %v, want pointer to empty string", cfg.Mode)
	}

	var absent root
	if err := Unmarshal([]byte(""), &absent); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if absent.Mode != nil {
		t.Errorf("Mode = %v, want nil when absent", absent.Mode)
	}
}

func TestUnmarshalRootPolicy(t *testing.T) {
	type bad struct {
		X int `kdl:"field=x,prop"`
	}
	var cfg bad
	err := Unmarshal([]byte("x 1"), &cfg)
	if err == nil {
		t.Fatal("expected root policy error")
	}
	if !strings.Contains(err.Error(), "only child-role fields") {
		t.Errorf("error = %v", err)
	}
}

func TestUnmarshalErrorPaths(t *testing.T) {
	var cfg appConfig
	err := Unmarshal([]byte(`server main port="x" { tls enabled=#true }`), &cfg)
	if err == nil {
		t.Fatal("expected coercion error")
	}
	var ue *UnmarshalError
	if !errors.As(err, &ue) {
		t.Fatalf("error %T is not *UnmarshalError", err)
	}
	if !strings.Contains(ue.FieldPath, "server.port") {
		t.Errorf("FieldPath = %q, want server.port", ue.FieldPath)
	}
}
