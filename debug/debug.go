// Package debug gates trace logging on KDL_DEBUG_* environment
// variables so parsing and mapping can be inspected without touching
// call sites.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Tokens bool
	Parse  bool
	Map    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Tokens = boolEnv("KDL_DEBUG_TOKENS")
	d.Parse = boolEnv("KDL_DEBUG_PARSE")
	d.Map = boolEnv("KDL_DEBUG_MAP")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Tokens() bool {
	return d.Tokens
}
func Parse() bool {
	return d.Parse
}
func Map() bool {
	return d.Map
}
