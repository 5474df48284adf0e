package gomap

import (
	"fmt"
	"reflect"
	"strconv"
)

// level is a text-mapped scalar used across the package tests.
type level int

var levelNames = []string{"info", "warn", "error", "debug"}

func (l level) MarshalText() ([]byte, error) {
	if int(l) < len(levelNames) {
		return []byte(levelNames[l]), nil
	}
	return []byte(strconv.Itoa(int(l))), nil
}

func (l *level) UnmarshalText(d []byte) error {
	s := string(d)
	for i, name := range levelNames {
		if name == s {
			*l = level(i)
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("unknown level %q", s)
	}
	*l = level(n)
	return nil
}

func reflectValueOf(v any) reflect.Value {
	return reflect.ValueOf(v)
}
