package shape

import (
	"fmt"
	"strings"
)

// ParseStructTag parses a `kdl:"..."` struct tag into key=value pairs
// and bare flags (flags map to an empty value). Values may be single
// quoted to include commas or spaces:
//
//	`kdl:"field=enabled,prop"`
//	`kdl:"field='display name',child"`
func ParseStructTag(tag string) (map[string]string, error) {
	result := make(map[string]string)
	if tag == "" {
		return result, nil
	}

	var parts []string
	var current strings.Builder
	inQuote := false
	for i := 0; i < len(tag); i++ {
		char := tag[i]
		switch {
		case char == '\'':
			inQuote = !inQuote
		case char == ',' && !inQuote:
			part := strings.TrimSpace(current.String())
			if part != "" {
				parts = append(parts, part)
			}
			current.Reset()
		default:
			current.WriteByte(char)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("invalid tag: unbalanced quote in %q", tag)
	}
	part := strings.TrimSpace(current.String())
	if part != "" {
		parts = append(parts, part)
	}

	for _, part := range parts {
		if idx := strings.Index(part, "="); idx >= 0 {
			key := strings.TrimSpace(part[:idx])
			if key == "" {
				return nil, fmt.Errorf("invalid tag: empty key in %q", part)
			}
			result[key] = strings.TrimSpace(part[idx+1:])
			continue
		}
		result[part] = ""
	}
	return result, nil
}

// tagFlags are the recognized bare flags in a kdl struct tag.
var tagFlags = map[string]bool{
	"arg":      true,
	"prop":     true,
	"child":    true,
	"optional": true,
	"omit":     true,
	"rune":     true,
	"-":        true,
}

func validateTag(parsed map[string]string) error {
	roles := 0
	for key, val := range parsed {
		if key == "field" {
			continue
		}
		if !tagFlags[key] {
			return fmt.Errorf("unrecognized tag entry %q", key)
		}
		if val != "" {
			return fmt.Errorf("tag flag %q takes no value", key)
		}
		switch key {
		case "arg", "prop", "child":
			roles++
		}
	}
	if roles > 1 {
		return fmt.Errorf("at most one of arg, prop, child may be set")
	}
	return nil
}
