package encode

type EncodeOption func(*EncState)

// Indent sets the number of spaces per nesting level. The default is 4.
func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

// Depth sets the initial nesting level.
func Depth(n int) EncodeOption {
	return func(es *EncState) { es.depth = n }
}

// Compact renders the whole document on a single line, separating
// nodes with semicolons.
func Compact(v bool) EncodeOption {
	return func(es *EncState) { es.compact = v }
}

// EncodeColors enables colorized output.
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) { es.Color = c.Color }
}
