package parse

type ParseOption func(*parseOpts)

type parseOpts struct {
	maxDepth int
}

// MaxDepth bounds the nesting depth of child blocks. Documents nesting
// deeper than n fail to parse. The default is 1024.
func MaxDepth(n int) ParseOption {
	return func(po *parseOpts) { po.maxDepth = n }
}
