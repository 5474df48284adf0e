package ir

// Entry is a single argument or property attached to a node. A
// property has a non-empty Name; an argument has none. Entries
// preserve their declaration order within the node.
type Entry struct {
	Name  string
	Value *Value
}

func Arg(v *Value) *Entry {
	return &Entry{Value: v}
}

func Prop(name string, v *Value) *Entry {
	return &Entry{Name: name, Value: v}
}

func (e *Entry) IsArg() bool {
	return e.Name == ""
}

func (e *Entry) Clone() *Entry {
	return &Entry{Name: e.Name, Value: e.Value.Clone()}
}

// Node is a named document node: entries in declaration order plus an
// optional ordered block of children.
type Node struct {
	Name     string
	Entries  []*Entry
	Children []*Node
}

func NewNode(name string) *Node {
	return &Node{Name: name}
}

func (n *Node) AddArg(v *Value) *Node {
	n.Entries = append(n.Entries, Arg(v))
	return n
}

func (n *Node) AddProp(name string, v *Value) *Node {
	n.Entries = append(n.Entries, Prop(name, v))
	return n
}

func (n *Node) AddChild(c *Node) *Node {
	n.Children = append(n.Children, c)
	return n
}

// Args returns the node's positional argument values in order.
func (n *Node) Args() []*Value {
	var res []*Value
	for _, e := range n.Entries {
		if e.IsArg() {
			res = append(res, e.Value)
		}
	}
	return res
}

// Prop returns the value of the first property named name, or nil.
func (n *Node) Prop(name string) *Value {
	for _, e := range n.Entries {
		if e.Name == name {
			return e.Value
		}
	}
	return nil
}

// Child returns the first child node named name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) Clone() *Node {
	res := &Node{Name: n.Name}
	if n.Entries != nil {
		res.Entries = make([]*Entry, len(n.Entries))
		for i, e := range n.Entries {
			res.Entries[i] = e.Clone()
		}
	}
	if n.Children != nil {
		res.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			res.Children[i] = c.Clone()
		}
	}
	return res
}

// Visit walks the node and its children pre- and post-order. f is
// called with isPost false before descending and true after; returning
// false from the pre-order call skips the children.
func (n *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	dive, err := f(n, false)
	if err != nil {
		return err
	}
	if dive {
		for _, c := range n.Children {
			if err := c.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(n, true); err != nil {
		return err
	}
	return nil
}

func (n *Node) Equal(o *Node) bool {
	if n.Name != o.Name || len(n.Entries) != len(o.Entries) || len(n.Children) != len(o.Children) {
		return false
	}
	for i, e := range n.Entries {
		if e.Name != o.Entries[i].Name || !e.Value.Equal(o.Entries[i].Value) {
			return false
		}
	}
	for i, c := range n.Children {
		if !c.Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Document is a parsed KDL document: an ordered list of top level
// nodes.
type Document struct {
	Nodes []*Node
}

func (d *Document) AddNode(n *Node) *Document {
	d.Nodes = append(d.Nodes, n)
	return d
}

// Node returns the first top level node named name, or nil.
func (d *Document) Node(name string) *Node {
	for _, n := range d.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

func (d *Document) Clone() *Document {
	res := &Document{}
	if d.Nodes != nil {
		res.Nodes = make([]*Node, len(d.Nodes))
		for i, n := range d.Nodes {
			res.Nodes[i] = n.Clone()
		}
	}
	return res
}

func (d *Document) Equal(o *Document) bool {
	if len(d.Nodes) != len(o.Nodes) {
		return false
	}
	for i, n := range d.Nodes {
		if !n.Equal(o.Nodes[i]) {
			return false
		}
	}
	return true
}
