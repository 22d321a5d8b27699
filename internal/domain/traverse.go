package domain

// Handler is called once for every visited node, after the node's children
type Handler func(ctx *Context)

// Options adjusts traversal behaviour. The zero value uses loose truthiness:
// falsy values (null, false, 0, "") are never visited or written, and a
// zero index or empty key is left out of Path.
type Options struct {
	// VisitFalsy visits falsy values and lets SetValue write them
	VisitFalsy bool
	// StrictPath keeps index 0 and empty keys in Path
	StrictPath bool
}

// Node is the record of one visited value. It does not own its container or
// parent; both belong to the document being walked.
type Node struct {
	value     Value
	container Value
	parent    *Node
	key       string
	hasKey    bool
	index     int
	hasIndex  bool
}

// Value returns the visited value
func (n *Node) Value() Value { return n.value }

// Parent returns the node of the enclosing container, nil for the root
func (n *Node) Parent() *Node { return n.parent }

// Key returns the object key this value occupies
func (n *Node) Key() (string, bool) { return n.key, n.hasKey }

// Index returns the array index this value occupies
func (n *Node) Index() (int, bool) { return n.index, n.hasIndex }

// KeyIs reports whether the node sits under the given object key
func (n *Node) KeyIs(key string) bool {
	return n != nil && n.hasKey && n.key == key
}

// Traverse walks doc depth-first and post-order, calling every handler in
// order for each visited value. Array elements are visited from the last
// index down so that a handler removing its own element does not disturb
// the elements still to be visited.
//
// doc must be acyclic. Handlers may only mutate their own node.
func Traverse(doc Value, handlers ...Handler) Value {
	return TraverseWith(doc, Options{}, handlers...)
}

// TraverseWith is Traverse with explicit options
func TraverseWith(doc Value, opts Options, handlers ...Handler) Value {
	w := &walker{opts: opts, handlers: handlers}
	w.visit(&Node{value: doc})
	return doc
}

type walker struct {
	opts     Options
	handlers []Handler
}

func (w *walker) visit(n *Node) {
	if !w.opts.VisitFalsy && !n.value.Truthy() {
		return
	}

	switch n.value.Kind() {
	case KindObject:
		obj := n.value.Object()
		for _, k := range obj.Keys() {
			item, ok := obj.Get(k)
			if !ok {
				continue
			}
			w.visit(&Node{value: item, container: n.value, parent: n, key: k, hasKey: true})
		}
	case KindArray:
		arr := n.value.Array()
		for i := arr.Len() - 1; i >= 0; i-- {
			item, ok := arr.At(i)
			if !ok {
				continue
			}
			w.visit(&Node{value: item, container: n.value, parent: n, index: i, hasIndex: true})
		}
	}

	ctx := &Context{node: n, opts: w.opts}
	for _, h := range w.handlers {
		h(ctx)
	}
}

// Context gives a handler access to the node it was called for. It must not
// be retained after the handler returns.
type Context struct {
	node *Node
	opts Options
}

// Node returns the visited node
func (c *Context) Node() *Node { return c.node }

// Value returns the current value of the node
func (c *Context) Value() Value { return c.node.value }

// Key returns the object key of the node
func (c *Context) Key() (string, bool) { return c.node.Key() }

// Index returns the array index of the node
func (c *Context) Index() (int, bool) { return c.node.Index() }

// Parent returns the node of the enclosing container
func (c *Context) Parent() *Node { return c.node.parent }

// Container returns the object or array physically holding the value
func (c *Context) Container() Value { return c.node.container }

// SetValue overwrites the slot the node occupies. Falsy values are refused
// unless the traversal visits falsy values; the root has no slot.
func (c *Context) SetValue(v Value) bool {
	if !c.opts.VisitFalsy && !v.Truthy() {
		return false
	}
	n := c.node
	switch {
	case n.hasKey && n.container.Kind() == KindObject:
		n.container.Object().Set(n.key, v)
	case n.hasIndex && n.container.Kind() == KindArray:
		if !n.container.Array().SetAt(n.index, v) {
			return false
		}
	default:
		return false
	}
	n.value = v
	return true
}

// DeleteSelf removes the slot: a key delete on an object, a splice on an array
func (c *Context) DeleteSelf() bool {
	n := c.node
	switch {
	case n.hasKey && n.container.Kind() == KindObject:
		return n.container.Object().Delete(n.key)
	case n.hasIndex && n.container.Kind() == KindArray:
		return n.container.Array().Splice(n.index)
	default:
		return false
	}
}

// Parents returns the ancestor chain from the root down to this node
func (c *Context) Parents() []*Node {
	var chain []*Node
	for n := c.node; n != nil; n = n.parent {
		chain = append(chain, n)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Path returns the keys and indices leading from the root to this node
func (c *Context) Path() Path {
	var p Path
	for _, n := range c.Parents() {
		switch {
		case n.hasKey:
			if n.key != "" || c.opts.StrictPath {
				p = append(p, KeySegment(n.key))
			}
		case n.hasIndex:
			if n.index != 0 || c.opts.StrictPath {
				p = append(p, IndexSegment(n.index))
			}
		}
	}
	return p
}

// StringifyPath renders Path as an accessor expression such as a.b[1]["x-y"]
func (c *Context) StringifyPath() string {
	return c.Path().String()
}
