package canvas

// Filter returns a copy of the map retaining only the given roots plus the
// transitive closure of their referenced children. The Pen tool uses this to
// prune its scratch map down to the committed path, dropping the trailing
// rubber-band node and line.
func (m ObjectMap) Filter(roots ...ObjectID) ObjectMap {
	keep := make(map[ObjectID]bool, len(m))
	stack := append([]ObjectID(nil), roots...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if keep[id] {
			continue
		}
		obj, ok := m[id]
		if !ok {
			continue
		}
		keep[id] = true
		stack = append(stack, obj.children()...)
	}

	out := make(ObjectMap, len(keep))
	for id := range keep {
		out[id] = m[id]
	}
	return out
}
