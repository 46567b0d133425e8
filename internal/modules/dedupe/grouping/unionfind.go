package grouping

// disjointSet is a union-find over dense indexes with path halving and
// union by size.
type disjointSet struct {
	parent []int
	size   []int
}

func newDisjointSet(n int) *disjointSet {
	d := &disjointSet{parent: make([]int, n), size: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
		d.size[i] = 1
	}
	return d
}

func (d *disjointSet) find(x int) int {
	for d.parent[x] != x {
		d.parent[x] = d.parent[d.parent[x]]
		x = d.parent[x]
	}
	return x
}

func (d *disjointSet) union(a, b int) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	if d.size[ra] < d.size[rb] {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
	d.size[ra] += d.size[rb]
}

// components returns the members of every set with at least min elements,
// ordered by their smallest index. Members are in ascending order.
func (d *disjointSet) components(min int) [][]int {
	byRoot := map[int]int{}
	var out [][]int
	for i := range d.parent {
		r := d.find(i)
		pos, ok := byRoot[r]
		if !ok {
			pos = len(out)
			byRoot[r] = pos
			out = append(out, nil)
		}
		out[pos] = append(out[pos], i)
	}
	kept := out[:0]
	for _, c := range out {
		if len(c) >= min {
			kept = append(kept, c)
		}
	}
	return kept
}
