package layout

import "github.com/teranos/mangagraph/graph"

// maxDepth bounds subdivision so coincident nodes share a leaf
const maxDepth = 24

type cell struct {
	minX, minY, size float64
	mass             float64
	cx, cy           float64 // mass center
	children         [4]int32
	body             int32 // first body of a leaf, -1 when empty
	leaf             bool
}

// quadtree is rebuilt every iteration. Cells, coordinates and the body
// chain are reused across builds, so a warm tree allocates nothing.
type quadtree struct {
	cells []cell
	xs    []float64
	ys    []float64
	mass  []float64
	next  []int32 // next body in the same leaf, -1 terminates
	stack []int32
}

func (q *quadtree) build(nodes []*graph.Node, mass []float64) {
	q.cells = q.cells[:0]
	q.xs = q.xs[:0]
	q.ys = q.ys[:0]
	q.mass = mass
	if cap(q.next) < len(nodes) {
		q.next = make([]int32, len(nodes))
	}
	q.next = q.next[:len(nodes)]

	minX, minY := nodes[0].X, nodes[0].Y
	maxX, maxY := minX, minY
	for _, n := range nodes {
		q.xs = append(q.xs, n.X)
		q.ys = append(q.ys, n.Y)
		if n.X < minX {
			minX = n.X
		}
		if n.X > maxX {
			maxX = n.X
		}
		if n.Y < minY {
			minY = n.Y
		}
		if n.Y > maxY {
			maxY = n.Y
		}
	}
	size := maxX - minX
	if h := maxY - minY; h > size {
		size = h
	}
	if size == 0 {
		size = 1
	}

	q.newCell(minX, minY, size*1.0001)
	for i := range nodes {
		q.insert(0, int32(i), 0)
	}
}

func (q *quadtree) newCell(minX, minY, size float64) int32 {
	q.cells = append(q.cells, cell{
		minX: minX, minY: minY, size: size,
		children: [4]int32{-1, -1, -1, -1},
		body:     -1,
		leaf:     true,
	})
	return int32(len(q.cells) - 1)
}

func (q *quadtree) quadrant(c *cell, x, y float64) int {
	half := c.size / 2
	idx := 0
	if x >= c.minX+half {
		idx |= 1
	}
	if y >= c.minY+half {
		idx |= 2
	}
	return idx
}

func (q *quadtree) insert(ci int32, body int32, depth int) {
	for {
		c := &q.cells[ci]
		x, y, m := q.xs[body], q.ys[body], q.mass[body]

		total := c.mass + m
		c.cx = (c.cx*c.mass + x*m) / total
		c.cy = (c.cy*c.mass + y*m) / total
		c.mass = total

		if c.leaf {
			if c.body < 0 || depth >= maxDepth {
				q.next[body] = c.body
				c.body = body
				return
			}
			// Split: a leaf above maxDepth holds exactly one body
			existing := c.body
			c.body = -1
			c.leaf = false
			q.place(ci, existing)
			c = &q.cells[ci]
		}

		qd := q.quadrant(c, x, y)
		child := c.children[qd]
		if child < 0 {
			half := c.size / 2
			minX, minY := c.minX, c.minY
			if qd&1 != 0 {
				minX += half
			}
			if qd&2 != 0 {
				minY += half
			}
			child = q.newCell(minX, minY, half)
			q.cells[ci].children[qd] = child
		}
		ci = child
		depth++
	}
}

// place moves the single body of a split leaf into a fresh child.
// Leaves only hold several bodies at maxDepth, where they never split.
func (q *quadtree) place(ci int32, body int32) {
	c := &q.cells[ci]
	qd := q.quadrant(c, q.xs[body], q.ys[body])
	half := c.size / 2
	minX, minY := c.minX, c.minY
	if qd&1 != 0 {
		minX += half
	}
	if qd&2 != 0 {
		minY += half
	}
	child := q.newCell(minX, minY, half)
	q.cells[ci].children[qd] = child

	cc := &q.cells[child]
	cc.mass = q.mass[body]
	cc.cx = q.xs[body]
	cc.cy = q.ys[body]
	cc.body = body
	q.next[body] = -1
}

// accumulate adds the repulsion felt by body i at (x, y)
func (q *quadtree) accumulate(i int, x, y, m, theta2, scaling float64, fx, fy *float64) {
	q.stack = append(q.stack[:0], 0)
	for len(q.stack) > 0 {
		ci := q.stack[len(q.stack)-1]
		q.stack = q.stack[:len(q.stack)-1]
		c := &q.cells[ci]
		if c.mass == 0 {
			continue
		}

		if c.leaf {
			for b := c.body; b >= 0; b = q.next[b] {
				if int(b) == i {
					continue
				}
				dx := x - q.xs[b]
				dy := y - q.ys[b]
				d2 := dx*dx + dy*dy
				if d2 == 0 {
					continue
				}
				factor := scaling * m * q.mass[b] / d2
				*fx += dx * factor
				*fy += dy * factor
			}
			continue
		}

		dx := x - c.cx
		dy := y - c.cy
		d2 := dx*dx + dy*dy
		if d2 > 0 && c.size*c.size < theta2*d2 {
			factor := scaling * m * c.mass / d2
			*fx += dx * factor
			*fy += dy * factor
			continue
		}
		for _, child := range c.children {
			if child >= 0 {
				q.stack = append(q.stack, child)
			}
		}
	}
}
