// Package shell builds the wireframe sphere drawn behind the particle field.
package shell

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is a set of vertices on a sphere and the unique edges between them.
type Mesh struct {
	Vertices []mgl64.Vec3
	Edges    [][2]int
}

var (
	golden = (1 + math.Sqrt(5)) / 2

	icoVertices = []mgl64.Vec3{
		{-1, golden, 0}, {1, golden, 0}, {-1, -golden, 0}, {1, -golden, 0},
		{0, -1, golden}, {0, 1, golden}, {0, -1, -golden}, {0, 1, -golden},
		{golden, 0, -1}, {golden, 0, 1}, {-golden, 0, -1}, {-golden, 0, 1},
	}

	icoFaces = [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

// Icosphere subdivides each icosahedron face into (detail+1)² triangles and
// pushes every vertex out to radius.
func Icosphere(radius float64, detail int) *Mesh {
	mb := &builder{radius: radius, index: map[[3]int64]int{}, edges: map[[2]int]struct{}{}}
	cols := detail + 1

	for _, f := range icoFaces {
		a, b, c := icoVertices[f[0]], icoVertices[f[1]], icoVertices[f[2]]

		// grid[i][j]: row i walks from the a-b edge towards c.
		grid := make([][]int, cols+1)
		for i := 0; i <= cols; i++ {
			aj := lerp(a, c, float64(i)/float64(cols))
			bj := lerp(b, c, float64(i)/float64(cols))
			rows := cols - i
			grid[i] = make([]int, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					grid[i][j] = mb.vertex(aj)
					continue
				}
				grid[i][j] = mb.vertex(lerp(aj, bj, float64(j)/float64(rows)))
			}
		}

		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					mb.triangle(grid[i][k+1], grid[i+1][k], grid[i][k])
				} else {
					mb.triangle(grid[i][k+1], grid[i+1][k+1], grid[i+1][k])
				}
			}
		}
	}

	m := &Mesh{Vertices: mb.vertices, Edges: make([][2]int, 0, len(mb.edges))}
	for e := range mb.edges {
		m.Edges = append(m.Edges, e)
	}
	return m
}

type builder struct {
	radius   float64
	vertices []mgl64.Vec3
	index    map[[3]int64]int
	edges    map[[2]int]struct{}
}

func (b *builder) vertex(v mgl64.Vec3) int {
	v = v.Normalize().Mul(b.radius)
	key := [3]int64{
		int64(math.Round(v.X() * 1e6)),
		int64(math.Round(v.Y() * 1e6)),
		int64(math.Round(v.Z() * 1e6)),
	}
	if i, ok := b.index[key]; ok {
		return i
	}
	b.vertices = append(b.vertices, v)
	b.index[key] = len(b.vertices) - 1
	return len(b.vertices) - 1
}

func (b *builder) triangle(i, j, k int) {
	b.edge(i, j)
	b.edge(j, k)
	b.edge(k, i)
}

func (b *builder) edge(i, j int) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	b.edges[[2]int{i, j}] = struct{}{}
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
