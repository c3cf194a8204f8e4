package graphics

// MaxTriangles is the default batch capacity in triangles.
const MaxTriangles = 2048

// Batch is a fixed-capacity arena of triangle vertices. The first
// Triangles()*3 entries are valid; anything after them is stale.
type Batch struct {
	vertices  []Vertex
	triangles int
	highWater int
}

// NewBatch allocates a batch holding up to maxTriangles triangles. A
// non-positive maxTriangles selects MaxTriangles.
func NewBatch(maxTriangles int) *Batch {
	if maxTriangles <= 0 {
		maxTriangles = MaxTriangles
	}
	return &Batch{vertices: make([]Vertex, maxTriangles*3)}
}

// Append copies one triangle into the batch. It returns false and leaves the
// batch untouched when the batch is full.
func (b *Batch) Append(tri [3]Vertex) bool {
	if b.IsFull() {
		return false
	}
	copy(b.vertices[b.triangles*3:], tri[:])
	b.triangles++
	if b.triangles > b.highWater {
		b.highWater = b.triangles
	}
	return true
}

// Reset empties the batch. The high-water mark is kept.
func (b *Batch) Reset() { b.triangles = 0 }

// Vertices returns the valid vertices. The slice aliases the batch storage and
// is only valid until the next Append or Reset.
func (b *Batch) Vertices() []Vertex { return b.vertices[:b.triangles*3] }

// Triangles returns the number of triangles held.
func (b *Batch) Triangles() int { return b.triangles }

// MaxTriangles returns the capacity in triangles.
func (b *Batch) MaxTriangles() int { return len(b.vertices) / 3 }

// CapacityRemaining returns how many more triangles fit before the batch is full.
func (b *Batch) CapacityRemaining() int { return b.MaxTriangles() - b.triangles }

// IsFull reports whether no more triangles fit.
func (b *Batch) IsFull() bool { return b.CapacityRemaining() == 0 }

// HighWater returns the largest number of triangles held at once.
func (b *Batch) HighWater() int { return b.highWater }
