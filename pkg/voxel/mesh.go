package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Direction represents one of the six block faces
type Direction int

const (
	North Direction = iota // -Z
	South                  // +Z
	West                   // -X
	East                   // +X
	Up                     // +Y
	Down                   // -Y

	directionCount = 6
)

// Directions lists every face direction in table order.
var Directions = [directionCount]Direction{North, South, West, East, Up, Down}

var directionOffsets = [directionCount][3]int{
	North: {0, 0, -1},
	South: {0, 0, 1},
	West:  {-1, 0, 0},
	East:  {1, 0, 0},
	Up:    {0, 1, 0},
	Down:  {0, -1, 0},
}

// Linear offsets into a chunk's flat block array.
var directionIndexOffsets = [directionCount]int{
	North: -Width * Height,
	South: Width * Height,
	West:  -1,
	East:  1,
	Up:    Width,
	Down:  -Width,
}

// Offset returns the block-space step for the direction.
func (d Direction) Offset() [3]int {
	return directionOffsets[d]
}

// DirectionVector returns the unit vector for a direction
func (d Direction) DirectionVector() mgl32.Vec3 {
	o := directionOffsets[d]
	return mgl32.Vec3{float32(o[0]), float32(o[1]), float32(o[2])}
}

// CornerOffsets are the eight corners of a unit block.
var CornerOffsets = [8]mgl32.Vec3{
	{0, 1, 0},
	{1, 1, 0},
	{0, 0, 0},
	{1, 0, 0},
	{0, 1, 1},
	{1, 1, 1},
	{0, 0, 1},
	{1, 0, 1},
}

// FaceCorners lists, per direction, the corners of the face in
// top-left, top-right, bottom-left, bottom-right order.
var FaceCorners = [directionCount][4]int{
	North: {0, 1, 2, 3},
	South: {5, 4, 7, 6},
	West:  {4, 0, 6, 2},
	East:  {1, 5, 3, 7},
	Up:    {4, 5, 0, 1},
	Down:  {2, 3, 6, 7},
}

// QuadIndices triangulates one face from its four corners.
var QuadIndices = [6]uint32{0, 2, 3, 0, 3, 1}

// Baked directional light per face, 0-15.
var faceLight = [directionCount]int{
	North: 13,
	South: 13,
	West:  12,
	East:  12,
	Up:    15,
	Down:  10,
}

// Mesh is an indexed triangle list of quantized vertices
type Mesh struct {
	Vertices []QuantizedVertex
	Indices  []uint32
}

// Faces returns the number of quads in the mesh.
func (m *Mesh) Faces() int {
	return len(m.Vertices) / 4
}

// AddFace appends a quad as two triangles
func (m *Mesh) AddFace(quad [4]QuantizedVertex) {
	baseIndex := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, quad[:]...)
	for _, i := range QuadIndices {
		m.Indices = append(m.Indices, baseIndex+i)
	}
}

// TransparentQuad is one transparent face kept apart for per-frame depth sorting.
type TransparentQuad struct {
	Vertices [4]QuantizedVertex
	// Center is the world-space centroid of the four corners.
	Center mgl32.Vec3
}

// MeshData is the immutable output of a mesh job.
type MeshData struct {
	Coord            ChunkCoord
	Opaque           Mesh
	Transparent      Mesh
	TransparentQuads []TransparentQuad
	// FaceMasks holds the emitted-face bits per block index. Nil when the chunk is empty.
	FaceMasks  []uint8
	BlockCount int
}

// Empty reports whether the mesh has no geometry at all.
func (d *MeshData) Empty() bool {
	return len(d.Opaque.Vertices) == 0 && len(d.Transparent.Vertices) == 0
}

// BlockLookup resolves blocks by world position across chunk boundaries.
// ok is false when the owning chunk is not loaded.
type BlockLookup interface {
	BlockAt(x, y, z int) (block Block, ok bool)
}

// FaceVisible reports whether a face of block is visible against neighbour.
// A face is hidden when the neighbour is the same type or is opaque.
func FaceVisible(block, neighbour Block) bool {
	return neighbour.Type != block.Type && !neighbour.IsOpaque()
}

// GenerateMeshData builds opaque and transparent geometry for every visible
// face in the chunk. Faces on the X/Z boundary consult lookup; when the
// neighbouring chunk is not loaded the face is emitted. The chunk is read
// under its read lock and is not modified.
func (c *Chunk) GenerateMeshData(lookup BlockLookup) *MeshData {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data := &MeshData{Coord: c.coord, BlockCount: c.blockCount}
	if c.blockCount == 0 {
		return data
	}
	data.FaceMasks = make([]uint8, Volume)

	origin := c.coord.Origin()
	for i, b := range c.blocks {
		if b.IsAir() {
			continue
		}
		x, y, z := IndexToLocal(i)

		var mask uint8
		for _, d := range Directions {
			if n, ok := c.neighbour(i, x, y, z, d, lookup); ok && !FaceVisible(b, n) {
				continue
			}
			mask |= 1 << uint(d)
			data.addFace(b, x, y, z, d, origin)
		}
		data.FaceMasks[i] = mask
	}
	return data
}

// neighbour returns the block adjacent to index i in direction d. ok is false
// above or below the column and when the neighbouring chunk is not loaded.
func (c *Chunk) neighbour(i, x, y, z int, d Direction, lookup BlockLookup) (Block, bool) {
	o := directionOffsets[d]
	nx, ny, nz := x+o[0], y+o[1], z+o[2]
	if ny < 0 || ny >= Height {
		return Block{}, false
	}
	if nx < 0 || nx >= Width || nz < 0 || nz >= Width {
		if lookup == nil {
			return Block{}, false
		}
		return lookup.BlockAt(int(c.coord.X)*Width+nx, ny, int(c.coord.Z)*Width+nz)
	}
	return c.blocks[i+directionIndexOffsets[d]], true
}

func (d *MeshData) addFace(b Block, x, y, z int, dir Direction, origin mgl32.Vec3) {
	light := faceLight[dir]
	tile := int(b.Type.Tile(dir))

	var quad [4]QuantizedVertex
	for k, corner := range FaceCorners[dir] {
		quad[k] = NewQuantizedVertex(VertexFields{
			X: x, Y: y, Z: z,
			Corner: corner,
			Light:  light,
			Face:   dir,
			Tile:   tile,
			UV:     k,
		})
	}

	if b.IsOpaque() {
		d.Opaque.AddFace(quad)
		return
	}
	d.Transparent.AddFace(quad)
	d.TransparentQuads = append(d.TransparentQuads, TransparentQuad{
		Vertices: quad,
		Center:   origin.Add(QuadCenter(quad)),
	})
}

// QuadCenter returns the chunk-local centroid of a quad's corners.
func QuadCenter(quad [4]QuantizedVertex) mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, v := range quad {
		sum = sum.Add(v.LocalCorner())
	}
	return sum.Mul(0.25)
}
