package voxel

// BlockType represents the different types of blocks in the world
type BlockType uint8

const (
	Air BlockType = iota
	Dirt
	Grass
	Cobblestone
	Bedrock
	Stone
	Glass
	Water
	Sand
	OakLog
	OakLeaves
	Snow
	OakPlanks
	StoneBricks
)

var blockNames = map[BlockType]string{
	Air:         "air",
	Dirt:        "dirt",
	Grass:       "grass",
	Cobblestone: "cobblestone",
	Bedrock:     "bedrock",
	Stone:       "stone",
	Glass:       "glass",
	Water:       "water",
	Sand:        "sand",
	OakLog:      "oak_log",
	OakLeaves:   "oak_leaves",
	Snow:        "snow",
	OakPlanks:   "oak_planks",
	StoneBricks: "stone_bricks",
}

func (b BlockType) String() string {
	if name, ok := blockNames[b]; ok {
		return name
	}
	return "unknown"
}

// BlockProperties contains the static properties of a block type.
// Tiles are indices into the 16x16 texture atlas.
type BlockProperties struct {
	Opaque     bool
	SideTile   uint16
	TopTile    uint16
	BottomTile uint16
}

// Default block properties
var blockProperties = map[BlockType]BlockProperties{
	Air:         {Opaque: false},
	Dirt:        {Opaque: true, SideTile: 2, TopTile: 2, BottomTile: 2},
	Grass:       {Opaque: true, SideTile: 3, TopTile: 0, BottomTile: 2},
	Cobblestone: {Opaque: true, SideTile: 16, TopTile: 16, BottomTile: 16},
	Bedrock:     {Opaque: true, SideTile: 17, TopTile: 17, BottomTile: 17},
	Stone:       {Opaque: true, SideTile: 1, TopTile: 1, BottomTile: 1},
	Glass:       {Opaque: false, SideTile: 49, TopTile: 49, BottomTile: 49},
	Water:       {Opaque: false, SideTile: 205, TopTile: 205, BottomTile: 205},
	Sand:        {Opaque: true, SideTile: 18, TopTile: 18, BottomTile: 18},
	OakLog:      {Opaque: true, SideTile: 20, TopTile: 21, BottomTile: 21},
	OakLeaves:   {Opaque: false, SideTile: 52, TopTile: 52, BottomTile: 52},
	Snow:        {Opaque: true, SideTile: 68, TopTile: 66, BottomTile: 2},
	OakPlanks:   {Opaque: true, SideTile: 4, TopTile: 4, BottomTile: 4},
	StoneBricks: {Opaque: true, SideTile: 54, TopTile: 54, BottomTile: 54},
}

// GetBlockProperties returns properties for a specific block type
func GetBlockProperties(blockType BlockType) BlockProperties {
	props, exists := blockProperties[blockType]
	if !exists {
		return BlockProperties{Opaque: true}
	}
	return props
}

// IsOpaque returns whether the block type occludes its neighbours by default.
// Air, Glass, Water and OakLeaves are never opaque.
func (b BlockType) IsOpaque() bool {
	switch b {
	case Air, Glass, Water, OakLeaves:
		return false
	}
	return GetBlockProperties(b).Opaque
}

// Tile returns the atlas tile used for the given face of this block type.
func (b BlockType) Tile(d Direction) uint16 {
	props := GetBlockProperties(b)
	switch d {
	case Up:
		return props.TopTile
	case Down:
		return props.BottomTile
	default:
		return props.SideTile
	}
}

// Block flag bits.
const (
	FlagOpaque uint8 = 1 << 0
	FlagMeshed uint8 = 1 << 1

	faceFlagShift = 2
	faceFlagMask  = uint8(0x3f) << faceFlagShift
)

// Block is a single voxel: its type plus a small set of flag bits.
type Block struct {
	Type  BlockType
	Flags uint8
}

// NewBlock returns a block of the given type with its default flags.
func NewBlock(t BlockType) Block {
	b := Block{Type: t}
	if t.IsOpaque() {
		b.Flags |= FlagOpaque
	}
	return b
}

// IsAir reports whether the block is empty.
func (b Block) IsAir() bool {
	return b.Type == Air
}

// IsOpaque reports whether the block fully occludes the faces behind it.
func (b Block) IsOpaque() bool {
	return b.Flags&FlagOpaque != 0 && b.Type != Air
}

// IsMeshed reports whether the block's faces were recorded by the last installed mesh.
func (b Block) IsMeshed() bool {
	return b.Flags&FlagMeshed != 0
}

// HasFace reports whether the face in direction d was emitted by the last installed mesh.
func (b Block) HasFace(d Direction) bool {
	return b.Flags&(1<<(faceFlagShift+uint(d))) != 0
}

// FaceMask returns the emitted-face bits, one bit per Direction.
func (b Block) FaceMask() uint8 {
	return (b.Flags & faceFlagMask) >> faceFlagShift
}

// withFaces replaces the face bits and marks the block as meshed.
func (b Block) withFaces(mask uint8) Block {
	b.Flags = b.Flags&^faceFlagMask | (mask<<faceFlagShift)&faceFlagMask | FlagMeshed
	return b
}
