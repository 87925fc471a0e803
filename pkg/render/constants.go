package render

// Camera constants
const (
	// Movement speeds
	DefaultMoveSpeed   = 20.0
	DefaultRotateSpeed = 0.1

	// Default orientation
	DefaultYaw   = -90.0 // Facing -Z direction
	DefaultPitch = 0.0

	// Field of view
	DefaultFOV = 70.0
	MinFOV     = 1.0
	MaxFOV     = 70.0

	// Constraints
	MaxPitch = 89.0
	MinPitch = -89.0

	// Clip planes
	NearPlane = 0.1
	FarPlane  = 1000.0

	DefaultWidth  = 1280
	DefaultHeight = 720
)

// DefaultSortDistance is the planar distance in blocks within which a chunk's
// transparent faces are depth sorted every frame.
const DefaultSortDistance = 32
