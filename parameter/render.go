package parameter

// Terminal view
const (
	// CellAspect is the height of a terminal cell over its width
	CellAspect = 2.0

	// CameraScale is the zoom in columns per metre
	CameraScale = 4.0

	// CameraFollowRate is how fast the camera closes on the car, 1/s of simulated time
	CameraFollowRate = 6.0

	// TrailCapacity bounds the skidmark history; the oldest marks are overwritten
	TrailCapacity = 8192

	// HUDWidth is the width of the stats panel on the left edge
	HUDWidth = 30

	// LoadBarWidth is the cell length of a per-wheel load bar at twice the static load
	LoadBarWidth = 10
)

// Car outline, metres beyond the wheel centres
const (
	BodyOverhang = 0.8
	BodySideGap  = 0.15
)
