package components

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/spaghettifunk/meshview/engine/math"
)

/** @brief The name of the default camera. */
const DEFAULT_CAMERA_NAME string = "default"

// Pitch stays this far from the poles so the up vector never aligns with the view direction.
const pitchLimit = float32(1.55334306) // 89 degrees

// Pan distance per pixel, scaled by the distance to the target.
const panFactor = float32(0.0015)

/**
 * @brief Initial state of a camera. Reset returns to it.
 */
type CameraSettings struct {
	Position          mgl32.Vec3
	Target            mgl32.Vec3
	FOVDegrees        float32
	Near              float32
	Far               float32
	ZoomSensitivity   float32
	RotateSensitivity float32
	// World units per second for keyboard movement.
	MoveSpeed float32
}

func DefaultCameraSettings() CameraSettings {
	return CameraSettings{
		Position:          mgl32.Vec3{0, 0, 5},
		Target:            mgl32.Vec3{0, 0, 0},
		FOVDegrees:        45.0,
		Near:              0.1,
		Far:               100.0,
		ZoomSensitivity:   0.5,
		RotateSensitivity: 0.005,
		MoveSpeed:         1.0,
	}
}

/**
 * @brief An orbit camera looking at a target point. The view and
 * projection matrices are rebuilt lazily when their dirty flag is set.
 * Ideally, these are created and managed by the camera system.
 */
type Camera struct {
	settings CameraSettings

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	/** @brief Vertical field of view in radians. */
	fov         float32
	near        float32
	far         float32
	aspectRatio float32

	ZoomSensitivity   float32
	RotateSensitivity float32
	MoveSpeed         float32

	/** @brief Internal flag used to determine when the view matrix needs to be rebuilt. */
	viewDirty  bool
	viewMatrix mgl32.Mat4

	projectionDirty  bool
	projectionMatrix mgl32.Mat4
}

type CameraLookup struct {
	ID             uint16
	ReferenceCount uint16
	Camera         *Camera
}

func NewCamera() *Camera {
	return NewCameraWithSettings(DefaultCameraSettings())
}

func NewCameraWithSettings(settings CameraSettings) *Camera {
	camera := &Camera{settings: settings, aspectRatio: 1.0}
	camera.Reset()
	return camera
}

// Reset restores the initial settings. The aspect ratio is kept.
func (c *Camera) Reset() {
	s := c.settings
	c.position = s.Position
	c.target = s.Target
	c.up = mgl32.Vec3{0, 1, 0}
	c.fov = mgl32.DegToRad(s.FOVDegrees)
	c.near = s.Near
	c.far = s.Far
	c.ZoomSensitivity = s.ZoomSensitivity
	c.RotateSensitivity = s.RotateSensitivity
	c.MoveSpeed = s.MoveSpeed
	c.viewDirty = true
	c.projectionDirty = true
}

func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

func (c *Camera) SetPosition(position mgl32.Vec3) {
	c.position = position
	c.viewDirty = true
}

func (c *Camera) Target() mgl32.Vec3 {
	return c.target
}

func (c *Camera) SetTarget(target mgl32.Vec3) {
	c.target = target
	c.viewDirty = true
}

func (c *Camera) Near() float32 { return c.near }
func (c *Camera) Far() float32  { return c.far }

func (c *Camera) AspectRatio() float32 {
	return c.aspectRatio
}

// SetAspectRatio derives the aspect ratio from the framebuffer size. A zero height is ignored.
func (c *Camera) SetAspectRatio(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	c.aspectRatio = float32(width) / float32(height)
	c.projectionDirty = true
}

// Distance from the camera to its target.
func (c *Camera) Distance() float32 {
	return c.position.Sub(c.target).Len()
}

func (c *Camera) Forward() mgl32.Vec3 {
	return c.target.Sub(c.position).Normalize()
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.Forward().Cross(c.up).Normalize()
}

/**
 * @brief Rotates the camera around its target. dx turns around the world
 * up axis, dy tilts towards the poles; both are in pixels.
 */
func (c *Camera) Orbit(dx, dy float32) {
	offset := c.position.Sub(c.target)
	radius := offset.Len()
	if radius == 0 {
		return
	}
	yaw := float32(stdmath.Atan2(float64(offset.X()), float64(offset.Z())))
	pitch := float32(stdmath.Asin(float64(math.Clamp(offset.Y()/radius, -1, 1))))

	yaw -= dx * c.RotateSensitivity
	pitch = math.Clamp(pitch+dy*c.RotateSensitivity, -pitchLimit, pitchLimit)

	cosPitch := float32(stdmath.Cos(float64(pitch)))
	offset = mgl32.Vec3{
		radius * cosPitch * float32(stdmath.Sin(float64(yaw))),
		radius * float32(stdmath.Sin(float64(pitch))),
		radius * cosPitch * float32(stdmath.Cos(float64(yaw))),
	}
	c.position = c.target.Add(offset)
	c.viewDirty = true
}

// Zoom moves the camera along the view direction. Positive delta moves closer; the distance never drops below near.
func (c *Camera) Zoom(delta float32) {
	distance := c.Distance()
	if distance == 0 {
		return
	}
	direction := c.position.Sub(c.target).Mul(1 / distance)
	distance = max(distance-delta*c.ZoomSensitivity, c.near)
	c.position = c.target.Add(direction.Mul(distance))
	c.viewDirty = true
}

// Pan slides camera and target together in the view plane.
func (c *Camera) Pan(dx, dy float32) {
	forward := c.Forward()
	right := forward.Cross(c.up).Normalize()
	up := right.Cross(forward)
	scale := c.Distance() * panFactor
	translation := right.Mul(-dx * scale).Add(up.Mul(dy * scale))
	c.position = c.position.Add(translation)
	c.target = c.target.Add(translation)
	c.viewDirty = true
}

/**
 * @brief Slides camera and target together along the view direction and
 * its right vector for the given seconds. forward and right are axis inputs
 * in [-1, 1]; a diagonal moves no faster than a single axis.
 */
func (c *Camera) Move(forward, right, seconds float32) {
	direction := c.Forward().Mul(forward).Add(c.Right().Mul(right))
	if direction.Len() < 0.1 {
		return
	}
	translation := direction.Normalize().Mul(c.MoveSpeed * seconds)
	c.position = c.position.Add(translation)
	c.target = c.target.Add(translation)
	c.viewDirty = true
}

/**
 * @brief Moves the camera so the box [min, max] fills the view, keeping
 * the current view direction. The far plane grows when needed.
 */
func (c *Camera) FrameBounds(min, max mgl32.Vec3) {
	center := min.Add(max).Mul(0.5)
	radius := max.Sub(min).Len() * 0.5
	if radius <= 0 {
		radius = 1.0
	}
	distance := radius / float32(stdmath.Sin(float64(c.fov)*0.5))

	direction := c.position.Sub(c.target)
	if direction.Len() == 0 {
		direction = mgl32.Vec3{0, 0, 1}
	}
	direction = direction.Normalize()

	c.target = center
	c.position = center.Add(direction.Mul(distance))
	if needed := distance + radius*2; needed > c.far {
		c.far = needed
		c.projectionDirty = true
	}
	c.viewDirty = true
}

func (c *Camera) View() mgl32.Mat4 {
	if c.viewDirty {
		c.viewMatrix = mgl32.LookAtV(c.position, c.target, c.up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// Projection is a perspective matrix with Y flipped for Vulkan clip space.
func (c *Camera) Projection() mgl32.Mat4 {
	if c.projectionDirty {
		c.projectionMatrix = mgl32.Perspective(c.fov, c.aspectRatio, c.near, c.far)
		c.projectionMatrix[5] *= -1
		c.projectionDirty = false
	}
	return c.projectionMatrix
}
