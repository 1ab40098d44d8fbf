package painter

import "github.com/chewxy/math32"

// defaultFieldOfView is the vertical field of view, in radians, of the
// default camera placed centered over a target.
const defaultFieldOfView = 1.0

// nearPlane and farPlaneFactor bound the depth range of the projection.
// The far plane sits at focalLength * farPlaneFactor.
const (
	nearPlane      = 1.0
	farPlaneFactor = 20.0
)

// Vec3 is a point in 3D space, used for camera positions.
type Vec3 struct {
	X, Y, Z float32
}

// Mat4 is a 4x4 matrix in row-major order, used for projections.
type Mat4 [16]float32

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Apply transforms v and performs the perspective divide, returning
// normalized device coordinates.
func (m Mat4) Apply(v Vec3) Vec3 {
	x := m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3]
	y := m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7]
	z := m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11]
	w := m[12]*v.X + m[13]*v.Y + m[14]*v.Z + m[15]
	if w != 0 && w != 1 {
		x /= w
		y /= w
		z /= w
	}
	return Vec3{X: x, Y: y, Z: z}
}

// DefaultCamera returns the camera position used when none is supplied:
// centered over a stage of the given size, at the distance where the stage
// exactly fills the default field of view.
func DefaultCamera(stageWidth, stageHeight float32) Vec3 {
	focalLength := stageWidth / (2 * math32.Tan(defaultFieldOfView/2))
	return Vec3{X: stageWidth / 2, Y: stageHeight / 2, Z: focalLength}
}

// PerspectiveProjection builds a projection matrix that maps the coordinate
// rectangle (x, y, width, height) onto the full viewport, with the stage
// (logical) size stageWidth x stageHeight and an optional camera position
// for perspective-correct 3D. A nil camera yields the default centered
// camera. Points on the z=0 plane map exactly as an orthographic projection
// of the rectangle; points with z > 0 recede toward the camera's vanishing
// point.
//
// The NDC convention is x right, y up (top of the rectangle maps to +1),
// depth in [0, 1].
func PerspectiveProjection(x, y, width, height, stageWidth, stageHeight float32, camera *Vec3) Mat4 {
	if stageWidth <= 0 {
		stageWidth = width
	}
	if stageHeight <= 0 {
		stageHeight = height
	}

	var cam Vec3
	if camera != nil {
		cam = *camera
	} else {
		cam = DefaultCamera(stageWidth, stageHeight)
	}

	focalLength := math32.Abs(cam.Z)
	if focalLength == 0 {
		focalLength = DefaultCamera(stageWidth, stageHeight).Z
	}
	near := float32(nearPlane)
	far := focalLength * farPlaneFactor

	// The camera sits at (cam.X, cam.Y, -focalLength); a point p projects
	// onto the z=0 plane along the ray from the camera:
	//
	//	p' = cam + (p - cam) * focalLength / (focalLength + p.z)
	//
	// which in homogeneous form gives w = 1 + z/f. The x/y rows then map
	// the projected plane coordinates onto NDC over (x, y, width, height)
	// with the y axis flipped.
	var m Mat4
	m[0] = 2 / width
	m[2] = (2*(cam.X-x)/width - 1) / focalLength
	m[3] = -(2*x/width + 1)

	m[5] = -2 / height
	m[6] = (2*(y-cam.Y)/height + 1) / focalLength
	m[7] = 2*y/height + 1

	m[10] = far / ((far - near) * focalLength)
	m[11] = far * (focalLength - near) / ((far - near) * focalLength)

	m[14] = 1 / focalLength
	m[15] = 1

	return m
}
