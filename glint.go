// Package glint is a thin abstraction layer over OpenGL.
//
// It manages GPU object lifetimes and keeps, for each rendering Context, a
// cache of the scalar state and of the objects bound at each bind point so
// that redundant driver calls are skipped. Sprite, line and UI batch
// renderers are built on top of it in the batch and ui packages.
//
// Contract violations, like binding a disposed object or writing out of a
// buffer's bounds, panic. Device failures, like shader compilation errors,
// are returned as errors.
package glint

import (
	"image"
)

// Drawable is implemented by anything the sprite batch can draw.
//
type Drawable interface {
	// Texture returns the texture to sample from.
	Texture() *Texture
	// Origin is the point of origin of the drawable, relative to its top left
	// corner. Rotation and scaling are done around that point.
	Origin() image.Point
	// Size is the size of the drawable in pixels.
	Size() image.Point
	// UV returns the texture coordinates of the bottom left and top right
	// corners.
	UV() [4]float32
}

// Point is a point in world or framebuffer coordinates.
//
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{x, y}.
//
func Pt(x, y float32) Point { return Point{x, y} }

// PtPt converts an image.Point to a Point.
//
func PtPt(p image.Point) Point { return Point{float32(p.X), float32(p.Y)} }

func (p Point) Add(q Point) Point   { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point   { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float32) Point { return Point{p.X * k, p.Y * k} }
func (p Point) Div(k float32) Point { return Point{p.X / k, p.Y / k} }

// Mat4 is a column major 4x4 matrix.
//
type Mat4 [16]float32

// View maps world coordinates to a rectangle of a framebuffer.
//
type View struct {
	Rect   image.Rectangle // framebuffer area, (0,0) is the top left corner
	Origin Point           // world coordinates of the top-left point
	Scale  float32
}

// Size returns the size of the view in framebuffer pixels.
//
func (v *View) Size() image.Point {
	return v.Rect.Size()
}

// CenterOn sets the view origin so that the world point (x, y) is at the
// center of the view.
//
func (v *View) CenterOn(x, y float32) {
	v.Origin.X = x - float32(v.Rect.Dx())/(2*v.Scale)
	v.Origin.Y = y - float32(v.Rect.Dy())/(2*v.Scale)
}

// ViewToWorld converts framebuffer coordinates to world coordinates.
//
func (v *View) ViewToWorld(p Point) Point {
	return p.Sub(PtPt(v.Rect.Min)).Div(v.Scale).Add(v.Origin)
}

// WorldToView converts world coordinates to framebuffer coordinates.
//
func (v *View) WorldToView(p Point) Point {
	return p.Sub(v.Origin).Mul(v.Scale).Add(PtPt(v.Rect.Min))
}

// ProjectionMatrix returns an orthographic projection mapping world
// coordinates to clip space, with y pointing down.
//
func (v *View) ProjectionMatrix() Mat4 {
	sX, sY := float32(v.Rect.Dx()), float32(v.Rect.Dy())
	z2 := v.Scale * 2
	return Mat4{
		z2 / sX, 0, 0, 0,
		0, -z2 / sY, 0, 0,
		0, 0, -1, 0,
		-(sX + v.Origin.X*z2) / sX, (sY + v.Origin.Y*z2) / sY, 0, 1,
	}
}

// Ortho returns an orthographic projection for a width x height pixel area
// with (0,0) at the top left corner.
//
func Ortho(width, height float32) Mat4 {
	return Mat4{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
}
