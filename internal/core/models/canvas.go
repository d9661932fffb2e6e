package models

import (
	"image"
	"image/color"
)

// Canvas is the drawing surface supplied by the rendering collaborator.
// Save and Restore bracket transform changes.
type Canvas interface {
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(rad float64)

	FillRect(x, y, w, h float64, c color.Color)
	FillEllipse(x, y, w, h float64, c color.Color)
	DrawImage(img image.Image, x, y, w, h float64)
}

// Shape selects how an entity without an image is filled.
type Shape uint8

const (
	ShapeNone Shape = iota
	ShapeRect
	ShapeEllipse
)

func (s Shape) String() string {
	switch s {
	case ShapeRect:
		return "rect"
	case ShapeEllipse:
		return "ellipse"
	default:
		return "none"
	}
}
