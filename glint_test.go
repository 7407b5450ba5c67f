package glint_test

import (
	"image"
	"testing"

	"github.com/db47h/glint"
	"github.com/stretchr/testify/assert"
)

func TestViewMapping(t *testing.T) {
	v := glint.View{Rect: image.Rect(100, 50, 300, 150), Scale: 2}
	v.CenterOn(10, 20)
	assert.Equal(t, glint.Pt(-40, -5), v.Origin)
	assert.Equal(t, glint.Pt(200, 100), v.WorldToView(glint.Pt(10, 20)), "center of the view")
	assert.Equal(t, glint.Pt(10, 20), v.ViewToWorld(glint.Pt(200, 100)))
	assert.Equal(t, glint.PtPt(image.Pt(100, 50)), v.WorldToView(v.Origin))
}
