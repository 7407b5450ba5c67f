package ui

import (
	"image"
	"unsafe"

	"github.com/AllenDang/cimgui-go/imgui"
)

// InitImgui tells the current imgui context that the renderer manages
// textures. Font atlas pages are then created, updated and destroyed through
// the texture requests handled by RenderImgui.
//
func (r *Renderer) InitImgui() {
	io := imgui.CurrentIO()
	io.SetBackendFlags(io.BackendFlags() | imgui.BackendFlagsRendererHasTextures)
}

// texImage wraps the pixels of td in an image. Alpha8 textures become white
// with varying alpha.
//
func texImage(td *imgui.TextureData) image.Image {
	w, h := int(td.Width()), int(td.Height())
	pix := unsafe.Add(nil, td.Pixels())
	r := image.Rect(0, 0, w, h)
	if td.Format() == imgui.TextureFormatAlpha8 {
		return &image.Alpha{Pix: unsafe.Slice((*uint8)(pix), w*h), Stride: w, Rect: r}
	}
	return &image.NRGBA{Pix: unsafe.Slice((*uint8)(pix), 4*w*h), Stride: 4 * w, Rect: r}
}

// UpdateImguiTextures handles the pending texture requests of dd and reports
// the results back to imgui.
//
func (r *Renderer) UpdateImguiTextures(dd *imgui.DrawData) {
	texs := dd.Textures().Slice()
	for i := range texs {
		td := &texs[i]
		var req TextureRequest
		switch td.Status() {
		case imgui.TextureStatusWantCreate:
			req = TextureRequest{Op: TextureCreate, Image: texImage(td)}
		case imgui.TextureStatusWantUpdates:
			ur := td.UpdateRect()
			req = TextureRequest{
				Op:    TextureUpdate,
				ID:    uint32(td.TexID()),
				Image: texImage(td),
				Rect:  image.Rect(int(ur.X()), int(ur.Y()), int(ur.X())+int(ur.W()), int(ur.Y())+int(ur.H())),
			}
		case imgui.TextureStatusWantDestroy:
			// still referenced by the last frame
			if td.UnusedFrames() == 0 {
				continue
			}
			req = TextureRequest{Op: TextureDestroy, ID: uint32(td.TexID())}
		default:
			continue
		}
		id := r.ProcessTexture(&req)
		td.SetTexID(imgui.TextureID(id))
		if req.Op == TextureDestroy {
			td.SetStatus(imgui.TextureStatusDestroyed)
		} else {
			td.SetStatus(imgui.TextureStatusOK)
		}
	}
}

// ConvertDrawData converts imgui draw data to DrawData. Clip rectangles are
// scaled from display to framebuffer coordinates. Commands with user
// callbacks are dropped.
//
func ConvertDrawData(dd *imgui.DrawData, displaySize, fbSize [2]float32) *DrawData {
	if fbSize[0] <= 0 || fbSize[1] <= 0 {
		return nil
	}
	dd.ScaleClipRects(imgui.Vec2{X: fbSize[0] / displaySize[0], Y: fbSize[1] / displaySize[1]})

	vertexSize, offPos, offUV, offCol := imgui.VertexBufferLayout()
	indexSize := imgui.IndexBufferLayout()

	d := &DrawData{
		DisplayWidth:  displaySize[0],
		DisplayHeight: displaySize[1],
		FbWidth:       int(fbSize[0]),
		FbHeight:      int(fbSize[1]),
	}
	for _, cl := range dd.CommandLists() {
		vp, vn := cl.GetVertexBuffer()
		ip, in := cl.GetIndexBuffer()
		var l DrawList

		raw := unsafe.Slice((*byte)(vp), vn)
		l.Vertices = make([]Vertex, vn/vertexSize)
		for i := range l.Vertices {
			v := raw[i*vertexSize:]
			l.Vertices[i] = Vertex{
				X:     *(*float32)(unsafe.Pointer(&v[offPos])),
				Y:     *(*float32)(unsafe.Pointer(&v[offPos+4])),
				U:     *(*float32)(unsafe.Pointer(&v[offUV])),
				V:     *(*float32)(unsafe.Pointer(&v[offUV+4])),
				Color: *(*uint32)(unsafe.Pointer(&v[offCol])),
			}
		}

		n := in / indexSize
		l.Indices = make([]uint32, n)
		if indexSize == 2 {
			for i, x := range unsafe.Slice((*uint16)(ip), n) {
				l.Indices[i] = uint32(x)
			}
		} else {
			copy(l.Indices, unsafe.Slice((*uint32)(ip), n))
		}

		for _, cmd := range cl.Commands() {
			if cmd.HasUserCallback() {
				continue
			}
			cr := cmd.ClipRect()
			ref := cmd.TexRef()
			l.Commands = append(l.Commands, Command{
				ClipRect:  [4]float32{cr.X, cr.Y, cr.Z, cr.W},
				TexID:     uint32(ref.TexID()),
				IdxOffset: int(cmd.IdxOffset()),
				ElemCount: int(cmd.ElemCount()),
			})
		}
		d.Lists = append(d.Lists, l)
	}
	return d
}

// RenderImgui handles pending texture requests, then renders the current
// imgui frame. imgui.Render must have been called.
//
func (r *Renderer) RenderImgui(displaySize, fbSize [2]float32) {
	dd := imgui.CurrentDrawData()
	r.UpdateImguiTextures(dd)
	r.Render(ConvertDrawData(dd, displaySize, fbSize))
}
