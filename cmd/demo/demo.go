package main

import (
	"context"
	"image"
	"image/color"
	"math/rand"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/db47h/glint"
	"github.com/db47h/glint/app"
	"github.com/db47h/glint/app/event"
	"github.com/db47h/glint/asset"
	"github.com/db47h/glint/batch"
	"github.com/db47h/glint/debug"
	"github.com/db47h/glint/gl"
	"github.com/db47h/glint/internal/log"
	"github.com/db47h/glint/text"
	"github.com/db47h/glint/ui"
	"github.com/db47h/ofs"
	"golang.org/x/image/font/basicfont"
)

const (
	scrollSpeed = 400 // world pixels per second
	mapSize     = 200
)

type sprite struct {
	x, y  float32
	scale float32
	spin  float32
	small bool
}

type demo struct {
	conf config
	log  *log.Logger

	w       *app.Window
	mgr     *asset.Manager
	sprites *batch.Sprite
	lines   *batch.Lines
	gui     *ui.Renderer
	imctx   *imgui.Context
	td      *text.Drawer
	overlay *debug.Overlay
	timer   debug.Timer

	tex      *glint.Texture
	owned    []interface{ Dispose() }
	sp0, sp1 *glint.Region
	field    []sprite
	view     glint.View
	mapView  glint.View
	rot      float32
	drag     bool
	dragPt   glint.Point
	paused   bool
	extra    chan *glint.Texture
	extraTex *glint.Texture
}

// placeholder is drawn in place of missing texture assets.
func placeholder() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 68, 68))
	for y := 0; y < 68; y++ {
		for x := 0; x < 68; x++ {
			c := color.NRGBA{0x30, 0x30, 0x30, 0xff}
			if (x/17+y/17)&1 == 0 {
				c = color.NRGBA{0xb7, 0xb5, 0x13, 0xff}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func (d *demo) Init(w *app.Window) error {
	d.w = w
	ctx := w.Context()
	ctx.SetClearColor(gl.Color{B: .5, A: 1})

	var ovl ofs.Overlay
	if err := ovl.Add(false, d.conf.Assets); err != nil {
		return err
	}
	d.mgr = asset.NewManager(&ovl, ctx, asset.TexturePath("textures"), asset.FontPath("fonts"))
	rc, n := d.mgr.Preload([]asset.Asset{asset.Texture("box.png"), asset.Font("Go-Regular.ttf")}, false)
	if err := asset.Wait(rc); err != nil {
		d.log.Warn("some assets failed to load", "error", err)
	}
	d.log.Info("assets preloaded", "count", n, "uploads", ctx.Dispatcher().Drain())

	var err error
	filter := glint.Filter(glint.LinearMipmapLinear, glint.Nearest)
	if d.tex, err = d.mgr.Texture("box.png", filter); err != nil {
		d.log.Warn("using placeholder texture", "error", err)
		d.tex = glint.NewTextureFromImage(ctx, placeholder(), filter)
		d.owned = append(d.owned, d.tex)
	}
	d.sp0 = d.tex.Region(image.Rect(1, 1, 67, 67), image.Pt(33, 33))
	d.sp1 = d.sp0.Region(image.Rect(32, 32, 66, 66), image.Pt(17, 17))

	if d.td, err = d.mgr.TextDrawer("Go-Regular.ttf", 16, text.HintingFull, glint.Nearest); err != nil {
		d.log.Warn("using fallback font", "error", err)
		d.td = text.NewDrawer(ctx, basicfont.Face7x13, glint.Nearest)
		d.owned = append(d.owned, closer{d.td})
	}
	d.overlay = debug.NewOverlay(ctx, d.td)

	if d.sprites, err = batch.NewSprite(ctx, batch.MaxPrimitives(d.conf.MaxQuads)); err != nil {
		return err
	}
	if d.lines, err = batch.NewLines(ctx); err != nil {
		return err
	}
	if d.gui, err = ui.NewRenderer(ctx); err != nil {
		return err
	}
	d.imctx = imgui.CreateContext()
	imgui.CurrentIO().SetIniFilename("")
	d.gui.InitImgui()

	d.view = glint.View{Rect: image.Rectangle{Max: w.Screen().Size()}, Scale: 1}
	d.view.CenterOn(0, 0)
	d.layout()

	r := rand.New(rand.NewSource(424242))
	d.field = make([]sprite, d.conf.Sprites)
	for i := range d.field {
		d.field[i] = sprite{
			x:     r.Float32()*4000 - 2000,
			y:     r.Float32()*4000 - 2000,
			scale: r.Float32() + .5,
			spin:  r.Float32() + .5,
			small: i&1 != 0,
		}
	}
	d.extra = make(chan *glint.Texture, 1)
	return nil
}

// layout resizes the views to the current framebuffer size.
func (d *demo) layout() {
	sz := d.w.Screen().Size()
	d.view.Rect = image.Rectangle{Max: sz}
	d.mapView = glint.View{
		Rect:  image.Rect(sz.X-mapSize, sz.Y-mapSize, sz.X, sz.Y),
		Scale: mapSize / 4000.0,
	}
	d.mapView.CenterOn(0, 0)
}

func (d *demo) OnEvent(w *app.Window, e event.Interface) {
	io := imgui.CurrentIO()
	switch e := e.(type) {
	case event.FrameBufferSize:
		d.layout()
	case event.KeyDown:
		switch app.Key(e.Key) {
		case app.KeyEscape:
			w.SetShouldClose(true)
		case app.KeySpace:
			d.paused = !d.paused
		case app.KeyF1:
			d.reloadAsync()
		}
	case event.MouseDown:
		io.AddMouseButtonEvent(int32(e.Button), true)
		if e.Button == int(app.MouseLeft) && !io.WantCaptureMouse() {
			d.drag = true
			d.dragPt = d.view.ViewToWorld(d.mouse())
		}
	case event.MouseUp:
		io.AddMouseButtonEvent(int32(e.Button), false)
		if e.Button == int(app.MouseLeft) {
			d.drag = false
		}
	case event.MouseMove:
		if d.drag {
			p := d.view.ViewToWorld(d.mouse())
			d.view.Origin = d.view.Origin.Add(d.dragPt.Sub(p))
		}
	case event.Scroll:
		if !io.WantCaptureMouse() {
			d.view.Scale *= 1 + float32(e.DY)/16
		}
		io.AddMouseWheelEvent(float32(e.DX), float32(e.DY))
	}
}

// mouse returns the cursor position in framebuffer pixels.
func (d *demo) mouse() glint.Point {
	x, y := d.w.MousePosition()
	ww, wh := d.w.Size()
	fb := d.w.Screen().Size()
	if ww == 0 || wh == 0 {
		return glint.Pt(float32(x), float32(y))
	}
	return glint.Pt(float32(x)*float32(fb.X)/float32(ww), float32(y)*float32(fb.Y)/float32(wh))
}

// reloadAsync fetches the box texture from a background goroutine. The
// upload happens on the main thread when the loop drains the dispatcher.
func (d *demo) reloadAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		t, err := d.mgr.LoadTexture(ctx, "box.png")
		if err != nil {
			d.log.Warn("async texture load failed", "error", err)
			return
		}
		d.extra <- t
	}()
}

func (d *demo) Update(dt time.Duration) {
	secs := float32(dt.Seconds())
	if !d.paused {
		d.rot += secs
	}
	var dx, dy float32
	if d.w.Key(app.KeyLeft) {
		dx -= 1
	}
	if d.w.Key(app.KeyRight) {
		dx += 1
	}
	if d.w.Key(app.KeyUp) {
		dy -= 1
	}
	if d.w.Key(app.KeyDown) {
		dy += 1
	}
	d.view.Origin = d.view.Origin.Add(glint.Pt(dx, dy).Mul(scrollSpeed * secs / d.view.Scale))

	select {
	case t := <-d.extra:
		d.extraTex = t
	default:
	}
}

func (d *demo) drawField(v *glint.View) {
	b := d.sprites
	b.SetView(v)
	for _, s := range d.field {
		r := glint.Drawable(d.sp0)
		if s.small {
			r = d.sp1
		}
		b.Draw(r, s.x, s.y, s.scale, s.scale, d.rot*s.spin, gl.White)
	}
}

func (d *demo) Draw(frameTime, _ time.Duration) {
	d.timer.Add(frameTime)
	ctx := d.w.Context()
	screen := d.w.Screen()
	fb := screen.Size()

	screen.Bind()
	ctx.Clear(gl.COLOR_BUFFER_BIT)
	ctx.SetCapability(glint.Blend, true)

	b := d.sprites
	b.ResetStats()
	b.Begin()
	d.drawField(&d.view)
	if d.extraTex != nil {
		b.DrawRegion(d.extraTex, image.Rect(0, 0, 34, 34), 0, 0, 2, 2, 0, gl.White)
	}
	b.Flush()
	stats := b.Stats()
	d.overlay.InfoBox(b, &d.view, debug.TopRight, debug.StatsLine(&d.timer, stats))
	b.End()

	// minimap
	mv := d.mapView.Rect
	ctx.SetViewport(glint.Rect{X: mv.Min.X, Y: fb.Y - mv.Max.Y, W: mv.Dx(), H: mv.Dy()})
	b.Begin()
	d.drawField(&d.mapView)
	b.End()
	d.lines.SetProjection(glint.Ortho(mapSize, mapSize))
	d.lines.Begin()
	d.lines.Rect(0, 0, mapSize, mapSize, gl.White)
	tl := d.mapView.WorldToView(d.view.Origin).Sub(glint.PtPt(mv.Min))
	br := d.mapView.WorldToView(d.view.ViewToWorld(glint.PtPt(fb))).Sub(glint.PtPt(mv.Min))
	d.lines.Rect(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y, gl.Color{R: 1, A: 1})
	d.lines.End()
	screen.Bind()

	d.drawGUI(fb)
}

func (d *demo) drawGUI(fb image.Point) {
	ww, wh := d.w.Size()
	io := imgui.CurrentIO()
	io.SetDisplaySize(imgui.Vec2{X: float32(ww), Y: float32(wh)})
	if avg := d.timer.Average(); avg > 0 {
		io.SetDeltaTime(float32(avg.Seconds()))
	}
	x, y := d.w.MousePosition()
	io.SetMousePos(imgui.Vec2{X: float32(x), Y: float32(y)})

	imgui.NewFrame()
	imgui.BeginV("glint", nil, imgui.WindowFlagsAlwaysAutoResize)
	imgui.Text(app.DriverVersion())
	imgui.Checkbox("Paused", &d.paused)
	imgui.SliderFloat("Zoom", &d.view.Scale, .05, 4)
	st := d.sprites.Stats()
	imgui.Text(debug.StatsLine(&d.timer, st))
	imgui.Text("F1: reload texture in background")
	imgui.End()
	imgui.Render()

	d.gui.RenderImgui([2]float32{float32(ww), float32(wh)}, [2]float32{float32(fb.X), float32(fb.Y)})
}

type closer struct{ td *text.Drawer }

func (c closer) Dispose() { _ = c.td.Close() }

func (d *demo) Terminate() error {
	imgui.DestroyContext()
	d.gui.Dispose()
	d.lines.Dispose()
	d.sprites.Dispose()
	d.overlay.Dispose()
	for _, o := range d.owned {
		o.Dispose()
	}
	return d.mgr.Close()
}
