// Package termhost runs the like effect inside a terminal using tcell.
//
// The container is the terminal grid scaled to virtual pixels (CellWidth by
// CellHeight per cell), so curves keep the same shape as in the windowed
// viewer. Each particle is drawn as one heart glyph at the centre of its icon
// box, coloured by its variant and faded toward the background by its alpha.
package termhost

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/likefx/pkg/components"
	"github.com/decker502/likefx/pkg/ecs"
	"github.com/decker502/likefx/pkg/stage"
	"github.com/decker502/likefx/pkg/systems"
)

const (
	heartGlyph = '♥'
	smallGlyph = '·'
	// 入场缩放低于此值时画成小点
	smallScale = 0.5
)

// Options configures the terminal host.
type Options struct {
	CellWidth  float64 // virtual pixels per column
	CellHeight float64 // virtual pixels per row
	FPS        int
	Background color.RGBA
	ShowHUD    bool
	// AutoPlayInterval is used when auto play is toggled from the keyboard.
	AutoPlayInterval time.Duration
}

// DefaultOptions returns settings for a typical 1:2 terminal cell.
func DefaultOptions() Options {
	return Options{
		CellWidth:        8,
		CellHeight:       16,
		FPS:              30,
		Background:       color.RGBA{A: 0xff},
		ShowHUD:          true,
		AutoPlayInterval: 300 * time.Millisecond,
	}
}

// Host drives a stage from terminal input and draws it with tcell.
type Host struct {
	screen  tcell.Screen
	stage   *stage.Stage
	palette []color.RGBA
	sound   Sound
	opts    Options

	// 上一次鼠标事件时左键是否按下，拖动产生的移动事件不再重复点赞
	button1Down bool
}

// New creates a host. sound may be nil.
func New(screen tcell.Screen, st *stage.Stage, palette []color.RGBA, sound Sound, opts Options) *Host {
	if opts.CellWidth <= 0 || opts.CellHeight <= 0 {
		d := DefaultOptions()
		opts.CellWidth, opts.CellHeight = d.CellWidth, d.CellHeight
	}
	if opts.FPS <= 0 {
		opts.FPS = DefaultOptions().FPS
	}
	if opts.AutoPlayInterval <= 0 {
		opts.AutoPlayInterval = DefaultOptions().AutoPlayInterval
	}
	h := &Host{
		screen:  screen,
		stage:   st,
		palette: append([]color.RGBA(nil), palette...),
		sound:   sound,
		opts:    opts,
	}
	if sound != nil {
		st.OnSpawn(func(systems.LikeHandle) { sound.PlayPop() })
	}
	h.resize()
	return h
}

// Run processes input and renders frames until ctx is done or the user quits.
func (h *Host) Run(ctx context.Context) error {
	h.screen.EnableMouse()
	defer h.screen.DisableMouse()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	frame := time.Second / time.Duration(h.opts.FPS)
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if h.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			h.Step(dt)
		}
	}
}

// HandleEvent applies one terminal event. It returns true when the user quits.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		h.resize()
		h.screen.Sync()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyEnter:
			h.stage.RequestLike(stage.SourceKey)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return true
			case ' ', 'l', 'L':
				h.stage.RequestLike(stage.SourceKey)
			case 'a', 'A':
				h.stage.SetAutoPlay(!h.stage.AutoPlay(), h.opts.AutoPlayInterval)
			case 'c', 'C':
				h.stage.CancelAll()
			case 'h', 'H':
				h.opts.ShowHUD = !h.opts.ShowHUD
			}
		}
	case *tcell.EventMouse:
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !h.button1Down {
			h.stage.RequestLike(stage.SourceTap)
		}
		h.button1Down = down
	}
	return false
}

// resize maps the terminal grid to the stage container.
func (h *Host) resize() {
	cols, rows := h.screen.Size()
	h.stage.Resize(float64(cols)*h.opts.CellWidth, float64(rows)*h.opts.CellHeight)
	log.Printf("[TermHost] Terminal %dx%d cells", cols, rows)
}

// Step advances the stage by dt seconds and redraws.
func (h *Host) Step(dt float64) {
	h.stage.Update(dt)
	h.Draw()
}

// Draw renders every live particle and the status line.
func (h *Host) Draw() {
	bg := toTcell(h.opts.Background)
	base := tcell.StyleDefault.Background(bg)
	h.screen.Fill(' ', base)

	cols, rows := h.screen.Size()
	em := h.stage.EntityManager()
	ids := ecs.GetEntitiesWith3[
		*components.LikeSpriteComponent,
		*components.PositionComponent,
		*components.LikeVisualComponent,
	](em)

	for _, id := range ids {
		if em.IsMarkedForDestroy(id) {
			continue
		}
		sprite, _ := ecs.GetComponent[*components.LikeSpriteComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		visual, _ := ecs.GetComponent[*components.LikeVisualComponent](em, id)
		if visual.Alpha <= 0 {
			continue
		}

		col, row := CellFor(pos.X, pos.Y, sprite.Width, sprite.Height, h.opts.CellWidth, h.opts.CellHeight)
		if col < 0 || row < 0 || col >= cols || row >= rows {
			continue
		}

		glyph := heartGlyph
		if visual.Scale < smallScale {
			glyph = smallGlyph
		}
		fg := ShadeColor(h.variantColor(sprite.Variant), h.opts.Background, visual.Alpha)
		h.screen.SetContent(col, row, glyph, nil, base.Foreground(toTcell(fg)))
	}

	if h.opts.ShowHUD {
		st := h.stage.Stats()
		h.drawText(0, 0, fmt.Sprintf(" live %d  likes %d  remote %d  auto %v  [space] like [a]uto [c]lear [q]uit ",
			st.Live, st.Spawned, st.Remote, h.stage.AutoPlay()), base.Foreground(tcell.ColorGray))
	}

	h.screen.Show()
}

func (h *Host) drawText(x, y int, s string, style tcell.Style) {
	cols, _ := h.screen.Size()
	for _, r := range s {
		if x >= cols {
			return
		}
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (h *Host) variantColor(v components.HeartVariant) color.RGBA {
	r, g, b, a := systems.HeartColor(h.palette, v, 1)
	return color.RGBA{R: uint8(r * 0xff), G: uint8(g * 0xff), B: uint8(b * 0xff), A: uint8(a * 0xff)}
}

// CellFor returns the terminal cell containing the centre of an icon box.
func CellFor(x, y, w, h, cellW, cellH float64) (col, row int) {
	cx := x + w/2
	cy := y + h/2
	return floorDiv(cx, cellW), floorDiv(cy, cellH)
}

func floorDiv(v, d float64) int {
	q := v / d
	n := int(q)
	if q < 0 && float64(n) != q {
		n--
	}
	return n
}

// ShadeColor blends c toward bg by alpha (1 keeps c, 0 yields bg).
func ShadeColor(c, bg color.RGBA, alpha float64) color.RGBA {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(b) + (float64(a)-float64(b))*alpha + 0.5)
	}
	return color.RGBA{R: mix(c.R, bg.R), G: mix(c.G, bg.G), B: mix(c.B, bg.B), A: 0xff}
}

func toTcell(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
