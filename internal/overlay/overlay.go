// Package overlay draws the pointer sub-state onto a transparent image:
// drawing strokes, the fading trail, the pointer itself and a status label.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/ayusman/slidehand/internal/control"
)

const (
	strokeWidth = 4.0
	trailWidth  = 3.0
	labelSize   = 14.0
)

var (
	faceOnce sync.Once
	faceTTF  *truetype.Font
	faceErr  error
)

func labelFace(scale float64) (font.Face, error) {
	faceOnce.Do(func() {
		faceTTF, faceErr = truetype.Parse(gomono.TTF)
	})
	if faceErr != nil {
		return nil, faceErr
	}
	return truetype.NewFace(faceTTF, &truetype.Options{
		Size:    labelSize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Render draws snap on a screen-sized canvas multiplied by scale.
func Render(snap control.PointerSnapshot, screen control.Screen, scale float64) (image.Image, error) {
	return RenderAt(snap, screen, scale, time.Now())
}

// RenderAt is Render with an explicit clock for the trail fade.
func RenderAt(snap control.PointerSnapshot, screen control.Screen, scale float64, now time.Time) (image.Image, error) {
	if err := screen.Validate(); err != nil {
		return nil, err
	}
	if scale <= 0 || scale > 1 {
		return nil, fmt.Errorf("scale must be in (0,1], got %v", scale)
	}

	w := int(float64(screen.Width) * scale)
	h := int(float64(screen.Height) * scale)
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("scaled canvas %dx%d is empty", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()

	pen := snap.Color
	drawStrokes(dc, snap.Strokes, pen, scale)
	drawTrail(dc, snap.Trail, pen, scale, now)
	if snap.Visible {
		drawPointer(dc, snap, scale)
	}
	if err := drawLabel(dc, snap, scale); err != nil {
		return nil, err
	}

	return dc.Image(), nil
}

// WritePNG renders snap and encodes it as PNG.
func WritePNG(w io.Writer, snap control.PointerSnapshot, screen control.Screen, scale float64) error {
	img, err := Render(snap, screen, scale)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func rgba(c control.Color, alpha float64) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha * 255)}
}

func drawStrokes(dc *gg.Context, strokes [][]control.TimedPoint, c control.Color, scale float64) {
	dc.SetColor(rgba(c, 1))
	dc.SetLineWidth(strokeWidth * scale)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	for _, stroke := range strokes {
		if len(stroke) == 1 {
			p := stroke[0]
			dc.DrawCircle(float64(p.X)*scale, float64(p.Y)*scale, strokeWidth*scale/2)
			dc.Fill()
			continue
		}
		for i, p := range stroke {
			x, y := float64(p.X)*scale, float64(p.Y)*scale
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
	}
}

// drawTrail fades each segment by the age of its newer end.
func drawTrail(dc *gg.Context, trail []control.TimedPoint, c control.Color, scale float64, now time.Time) {
	dc.SetLineWidth(trailWidth * scale)
	dc.SetLineCap(gg.LineCapRound)

	for i := 1; i < len(trail); i++ {
		alpha := trailAlpha(now.Sub(trail[i].T))
		if alpha <= 0 {
			continue
		}
		a, b := trail[i-1], trail[i]
		dc.SetColor(rgba(c, alpha))
		dc.DrawLine(float64(a.X)*scale, float64(a.Y)*scale, float64(b.X)*scale, float64(b.Y)*scale)
		dc.Stroke()
	}
}

func trailAlpha(age time.Duration) float64 {
	if age < 0 {
		age = 0
	}
	a := 1 - float64(age)/float64(control.TrailMaxAge)
	if a < 0 {
		return 0
	}
	return a
}

func drawPointer(dc *gg.Context, snap control.PointerSnapshot, scale float64) {
	x, y := float64(snap.X)*scale, float64(snap.Y)*scale
	r := float64(snap.Radius) * scale

	// halo
	dc.SetColor(rgba(snap.Color, 0.3))
	dc.DrawCircle(x, y, r*1.6)
	dc.Fill()

	dc.SetColor(rgba(snap.Color, 1))
	dc.DrawCircle(x, y, r)
	dc.Fill()

	if snap.Drawing {
		dc.SetColor(color.White)
		dc.SetLineWidth(2 * scale)
		dc.DrawCircle(x, y, r+3*scale)
		dc.Stroke()
	}
}

func drawLabel(dc *gg.Context, snap control.PointerSnapshot, scale float64) error {
	face, err := labelFace(scale)
	if err != nil {
		return fmt.Errorf("load label font: %w", err)
	}
	dc.SetFontFace(face)

	text := fmt.Sprintf("POINTER  %s  %s", snap.Color.Name, snap.Size)
	if snap.Drawing {
		text += "  DRAW"
	}

	pad := 8 * scale
	tw, th := dc.MeasureString(text)
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(pad, pad, tw+2*pad, th+2*pad)
	dc.Fill()

	dc.SetColor(color.White)
	dc.DrawStringAnchored(text, 2*pad, 2*pad+th/2, 0, 0.5)
	return nil
}
