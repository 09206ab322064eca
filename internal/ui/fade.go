package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/ytget/photo-gallery/internal/model"
)

// tweenGroup plays up to four gween tweens off one fyne animation clock.
// fyne supplies linear progress; gween applies the easing.
type tweenGroup struct {
	tweens  [4]*gween.Tween
	count   int
	seconds float32
}

func newTweenGroup(d time.Duration, fn ease.TweenFunc, pairs ...[2]float32) *tweenGroup {
	g := &tweenGroup{seconds: float32(d.Seconds())}
	for i, p := range pairs {
		if i >= len(g.tweens) {
			break
		}
		g.tweens[i] = gween.New(p[0], p[1], g.seconds, fn)
		g.count++
	}
	return g
}

// at returns the tween values for animation progress p in [0, 1].
func (g *tweenGroup) at(p float32) ([4]float32, bool) {
	var out [4]float32
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Set(p * g.seconds)
		out[i] = val
		if !finished {
			allDone = false
		}
	}
	return out, allDone
}

// animate wraps the group in a fyne animation. apply runs on every tick and
// done once after the final one.
func (g *tweenGroup) animate(d time.Duration, apply func([4]float32), done func()) *fyne.Animation {
	finished := false
	anim := fyne.NewAnimation(d, func(p float32) {
		if finished {
			return
		}
		vals, end := g.at(p)
		apply(vals)
		if end || p >= 1 {
			finished = true
			if done != nil {
				done()
			}
		}
	})
	anim.Curve = fyne.AnimationLinear
	return anim
}

// newOpacityAnimation eases an opacity value from one level to another
// with ease-in-out, as used for thumbnail fade-ins and viewer fallbacks.
func newOpacityAnimation(from, to float32, d time.Duration, apply func(opacity float32), done func()) *fyne.Animation {
	g := newTweenGroup(d, ease.InOutQuad, [2]float32{from, to})
	return g.animate(d, func(v [4]float32) { apply(v[0]) }, done)
}

// newRectAnimation grows or shrinks a box between two screen rectangles.
func newRectAnimation(from, to model.BoundingBox, d time.Duration, apply func(model.BoundingBox), done func()) *fyne.Animation {
	g := newTweenGroup(d, ease.InOutQuad,
		[2]float32{from.X, to.X},
		[2]float32{from.Y, to.Y},
		[2]float32{from.Width, to.Width},
		[2]float32{from.Height, to.Height},
	)
	return g.animate(d, func(v [4]float32) {
		apply(model.BoundingBox{X: v[0], Y: v[1], Width: v[2], Height: v[3]})
	}, done)
}

// translucency converts an opacity to fyne's inverse Translucency value.
func translucency(opacity float32) float64 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return float64(1 - opacity)
}
