package render

import (
	"image/color"
	"math"

	"github.com/jsphweid/notegrid/model"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	minWidth    = 6 * vg.Inch
	widthPerBar = 1.5 * vg.Inch
	height      = 4 * vg.Inch
)

// Roll draws the sounding units of one part as boxes, one semitone high.
type Roll struct {
	Units []model.Unit
	Color color.Color
}

func (r *Roll) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, u := range r.Units {
		for _, p := range u.Pitches {
			x0, x1 := trX(u.Start), trX(u.End())
			y0, y1 := trY(float64(p)-0.4), trY(float64(p)+0.4)
			box := []vg.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
			c.FillPolygon(r.Color, c.ClipPolygonXY(box))
		}
	}
}

func (r *Roll) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for _, u := range r.Units {
		xmin = math.Min(xmin, u.Start)
		xmax = math.Max(xmax, u.End())
		for _, p := range u.Pitches {
			ymin = math.Min(ymin, float64(p)-1)
			ymax = math.Max(ymax, float64(p)+1)
		}
	}
	if math.IsInf(ymin, 1) {
		// only rests
		ymin, ymax = 59, 61
	}
	if math.IsInf(xmin, 1) {
		xmin, xmax = 0, 1
	}
	return xmin, xmax, ymin, ymax
}

func (r *Roll) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Max.X, Y: c.Min.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Min.X, Y: c.Max.Y},
	}
	c.FillPolygon(r.Color, c.ClipPolygonY(pts))
}

// Plot builds a piano roll of the whole score: beats across, MIDI pitch up.
func Plot(s model.Score, title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "beats"
	p.Y.Label.Text = "MIDI pitch"
	p.Add(plotter.NewGrid())

	for i, part := range s.Parts {
		roll := &Roll{Units: part.Units, Color: plotutil.Color(i)}
		p.Add(roll)
		name := part.Name
		if name == "" {
			name = part.ID
		}
		p.Legend.Add(name, roll)
	}
	p.Legend.Top = true
	return p
}

// Width grows with the number of measures so long pieces stay readable.
func Width(s model.Score) vg.Length {
	end := 0.0
	for _, part := range s.Parts {
		for _, u := range part.Units {
			end = math.Max(end, u.End())
		}
	}
	bars := math.Ceil(end / model.MeasureLength(s.TimeSignature))
	w := vg.Length(bars) * widthPerBar
	if w < minWidth {
		return minWidth
	}
	return w
}

// Save writes the piano roll; the format follows the extension of path
// (.svg, .png, .pdf, ...).
func Save(s model.Score, title, path string) error {
	p := Plot(s, title)
	return errors.Wrapf(p.Save(Width(s), height, path), "could not render %v", path)
}
