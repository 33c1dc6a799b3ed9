package sim

import (
	"image/color"

	"github.com/milosgajdos/go-gnc/errs"
	"github.com/milosgajdos/go-gnc/matrix"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// New2DPlot creates new plot of the simulation from the three data sources:
// truth:   true system positions
// measure: measured positions
// filter:  filter estimates
// Every row of the data matrices is one point given by its first two columns.
// It returns error if either of the data matrices is nil or has less than 2 columns
// or if the plot fails to be created.
func New2DPlot(truth, measure, filter *matrix.Matrix) (*plot.Plot, error) {
	for _, m := range []*matrix.Matrix{truth, measure, filter} {
		if m == nil || m.Cols() < 2 {
			r, c := m.Dims()
			return nil, errs.Dimensionf("invalid plot data dimensions: [%d x %d]", r, c)
		}
	}

	p := plot.New()

	p.Title.Text = "Simulation"
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	series := []struct {
		name  string
		data  *matrix.Matrix
		color color.Color
		shape draw.GlyphDrawer
	}{
		{"truth", truth, color.RGBA{R: 255, B: 128, A: 255}, draw.PyramidGlyph{}},
		{"measurement", measure, color.RGBA{G: 255, A: 128}, draw.CircleGlyph{}},
		{"filtered", filter, color.RGBA{R: 169, G: 169, B: 169, A: 255}, draw.CrossGlyph{}},
	}

	for _, s := range series {
		scatter, err := plotter.NewScatter(makePoints(s.data))
		if err != nil {
			return nil, errs.Wrapf(err, "failed to create %s scatter", s.name)
		}
		scatter.GlyphStyle.Color = s.color
		scatter.GlyphStyle.Shape = s.shape
		scatter.GlyphStyle.Radius = vg.Points(3)

		p.Add(scatter)
		p.Legend.Add(s.name, scatter)
	}

	return p, nil
}

func makePoints(m *matrix.Matrix) plotter.XYs {
	r := m.Rows()
	pts := make(plotter.XYs, r)
	for i := 0; i < r; i++ {
		pts[i].X, _ = m.Get(i, 0)
		pts[i].Y, _ = m.Get(i, 1)
	}

	return pts
}
