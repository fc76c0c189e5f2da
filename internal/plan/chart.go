package plan

import (
	"math"
	"strconv"
)

// Box is the canvas geometry. X runs from Padding to Width-Padding; Y runs
// from Padding (top) to Padding+Height (bottom).
type Box struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// DefaultBox matches the canvas the front-end ships with.
var DefaultBox = Box{Width: 640, Height: 260, Padding: 40}

// Pixel is a canvas coordinate.
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Segment is one straight line of a polyline.
type Segment struct {
	From Pixel `json:"from"`
	To   Pixel `json:"to"`
}

// Marker is a dot at a data point.
type Marker struct {
	At    Pixel   `json:"at"`
	Week  int     `json:"week"`
	Value float64 `json:"value"`
}

// Tick is a Y-axis label.
type Tick struct {
	Y     float64 `json:"y"`
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// SeriesDrawing is everything needed to draw one series.
type SeriesDrawing struct {
	Key      SeriesKey `json:"key"`
	Color    string    `json:"color"`
	Segments []Segment `json:"segments"`
	Markers  []Marker  `json:"markers"`
}

// LegendEntry labels one drawn series with its observed range.
type LegendEntry struct {
	Key   SeriesKey `json:"key"`
	Label string    `json:"label"`
	Color string    `json:"color"`
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`
}

// Drawing is the output of a projection.
type Drawing struct {
	Box    Box             `json:"box"`
	Series []SeriesDrawing `json:"series"`
	Ticks  []Tick          `json:"ticks,omitempty"`
	Legend []LegendEntry   `json:"legend,omitempty"`
}

const tickCount = 5

// x maps a position within [lo, hi] onto the horizontal plot range.
func (b Box) x(pos, lo, hi float64) float64 {
	return b.Padding + (pos-lo)/(hi-lo)*(b.Width-2*b.Padding)
}

// y maps v within [lo, hi] onto the inverted vertical plot range.
func (b Box) y(v, lo, hi float64) float64 {
	return b.Padding + b.Height - (v-lo)/(hi-lo)*b.Height
}

// ProjectSingleSeries lays out the weight chart. The Y range is padded by one
// unit on both sides so a constant series still has height, and X spans only
// the filled points' index range.
func ProjectSingleSeries(points []Point, box Box) (Drawing, error) {
	if len(points) < 2 {
		return Drawing{}, ErrNotEnoughData
	}
	minV, maxV := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		minV = math.Min(minV, p.Value)
		maxV = math.Max(maxV, p.Value)
	}
	lo, hi := minV-1, maxV+1
	first := float64(points[0].Index)
	last := float64(points[len(points)-1].Index)

	sd := SeriesDrawing{Key: SeriesCurrent, Color: "#2563eb"}
	var prev *Pixel
	for _, p := range points {
		px := Pixel{X: box.x(float64(p.Index), first, last), Y: box.y(p.Value, lo, hi)}
		if prev != nil {
			sd.Segments = append(sd.Segments, Segment{From: *prev, To: px})
		}
		sd.Markers = append(sd.Markers, Marker{At: px, Week: p.Index + 1, Value: p.Value})
		prev = &px
	}

	ticks := make([]Tick, 0, tickCount)
	for k := 0; k < tickCount; k++ {
		v := lo + (hi-lo)*float64(k)/(tickCount-1)
		ticks = append(ticks, Tick{
			Y:     box.y(v, lo, hi),
			Value: v,
			Label: strconv.FormatFloat(v, 'f', 1, 64),
		})
	}
	return Drawing{Box: box, Series: []SeriesDrawing{sd}, Ticks: ticks}, nil
}

// ProjectMultiSeries lays out every visible series on a shared 12-week X
// axis. Each series is min-max normalized on its own, so the Y axis carries
// no scale; the legend reports each range instead. Missing weeks break the
// line rather than being interpolated across.
func ProjectMultiSeries(rows [WeekCount]WeekEntry, defs []SeriesDef, box Box) Drawing {
	d := Drawing{Box: box, Series: []SeriesDrawing{}, Legend: []LegendEntry{}}
	for _, def := range defs {
		if !def.Visible {
			continue
		}
		var vals [WeekCount]float64
		var has [WeekCount]bool
		n := 0
		minV, maxV := math.Inf(1), math.Inf(-1)
		for i, r := range rows {
			v, ok := def.Value(r)
			if !ok {
				continue
			}
			vals[i], has[i] = v, true
			n++
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
		if n < 2 {
			continue
		}
		span := maxV - minV
		if span == 0 {
			span = 1
		}

		sd := SeriesDrawing{Key: def.Key, Color: def.Color}
		var px [WeekCount]Pixel
		for i := range rows {
			if !has[i] {
				continue
			}
			px[i] = Pixel{
				X: box.x(float64(i), 0, WeekCount-1),
				Y: box.y(vals[i], minV, minV+span),
			}
			if i > 0 && has[i-1] {
				sd.Segments = append(sd.Segments, Segment{From: px[i-1], To: px[i]})
			}
			sd.Markers = append(sd.Markers, Marker{At: px[i], Week: i + 1, Value: vals[i]})
		}
		d.Series = append(d.Series, sd)
		d.Legend = append(d.Legend, LegendEntry{
			Key: def.Key, Label: def.Label, Color: def.Color, Min: minV, Max: maxV,
		})
	}
	return d
}
