package svg

import (
	"math"
	"strconv"
	"strings"

	"oss.terrastruct.com/tefcha/lib/geo"
)

// FormatNum formats f with the shortest representation after rounding to precision
// decimal places. A negative precision disables rounding.
func FormatNum(f float64, precision int) string {
	if precision >= 0 {
		f = chopPrecision(f, precision)
	}
	if f == 0 {
		// no "-0"
		f = 0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func chopPrecision(f float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(f*p) / p
}

// PathContext accumulates path data commands.
type PathContext struct {
	Commands  []string
	Start     *geo.Point
	Current   *geo.Point
	Precision int
}

// NewPathContext returns a context that rounds coordinates to precision decimals.
// Pass -1 to keep full precision.
func NewPathContext(precision int) *PathContext {
	return &PathContext{Precision: precision}
}

func (c *PathContext) num(f float64) string {
	return FormatNum(f, c.Precision)
}

func (c *PathContext) push(verb string, args ...float64) {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, verb)
	for _, a := range args {
		parts = append(parts, c.num(a))
	}
	c.Commands = append(c.Commands, strings.Join(parts, " "))
}

func (c *PathContext) StartAt(x, y float64) {
	c.Start = geo.NewPoint(x, y)
	c.Current = c.Start.Copy()
	c.push("M", x, y)
}

func (c *PathContext) L(x, y float64) {
	c.push("L", x, y)
	c.Current = geo.NewPoint(x, y)
}

func (c *PathContext) Q(x1, y1, x, y float64) {
	c.push("Q", x1, y1, x, y)
	c.Current = geo.NewPoint(x, y)
}

func (c *PathContext) C(x1, y1, x2, y2, x, y float64) {
	c.push("C", x1, y1, x2, y2, x, y)
	c.Current = geo.NewPoint(x, y)
}

func (c *PathContext) Z() {
	c.Commands = append(c.Commands, "Z")
	if c.Start != nil {
		c.Current = c.Start.Copy()
	}
}

// Relative appends a lowercase command whose operands are offsets from the current point.
func (c *PathContext) Relative(verb string, args ...float64) {
	c.push(strings.ToLower(verb), args...)
	if c.Current != nil && len(args) >= 2 {
		c.Current = geo.NewPoint(c.Current.X+args[len(args)-2], c.Current.Y+args[len(args)-1])
	}
}

func (c *PathContext) PathData() string {
	return strings.Join(c.Commands, " ")
}
