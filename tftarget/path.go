package tftarget

import (
	"encoding/json"
	"fmt"
	"strings"

	"oss.terrastruct.com/tefcha/lib/geo"
	"oss.terrastruct.com/tefcha/lib/svg"
)

// Verb is a relative SVG path command. Paths always start with an absolute move
// to the shape's position so every following command is relative to the pen.
type Verb string

const (
	VerbMove  Verb = "m"
	VerbLine  Verb = "l"
	VerbCurve Verb = "c"
)

func (v Verb) Arity() int {
	switch v {
	case VerbMove, VerbLine:
		return 2
	case VerbCurve:
		return 6
	}
	return -1
}

type PathCmd struct {
	Verb Verb
	Args []float64
}

func MoveBy(dx, dy float64) PathCmd {
	return PathCmd{Verb: VerbMove, Args: []float64{dx, dy}}
}

func LineBy(dx, dy float64) PathCmd {
	return PathCmd{Verb: VerbLine, Args: []float64{dx, dy}}
}

func CurveBy(dx1, dy1, dx2, dy2, dx, dy float64) PathCmd {
	return PathCmd{Verb: VerbCurve, Args: []float64{dx1, dy1, dx2, dy2, dx, dy}}
}

func (c PathCmd) Validate() error {
	arity := c.Verb.Arity()
	if arity < 0 {
		return fmt.Errorf("%w: unknown verb %q", ErrInvalidPathCmd, c.Verb)
	}
	if len(c.Args) != arity {
		return fmt.Errorf("%w: %q expects %d operands, got %d", ErrInvalidPathCmd, c.Verb, arity, len(c.Args))
	}
	return nil
}

// String renders the command as it appears in a path's d attribute.
func (c PathCmd) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, string(c.Verb))
	for _, a := range c.Args {
		parts = append(parts, svg.FormatNum(a, -1))
	}
	return strings.Join(parts, " ")
}

// Delta is the pen movement caused by the command.
func (c PathCmd) Delta() (dx, dy float64) {
	if len(c.Args) < 2 {
		return 0, 0
	}
	return c.Args[len(c.Args)-2], c.Args[len(c.Args)-1]
}

// MarshalJSON encodes the command as ["verb", args...].
func (c PathCmd) MarshalJSON() ([]byte, error) {
	arr := make([]interface{}, 0, len(c.Args)+1)
	arr = append(arr, c.Verb)
	for _, a := range c.Args {
		arr = append(arr, a)
	}
	return json.Marshal(arr)
}

func (c *PathCmd) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPathCmd, err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty command", ErrInvalidPathCmd)
	}
	var verb string
	if err := json.Unmarshal(raw[0], &verb); err != nil {
		return fmt.Errorf("%w: verb must be a string", ErrInvalidPathCmd)
	}
	cmd := PathCmd{Verb: Verb(verb), Args: make([]float64, 0, len(raw)-1)}
	for i, r := range raw[1:] {
		var f float64
		if err := json.Unmarshal(r, &f); err != nil {
			return fmt.Errorf("%w: operand %d of %q is not a number", ErrInvalidPathCmd, i, verb)
		}
		cmd.Args = append(cmd.Args, f)
	}
	if err := cmd.Validate(); err != nil {
		return err
	}
	*c = cmd
	return nil
}

// Points returns every point the path's commands reference, control points
// included, relative to the path's own position.
func (p *Path) Points() geo.Points {
	pts := geo.Points{geo.NewPoint(0, 0)}
	var x, y float64
	for _, c := range p.Cmds {
		for i := 0; i+1 < len(c.Args); i += 2 {
			pts = append(pts, geo.NewPoint(x+c.Args[i], y+c.Args[i+1]))
		}
		dx, dy := c.Delta()
		x += dx
		y += dy
	}
	return pts
}
