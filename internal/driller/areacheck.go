package driller

import "github.com/deepdrill/drill/internal/drillmap"

// inBulb reports whether c = x+iy lies in the period-2 bulb:
// (x+1)^2 + y^2 <= 1/16.
func inBulb(x, y float64) bool {
	return (x+1)*(x+1)+y*y <= 1.0/16
}

// inCardioid reports whether c = x+iy lies in the main cardioid:
// q = (x-1/4)^2 + y^2; q*(q + (x-1/4)) <= y^2/4.
func inCardioid(x, y float64) bool {
	xq := x - 0.25
	q := xq*xq + y*y
	return q*(q+xq) <= y*y/4
}

// areaCheckFilter returns the pixels the round loop must drill. When the
// area check is enabled, an 8x8 mesh probe decides whether per-pixel
// checks are worthwhile at all; pixels passing either interior test are
// classified immediately and excluded.
func (d *Driller) areaCheckFilter() []drillmap.Coord {
	check := d.cfg.AreaCheckEnable
	if check {
		hit := false
		for _, p := range d.m.Mesh(8, 8) {
			x, y := d.planePoint(p)
			if inBulb(x, y) || inCardioid(x, y) {
				hit = true
				break
			}
		}
		check = hit
	}

	remaining := make([]drillmap.Coord, 0, d.m.Width*d.m.Height)
	for y := 0; y < d.m.Height; y++ {
		for x := 0; x < d.m.Width; x++ {
			c := drillmap.Coord{X: x, Y: y}
			if check {
				px, py := d.planePoint(c)
				if inBulb(px, py) {
					d.m.Set(x, y, drillmap.MapEntry{Result: drillmap.InBulb})
					continue
				}
				if inCardioid(px, py) {
					d.m.Set(x, y, drillmap.MapEntry{Result: drillmap.InCardioid})
					continue
				}
			}
			remaining = append(remaining, c)
		}
	}
	return remaining
}

func (d *Driller) planePoint(c drillmap.Coord) (float64, float64) {
	p := d.m.Translate(c)
	return p.Re.Float64(), p.Im.Float64()
}
