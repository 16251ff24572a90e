package preview

import (
	"image"
	"image/color"
	"math"
)

// frame is a color buffer with a depth buffer. Rasterization is restricted
// to the rows [minY, maxY) of a band so bands can be drawn concurrently.
type frame struct {
	img   *image.RGBA
	depth []float64
}

func newFrame(width, height int, background color.RGBA) *frame {
	f := &frame{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		depth: make([]float64, width*height),
	}
	for i := range f.depth {
		f.depth[i] = math.Inf(1)
	}
	for i := 0; i < len(f.img.Pix); i += 4 {
		f.img.Pix[i], f.img.Pix[i+1], f.img.Pix[i+2], f.img.Pix[i+3] = background.R, background.G, background.B, background.A
	}
	return f
}

// screenVertex is a projected vertex: pixel position plus view depth
type screenVertex struct {
	x, y, z float64
}

// plot writes col at (x, y) when z passes the depth test with the given bias
func (f *frame) plot(x, y int, z, bias float64, col color.RGBA) {
	b := f.img.Bounds()
	if x < 0 || x >= b.Max.X || y < 0 || y >= b.Max.Y {
		return
	}
	idx := y*b.Max.X + x
	if z-bias <= f.depth[idx] {
		f.depth[idx] = math.Min(f.depth[idx], z)
		f.img.SetRGBA(x, y, col)
	}
}

// fillTriangle scan-converts a triangle with depth interpolation
func (f *frame) fillTriangle(v [3]screenVertex, col color.RGBA, minY, maxY int) {
	// Sort vertices by Y coordinate (top to bottom)
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}
	if v[1].y > v[2].y {
		v[1], v[2] = v[2], v[1]
	}
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}

	width := f.img.Bounds().Max.X
	yStart := max(minY, int(math.Ceil(v[0].y)))
	yEnd := min(maxY-1, int(math.Floor(v[2].y)))

	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)

		// long edge 0-2 against the short edge covering this row
		xa, za := edgeAt(v[0], v[2], fy)
		var xb, zb float64
		if fy < v[1].y {
			xb, zb = edgeAt(v[0], v[1], fy)
		} else {
			xb, zb = edgeAt(v[1], v[2], fy)
		}
		if xa > xb {
			xa, xb = xb, xa
			za, zb = zb, za
		}

		xStart := max(0, int(math.Ceil(xa)))
		xEnd := min(width-1, int(math.Floor(xb)))
		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if xb != xa {
				t = (float64(x) - xa) / (xb - xa)
			}
			z := za + t*(zb-za)

			idx := y*width + x
			if z < f.depth[idx] {
				f.depth[idx] = z
				f.img.SetRGBA(x, y, col)
			}
		}
	}
}

// edgeAt interpolates x and depth along a-b at row y
func edgeAt(a, b screenVertex, y float64) (float64, float64) {
	if b.y == a.y {
		return a.x, a.z
	}
	t := (y - a.y) / (b.y - a.y)
	return a.x + t*(b.x-a.x), a.z + t*(b.z-a.z)
}

// drawLine draws a depth tested line of the given pixel thickness using
// Bresenham's algorithm
func (f *frame) drawLine(a, b screenVertex, thickness int, bias float64, col color.RGBA, minY, maxY int) {
	x1, y1 := int(math.Round(a.x)), int(math.Round(a.y))
	x2, y2 := int(math.Round(b.x)), int(math.Round(b.y))

	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	steps := max(dx, dy)
	r := thickness / 2
	err := dx - dy

	for i := 0; ; i++ {
		z := a.z
		if steps > 0 {
			z = a.z + (b.z-a.z)*float64(i)/float64(steps)
		}
		for oy := -r; oy <= r; oy++ {
			y := y1 + oy
			if y < minY || y >= maxY {
				continue
			}
			for ox := -r; ox <= r; ox++ {
				f.plot(x1+ox, y, z, bias, col)
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
