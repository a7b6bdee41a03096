package effect

import "image"

// BoxBlur runs strength passes of a four-neighbour average over the interior
// of buf. Each interior pixel's red, green and blue channels become the mean
// of the pixels above, below, left and right of it; alpha is kept. The border
// rows and columns never change.
//
// Pixels are updated in place in row-major order, so a pass already sees the
// new values of the pixels above and to the left. Means are rounded half to even.
func BoxBlur(buf *image.NRGBA, strength int) {
	b := buf.Bounds()
	w, h := b.Dx(), b.Dy()
	if strength <= 0 || w < 3 || h < 3 {
		return
	}

	pix := buf.Pix
	stride := buf.Stride
	for range strength {
		for y := 1; y < h-1; y++ {
			i := buf.PixOffset(b.Min.X+1, b.Min.Y+y)
			for x := 1; x < w-1; x++ {
				up, down := i-stride, i+stride
				left, right := i-4, i+4
				for c := range 3 {
					pix[i+c] = mean4(pix[up+c], pix[down+c], pix[left+c], pix[right+c])
				}
				i += 4
			}
		}
	}
}

// mean4 averages four channel values, rounding half to even.
func mean4(a, b, c, d uint8) uint8 {
	sum := int(a) + int(b) + int(c) + int(d)
	q, r := sum>>2, sum&3
	if r > 2 || (r == 2 && q&1 == 1) {
		q++
	}
	return uint8(q) //nolint:gosec // q <= 255
}
