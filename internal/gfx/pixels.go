package gfx

import "image"

// MapPixels rewrites the colour channels of every pixel of img in place.
// Channels are premultiplied; alpha is preserved. All the light and
// grayscale passes here are linear, so they apply to premultiplied values
// unchanged.
func MapPixels(img *image.RGBA, fn func(i int, r, g, b uint8) (uint8, uint8, uint8)) {
	pix := img.Pix
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			base := row + x*4
			pix[base+0], pix[base+1], pix[base+2] = fn(y*w+x, pix[base+0], pix[base+1], pix[base+2])
		}
	}
}

// Grayscale replaces every pixel by the mean of its channels.
func Grayscale(img *image.RGBA) {
	MapPixels(img, func(_ int, r, g, b uint8) (uint8, uint8, uint8) {
		gray := uint8((int(r) + int(g) + int(b)) / 3)
		return gray, gray, gray
	})
}
