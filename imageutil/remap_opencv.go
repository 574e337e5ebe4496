//go:build opencv

package imageutil

import (
	"image/color"

	"gocv.io/x/gocv"
)

// RemapOpenCV is the OpenCV counterpart of Remap, backed by cv::remap with
// bilinear interpolation. OpenCV quantises sub-pixel positions to 1/32 px,
// so results agree with Remap only to within that precision.
//
// cv::remap takes its constant border as 8-bit colour, so the fill value is
// subtracted from the source before remapping and added back afterwards.
func RemapOpenCV(src, dx, dy *Field, opts RemapOptions) (*Field, error) {
	if err := checkRemapArgs(src, dx, dy); err != nil {
		return nil, err
	}

	n := src.Size
	offset := 0.0
	border := gocv.BorderReplicate
	if opts.Fill == FillConstant {
		offset = opts.FillValue
		border = gocv.BorderConstant
	}

	srcMat := gocv.NewMatWithSize(n, n, gocv.MatTypeCV32F)
	defer srcMat.Close()
	mapX := gocv.NewMatWithSize(n, n, gocv.MatTypeCV32F)
	defer mapX.Close()
	mapY := gocv.NewMatWithSize(n, n, gocv.MatTypeCV32F)
	defer mapY.Close()

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			srcMat.SetFloatAt(y, x, float32(src.Pix[i]-offset))
			mapX.SetFloatAt(y, x, float32(float64(x)+dx.Pix[i]))
			mapY.SetFloatAt(y, x, float32(float64(y)+dy.Pix[i]))
		}
	}

	dstMat := gocv.NewMat()
	defer dstMat.Close()
	gocv.Remap(srcMat, &dstMat, &mapX, &mapY, gocv.InterpolationLinear, border, color.RGBA{})

	dst := NewField(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			dst.Pix[y*n+x] = float64(dstMat.GetFloatAt(y, x)) + offset
		}
	}
	return dst, nil
}
