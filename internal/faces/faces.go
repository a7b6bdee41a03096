// Package faces suggests redaction regions by detecting faces with a pigo
// cascade classifier.
package faces

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sort"

	pigo "github.com/esimov/pigo/core"

	"github.com/nao1215/imgshield/internal/model"
)

// Detection tuning, following pigo's recommended values.
const (
	DefaultMinQuality   float32 = 10.0
	DefaultIoUThreshold         = 0.2
	DefaultShiftFactor          = 0.1
	DefaultScaleFactor          = 1.1
	// DefaultMinSizePct is the smallest face, as a percentage of the shorter image side.
	DefaultMinSizePct = 1
)

// ErrNoCascade is returned when no cascade file was given.
var ErrNoCascade = errors.New("no face cascade configured")

// Detection is a face found in the image, centred on Row/Col with side Scale.
type Detection struct {
	Row   int
	Col   int
	Scale int
	Q     float32
}

// Rect returns the square the detection covers.
func (d Detection) Rect() image.Rectangle {
	half := d.Scale / 2
	return image.Rect(d.Col-half, d.Row-half, d.Col-half+d.Scale, d.Row-half+d.Scale)
}

// Detector runs a face cascade over images.
type Detector struct {
	classifier *pigo.Pigo
	minQ       float32
}

// Load reads and unpacks the pigo cascade file at path.
func Load(path string) (*Detector, error) {
	if path == "" {
		return nil, ErrNoCascade
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to read face cascade: %w", err)
	}
	return Unpack(data)
}

// Unpack builds a Detector from cascade bytes.
func Unpack(data []byte) (*Detector, error) {
	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack face cascade: %w", err)
	}
	return &Detector{classifier: classifier, minQ: DefaultMinQuality}, nil
}

// Detect returns faces with at least the minimum quality, best first.
func (d *Detector) Detect(img image.Image) []Detection {
	b := img.Bounds()
	cols, rows := b.Dx(), b.Dy()
	minSize := max(min(cols, rows)*DefaultMinSizePct/100, 20)

	params := pigo.CascadeParams{
		MinSize:     minSize,
		MaxSize:     max(cols, rows),
		ShiftFactor: DefaultShiftFactor,
		ScaleFactor: DefaultScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(img),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, DefaultIoUThreshold)

	result := make([]Detection, 0, len(dets))
	for _, det := range dets {
		if det.Q < d.minQ {
			continue
		}
		// pigo works in image-relative coordinates.
		result = append(result, Detection{Row: det.Row + b.Min.Y, Col: det.Col + b.Min.X, Scale: det.Scale, Q: det.Q})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Q > result[j].Q })
	return result
}

// Regions converts detections into redaction regions on a surface of the
// given bounds. scale maps source image coordinates to surface coordinates.
// Squares are clipped to the bounds; those that end up no larger than the
// minimum region size are dropped.
func Regions(dets []Detection, bounds image.Rectangle, scale float64, effect model.EffectType, blur int) []model.Region {
	regions := make([]model.Region, 0, len(dets))
	for _, det := range dets {
		r := det.Rect()
		r = image.Rect(
			int(float64(r.Min.X)*scale), int(float64(r.Min.Y)*scale),
			int(float64(r.Max.X)*scale), int(float64(r.Max.Y)*scale),
		).Intersect(bounds)

		region := model.Region{
			X:             r.Min.X,
			Y:             r.Min.Y,
			Width:         r.Dx(),
			Height:        r.Dy(),
			Effect:        effect,
			BlurParameter: blur,
		}
		if !region.Committable() {
			continue
		}
		regions = append(regions, region)
	}
	return regions
}
