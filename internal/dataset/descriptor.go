// Package dataset writes classified recording chunks into the on-disk
// training corpus, one small raw file per sample.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

// Input naming conventions of the capture tool, e.g.
//
//	output-05.625deg-0elev-1.0m.raw
//	output-silence-1.raw
const (
	DirectionalPattern = "output-*deg-*elev-*m.raw"
	SilencePattern     = "output-silence*.raw"
)

// ErrInvalidName is returned when a directional recording's file name does
// not carry a numeric angle, elevation and distance.
var ErrInvalidName = errors.New("invalid recording file name")

var directionalName = regexp.MustCompile(
	`^output-([+-]?\d+(?:\.\d*)?)deg-([+-]?\d+(?:\.\d*)?)elev-([+-]?\d+(?:\.\d*)?)m\.raw$`)

// Descriptor is the physical placement of a directional recording.
type Descriptor struct {
	SubAngle  float64 // degrees, within the MIC0-MIC1 arc
	Elevation float64 // degrees
	Distance  float64 // metres
}

// ParseDescriptor extracts the placement from a recording's file name.
// Only the base name is inspected.
func ParseDescriptor(path string) (Descriptor, error) {
	name := filepath.Base(path)

	m := directionalName.FindStringSubmatch(name)
	if m == nil {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrInvalidName, name)
	}

	var vals [3]float64
	for i := range vals {
		v, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%w: %s: %v", ErrInvalidName, name, err)
		}
		vals[i] = v
	}

	return Descriptor{
		SubAngle:  vals[0],
		Elevation: vals[1],
		Distance:  vals[2],
	}, nil
}

// AngleDir returns the relative output directory for a simulated angle:
// <angle>/<elevation>/<distance> with 3, 1 and 1 decimals.
func (d Descriptor) AngleDir(angle float64) string {
	return filepath.Join(
		strconv.FormatFloat(angle, 'f', 3, 64),
		strconv.FormatFloat(d.Elevation, 'f', 1, 64),
		strconv.FormatFloat(d.Distance, 'f', 1, 64),
	)
}

// IsSilenceName reports whether a file name follows the silence convention.
func IsSilenceName(path string) bool {
	ok, _ := filepath.Match(SilencePattern, filepath.Base(path))
	return ok
}

// IsDirectionalName reports whether a file name matches the directional
// glob. A match can still fail ParseDescriptor, e.g. "output-xdeg-0elev-1m.raw".
func IsDirectionalName(path string) bool {
	ok, _ := filepath.Match(DirectionalPattern, filepath.Base(path))
	return ok
}
