package processor

// The capture rig records each source position only for the arc between
// MIC0 and MIC1. Rotating the channel assignment by r positions simulates
// the same source at base + r*(360/channels) degrees, so one recording
// yields a variant for every microphone offset. For 8 channels and a
// 5.625° recording that is 5.625°, 50.625°, 95.625° ... 320.625°.

// RotationAngle returns the simulated source angle for rotation offset r.
func RotationAngle(base float64, channels, r int) float64 {
	return base + float64(r)*(360.0/float64(channels))
}

// RotateChannels writes src into dst with every frame's sample at channel c
// moved to channel (c+r) mod channels. dst and src must not overlap.
func RotateChannels(dst, src []int32, channels, r int) {
	r %= channels
	if r < 0 {
		r += channels
	}
	for f := 0; f+channels <= len(src); f += channels {
		for c := 0; c < channels; c++ {
			dst[f+(c+r)%channels] = src[f+c]
		}
	}
}

// Normalise replaces every channel except 0 with its difference from
// channel 0 in the same frame. Channel 0 keeps the raw amplitude, which the
// network needs to tell silence from signal.
func Normalise(data []int32, channels int) {
	for f := 0; f+channels <= len(data); f += channels {
		ref := data[f]
		for c := 1; c < channels; c++ {
			data[f+c] -= ref
		}
	}
}

// Variant fills dst with the rotated, normalised reprojection of src for
// rotation offset r. src is left untouched.
func Variant(dst, src []int32, channels, r int) {
	RotateChannels(dst, src, channels, r)
	Normalise(dst, channels)
}
