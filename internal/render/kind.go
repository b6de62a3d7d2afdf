package render

// Kind identifies one of the five artifact kinds produced per clip.
type Kind string

const (
	KindStacked Kind = "stacked"
	KindCam     Kind = "cam"
	KindScreen  Kind = "screen"
	KindRaw     Kind = "raw"
	KindAudio   Kind = "audio"
)

// Kinds lists every artifact kind in the order results are reported.
var Kinds = []Kind{KindStacked, KindCam, KindScreen, KindRaw, KindAudio}

// Filename returns the output file name for the kind inside a clip
// directory.
func (k Kind) Filename() string {
	if k == KindAudio {
		return "audio.wav"
	}
	return string(k) + ".mp4"
}

// Visual reports whether the kind carries a video stream (and therefore
// accepts a watermark overlay).
func (k Kind) Visual() bool {
	return k != KindAudio
}

// usesCrop reports which crop rectangles the kind depends on.
func (k Kind) usesCam() bool    { return k == KindCam || k == KindStacked }
func (k Kind) usesScreen() bool { return k == KindScreen || k == KindStacked }
