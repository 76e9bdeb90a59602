// Package params holds the processing parameters a user can pick: the
// grayscale conversion method and the cutout result type.
package params

import (
	"fmt"
	"strings"
)

// Method is a grayscale conversion formula understood by the service.
type Method string

const (
	Luminosity   Method = "luminosity"
	Average      Method = "average"
	Lightness    Method = "lightness"
	GreenChannel Method = "green_channel"
	Luma         Method = "luma"
	Custom       Method = "custom"
)

// DefaultMethod is selected in a fresh session.
const DefaultMethod = Luminosity

// Methods lists every method in display order.
func Methods() []Method {
	return []Method{Luminosity, Average, Lightness, GreenChannel, Luma, Custom}
}

// ParseMethod accepts a method id, case-insensitively. Dashes are treated as
// underscores so "green-channel" works on the command line.
func ParseMethod(s string) (Method, error) {
	id := Method(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if _, ok := descriptions[id]; !ok {
		return "", fmt.Errorf("unknown conversion method %q", s)
	}
	return id, nil
}

// Description explains a method to the user.
type Description struct {
	Title   string
	Formula string
	Summary string
}

var descriptions = map[Method]Description{
	Luminosity: {
		Title:   "Luminosity (BT.709)",
		Formula: "Gray = 0.2989*R + 0.5870*G + 0.1140*B",
		Summary: "Industry standard weighting based on perception. The eye is most sensitive to green, then red, then blue.",
	},
	Average: {
		Title:   "Average",
		Formula: "Gray = (R + G + B) / 3",
		Summary: "Plain mean of the three channels. Simple, but ignores how brightness is perceived per colour.",
	},
	Lightness: {
		Title:   "Lightness",
		Formula: "Gray = (max(R,G,B) + min(R,G,B)) / 2",
		Summary: "Midpoint of the brightest and darkest channel. Keeps extremes, can flatten mid-tones.",
	},
	GreenChannel: {
		Title:   "Green channel",
		Formula: "Gray = G",
		Summary: "Keeps only green, which carries most of the luminance and tracks perceived brightness closely.",
	},
	Luma: {
		Title:   "Luma (BT.601)",
		Formula: "Gray = 0.299*R + 0.587*G + 0.114*B",
		Summary: "Older video standard. Slightly more weight on red and less on blue than BT.709.",
	},
	Custom: {
		Title:   "Custom",
		Formula: "Gray = 0.25*R + 0.5*G + 0.25*B",
		Summary: "Example of a hand-tuned weighting: equal red and blue, double green.",
	},
}

// Describe returns the description for m. Unknown methods get an empty value.
func Describe(m Method) Description {
	return descriptions[m]
}

func (m Method) String() string { return string(m) }

// ResultType selects what the cutout returns.
type ResultType string

const (
	// Normal keeps the foreground on a black background.
	Normal ResultType = "normal"
	// BWBackground keeps the foreground in colour over a grayscale background.
	BWBackground ResultType = "bw"
)

// DefaultResultType is selected in a fresh session.
const DefaultResultType = Normal

// ResultTypes lists every result type in display order.
func ResultTypes() []ResultType {
	return []ResultType{Normal, BWBackground}
}

// ParseResultType accepts "normal" or "bw".
func ParseResultType(s string) (ResultType, error) {
	switch ResultType(strings.ToLower(strings.TrimSpace(s))) {
	case Normal:
		return Normal, nil
	case BWBackground, "bw_background":
		return BWBackground, nil
	default:
		return "", fmt.Errorf("unknown result type %q", s)
	}
}

// Label is the human name of a result type.
func (r ResultType) Label() string {
	if r == BWBackground {
		return "Foreground + B&W background"
	}
	return "Foreground only"
}

// Toggle returns the other result type.
func (r ResultType) Toggle() ResultType {
	if r == BWBackground {
		return Normal
	}
	return BWBackground
}

func (r ResultType) String() string { return string(r) }

// Next cycles to the method after m, wrapping around.
func Next(m Method) Method {
	all := Methods()
	for i, v := range all {
		if v == m {
			return all[(i+1)%len(all)]
		}
	}
	return DefaultMethod
}

// Prev cycles to the method before m, wrapping around.
func Prev(m Method) Method {
	all := Methods()
	for i, v := range all {
		if v == m {
			return all[(i+len(all)-1)%len(all)]
		}
	}
	return DefaultMethod
}
