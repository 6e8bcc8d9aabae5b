package quality

import "fmt"

// Profile is the encoder parameter bundle for one Level.
type Profile struct {
	Level        Level
	Aliases      []string
	Description  string
	Preset       string
	CQ           int
	PixelFormat  string
	AudioCodec   string
	VideoProfile string
	// Scale is the ffmpeg scale target (W:H); empty keeps the source size.
	Scale  string
	Extras []string
}

var hdrExtras = []string{
	"-colorspace", "bt2020nc",
	"-rc-lookahead", "32",
	"-spatial-aq", "1",
	"-temporal-aq", "1",
}

var order = []Level{Best, Good, Medium, Native, Low}

var table = map[Level]Profile{
	Best: {
		Level: Best, Aliases: []string{"8k"}, Description: "scale to 7680x4320",
		Preset: "p7", CQ: 18, PixelFormat: "yuv444p", AudioCodec: "flac", VideoProfile: "main10",
		Scale: "7680:4320", Extras: hdrExtras,
	},
	Good: {
		Level: Good, Aliases: []string{"4k"}, Description: "scale to 3840x2160",
		Preset: "p7", CQ: 18, PixelFormat: "yuv444p", AudioCodec: "flac", VideoProfile: "main10",
		Scale: "3840:2160", Extras: hdrExtras,
	},
	Medium: {
		Level: Medium, Aliases: []string{"2k"}, Description: "scale to 1920x1080",
		Preset: "p7", CQ: 18, PixelFormat: "yuv444p", AudioCodec: "flac", VideoProfile: "main10",
		Extras: hdrExtras, Scale: "1920:1080",
	},
	Native: {
		Level: Native, Aliases: []string{"none"}, Description: "keep source resolution",
		Preset: "p7", CQ: 18, PixelFormat: "yuv444p", AudioCodec: "flac", VideoProfile: "main10",
		Extras: hdrExtras,
	},
	Low: {
		Level: Low, Description: "faster encode for weaker GPUs",
		Preset: "p5", CQ: 22, AudioCodec: "aac", VideoProfile: "main",
	},
}

// Lookup returns the profile for a level.
func Lookup(level Level) (Profile, error) {
	profile, ok := table[level]
	if !ok {
		return Profile{}, &InvalidSelectionError{Input: string(level), Reason: "unknown level"}
	}
	profile.Aliases = append([]string(nil), profile.Aliases...)
	profile.Extras = append([]string(nil), profile.Extras...)
	return profile, nil
}

// Profiles returns every profile in display order.
func Profiles() []Profile {
	out := make([]Profile, 0, len(order))
	for _, level := range order {
		profile, err := Lookup(level)
		if err != nil {
			panic(fmt.Sprintf("quality table missing %s", level))
		}
		out = append(out, profile)
	}
	return out
}

// Filter joins the scale target (when set) with the sharpen filter into a -vf
// chain. It returns "" when both are empty.
func (p Profile) Filter(sharpen string) string {
	var scale string
	if p.Scale != "" {
		scale = "scale=" + p.Scale
	}
	switch {
	case scale != "" && sharpen != "":
		return scale + "," + sharpen
	case scale != "":
		return scale
	default:
		return sharpen
	}
}
