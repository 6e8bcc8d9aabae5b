package config

import "runtime"

const (
	defaultDownloadDir    = "~/Videos"
	defaultLogDir         = "~/.local/share/vidgrab/logs"
	defaultContainer      = "mp4"
	defaultFormat         = "bestvideo+bestaudio/best"
	defaultQuality        = "native"
	defaultPostprocessor  = "Merger+ffmpeg_o"
	defaultVideoCodec     = "hevc_nvenc"
	defaultSharpenFilter  = "unsharp=5:5:0.8:3:3:0.4"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	btbnReleaseURL        = "https://github.com/BtbN/FFmpeg-Builds/releases/download/latest/"
	btbnLinux64Archive    = "ffmpeg-master-latest-linux64-gpl.tar.xz"
	btbnLinuxArm64Archive = "ffmpeg-master-latest-linuxarm64-gpl.tar.xz"
	btbnWin64Archive      = "ffmpeg-master-latest-win64-gpl.zip"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			ToolsDir:    defaultToolsDir(),
			LogDir:      defaultLogDir,
		},
		Download: Download{
			Container:         defaultContainer,
			Format:            defaultFormat,
			RestrictFilenames: true,
			DefaultQuality:    defaultQuality,
			Postprocessor:     defaultPostprocessor,
		},
		Encoding: Encoding{
			VideoCodec:    defaultVideoCodec,
			SharpenFilter: defaultSharpenFilter,
		},
		Bootstrap: Bootstrap{
			FFmpegURL: DefaultFFmpegURL(runtime.GOOS, runtime.GOARCH),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultFFmpegURL returns the prebuilt ffmpeg archive for a platform, or an
// empty string when no prebuilt archive is published for it.
func DefaultFFmpegURL(goos, goarch string) string {
	switch {
	case goos == "linux" && goarch == "amd64":
		return btbnReleaseURL + btbnLinux64Archive
	case goos == "linux" && goarch == "arm64":
		return btbnReleaseURL + btbnLinuxArm64Archive
	case goos == "windows" && goarch == "amd64":
		return btbnReleaseURL + btbnWin64Archive
	default:
		return ""
	}
}
