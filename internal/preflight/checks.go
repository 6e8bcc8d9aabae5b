package preflight

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"vidgrab/internal/config"
	"vidgrab/internal/deps"
)

const encoderCheckTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the download toolchain. Both the download command
// and doctor use this to avoid duplicating the requirements list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Toolchain(cfg))
}

// CheckEncoder verifies that ffmpeg was built with the given encoder.
func CheckEncoder(ctx context.Context, ffmpegBinary, codec string) Result {
	name := "Encoder " + codec
	codec = strings.TrimSpace(codec)
	if codec == "" {
		return Result{Name: name, Detail: "no encoder configured"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, encoderCheckTimeout)
	defer cancel()

	cmd := exec.CommandContext(checkCtx, ffmpegBinary, "-hide_banner", "-encoders")
	output, err := cmd.Output()
	if err != nil {
		if errors.Is(checkCtx.Err(), context.DeadlineExceeded) {
			return Result{Name: name, Detail: "ffmpeg -encoders timed out"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("ffmpeg -encoders failed (%v)", err)}
	}
	if listsEncoder(output, codec) {
		return Result{Name: name, Passed: true, Detail: "available"}
	}
	return Result{Name: name, Detail: fmt.Sprintf("ffmpeg build does not include %s", codec)}
}

// listsEncoder scans `ffmpeg -encoders` output, where each row is
// " V....D hevc_nvenc  NVIDIA NVENC hevc encoder".
func listsEncoder(output []byte, codec string) bool {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[1] == codec {
			return true
		}
	}
	return false
}
