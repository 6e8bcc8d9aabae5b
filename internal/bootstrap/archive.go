package bootstrap

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"vidgrab/internal/fileutil"
	"vidgrab/internal/logging"
)

const userAgent = "vidgrab-bootstrap/1.0"

func (i *Installer) installFromArchive(ctx context.Context, rawURL string) error {
	kind, err := archiveKind(rawURL)
	if err != nil {
		return err
	}
	toolsDir := i.cfg.Paths.ToolsDir
	archivePath := filepath.Join(toolsDir, "ffmpeg-download"+kind)
	defer os.Remove(archivePath)

	if err := i.download(ctx, rawURL, archivePath); err != nil {
		return err
	}

	extractDir, err := os.MkdirTemp(toolsDir, "ffmpeg-extract-")
	if err != nil {
		return fmt.Errorf("create extract dir: %w", err)
	}
	defer os.RemoveAll(extractDir)

	targets := []string{i.cfg.FFmpegBinary(), i.cfg.FFprobeBinary()}
	switch kind {
	case ".zip":
		err = extractZip(archivePath, extractDir, targets)
	case ".tar.xz":
		err = extractTarXz(ctx, archivePath, extractDir)
	}
	if err != nil {
		return err
	}
	return collectBinaries(extractDir, toolsDir, targets)
}

func archiveKind(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse archive url: %w", err)
	}
	lower := strings.ToLower(parsed.Path)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return ".zip", nil
	case strings.HasSuffix(lower, ".tar.xz"):
		return ".tar.xz", nil
	default:
		return "", fmt.Errorf("unsupported archive %q (want .zip or .tar.xz)", parsed.Path)
	}
}

func (i *Installer) download(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := i.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	var body io.Reader = resp.Body
	var bar *progressbar.ProgressBar
	if i.progressOut != nil {
		bar = progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(i.progressOut),
			progressbar.OptionSetDescription("ffmpeg"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
		body = io.TeeReader(resp.Body, bar)
	}

	written, copyErr := io.Copy(out, body)
	closeErr := out.Close()
	if bar != nil {
		_ = bar.Finish()
	}
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("download %s: %w", rawURL, errors.Join(copyErr, closeErr))
	}
	if written == 0 {
		_ = os.Remove(tmp)
		return fmt.Errorf("download %s: empty response", rawURL)
	}
	i.logger.Info("archive downloaded", logging.String("url", rawURL), logging.Int64("bytes", written))
	return os.Rename(tmp, dest)
}

// extractZip writes the entries whose base name is a target into dir.
func extractZip(archivePath, dir string, targets []string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !matchesTarget(filepath.Base(f.Name), targets) {
			continue
		}
		if err := extractZipEntry(f, filepath.Join(dir, filepath.Base(f.Name))); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractZipEntry(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func extractTarXz(ctx context.Context, archivePath, dir string) error {
	cmd := exec.CommandContext(ctx, "tar", "-xJf", archivePath, "-C", dir)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("extract tar.xz (is tar installed?): %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// collectBinaries moves the target executables found anywhere under src into
// dst. It fails when ffmpeg itself was not found.
func collectBinaries(src, dst string, targets []string) error {
	found := map[string]bool{}
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !matchesTarget(d.Name(), targets) || found[strings.ToLower(d.Name())] {
			return nil
		}
		if err := fileutil.MoveFile(path, filepath.Join(dst, d.Name()), 0o755); err != nil {
			return err
		}
		found[strings.ToLower(d.Name())] = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("collect binaries: %w", err)
	}
	if !found[strings.ToLower(targets[0])] {
		return fmt.Errorf("%s not found in archive", targets[0])
	}
	return nil
}

func matchesTarget(name string, targets []string) bool {
	for _, target := range targets {
		if strings.EqualFold(name, target) {
			return true
		}
	}
	return false
}
