package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"clipper/internal/config"
	"clipper/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for a root folder.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config, rootDir string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Root folder", rootDir))
	results = append(results, CheckFileExists("Clip table", filepath.Join(rootDir, cfg.Paths.TableFile)))
	results = append(results, CheckFileExists("Source recording", filepath.Join(rootDir, cfg.Paths.SourceFile)))
	results = append(results, CheckFreeSpace(rootDir, cfg.Render.MinFreeGiB))

	for _, status := range CheckSystemDeps(cfg) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		}
		results = append(results, result)
	}

	if cfg.Transcription.Enabled {
		results = append(results, checkTranscriptionKey(cfg))
	}

	return results
}

// AllPassed reports whether every check in results succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// CheckDirectoryAccess verifies that the directory exists and is
// readable and writable.
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

// CheckFileExists verifies that a regular, non-empty file is present.
func CheckFileExists(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if info.Size() == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: file is empty)", path)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckFreeSpace verifies the filesystem holding path has at least
// minFreeGiB gibibytes available. A zero or negative minimum passes
// unconditionally.
func CheckFreeSpace(path string, minFreeGiB int) Result {
	const name = "Free disk space"
	if minFreeGiB <= 0 {
		return Result{Name: name, Passed: true, Detail: "minimum not configured"}
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("statfs %s: %v", path, err)}
	}
	freeBytes := stat.Bavail * uint64(stat.Bsize)
	needBytes := uint64(minFreeGiB) << 30
	detail := fmt.Sprintf("%.1f GiB free, %d GiB required", float64(freeBytes)/(1<<30), minFreeGiB)
	if freeBytes < needBytes {
		return Result{Name: name, Detail: detail}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckSystemDeps evaluates the external binaries the pipeline invokes.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Render.FFmpeg,
			Description: "Required for rendering clip artifacts",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Render.FFprobe,
			Description: "Required for probing the source recording",
		},
	}
	return deps.CheckBinaries(requirements)
}

func checkTranscriptionKey(cfg *config.Config) Result {
	const name = "Transcription API key"
	if strings.TrimSpace(cfg.Transcription.APIKey) == "" {
		return Result{Name: name, Detail: "set transcription.api_key or OPENAI_API_KEY"}
	}
	return Result{Name: name, Passed: true, Detail: "configured"}
}
