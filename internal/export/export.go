// Package export cuts tagged segments out of the source video with ffmpeg.
// Plan construction is separated from execution so the command lines can be
// inspected and tested without an ffmpeg binary.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pucktrack/recorder/internal/model"
	"github.com/pucktrack/recorder/internal/timing"
)

// ErrNoMarkers is returned when an export is requested with nothing tagged.
var ErrNoMarkers = errors.New("no markers to export")

// resolutionHeights maps named resolutions to scale targets. "source" and
// the empty string keep the input resolution.
var resolutionHeights = map[string]int{
	"2160p": 2160,
	"1080p": 1080,
	"720p":  720,
	"480p":  480,
	"360p":  360,
}

// Options controls how segments are encoded and assembled.
type Options struct {
	Codec         string  // "libx264", "libx265"
	CRF           int     // 0..51
	Resolution    string  // "source", "1080p", ...
	IncludeAudio  bool
	MergeSegments bool
	FFmpegPath    string // defaults to "ffmpeg"
}

// DefaultOptions matches the values most taggers export with.
func DefaultOptions() Options {
	return Options{
		Codec:         "libx264",
		CRF:           23,
		Resolution:    "source",
		IncludeAudio:  true,
		MergeSegments: true,
		FFmpegPath:    "ffmpeg",
	}
}

// Segment is one ffmpeg extraction step.
type Segment struct {
	EventName string
	StartSec  float64
	Duration  float64
	Output    string
	Args      []string
}

// Plan is the full set of ffmpeg invocations for one export.
type Plan struct {
	Segments   []Segment
	ConcatList string   // path of the concat list file, empty when not merging
	ConcatArgs []string // final concat invocation, empty when not merging
	Outputs    []string // files the caller ends up with
}

// BuildPlan turns markers into ffmpeg command lines. Markers are processed
// in start order. workDir holds intermediate segment files.
func BuildPlan(videoPath string, markers []model.Marker, fps float64, outputPath, workDir string, opts Options) (*Plan, error) {
	if len(markers) == 0 {
		return nil, ErrNoMarkers
	}
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}

	sorted := make([]model.Marker, len(markers))
	copy(sorted, markers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartFrame < sorted[j].StartFrame })

	plan := &Plan{}
	for i, m := range sorted {
		startSec, err := timing.FramesToSeconds(m.StartFrame, fps)
		if err != nil {
			return nil, err
		}
		endSec, err := timing.FramesToSeconds(m.EndFrame, fps)
		if err != nil {
			return nil, err
		}

		segPath := filepath.Join(workDir, fmt.Sprintf("segment_%03d.mp4", i))
		seg := Segment{
			EventName: m.EventName,
			StartSec:  startSec,
			Duration:  endSec - startSec,
			Output:    segPath,
			Args:      segmentArgs(videoPath, startSec, endSec-startSec, segPath, opts),
		}
		plan.Segments = append(plan.Segments, seg)
	}

	if opts.MergeSegments {
		plan.Outputs = []string{outputPath}
		if len(plan.Segments) > 1 {
			plan.ConcatList = outputPath + ".txt"
			plan.ConcatArgs = concatArgs(plan.ConcatList, outputPath, opts)
		}
	} else {
		base := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
		dir := filepath.Dir(outputPath)
		for i, seg := range plan.Segments {
			name := fmt.Sprintf("%s_segment_%03d_%s.mp4", base, i+1, sanitizeName(seg.EventName))
			plan.Outputs = append(plan.Outputs, filepath.Join(dir, name))
		}
	}

	return plan, nil
}

func segmentArgs(videoPath string, startSec, duration float64, output string, opts Options) []string {
	args := []string{
		"-ss", formatSeconds(startSec),
		"-i", videoPath,
		"-t", formatSeconds(duration),
		"-c:v", codec(opts.Codec),
		"-preset", "ultrafast",
		"-crf", strconv.Itoa(opts.CRF),
	}
	if h, ok := resolutionHeights[opts.Resolution]; ok {
		args = append(args, "-vf", fmt.Sprintf("scale=-2:%d", h))
	}
	if opts.IncludeAudio {
		args = append(args, "-c:a", "aac")
	} else {
		args = append(args, "-an")
	}
	args = append(args, "-avoid_negative_ts", "make_zero", "-y", output)
	return args
}

func concatArgs(listPath, output string, opts Options) []string {
	return []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c:v", codec(opts.Codec),
		"-preset", "ultrafast",
		"-crf", strconv.Itoa(opts.CRF),
		"-c:a", "copy",
		"-y", output,
	}
}

func codec(name string) string {
	switch strings.ToLower(name) {
	case "", "h264", "libx264":
		return "libx264"
	case "h265", "libx265":
		return "libx265"
	default:
		return name
	}
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
}

// Exporter runs export plans against a real ffmpeg binary.
type Exporter struct {
	log  *slog.Logger
	opts Options
}

// New creates an Exporter with the given options.
func New(log *slog.Logger, opts Options) *Exporter {
	return &Exporter{log: log, opts: opts}
}

// Export cuts markers from the video and writes the result to outputPath.
// Honors ctx cancellation between and during ffmpeg runs.
func (e *Exporter) Export(ctx context.Context, videoPath string, markers []model.Marker, fps float64, outputPath string) ([]string, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("source video: %w", err)
	}

	workDir, err := os.MkdirTemp("", "pucktrack_export_*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(workDir)

	plan, err := BuildPlan(videoPath, markers, fps, outputPath, workDir, e.opts)
	if err != nil {
		return nil, err
	}

	for i, seg := range plan.Segments {
		e.log.Info("extracting segment",
			"index", i+1,
			"total", len(plan.Segments),
			"event", seg.EventName,
			"startSec", seg.StartSec,
			"durationSec", seg.Duration,
		)
		if err := e.run(ctx, seg.Args); err != nil {
			return nil, fmt.Errorf("segment %d (%s): %w", i+1, seg.EventName, err)
		}
	}

	if e.opts.MergeSegments {
		if err := e.assemble(ctx, plan, outputPath); err != nil {
			return nil, err
		}
	} else {
		for i, seg := range plan.Segments {
			if err := copyFile(seg.Output, plan.Outputs[i]); err != nil {
				return nil, err
			}
		}
	}

	e.log.Info("export completed", "outputs", len(plan.Outputs))
	return plan.Outputs, nil
}

func (e *Exporter) assemble(ctx context.Context, plan *Plan, outputPath string) error {
	if len(plan.Segments) == 1 {
		return copyFile(plan.Segments[0].Output, outputPath)
	}

	var list strings.Builder
	for _, seg := range plan.Segments {
		fmt.Fprintf(&list, "file '%s'\n", seg.Output)
	}
	if err := os.WriteFile(plan.ConcatList, []byte(list.String()), 0644); err != nil {
		return err
	}
	defer os.Remove(plan.ConcatList)

	if err := e.run(ctx, plan.ConcatArgs); err != nil {
		return fmt.Errorf("concatenation: %w", err)
	}
	return nil
}

func (e *Exporter) run(ctx context.Context, args []string) error {
	ffmpeg := e.opts.FFmpegPath
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, ffmpeg, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}
