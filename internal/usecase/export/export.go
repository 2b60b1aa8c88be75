package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/interview-segmenter/internal/domain/entities"
)

const (
	minSegmentSeconds  = 1.0
	minEstimateSeconds = 10.0
	maxEstimateSeconds = 1800.0
	bytesPerSecond     = 2 * 1024 * 1024
	maxFilenameRunes   = 200
)

// Settings are the encoding parameters handed to the media cutter
type Settings struct {
	Format     string
	VideoCodec string
	AudioCodec string
	Quality    int // CRF
	Preset     string
}

// DefaultSettings returns mp4 / libx264 / aac at CRF 23
func DefaultSettings() Settings {
	return Settings{Format: "mp4", VideoCodec: "libx264", AudioCodec: "aac", Quality: 23, Preset: "medium"}
}

// Item is one clip to cut
type Item struct {
	Index        int      `json:"index"`
	Title        string   `json:"title"`
	StartSeconds float64  `json:"start_seconds"`
	EndSeconds   float64  `json:"end_seconds"`
	Duration     float64  `json:"duration"`
	FileName     string   `json:"file_name"`
	OutputPath   string   `json:"output_path"`
	Args         []string `json:"ffmpeg_args"`
}

// Info summarises an export before it runs
type Info struct {
	SegmentsCount          int     `json:"segments_count"`
	TotalDurationSeconds   float64 `json:"total_duration_seconds"`
	TotalDurationFormatted string  `json:"total_duration_formatted"`
	EstimatedTimeSeconds   float64 `json:"estimated_time_seconds"`
	EstimatedTimeFormatted string  `json:"estimated_time_formatted"`
	EstimatedSizeMB        float64 `json:"estimated_size_mb"`
	EstimatedSizeFormatted string  `json:"estimated_size_formatted"`
	OutputFormat           string  `json:"output_format"`
	VideoCodec             string  `json:"video_codec"`
	AudioCodec             string  `json:"audio_codec"`
	QualitySetting         string  `json:"quality_setting"`
}

// Plan is the full instruction set for the external media cutter
type Plan struct {
	VideoPath string    `json:"video_path"`
	OutputDir string    `json:"output_dir"`
	Items     []Item    `json:"items"`
	Info      Info      `json:"info"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidationError lists every problem found in an export request
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid export: " + strings.Join(e.Problems, "; ")
}

// Planner turns a segment list into an export plan
type Planner struct {
	settings Settings
	logger   *zap.Logger
}

// NewPlanner creates a planner; zero settings fields take their defaults
func NewPlanner(settings Settings, logger *zap.Logger) *Planner {
	def := DefaultSettings()
	if settings.Format == "" {
		settings.Format = def.Format
	}
	if settings.VideoCodec == "" {
		settings.VideoCodec = def.VideoCodec
	}
	if settings.AudioCodec == "" {
		settings.AudioCodec = def.AudioCodec
	}
	if settings.Quality <= 0 {
		settings.Quality = def.Quality
	}
	if settings.Preset == "" {
		settings.Preset = def.Preset
	}
	return &Planner{settings: settings, logger: logger}
}

// Validate returns one error per invalid segment, or ErrNoSegments for an empty list
func (p *Planner) Validate(segments []entities.OutputSegment) []error {
	if len(segments) == 0 {
		return []error{entities.ErrNoSegments}
	}

	var errs []error
	for i, seg := range segments {
		switch {
		case seg.StartSeconds < 0:
			errs = append(errs, fmt.Errorf("segment %d: negative start %.2f: %w", i+1, seg.StartSeconds, entities.ErrInvalidSegmentSpan))
		case seg.StartSeconds >= seg.EndSeconds:
			errs = append(errs, fmt.Errorf("segment %d: invalid timestamps (%v -> %v): %w", i+1, seg.StartSeconds, seg.EndSeconds, entities.ErrInvalidSegmentSpan))
		case seg.EndSeconds-seg.StartSeconds < minSegmentSeconds:
			errs = append(errs, fmt.Errorf("segment %d: too short (%.2fs): %w", i+1, seg.EndSeconds-seg.StartSeconds, entities.ErrInvalidSegmentSpan))
		}
	}
	return errs
}

// Estimate computes duration, time and size estimates for the segments
func (p *Planner) Estimate(segments []entities.OutputSegment) Info {
	var total float64
	for _, seg := range segments {
		total += seg.EndSeconds - seg.StartSeconds
	}
	estimated := EstimateExportTime(total)
	sizeMB := total * 2

	return Info{
		SegmentsCount:          len(segments),
		TotalDurationSeconds:   total,
		TotalDurationFormatted: FormatLongDuration(total),
		EstimatedTimeSeconds:   estimated,
		EstimatedTimeFormatted: FormatLongDuration(estimated),
		EstimatedSizeMB:        sizeMB,
		EstimatedSizeFormatted: FormatFileSize(total * bytesPerSecond),
		OutputFormat:           strings.ToUpper(p.settings.Format),
		VideoCodec:             p.settings.VideoCodec,
		AudioCodec:             p.settings.AudioCodec,
		QualitySetting:         fmt.Sprintf("CRF %d", p.settings.Quality),
	}
}

// Plan validates the segments and lays out one output file per segment
func (p *Planner) Plan(videoPath, outputDir string, segments []entities.OutputSegment) (*Plan, error) {
	var problems []string
	if strings.TrimSpace(videoPath) == "" {
		problems = append(problems, "video path is required")
	}
	if strings.TrimSpace(outputDir) == "" {
		problems = append(problems, "output directory is required")
	}
	for _, err := range p.Validate(segments) {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	items := make([]Item, 0, len(segments))
	for i, seg := range segments {
		name := fmt.Sprintf("%02d_%s.%s", i+1, SafeFilename(seg.Title), p.settings.Format)
		out := filepath.Join(outputDir, name)
		items = append(items, Item{
			Index:        i + 1,
			Title:        seg.Title,
			StartSeconds: seg.StartSeconds,
			EndSeconds:   seg.EndSeconds,
			Duration:     seg.EndSeconds - seg.StartSeconds,
			FileName:     name,
			OutputPath:   out,
			Args:         p.ffmpegArgs(videoPath, out, seg),
		})
	}

	plan := &Plan{
		VideoPath: videoPath,
		OutputDir: outputDir,
		Items:     items,
		Info:      p.Estimate(segments),
		CreatedAt: time.Now().UTC(),
	}

	if p.logger != nil {
		p.logger.Info("export plan created",
			zap.Int("items", len(items)),
			zap.String("total_duration", plan.Info.TotalDurationFormatted),
			zap.String("estimated_size", plan.Info.EstimatedSizeFormatted),
		)
	}
	return plan, nil
}

func (p *Planner) ffmpegArgs(input, output string, seg entities.OutputSegment) []string {
	return []string{
		"-ss", formatSeconds(seg.StartSeconds),
		"-i", input,
		"-t", formatSeconds(seg.EndSeconds - seg.StartSeconds),
		"-c:v", p.settings.VideoCodec,
		"-c:a", p.settings.AudioCodec,
		"-crf", strconv.Itoa(p.settings.Quality),
		"-preset", p.settings.Preset,
		"-y", output,
	}
}

// IsValidationError reports whether err came from plan validation
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// EstimateExportTime is a tenth of the footage duration, clamped to [10s, 30min]
func EstimateExportTime(totalSeconds float64) float64 {
	return max(minEstimateSeconds, min(totalSeconds*0.1, maxEstimateSeconds))
}

// SafeFilename replaces characters that are invalid in file names and caps the length
func SafeFilename(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		return r
	}, name)

	if r := []rune(safe); len(r) > maxFilenameRunes {
		safe = string(r[:maxFilenameRunes])
	}
	return strings.TrimSpace(safe)
}

// FormatLongDuration renders "45s", "2m05s" or "1h02m03s"
func FormatLongDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	switch {
	case seconds < 60:
		return fmt.Sprintf("%ds", total)
	case seconds < 3600:
		return fmt.Sprintf("%dm%02ds", total/60, total%60)
	default:
		return fmt.Sprintf("%dh%02dm%02ds", total/3600, (total%3600)/60, total%60)
	}
}

// FormatFileSize renders a byte count with one decimal, e.g. "1.5 MB"
func FormatFileSize(bytes float64) string {
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if bytes < 1024 {
			return fmt.Sprintf("%.1f %s", bytes, unit)
		}
		bytes /= 1024
	}
	return fmt.Sprintf("%.1f TB", bytes)
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
