package app

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"folio_service/internal/media/domain"
)

// ExtractFrame decodes exactly one frame near timestampSeconds and writes it
// to outputPath as JPEG at the tier's resolution. -ss placed before -i makes
// ffmpeg seek on the container index first and decode from the nearest
// keyframe, which bounds processing time for long videos.
func ExtractFrame(inputPath, outputPath string, timestampSeconds float64, profile domain.TierProfile) error {
	// Letterbox: scale to fit inside the tier box, then pad to its exact
	// dimensions. The same filter is used for every tier.
	vf := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
		profile.Width, profile.Height, profile.Width, profile.Height,
	)

	cmdArgs := []string{
		"-ss", strconv.FormatFloat(timestampSeconds, 'f', 3, 64),
		"-i", inputPath,
		"-frames:v", "1",
		"-vf", vf,
		"-q:v", strconv.Itoa(profile.JPEGQuality),
		"-y",
		outputPath,
	}
	cmd := exec.Command("ffmpeg", cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg frame extraction failed: %v, output: %s", err, string(output))
	}
	return nil
}

// ProbeDuration reads the container duration in seconds via ffprobe.
func ProbeDuration(inputPath string) (float64, error) {
	cmdArgs := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	}
	cmd := exec.Command("ffprobe", cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %v, output: %s", err, string(output))
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe returned unparsable duration %q: %v", string(output), err)
	}
	return duration, nil
}
