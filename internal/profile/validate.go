package profile

import (
	"fmt"
	"strings"

	"github.com/wonny/tripsampler/internal/sampler"
	"github.com/wonny/tripsampler/internal/table"
	"github.com/wonny/tripsampler/internal/timeparse"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(p *Profile) error {
	// === Timestamp ===
	if strings.TrimSpace(p.Timestamp.Column) == "" {
		return ValidationError{"timestamp.column", "required"}
	}
	if len(p.Timestamp.Formats) == 0 {
		return ValidationError{"timestamp.formats", "at least one format is required"}
	}
	seen := make(map[string]bool, len(p.Timestamp.Formats))
	for i, f := range p.Timestamp.Formats {
		layout := timeparse.ResolveLayout(f)
		if strings.TrimSpace(layout) == "" {
			return ValidationError{fmt.Sprintf("timestamp.formats[%d]", i), "empty format"}
		}
		if seen[layout] {
			return ValidationError{fmt.Sprintf("timestamp.formats[%d]", i), fmt.Sprintf("duplicate format %q", f)}
		}
		seen[layout] = true
	}

	// === Sampling ===
	if p.Sampling.Size < 1 {
		return ValidationError{"sampling.size", "must be >= 1"}
	}
	if _, err := sampler.ParseSeedMode(p.Sampling.SeedMode); err != nil {
		return ValidationError{"sampling.seed_mode", "must be one of: reset, hashed, sequential"}
	}
	if _, err := sampler.ParseMalformedPolicy(p.Sampling.Malformed); err != nil {
		return ValidationError{"sampling.malformed", "must be one of: reject, skip"}
	}

	// === Output ===
	if _, err := table.ParseCompression(p.Output.Compression); err != nil {
		return ValidationError{"output.compression", "must be one of: zstd, snappy, gzip, lz4, none"}
	}
	if p.Output.PreviewRows < 0 {
		return ValidationError{"output.preview_rows", "must be >= 0"}
	}

	return nil
}
