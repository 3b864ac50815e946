package profile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wonny/tripsampler/internal/sampler"
	"github.com/wonny/tripsampler/internal/table"
	"github.com/wonny/tripsampler/internal/timeparse"
)

// Profile is a named, reviewable set of sampling choices
// ⭐ SSOT: 샘플링 정책은 이 구조체로만 표현
type Profile struct {
	Timestamp TimestampConfig `yaml:"timestamp" json:"timestamp"`
	Sampling  SamplingConfig  `yaml:"sampling" json:"sampling"`
	Output    OutputConfig    `yaml:"output" json:"output"`
}

// TimestampConfig selects and parses the pickup column
type TimestampConfig struct {
	Column  string   `yaml:"column" json:"column"`
	Formats []string `yaml:"formats" json:"formats"` // tried in order, first success wins
}

// SamplingConfig holds the draw parameters
type SamplingConfig struct {
	Size      int    `yaml:"size" json:"size"`
	Seed      int64  `yaml:"seed" json:"seed"`
	SeedMode  string `yaml:"seed_mode" json:"seed_mode"`
	Malformed string `yaml:"malformed" json:"malformed"`
}

// OutputConfig holds output encoding and report settings
type OutputConfig struct {
	Compression string `yaml:"compression" json:"compression"`
	PreviewRows int    `yaml:"preview_rows" json:"preview_rows"`
}

// Default mirrors the original batch script's constants
func Default() *Profile {
	return &Profile{
		Timestamp: TimestampConfig{
			Column:  sampler.DefaultColumn,
			Formats: append([]string(nil), timeparse.DefaultLayouts...),
		},
		Sampling: SamplingConfig{
			Size:      sampler.DefaultSize,
			Seed:      sampler.DefaultSeed,
			SeedMode:  string(sampler.SeedReset),
			Malformed: string(sampler.MalformedReject),
		},
		Output: OutputConfig{
			Compression: "zstd",
			PreviewRows: 5,
		},
	}
}

// Load reads a YAML profile on top of Default and returns it with the raw bytes
// SSOT 핵심: KnownFields(true)로 오타/미사용 필드 즉시 실패
func Load(path string) (*Profile, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read profile: %w", err)
	}

	p := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 알 수 없는 필드 발견 시 에러 반환
	if err := dec.Decode(p); err != nil {
		return nil, nil, fmt.Errorf("decode profile: %w", err)
	}

	if err := Validate(p); err != nil {
		return nil, data, err
	}

	return p, data, nil
}

// Hash generates SHA256 hash from Profile (canonical JSON)
// 주의: map 대신 struct 사용으로 해시 재현성 보장
func Hash(p *Profile) (string, error) {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// SamplerOptions converts the profile into sampler options
func (p *Profile) SamplerOptions() (sampler.Options, error) {
	parser, err := timeparse.New(p.Timestamp.Formats)
	if err != nil {
		return sampler.Options{}, err
	}

	mode, err := sampler.ParseSeedMode(p.Sampling.SeedMode)
	if err != nil {
		return sampler.Options{}, err
	}

	policy, err := sampler.ParseMalformedPolicy(p.Sampling.Malformed)
	if err != nil {
		return sampler.Options{}, err
	}

	return sampler.Options{
		Column:    p.Timestamp.Column,
		Size:      p.Sampling.Size,
		Seed:      p.Sampling.Seed,
		SeedMode:  mode,
		Malformed: policy,
		Parser:    parser,
	}, nil
}

// Compression returns the Parquet output compression
func (p *Profile) Compression() (table.Compression, error) {
	return table.ParseCompression(p.Output.Compression)
}
