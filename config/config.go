// Package config loads the YAML file that drives the aglio command-line
// tool: which frame elements the packager should emit, and the widths
// that govern them. Together with cmd/aglio, this is deliberately the only
// place in the repository that touches a filesystem or a logger — the codec and
// packager packages stay pure, as spec section 5 requires.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/aglio/pack"
	"github.com/rawbytedev/aglio/wire"
)

// File is the on-disk shape of the packager configuration.
type File struct {
	PackageStart *uint64 `yaml:"package_start"`
	Crc          string  `yaml:"crc"`
	HeaderCrc    bool    `yaml:"header_crc"`
	Size         string  `yaml:"size"`
	MaxSize      uint64  `yaml:"max_size"`
	LogLevel     string  `yaml:"log_level"`
}

// Default returns the configuration aglio uses when no file is given: no
// start marker, a CRC32 body checksum, no header checksum, and a 32-bit
// size field.
func Default() *File {
	return &File{
		Crc:      "crc32",
		Size:     "32",
		LogLevel: "info",
	}
}

// Load reads and parses the YAML file at path. Unknown keys are rejected
// so a typo in the config doesn't silently fall back to defaults.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return &f, nil
}

// PackConfig translates the loaded file into a pack.Config, choosing a
// concrete CRC implementation and failing on an unrecognized size or crc
// name rather than silently defaulting.
func (f *File) PackConfig() (pack.Config, error) {
	size, err := parseSize(f.Size)
	if err != nil {
		return pack.Config{}, err
	}

	cfg := pack.Config{
		Size:    size,
		MaxSize: f.MaxSize,
	}

	if f.PackageStart != nil {
		cfg.UsePackageStart = true
		cfg.PackageStart = *f.PackageStart
		cfg.PackageStartWidth = wire.Size16
	}

	switch f.Crc {
	case "", "none":
		// no checksum configured
	case "crc32":
		cfg.UseCrc = true
		cfg.Crc = pack.CRC32IEEE{}
		cfg.UseHeaderCrc = f.HeaderCrc
	default:
		return pack.Config{}, fmt.Errorf("config: unknown crc %q", f.Crc)
	}

	if err := cfg.Validate(); err != nil {
		return pack.Config{}, err
	}
	return cfg, nil
}

func parseSize(s string) (wire.SizeWidth, error) {
	switch s {
	case "", "32":
		return wire.Size32, nil
	case "8":
		return wire.Size8, nil
	case "16":
		return wire.Size16, nil
	case "64":
		return wire.Size64, nil
	default:
		return 0, fmt.Errorf("config: unknown size width %q", s)
	}
}

// Logger builds the slog.Logger the CLI diagnoses itself with, at the
// level named in the config file.
func (f *File) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
