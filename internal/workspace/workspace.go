package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const BaseDirName = "WritingAssessor"

// Settings holds per-user defaults read by the CLI. Flags and environment
// variables take precedence over them.
type Settings struct {
	LogLevel     string `json:"log_level"`
	LexiconPath  string `json:"lexicon_path,omitempty"`
	HistoryLimit int    `json:"history_limit"`
}

func DefaultSettings() Settings {
	return Settings{LogLevel: "info", HistoryLimit: 20}
}

func EnsureDefault() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return EnsureAt(filepath.Join(home, BaseDirName))
}

func EnsureAt(base string) (string, error) {
	paths := []string{
		filepath.Join(base, "configs"),
		filepath.Join(base, "data"),
		filepath.Join(base, "reports"),
	}

	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", p, err)
		}
	}

	settingsPath := SettingsPath(base)
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		raw, marshalErr := json.MarshalIndent(DefaultSettings(), "", "  ")
		if marshalErr != nil {
			return "", fmt.Errorf("marshal settings: %w", marshalErr)
		}
		if writeErr := os.WriteFile(settingsPath, raw, 0o644); writeErr != nil {
			return "", fmt.Errorf("write settings: %w", writeErr)
		}
	}

	return base, nil
}

func SettingsPath(base string) string {
	return filepath.Join(base, "configs", "settings.json")
}

func DatabasePath(base string) string {
	return filepath.Join(base, "data", "assessments.db")
}

// LoadSettings reads configs/settings.json. Missing fields keep their defaults.
func LoadSettings(base string) (Settings, error) {
	settings := DefaultSettings()
	raw, err := os.ReadFile(SettingsPath(base))
	if err != nil {
		return settings, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return settings, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// SaveReport writes report as indented JSON to reports/<id>.json and returns
// the path written.
func SaveReport(base, id string, report any) (string, error) {
	path := filepath.Join(base, "reports", sanitizeName(id)+".json")
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func sanitizeName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "report"
	}
	return strings.ReplaceAll(base, "..", "")
}
