package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"skusort/internal"
)

type Config struct {
	AssembleMode      internal.AssembleMode
	AssembleSeparator string

	LookupSheet      string
	LookupHeaderRow  int
	LookupSKUColumns []string
	LookupNameColumn string

	OutputNameHeader string
	OutputFileName   string
	ExportDerived    bool

	RankTablesPath string

	HTTPAddr    string
	MaxUploadMB int

	RunLogDB string
	LogLevel string

	WatchDir         string
	WatchIntervalSec int
	OutputDir        string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AssembleMode:      internal.AssembleMode(strings.ToLower(strings.TrimSpace(getEnv("ASSEMBLE_MODE", string(internal.ModeGroup3))))),
		AssembleSeparator: getEnv("ASSEMBLE_SEPARATOR", "-"),

		LookupSheet:      getEnv("LOOKUP_SHEET", ""),
		LookupHeaderRow:  getEnvInt("LOOKUP_HEADER_ROW", 2),
		LookupSKUColumns: getEnvList("LOOKUP_SKU_COLUMNS", []string{"平臺 SKU", "平臺SKU"}),
		LookupNameColumn: getEnv("LOOKUP_NAME_COLUMN", "自定義產品名稱"),

		OutputNameHeader: getEnv("OUTPUT_NAME_HEADER", "名稱"),
		OutputFileName:   getEnv("OUTPUT_FILENAME", "SKU對照_排序後.xlsx"),
		ExportDerived:    getEnvBool("EXPORT_DERIVED", false),

		RankTablesPath: getEnv("RANK_TABLES_PATH", ""),

		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 32),

		RunLogDB: getEnv("RUN_LOG_DB", ""),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		WatchDir:         getEnv("WATCH_DIR", "inbox"),
		WatchIntervalSec: getEnvInt("WATCH_INTERVAL_SEC", 30),
		OutputDir:        getEnv("OUTPUT_DIR", "out"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.AssembleMode {
	case internal.ModeGroup3, internal.ModeSeparator:
	default:
		return fmt.Errorf("unsupported ASSEMBLE_MODE: %q (want group3|separator)", c.AssembleMode)
	}
	if c.AssembleMode == internal.ModeSeparator && c.AssembleSeparator == "" {
		return fmt.Errorf("ASSEMBLE_SEPARATOR must not be empty in separator mode")
	}
	if c.LookupHeaderRow < 1 {
		return fmt.Errorf("LOOKUP_HEADER_ROW must be >= 1, got %d", c.LookupHeaderRow)
	}
	if len(c.LookupSKUColumns) == 0 {
		return fmt.Errorf("LOOKUP_SKU_COLUMNS must name at least one column")
	}
	if strings.TrimSpace(c.LookupNameColumn) == "" {
		return fmt.Errorf("LOOKUP_NAME_COLUMN must not be empty")
	}
	return nil
}

func (c Config) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 32 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := getEnv(key, "")
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
