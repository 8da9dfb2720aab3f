// Package config is the viper-backed settings surface for the recorder
// engine. Values are read straight from viper on every access so edits made
// by a settings UI are visible to the very next hotkey press.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pucktrack/recorder/internal/model"
)

// ConfigFileName is the JSON settings file looked up in the config directory.
const ConfigFileName = "pucktrack.cfg.json"

// MemoryConfig holds in-memory/JSON storage backend settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds local SQLite storage settings.
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// DBConfig holds the shared Postgres review-database connection settings.
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// WebSocketConfig holds live timeline streaming settings.
type WebSocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// StorageConfig selects and configures the marker storage backend.
type StorageConfig struct {
	Type      string          `json:"type" mapstructure:"type"`
	Memory    MemoryConfig    `json:"memory" mapstructure:"memory"`
	SQLite    SQLiteConfig    `json:"sqlite" mapstructure:"sqlite"`
	DB        DBConfig        `json:"db" mapstructure:"db"`
	WebSocket WebSocketConfig `json:"websocket" mapstructure:"websocket"`
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// InfluxConfig holds the session stats sink settings.
type InfluxConfig struct {
	Enabled    bool
	Protocol   string
	Host       string
	Port       string
	Token      string
	Org        string
	Bucket     string
	BackupPath string
}

// ExportConfig holds clip export settings.
type ExportConfig struct {
	FFmpegPath    string
	OutputDir     string
	Codec         string
	CRF           int
	Resolution    string
	IncludeAudio  bool
	MergeSegments bool
}

// AutosaveConfig holds project autosave settings.
type AutosaveConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Load reads configuration from the JSON file in configDir and seeds
// default values.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("recording.mode", string(model.ModeDynamic))
	viper.SetDefault("recording.fixedDurationSec", 10.0)
	viper.SetDefault("recording.preRollSec", 3.0)
	viper.SetDefault("recording.postRollSec", 0.0)

	viper.SetDefault("autosave.enabled", true)
	viper.SetDefault("autosave.intervalMinutes", 5)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./sessions")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "./pucktrack.db")
	viper.SetDefault("storage.db.host", "localhost")
	viper.SetDefault("storage.db.port", "5432")
	viper.SetDefault("storage.db.username", "postgres")
	viper.SetDefault("storage.db.password", "postgres")
	viper.SetDefault("storage.db.database", "pucktrack")
	viper.SetDefault("storage.websocket.url", "ws://localhost:8090/live")
	viper.SetDefault("storage.websocket.secret", "")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "pucktrack")
	viper.SetDefault("influx.bucket", "tagging_sessions")
	viper.SetDefault("influx.backupPath", "./stats_backup.gz")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "pucktrack-recorder")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("export.ffmpegPath", "ffmpeg")
	viper.SetDefault("export.outputDir", "./clips")
	viper.SetDefault("export.codec", "libx264")
	viper.SetDefault("export.crf", 23)
	viper.SetDefault("export.resolution", "source")
	viper.SetDefault("export.includeAudio", true)
	viper.SetDefault("export.mergeSegments", true)

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the storage backend configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
		DB: DBConfig{
			Host:     viper.GetString("storage.db.host"),
			Port:     viper.GetString("storage.db.port"),
			Username: viper.GetString("storage.db.username"),
			Password: viper.GetString("storage.db.password"),
			Database: viper.GetString("storage.db.database"),
		},
		WebSocket: WebSocketConfig{
			URL:    viper.GetString("storage.websocket.url"),
			Secret: viper.GetString("storage.websocket.secret"),
		},
	}
}

// GetOTelConfig returns the OpenTelemetry configuration.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the session stats sink configuration.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		Protocol:   viper.GetString("influx.protocol"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetExportConfig returns the clip export configuration.
func GetExportConfig() ExportConfig {
	return ExportConfig{
		FFmpegPath:    viper.GetString("export.ffmpegPath"),
		OutputDir:     viper.GetString("export.outputDir"),
		Codec:         viper.GetString("export.codec"),
		CRF:           viper.GetInt("export.crf"),
		Resolution:    viper.GetString("export.resolution"),
		IncludeAudio:  viper.GetBool("export.includeAudio"),
		MergeSegments: viper.GetBool("export.mergeSegments"),
	}
}

// GetAutosaveConfig returns the project autosave configuration.
func GetAutosaveConfig() AutosaveConfig {
	return AutosaveConfig{
		Enabled:  viper.GetBool("autosave.enabled"),
		Interval: time.Duration(viper.GetInt("autosave.intervalMinutes")) * time.Minute,
	}
}

// CustomEvents returns the persisted user-defined event types.
func CustomEvents() ([]model.EventType, error) {
	var events []model.EventType
	if err := viper.UnmarshalKey("events.custom", &events); err != nil {
		return nil, fmt.Errorf("error unmarshalling custom events: %w", err)
	}
	return events, nil
}

// SaveCustomEvents persists user-defined event types back to the config file.
func SaveCustomEvents(events []model.EventType) error {
	viper.Set("events.custom", events)
	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
