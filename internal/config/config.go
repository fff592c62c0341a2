package config

import (
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/callrecon/internal/fetcher"
	"github.com/sells-group/callrecon/internal/model"
)

// WindowLayout is the layout of operator.window_start / operator.window_end.
const WindowLayout = "2006-01-02 15:04:05"

// Config holds the full application configuration.
type Config struct {
	Operator OperatorConfig `yaml:"operator" mapstructure:"operator"`
	Incident IncidentConfig `yaml:"incident" mapstructure:"incident"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// OperatorConfig configures the operator call-log feed.
type OperatorConfig struct {
	Source          string `yaml:"source" mapstructure:"source"`
	ApplyDateFilter bool   `yaml:"apply_date_filter" mapstructure:"apply_date_filter"`
	WindowStart     string `yaml:"window_start" mapstructure:"window_start"`
	WindowEnd       string `yaml:"window_end" mapstructure:"window_end"`
	ChunkSize       int    `yaml:"chunk_size" mapstructure:"chunk_size"`
	Delimiter       string `yaml:"delimiter" mapstructure:"delimiter"`
}

// Window parses the configured date window. Both bounds are inclusive.
func (o OperatorConfig) Window() (start, end time.Time, err error) {
	start, err = time.ParseInLocation(WindowLayout, strings.TrimSpace(o.WindowStart), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, eris.Wrapf(model.ErrConfig, "config: window_start %q", o.WindowStart)
	}
	end, err = time.ParseInLocation(WindowLayout, strings.TrimSpace(o.WindowEnd), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, eris.Wrapf(model.ErrConfig, "config: window_end %q", o.WindowEnd)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, eris.Wrapf(model.ErrConfig, "config: window_end %s before window_start %s", o.WindowEnd, o.WindowStart)
	}
	return start, end, nil
}

// IncidentConfig configures the 112 incident exports.
type IncidentConfig struct {
	Dir                   string `yaml:"dir" mapstructure:"dir"`
	DedupeTimestampColumn string `yaml:"dedupe_timestamp_column" mapstructure:"dedupe_timestamp_column"`
	MaxConcurrentFiles    int    `yaml:"max_concurrent_files" mapstructure:"max_concurrent_files"`
}

// ReportConfig configures where rendered workbooks land.
type ReportConfig struct {
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
	FilePrefix  string `yaml:"file_prefix" mapstructure:"file_prefix"`
	SummaryFile string `yaml:"summary_file" mapstructure:"summary_file"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	PersistRows bool   `yaml:"persist_rows" mapstructure:"persist_rows"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// FetchConfig configures remote source downloads.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CALLRECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("operator.apply_date_filter", "CALLRECON_OPERATOR_APPLY_DATE_FILTER", "APPLY_DATE_FILTER"); err != nil {
		return nil, eris.Wrap(err, "config: bind env")
	}

	// Defaults
	v.SetDefault("operator.apply_date_filter", false)
	v.SetDefault("operator.window_start", "2026-01-04 00:00:00")
	v.SetDefault("operator.window_end", "2026-01-31 23:59:59")
	v.SetDefault("operator.chunk_size", 200_000)
	v.SetDefault("operator.delimiter", ",")
	v.SetDefault("incident.max_concurrent_files", 4)
	v.SetDefault("report.output_dir", "reports")
	v.SetDefault("report.file_prefix", "112_report")
	v.SetDefault("report.summary_file", "summary.yaml")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.persist_rows", false)
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "callrecon/1.0")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks everything a reconciliation run needs before any input is
// read. All failures wrap model.ErrConfig.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Operator.Source) == "" {
		return eris.Wrap(model.ErrConfig, "config: operator.source is required")
	}
	if !fetcher.IsRemote(c.Operator.Source) {
		info, err := os.Stat(c.Operator.Source)
		if err != nil {
			return eris.Wrapf(model.ErrConfig, "config: operator.source %s: %v", c.Operator.Source, err)
		}
		if info.IsDir() {
			return eris.Wrapf(model.ErrConfig, "config: operator.source %s is a directory", c.Operator.Source)
		}
	}
	if c.Operator.ChunkSize <= 0 {
		return eris.Wrapf(model.ErrConfig, "config: operator.chunk_size must be positive, got %d", c.Operator.ChunkSize)
	}
	if len([]rune(c.Operator.Delimiter)) > 1 {
		return eris.Wrapf(model.ErrConfig, "config: operator.delimiter must be a single character, got %q", c.Operator.Delimiter)
	}
	if c.Operator.ApplyDateFilter {
		if _, _, err := c.Operator.Window(); err != nil {
			return err
		}
	}

	if strings.TrimSpace(c.Incident.Dir) == "" {
		return eris.Wrap(model.ErrConfig, "config: incident.dir is required")
	}
	info, err := os.Stat(c.Incident.Dir)
	if err != nil {
		return eris.Wrapf(model.ErrConfig, "config: incident.dir %s: %v", c.Incident.Dir, err)
	}
	if !info.IsDir() {
		return eris.Wrapf(model.ErrConfig, "config: incident.dir %s is not a directory", c.Incident.Dir)
	}

	if strings.TrimSpace(c.Report.OutputDir) == "" {
		return eris.Wrap(model.ErrConfig, "config: report.output_dir is required")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
