package config

import "time"

// Config is the root application configuration.
type Config struct {
	Parser ParserConfig `yaml:"parser"`
	Output OutputConfig `yaml:"output"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// ParserConfig holds the key vocabulary and dialect selection.
type ParserConfig struct {
	Dialect    string   `yaml:"dialect"    env:"PARSER_DIALECT"    env-default:"auto"`
	Keys       []string `yaml:"keys"       env:"PARSER_KEYS"       env-separator:","`
	Vocabulary string   `yaml:"vocabulary" env:"PARSER_VOCABULARY"`
	Trace      bool     `yaml:"trace"      env:"PARSER_TRACE"`
}

// OutputConfig holds serializer settings.
type OutputConfig struct {
	Format    string `yaml:"format"    env:"OUTPUT_FORMAT"    env-default:"csv"`
	Secondary string `yaml:"secondary" env:"OUTPUT_SECONDARY" env-default:"auto"`
	Dir       string `yaml:"dir"       env:"OUTPUT_DIR"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Host         string        `yaml:"host"          env:"SERVER_HOST"          env-default:"0.0.0.0"`
	Port         int           `yaml:"port"          env:"SERVER_PORT"          env-default:"8080"`
	BodyLimitMB  int           `yaml:"body_limit_mb" env:"SERVER_BODY_LIMIT_MB" env-default:"32"`
	ReadTimeout  time.Duration `yaml:"read_timeout"  env:"SERVER_READ_TIMEOUT"  env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Secondary field modes for OutputConfig.Secondary.
const (
	SecondaryAuto   = "auto"
	SecondaryAlways = "always"
	SecondaryNever  = "never"
)

// Output formats for OutputConfig.Format.
const (
	FormatCSV  = "csv"
	FormatYAML = "yaml"
)
