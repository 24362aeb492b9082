package cmd

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "embryo"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	searchPathFlagName  = "embryo-path"
	setFlagName         = "set"
	contextFlagName     = "context"
	interactiveFlagName = "interactive"
	manifestFlagName    = "manifest"
	parallelFlagName    = "parallel"
	commandsFlagName    = "commands"

	searchPathConfigKey = "paths.search"
	parallelConfigKey   = "hatch.parallel"

	defaultParallel = 1

	envPrefix = "EMBRYO"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".embryo.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(searchPathConfigKey, []string{})
	viper.SetDefault(parallelConfigKey, defaultParallel)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	// The config file is optional; an unreadable or absent one falls back
	// to defaults and environment values.
	_ = viper.ReadInConfig()
}

// slogLevelFromConfig maps a configured level to slog. Accepts slog level
// names ("debug", "WARN+2") and bare numeric values; anything else falls
// back to fallback.
func slogLevelFromConfig(value string, fallback slog.Level) slog.Level {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return fallback
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err == nil {
		return level
	}

	if n, err := strconv.Atoi(raw); err == nil {
		return slog.Level(n)
	}

	return fallback
}

// configureLogger routes slog output to a rotating file so generated trees
// stay free of interleaved log noise. Verbose forces debug level regardless
// of configuration.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	level := slogLevelFromConfig(viper.GetString(logLevelKey), slog.LevelInfo)
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
