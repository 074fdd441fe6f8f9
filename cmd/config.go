/*
Copyright © 2025 DerithAI
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DerithAI/WOLF-AI/types"
)

const (
	configName = ".wolfai"
	envPrefix  = "WOLF"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance of Validate, it caches struct info
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(config *types.AppConfig) error {
	errs := validate.Struct(config)
	if errs != nil {
		return errs
	}
	return nil
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present
	if err := godotenv.Load(); err != nil {
		// It's okay if .env file doesn't exist.
	}

	// Environment variable handling must be set up BEFORE reading the config
	// file, so that WOLF_ROOT can influence where we look for it.
	viper.SetEnvPrefix(envPrefix)                          // e.g., WOLF_VERBOSE
	viper.AutomaticEnv()                                   // Read in environment variables that match
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // Replace dots with underscores in env var names

	cfgFileFlag := viper.GetString("config") // Value from --config flag

	// The den root doubles as the config search directory, so it has to be
	// resolved before the config file is read. WOLF_ROOT wins, then the
	// value a previous source may have set, then $HOME/WOLF_AI.
	potentialDenDir := viper.GetString("den.rootDir")
	if potentialDenDir == "" {
		potentialDenDir = viper.GetString("root") // WOLF_ROOT
	}
	if potentialDenDir == "" {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		potentialDenDir = filepath.Join(home, "WOLF_AI")
	}

	if cfgFileFlag != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFileFlag)
	} else {
		// Check if the den directory exists (e.g., ~/WOLF_AI)
		if _, err := os.Stat(potentialDenDir); !os.IsNotExist(err) {
			// Den exists. Prioritize it.
			viper.AddConfigPath(potentialDenDir) // e.g., look in ~/WOLF_AI/
			viper.SetConfigName(configName)      // configName is ".wolfai" -> ~/WOLF_AI/.wolfai.yaml
		} else {
			// Den not formed yet, fall back to home and current directory
			home, err := os.UserHomeDir()
			cobra.CheckErr(err)
			viper.AddConfigPath(home)       // $HOME/.wolfai.yaml
			viper.AddConfigPath(".")        // ./.wolfai.yaml
			viper.SetConfigName(configName) // Still looking for a file named ".wolfai"
		}
	}

	// Attempt to read the configuration file.
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				// If a specific config file was provided by flag but not found, it's an error to report.
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				// Config file not found by search paths, which is fine.
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			// Config file was found but another error was produced (e.g., parsing error).
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	// Set default values
	viper.SetDefault("den.rootDir", "")
	viper.SetDefault("den.bridgeDir", "")
	viper.SetDefault("den.logsDir", "")
	viper.SetDefault("data.file", "hunts.json")
	viper.SetDefault("data.format", "json")

	viper.SetDefault("daemon.intervalSeconds", 5)
	viper.SetDefault("daemon.graceSeconds", 5)

	viper.SetDefault("hunt.retryLimit", 3)
	viper.SetDefault("hunt.timeoutSeconds", 300)

	viper.SetDefault("api.host", "0.0.0.0")
	viper.SetDefault("api.port", 8000)
	viper.SetDefault("api.key", "")

	viper.SetDefault("memory.backend", "json")

	// After all sources are configured, unmarshal into GlobalAppConfig
	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1) // Exit if unmarshaling fails
	}

	// Ensure the den paths are set, falling back to the resolved den root
	// if empty after unmarshal. This handles config files that set some
	// nested keys but not others.
	if GlobalAppConfig.Den.RootDir == "" {
		GlobalAppConfig.Den.RootDir = potentialDenDir
	}
	if GlobalAppConfig.Den.BridgeDir == "" {
		GlobalAppConfig.Den.BridgeDir = filepath.Join(GlobalAppConfig.Den.RootDir, "bridge")
	} else if !filepath.IsAbs(GlobalAppConfig.Den.BridgeDir) {
		GlobalAppConfig.Den.BridgeDir = filepath.Join(GlobalAppConfig.Den.RootDir, GlobalAppConfig.Den.BridgeDir)
	}
	if GlobalAppConfig.Den.LogsDir == "" {
		GlobalAppConfig.Den.LogsDir = filepath.Join(GlobalAppConfig.Den.RootDir, "logs")
	} else if !filepath.IsAbs(GlobalAppConfig.Den.LogsDir) {
		GlobalAppConfig.Den.LogsDir = filepath.Join(GlobalAppConfig.Den.RootDir, GlobalAppConfig.Den.LogsDir)
	}

	// Validate the populated configuration
	if err := validateAppConfig(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation error: %s\n", err)
		os.Exit(1) // Exit if validation fails
	}
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
