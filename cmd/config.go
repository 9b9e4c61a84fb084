/*
Copyright © 2025 Pranav J
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pranavj/assignsync/types"
	"github.com/spf13/viper"
)

const (
	configName = ".assignsync"
	envPrefix  = "ASSIGNSYNC"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance; it caches struct info.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. It's fine if there is none.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g. ASSIGNSYNC_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgFileFlag := viper.GetString("config"); cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	setDefaults()

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintln(os.Stderr, "Error unmarshaling config:", err)
		os.Exit(1)
	}
	if err := validate.Struct(&GlobalAppConfig); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(1)
	}
}

func setDefaults() {
	viper.SetDefault("data.dir", "data")
	viper.SetDefault("data.file", "all_assignments.json")
	viper.SetDefault("data.incomingDir", "incoming")

	viper.SetDefault("backup.dir", "backups")
	viper.SetDefault("backup.keep", 7)

	viper.SetDefault("anomaly.zeroThreshold", 2)

	viper.SetDefault("dates.yearFloor", 2020)
	viper.SetDefault("dates.yearWindowMonths", 6)

	viper.SetDefault("sources.enabled", []string{"google_classroom", "jupiter", "sheets_calendar"})
	viper.SetDefault("sources.googleAccounts", 2)

	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.file", "history.db")
}

// GetConfig returns the unmarshaled application configuration.
func GetConfig() types.AppConfig {
	return GlobalAppConfig
}

// isVerbose reports whether verbose output was requested by flag,
// config file, or environment.
func isVerbose() bool {
	return viper.GetBool("verbose") || GlobalAppConfig.Verbose
}
