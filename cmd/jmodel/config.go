package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileName = "jmodel.toml"

// Config is the merged result of defaults, the project config file,
// JMODEL_* environment variables and command-line flags, lowest precedence
// first.
type Config struct {
	Facts     []string `mapstructure:"facts"`
	Format    string   `mapstructure:"format"`
	Package   string   `mapstructure:"package"`
	ClassName string   `mapstructure:"class_name"`
	Lenient   bool     `mapstructure:"lenient"`
	Verbosity int      `mapstructure:"verbosity"`
	LogFile   string   `mapstructure:"log_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("facts", []string{"."})
	v.SetDefault("format", "line")
	v.SetDefault("package", "")
	v.SetDefault("class_name", "")
	v.SetDefault("lenient", false)
	v.SetDefault("verbosity", 0)
	v.SetDefault("log_file", "")
}

// loadConfig reads configPath, or the nearest jmodel.toml above the working
// directory when configPath is empty, and overlays the environment and the
// flags that were set.
func loadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("JMODEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configPath == "" {
		configPath = findProjectConfig()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", configPath)
		}
	}

	if flags != nil {
		for key, flag := range map[string]string{
			"facts":      "facts",
			"format":     "format",
			"package":    "package",
			"class_name": "class-name",
			"lenient":    "lenient",
			"verbosity":  "verbosity",
			"log_file":   "log-file",
		} {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, errors.Wrapf(err, "binding flag --%s", flag)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "decoding configuration")
	}
	return &config, nil
}

// findProjectConfig walks up from the working directory looking for
// jmodel.toml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, configFileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
