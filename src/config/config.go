// Package config is responsible for finding, parsing and merging the user
// configuration with the defaults. Configuration locations are different
// depending on the host OS.
//
// Linux/BSD configurations are in $HOME/.online-music-website/config.json
// Windows configurations are in %APPDATA%/online-music-website/config.json
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"

	"github.com/pytouch377/online-music-website/src/helpers"
)

// ConfigName is the name of the configuration file inside the user path.
const ConfigName = "config.json"

// Config contains a representation for everything in config.json.
type Config struct {
	Listen         string       `json:"listen"`
	UserPath       string       `json:"user_path"`
	LogFile        string       `json:"log_file"`
	SqliteDatabase string       `json:"sqlite_database"`
	StoragePath    string       `json:"storage_path"`
	Gzip           bool         `json:"gzip"`
	ReadTimeout    int          `json:"read_timeout"`
	WriteTimeout   int          `json:"write_timeout"`
	MaxHeadersSize int          `json:"max_header_bytes"`
	Covers         ConfigCovers `json:"covers"`
}

// ConfigCovers groups everything the cover resolution pipeline needs.
type ConfigCovers struct {
	// Disabled turns the pipeline off altogether. Every cover search
	// reports that nothing was found and uploads just stay coverless.
	Disabled bool `json:"disabled"`

	UserAgent    string `json:"user_agent"`
	LastFMAPIKey string `json:"lastfm_api_key"`
	LastFMSecret string `json:"lastfm_secret"`
}

// Default returns the configuration used when the user has not changed a
// setting. User configuration is merged on top of it.
func Default() Config {
	return Config{
		Listen:         ":9997",
		LogFile:        "logfile",
		SqliteDatabase: "database.db",
		StoragePath:    "app_storage",
		ReadTimeout:    15,
		WriteTimeout:   1200,
		MaxHeadersSize: 1048576,
		Covers: ConfigCovers{
			UserAgent: "OnlineMusicWebsite",
		},
	}
}

// FindAndParse finds the configuration file, parses it and merges it on top
// of the default configuration. A missing user configuration is created from
// the defaults first so that the user has something to edit.
func (cfg *Config) FindAndParse() error {
	*cfg = Default()

	if !cfg.UserConfigExists() {
		if err := cfg.writeDefaultToUser(); err != nil {
			return fmt.Errorf("creating the user configuration: %w", err)
		}
	}

	usrCfg := new(Config)
	if err := usrCfg.parse(cfg.UserConfigPath()); err != nil {
		return err
	}

	cfg.merge(usrCfg)
	return nil
}

// parse populates the config fields from the JSON file at filename.
func (cfg *Config) parse(filename string) error {
	jsonContents, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(jsonContents, cfg)
}

// merge copies the non-zero fields of the merged config over cfg's fields.
func (cfg *Config) merge(merged *Config) {
	cfgVal := reflect.ValueOf(cfg).Elem()
	mergedVal := reflect.ValueOf(merged).Elem()

	for i := 0; i < mergedVal.NumField(); i++ {
		mergedField := mergedVal.Field(i)
		if mergedField.IsZero() {
			continue
		}

		cfgField := cfgVal.Field(i)
		if !cfgField.CanSet() {
			continue
		}

		cfgField.Set(mergedField)
	}
}

// UserConfigPath returns the full path to the place where the user's
// configuration file should be.
func (cfg *Config) UserConfigPath() string {
	if len(cfg.UserPath) > 0 {
		if filepath.IsAbs(cfg.UserPath) {
			return filepath.Join(cfg.UserPath, ConfigName)
		}
		log.Printf("User path %s was invalid as it was not rooted", cfg.UserPath)
	}
	path, err := helpers.ProjectUserPath()
	if err != nil {
		log.Println(err)
		return ""
	}
	return filepath.Join(path, ConfigName)
}

// UserConfigExists returns true if the user configuration is present and in
// order. Otherwise false.
func (cfg *Config) UserConfigExists() bool {
	path := cfg.UserConfigPath()
	st, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !st.IsDir()
}

// writeDefaultToUser creates the user configuration file from the defaults.
func (cfg *Config) writeDefaultToUser() error {
	defaults := Default()
	jsonContents, err := json.MarshalIndent(&defaults, "", "    ")
	if err != nil {
		return err
	}

	userConfig := cfg.UserConfigPath()
	if err := os.MkdirAll(filepath.Dir(userConfig), 0755); err != nil {
		return err
	}

	return os.WriteFile(userConfig, jsonContents, 0644)
}
