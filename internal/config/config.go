package config

import (
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// DataDir is the directory holding favorites.txt and notes.json
	DataDir string
	// PageSize is the number of search results requested per page
	PageSize int
	// PollInterval is how often the fetch coordinator checks for pending searches
	PollInterval time.Duration
	// UpdateCovers controls whether existing cover images are re-downloaded
	UpdateCovers bool
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("datadir", "./data")
	viper.SetDefault("pagesize", 10)
	viper.SetDefault("pollinterval", "100ms")
	viper.SetDefault("UpdateCovers", false)

	// Get values from viper
	DataDir = viper.GetString("datadir")
	PageSize = viper.GetInt("pagesize")
	PollInterval = viper.GetDuration("pollinterval")
	if PollInterval <= 0 {
		PollInterval = 100 * time.Millisecond
	}
	UpdateCovers = viper.GetBool("UpdateCovers")
}

// SetUpdateCovers sets the UpdateCovers flag
func SetUpdateCovers(update bool) {
	UpdateCovers = update
}
