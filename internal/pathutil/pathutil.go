// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

// Paths holds all application path configurations.
type Paths struct {
	configDir      string
	configFileName string
	dbFileName     string
	statusFileName string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dbFilePath     string
	statusFilePath string
	logFilePath    string
}

var (
	paths *Paths
	once  sync.Once
)

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		paths = &Paths{
			configDir:      "tend",
			configFileName: "config.yml",
			dbFileName:     "tend.db",
			statusFileName: "status.json",
			logFileName:    "tend.log",
		}

		paths.applyEnvironmentOverrides()
		initErr = paths.computePaths()
	})

	return initErr
}

func Dir() string {
	return paths.configDir
}

func DBFilePath() string {
	return paths.dbFilePath
}

func StatusFilePath() string {
	return paths.statusFilePath
}

func LogFilePath() string {
	return paths.logFilePath
}

func ConfigFilePath() string {
	return paths.configFilePath
}

func (p *Paths) applyEnvironmentOverrides() {
	tendEnv := strings.TrimSpace(os.Getenv("TEND_ENV"))
	if tendEnv != "" {
		p.configFileName = fmt.Sprintf("config_%s.yml", tendEnv)
		p.dbFileName = fmt.Sprintf("tend_%s.db", tendEnv)
		p.statusFileName = fmt.Sprintf("status_%s.json", tendEnv)
		p.logFileName = fmt.Sprintf("tend_%s.log", tendEnv)
	}
}

func (p *Paths) computePaths() error {
	var err error

	relPath := filepath.Join(p.configDir, p.configFileName)

	p.configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		return fmt.Errorf("unable to resolve config file path: %w", err)
	}

	dataDir, err := xdg.DataFile(p.configDir)
	if err != nil {
		return fmt.Errorf("unable to resolve data directory: %w", err)
	}

	p.dbFilePath = filepath.Join(dataDir, p.dbFileName)

	p.statusFilePath = filepath.Join(dataDir, p.statusFileName)

	p.logFilePath = filepath.Join(dataDir, "log", p.logFileName)

	return nil
}
