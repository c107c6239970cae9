package library

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// App is one installed Steam application.
type App struct {
	ID         string
	Name       string
	InstallDir string
}

var (
	appIDRegexp      = regexp.MustCompile(`"appid"\s*"(\d+)"`)
	nameRegexp       = regexp.MustCompile(`"name"\s*"([^"]*)"`)
	installDirRegexp = regexp.MustCompile(`"installdir"\s*"([^"]*)"`)
)

// DefaultSteamApps is the usual steamapps location for the current OS.
func DefaultSteamApps() string {
	switch runtime.GOOS {
	case "windows":
		return `C:\Program Files (x86)\Steam\steamapps`
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Steam", "steamapps")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "Steam", "steamapps")
	}
}

// Scan reads every appmanifest_*.acf in steamApps. A missing directory
// yields no apps; unreadable or incomplete manifests are skipped.
func Scan(logger *zap.Logger, steamApps string) ([]App, error) {
	entries, err := os.ReadDir(steamApps)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("Steam directory not found",
				zap.String("path", steamApps),
			)
			return []App{}, nil
		}
		return nil, errors.Wrapf(err, "read %s", steamApps)
	}

	apps := make([]App, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".acf") {
			continue
		}
		path := filepath.Join(steamApps, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read app manifest",
				zap.String("file", path),
				zap.Error(err),
			)
			continue
		}
		app, ok := ParseManifest(string(data))
		if !ok {
			logger.Debug("Skipping incomplete app manifest",
				zap.String("file", path),
			)
			continue
		}
		app.InstallDir = filepath.Join(steamApps, "common", app.InstallDir)
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].ID < apps[j].ID
	})
	return apps, nil
}

// ParseManifest extracts the id, name and install folder name of an app
// manifest. InstallDir is the bare folder name.
func ParseManifest(content string) (App, bool) {
	id := appIDRegexp.FindStringSubmatch(content)
	name := nameRegexp.FindStringSubmatch(content)
	dir := installDirRegexp.FindStringSubmatch(content)
	if id == nil || name == nil || dir == nil {
		return App{}, false
	}
	return App{
		ID:         id[1],
		Name:       name[1],
		InstallDir: dir[1],
	}, true
}
