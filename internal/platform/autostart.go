package platform

import (
	"fmt"
	"os"
	"strings"
)

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	GetCacheDir() (string, error)
	EnableAutostart(appName, execPath string) error
	DisableAutostart(appName string) error
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// GetCacheDir returns the OS-standard cache directory, or the temp dir when
// none is configured.
func (service *platformService) GetCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err == nil && cacheDir != "" {
		return cacheDir, nil
	}
	return os.TempDir(), nil
}

// SyncAutostart enables or disables launching at login so that it matches
// enabled.
func SyncAutostart(service Service, appName string, enabled bool) error {
	if !enabled {
		return service.DisableAutostart(appName)
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("enable autostart: resolve executable: %w", err)
	}
	return service.EnableAutostart(appName, execPath)
}

func appSlug(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "focusloop"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}
