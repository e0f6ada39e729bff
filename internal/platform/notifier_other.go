//go:build !linux && !darwin

package platform

func notificationCommand() (string, func(appName, title, body string) []string) {
	return "", nil
}
