package platform

func notificationCommand() (string, func(appName, title, body string) []string) {
	return "notify-send", func(appName, title, body string) []string {
		return []string{"--app-name=" + appName, title, body}
	}
}
