package platform

import "fmt"

func notificationCommand() (string, func(appName, title, body string) []string) {
	return "osascript", func(appName, title, body string) []string {
		script := fmt.Sprintf(`display notification "%s" with title "%s" subtitle "%s"`,
			appleScriptEscape(body),
			appleScriptEscape(appName),
			appleScriptEscape(title),
		)
		return []string{"-e", script}
	}
}
