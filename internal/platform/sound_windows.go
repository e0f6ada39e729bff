package platform

import "strings"

func defaultPlayers() []playerCommand {
	return []playerCommand{
		{
			name: "powershell",
			args: func(path string) []string {
				quoted := "'" + strings.ReplaceAll(path, "'", "''") + "'"
				return []string{
					"-NoProfile",
					"-NonInteractive",
					"-Command",
					"(New-Object Media.SoundPlayer " + quoted + ").PlaySync()",
				}
			},
		},
	}
}
