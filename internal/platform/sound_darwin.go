package platform

func defaultPlayers() []playerCommand {
	return []playerCommand{
		{name: "afplay", args: func(path string) []string { return []string{path} }},
	}
}
