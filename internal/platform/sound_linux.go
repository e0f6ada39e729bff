package platform

func defaultPlayers() []playerCommand {
	return []playerCommand{
		{name: "paplay", args: func(path string) []string { return []string{path} }},
		{name: "pw-play", args: func(path string) []string { return []string{path} }},
		{name: "aplay", args: func(path string) []string { return []string{"-q", path} }},
	}
}
