//go:build !linux && !darwin && !windows

package platform

func defaultPlayers() []playerCommand {
	return nil
}
