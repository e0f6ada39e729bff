package platform

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"focusloop/internal/core/model"
)

const playTimeout = 5 * time.Second

// playerCommand is an external program able to play a WAV file.
type playerCommand struct {
	name string
	args func(path string) []string
}

// SoundPlayer plays chimes through the first audio player found on PATH.
// Without one, Play does nothing.
type SoundPlayer struct {
	dir    string
	path   string
	args   func(path string) []string
	logger zerolog.Logger

	mu    sync.Mutex
	files map[model.CycleType]string
}

// NewSoundPlayer writes chime files under cacheDir on first use.
func NewSoundPlayer(cacheDir string, logger zerolog.Logger) *SoundPlayer {
	player := &SoundPlayer{
		dir:    cacheDir,
		logger: logger,
		files:  map[model.CycleType]string{},
	}
	for _, candidate := range defaultPlayers() {
		path, err := exec.LookPath(candidate.name)
		if err != nil {
			continue
		}
		player.path = path
		player.args = candidate.args
		break
	}
	if player.path == "" {
		logger.Info().Msg("no audio player found, chimes disabled")
	}
	return player
}

// Available reports whether an audio player was found.
func (player *SoundPlayer) Available() bool {
	return player.path != ""
}

// Play starts the chime for cycle in the background.
func (player *SoundPlayer) Play(cycle model.CycleType) {
	if !player.Available() {
		return
	}
	go func() {
		if err := player.play(cycle); err != nil {
			player.logger.Debug().Err(err).Str("cycle", string(cycle)).Msg("chime failed")
		}
	}()
}

func (player *SoundPlayer) play(cycle model.CycleType) error {
	file, err := player.chimeFile(cycle)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, player.path, player.args(file)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", filepath.Base(player.path), err, output)
	}
	return nil
}

func (player *SoundPlayer) chimeFile(cycle model.CycleType) (string, error) {
	player.mu.Lock()
	defer player.mu.Unlock()

	if file, ok := player.files[cycle]; ok {
		return file, nil
	}

	notes := ChimeNotes(cycle)
	if len(notes) == 0 {
		return "", fmt.Errorf("no chime for cycle %q", cycle)
	}
	if err := os.MkdirAll(player.dir, 0o755); err != nil {
		return "", fmt.Errorf("create sound cache: %w", err)
	}
	file := filepath.Join(player.dir, "chime-"+string(cycle)+".wav")
	if err := os.WriteFile(file, ChimeWAV(notes), 0o644); err != nil {
		return "", fmt.Errorf("write chime: %w", err)
	}
	player.files[cycle] = file
	return file, nil
}
