package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	timerout "mdpomo/internal/modules/timer/port/out"
)

const bell = "\a"

// CommandSoundPlayer plays sounds by running an external player such as
// paplay or afplay. Without a player or sound file it rings the terminal
// bell.
type CommandSoundPlayer struct {
	player      string
	soundFile   string
	ambientFile string
	bellOut     io.Writer
	logger      hclog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type SoundConfig struct {
	Player      string
	SoundFile   string
	AmbientFile string
}

func NewCommandSoundPlayer(cfg SoundConfig, bellOut io.Writer, logger hclog.Logger) *CommandSoundPlayer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CommandSoundPlayer{
		player:      cfg.Player,
		soundFile:   cfg.SoundFile,
		ambientFile: cfg.AmbientFile,
		bellOut:     bellOut,
		logger:      logger,
	}
}

var _ timerout.SoundPlayer = (*CommandSoundPlayer)(nil)

// PlayOnce starts the player and returns without waiting for it.
func (p *CommandSoundPlayer) PlayOnce(_ context.Context) error {
	if p.player == "" || p.soundFile == "" {
		return p.ring()
	}
	cmd := exec.Command(p.player, p.soundFile)
	if err := cmd.Start(); err != nil {
		_ = p.ring()
		return fmt.Errorf("start sound player: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			p.logger.Debug("sound player exited", "error", err)
		}
	}()
	return nil
}

// StartLoop replays the ambient file until StopLoop. The loop outlives ctx;
// only StopLoop ends it.
func (p *CommandSoundPlayer) StartLoop(_ context.Context) error {
	if p.player == "" || p.ambientFile == "" {
		return nil
	}
	if _, err := exec.LookPath(p.player); err != nil {
		return fmt.Errorf("find sound player: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel, p.done = cancel, done
	go p.loop(loopCtx, done)
	return nil
}

func (p *CommandSoundPlayer) StopLoop(_ context.Context) error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

// Close stops the ambient loop if one is still playing.
func (p *CommandSoundPlayer) Close() error {
	return p.StopLoop(context.Background())
}

func (p *CommandSoundPlayer) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for ctx.Err() == nil {
		started := time.Now()
		err := exec.CommandContext(ctx, p.player, p.ambientFile).Run()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			p.logger.Warn("ambient sound failed", "error", err)
		}
		// Throttle players that exit immediately.
		if time.Since(started) < time.Second {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}
}

func (p *CommandSoundPlayer) ring() error {
	if p.bellOut == nil {
		return nil
	}
	_, err := io.WriteString(p.bellOut, bell)
	return err
}
