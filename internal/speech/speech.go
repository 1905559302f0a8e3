// Package speech plays back assistant replies through a local
// speech-synthesis command. Voice selection beyond a per-language default
// is left to the configured binary.
package speech

import (
	"context"
	"os/exec"

	"go.uber.org/zap"
)

type Speaker interface {
	Speak(ctx context.Context, text, lang string) error
}

// Nop discards playback requests.
type Nop struct{}

func (Nop) Speak(context.Context, string, string) error { return nil }

// Command shells out to a synthesis binary such as espeak-ng.
type Command struct {
	Bin    string
	Logger *zap.Logger
}

func (c *Command) Speak(ctx context.Context, text, lang string) error {
	voice := "en-us"
	if lang == "fr" {
		voice = "fr-fr"
	}
	if err := exec.CommandContext(ctx, c.Bin, "-v", voice, text).Run(); err != nil {
		if c.Logger != nil {
			c.Logger.Warn("speech playback failed", zap.String("bin", c.Bin), zap.Error(err))
		}
		return err
	}
	return nil
}
