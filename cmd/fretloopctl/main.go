package main

import (
	"fmt"

	"fretloop-scheduler/internal/config"
	"fretloop-scheduler/internal/store/postgres"

	"github.com/alecthomas/kong"
)

// CLI is the fretloopctl flag surface.
type CLI struct {
	RecalculateAll RecalculateAllCmd `cmd:"" help:"Rebuild one user's derived stats from their practice log."`
}

// RecalculateAllCmd rebuilds one user's derived compound stats from their
// append-only practice log, run out-of-band from the HTTP service when
// the derivation formula changes.
type RecalculateAllCmd struct {
	UserSchema string `required:"" help:"Postgres schema for the user to recalculate, e.g. user_<uuid>."`
}

func (c *RecalculateAllCmd) Run(cfg *config.Config) error {
	s, err := postgres.OpenForUser(cfg.DatabaseURL, c.UserSchema)
	if err != nil {
		return fmt.Errorf("open store for %s: %w", c.UserSchema, err)
	}
	defer s.Close()

	if err := s.RecalculateAllStats(
		cfg.EMAAlpha,
		cfg.Progression.ExpansionNPM,
		cfg.Progression.MasteryNPM,
		cfg.Progression.MasteryStreak,
		cfg.Struggling.NPM,
	); err != nil {
		return fmt.Errorf("recalculate %s: %w", c.UserSchema, err)
	}

	fmt.Printf("recalculated stats for %s\n", c.UserSchema)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)
	cfg := config.Load()

	err := ctx.Run(cfg)
	ctx.FatalIfErrorf(err)
}
