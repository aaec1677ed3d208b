package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/banner/internal/composer"
	"github.com/dohr-michael/banner/internal/config"
	"github.com/dohr-michael/banner/internal/entitystore"
)

// NewComposeCommand returns the compose subcommand: a one-shot render pass
// from a JSON context snapshot, without a running gateway.
func NewComposeCommand() *cli.Command {
	return &cli.Command{
		Name:      "compose",
		Usage:     "Compose a stylesheet once from a context snapshot",
		ArgsUsage: "[context.json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the full render state as JSON instead of CSS only",
			},
		},
		Action: runCompose,
	}
}

func runCompose(_ context.Context, cmd *cli.Command) error {
	var data []byte
	var err error
	if path := cmd.Args().First(); path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read context: %w", err)
	}

	var hostCtx composer.Context
	if err := json.Unmarshal(data, &hostCtx); err != nil {
		return fmt.Errorf("unmarshal context: %w", err)
	}

	settings, err := config.OpenSettings(config.SettingsPath())
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	store := entitystore.New(config.EntitiesPath())

	state := composer.Compose(hostCtx, settings.Current(), store)

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	}
	fmt.Println(state.CSS)
	return nil
}
