package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/banner/internal/config"
	"github.com/dohr-michael/banner/internal/presets"
)

// NewPresetCommand returns the preset subcommand group.
func NewPresetCommand() *cli.Command {
	return &cli.Command{
		Name:  "preset",
		Usage: "List and apply styling presets",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List presets from the presets file",
				Action: func(_ context.Context, _ *cli.Command) error {
					ps, err := presets.Load(config.PresetsPath())
					if err != nil {
						return err
					}
					if len(ps) == 0 {
						fmt.Println("no presets defined")
						return nil
					}
					for _, name := range presets.Names(ps) {
						fmt.Println(name)
					}
					return nil
				},
			},
			{
				Name:      "apply",
				Usage:     "Merge a preset onto the settings record",
				ArgsUsage: "<name>",
				Action: func(_ context.Context, cmd *cli.Command) error {
					name := cmd.Args().First()
					if name == "" {
						return fmt.Errorf("missing preset name argument")
					}
					ps, err := presets.Load(config.PresetsPath())
					if err != nil {
						return err
					}
					p, ok := ps[name]
					if !ok {
						return fmt.Errorf("unknown preset %q", name)
					}

					settings, err := config.OpenSettings(config.SettingsPath())
					if err != nil {
						return fmt.Errorf("open settings: %w", err)
					}
					if _, err := settings.Update(func(s *config.Settings) {
						presets.Apply(p, s)
					}); err != nil {
						return err
					}
					fmt.Printf("applied preset %q\n", name)
					return nil
				},
			},
		},
	}
}
