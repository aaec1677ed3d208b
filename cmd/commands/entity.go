package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/banner/internal/colormath"
	"github.com/dohr-michael/banner/internal/config"
	"github.com/dohr-michael/banner/internal/entitystore"
)

// NewEntityCommand returns the entity subcommand group.
func NewEntityCommand() *cli.Command {
	kindFlag := &cli.StringFlag{
		Name:  "kind",
		Usage: "Entity kind: character or persona",
		Value: string(entitystore.KindCharacter),
	}

	return &cli.Command{
		Name:  "entity",
		Usage: "Inspect and edit per-entity overrides",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all entities with stored overrides",
				Action: func(_ context.Context, _ *cli.Command) error {
					store := entitystore.New(config.EntitiesPath())
					for _, info := range store.List() {
						banner := "-"
						if info.Record.BannerImage != nil && *info.Record.BannerImage != "" {
							banner = "banner"
						}
						accent := "-"
						if info.Record.AccentColor != nil {
							accent = *info.Record.AccentColor
						}
						fmt.Printf("%-10s %-30s %-8s %s\n",
							info.Entity.Kind, info.Entity.Identity, banner, accent)
					}
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "Show one entity's stored record",
				ArgsUsage: "<identity>",
				Flags:     []cli.Flag{kindFlag},
				Action: func(_ context.Context, cmd *cli.Command) error {
					e, err := entityArg(cmd)
					if err != nil {
						return err
					}
					store := entitystore.New(config.EntitiesPath())
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(store.GetData(e))
				},
			},
			{
				Name:      "set-colors",
				Usage:     "Set accent/quote color overrides (empty reverts to inherit)",
				ArgsUsage: "<identity>",
				Flags: []cli.Flag{
					kindFlag,
					&cli.StringFlag{Name: "accent", Usage: "Accent color override"},
					&cli.StringFlag{Name: "quote", Usage: "Quote color override"},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					e, err := entityArg(cmd)
					if err != nil {
						return err
					}
					settings, err := config.OpenSettings(config.SettingsPath())
					if err != nil {
						return fmt.Errorf("open settings: %w", err)
					}

					// Picking the inherited default stores inherit, not a
					// redundant literal.
					accent := cmd.String("accent")
					if accent != "" && colormath.Equal(accent, settings.Current().AccentColor) {
						accent = ""
					}

					store := entitystore.New(config.EntitiesPath())
					if !store.SaveData(e, entitystore.Record{
						AccentColor: entitystore.String(accent),
						QuoteColor:  entitystore.String(cmd.String("quote")),
					}) {
						return fmt.Errorf("save colors for %s/%s failed", e.Kind, e.Identity)
					}
					return nil
				},
			},
			{
				Name:      "clear-banner",
				Usage:     "Clear the banner image, keeping the source for re-crop",
				ArgsUsage: "<identity>",
				Flags:     []cli.Flag{kindFlag},
				Action: func(_ context.Context, cmd *cli.Command) error {
					e, err := entityArg(cmd)
					if err != nil {
						return err
					}
					store := entitystore.New(config.EntitiesPath())
					if !store.ClearBanner(e) {
						return fmt.Errorf("clear banner for %s/%s failed", e.Kind, e.Identity)
					}
					return nil
				},
			},
			{
				Name:      "delete-image",
				Usage:     "Delete both the banner and the retained source image",
				ArgsUsage: "<identity>",
				Flags:     []cli.Flag{kindFlag},
				Action: func(_ context.Context, cmd *cli.Command) error {
					e, err := entityArg(cmd)
					if err != nil {
						return err
					}
					store := entitystore.New(config.EntitiesPath())
					if !store.DeleteCustomImage(e) {
						return fmt.Errorf("delete image for %s/%s failed", e.Kind, e.Identity)
					}
					return nil
				},
			},
		},
	}
}

func entityArg(cmd *cli.Command) (entitystore.Entity, error) {
	identity := cmd.Args().First()
	if identity == "" {
		return entitystore.Entity{}, fmt.Errorf("missing entity identity argument")
	}
	switch entitystore.Kind(cmd.String("kind")) {
	case entitystore.KindCharacter:
		return entitystore.Character(identity), nil
	case entitystore.KindPersona:
		return entitystore.Persona(identity), nil
	}
	return entitystore.Entity{}, fmt.Errorf("unknown entity kind %q", cmd.String("kind"))
}
