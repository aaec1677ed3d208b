package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/banner/clients/tui"
	wsclient "github.com/dohr-michael/banner/clients/ws"
	"github.com/dohr-michael/banner/internal/config"
)

// NewTUICommand returns the tui subcommand: a live stylesheet preview
// connected to a running gateway.
func NewTUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Launch the live stylesheet preview",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "Gateway WebSocket URL",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			url := cmd.String("url")
			if url == "" {
				cfg, err := config.Load(cmd.String("config"))
				if err != nil {
					cfg = config.Default()
				}
				url = fmt.Sprintf("ws://%s:%d/api/ws", cfg.Gateway.Host, cfg.Gateway.Port)
			}

			client, err := wsclient.Dial(ctx, url)
			if err != nil {
				return fmt.Errorf("connect to gateway: %w", err)
			}
			defer client.Close()

			return tui.Run(client)
		},
	}
}
