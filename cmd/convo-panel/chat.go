package main

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	clay "github.com/go-go-golems/clay/pkg"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-go-golems/convopanel/pkg/api"
	"github.com/go-go-golems/convopanel/pkg/config"
	"github.com/go-go-golems/convopanel/pkg/conversation"
	"github.com/go-go-golems/convopanel/pkg/ui"
)

func newChatCommand() *cobra.Command {
	var lines bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the chat panel",
		Long: `Open the chat panel against an agent endpoint. With a terminal on stdin and
stdout the interactive panel is shown; otherwise each input line is sent as a
message and the transcript is printed as it grows.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}

			interactive := !lines &&
				isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
			if interactive && viper.GetString("log-file") == "" {
				// keep log lines off the panel
				viper.Set("log-file", filepath.Join(os.TempDir(), "convo-panel.log"))
				if err := clay.InitLogger(); err != nil {
					return err
				}
			}

			log.Info().
				Str("endpoint", s.Transport.Endpoint).
				Bool("interactive", interactive).
				Msg("starting chat panel")

			if interactive {
				return runInteractive(cmd, s)
			}
			return runLines(cmd, s)
		},
	}
	cmd.Flags().String(config.KeyEndpoint, "", "Agent message endpoint (overrides config)")
	cmd.Flags().BoolVar(&lines, "lines", false, "Force line mode even on a terminal")
	cobra.CheckErr(viper.BindPFlag(config.KeyEndpoint, cmd.Flags().Lookup(config.KeyEndpoint)))
	return cmd
}

func runInteractive(cmd *cobra.Command, s config.Settings) error {
	ctx := cmd.Context()
	scheduler := &ui.ProgramScheduler{}
	transport := api.New(s.Transport.Endpoint,
		api.WithTimeout(s.Transport.Timeout),
		api.WithScheduler(scheduler))

	layout := ui.NewTerminalLayout(80)
	panel, err := conversation.NewPanel(conversation.NewDocument(s), transport, s, layout)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, panel, layout, s.UI.CellWidthPx)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	scheduler.SetProgram(p)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run chat panel")
	}
	return nil
}

func runLines(cmd *cobra.Command, s config.Settings) error {
	loop := api.NewLoop(64)
	var runner *ui.LineRunner
	transport := api.New(s.Transport.Endpoint,
		api.WithTimeout(s.Transport.Timeout),
		api.WithScheduler(ui.Scheduler(loop, func() { runner.Flush() })))

	panel, err := conversation.NewPanel(conversation.NewDocument(s), transport, s, nil)
	if err != nil {
		return err
	}
	runner = ui.NewLineRunner(panel, transport, loop, cmd.OutOrStdout())
	if err := runner.Run(cmd.Context(), cmd.InOrStdin()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
