package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	clay "github.com/go-go-golems/clay/pkg"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-go-golems/convopanel/pkg/config"
)

// appName selects ~/.convopanel/config.yaml and the CONVOPANEL_ env prefix.
const appName = "convopanel"

var rootCmd = &cobra.Command{
	Use:   "convo-panel",
	Short: "A terminal chat panel for a user/agent conversation",
	Long: `convo-panel renders the request and response payloads of a chat API as a
two-lane transcript. Run "convo-panel agent" to start a local echo agent and
"convo-panel chat" to talk to it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// reinitialize the logger now that --log-level and co are parsed
		return clay.InitLogger()
	},
}

var initOnce sync.Once

// initRootCmd wires viper (config file, env, logging flags) into rootCmd and
// registers the subcommands.
func initRootCmd() error {
	var err error
	initOnce.Do(func() {
		rootCmd.AddCommand(newChatCommand())
		rootCmd.AddCommand(newAgentCommand())

		if err = clay.InitViper(appName, rootCmd); err != nil {
			return
		}
		err = clay.InitLogger()
	})
	return err
}

func loadSettings() (config.Settings, error) {
	return config.Load(viper.GetViper())
}

func main() {
	cobra.CheckErr(initRootCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("convo-panel failed")
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
