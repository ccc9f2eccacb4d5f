package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "STREAMLET"

var log zerolog.Logger

var rootCmd = &cobra.Command{
	Use:   "streamlet",
	Short: "Run replicas of the Streamlet consensus protocol",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		err := viper.BindPFlags(cmd.Flags())
		if err != nil {
			return fmt.Errorf("could not bind flags: %w", err)
		}
		level, err := zerolog.ParseLevel(viper.GetString("loglevel"))
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		log = log.Level(level)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info",
		"log level (panic, fatal, error, warn, info, debug)")
	rootCmd.PersistentFlags().StringP("datadir", "d", "",
		"directory for the replicas' databases; a temporary directory is used if empty")

	log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	cobra.OnInitialize(initConfig)
}

// initConfig lets every flag be set through a STREAMLET_ prefixed environment
// variable, e.g. STREAMLET_EPOCH_DURATION for --epoch-duration.
func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
