package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ledtween",
		Short: "Tween-driven animations streamed to an led strip",
		Long: `ledtween steps a property-animation engine once per frame, renders the
result into led frames and publishes them over MQTT.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	root.AddCommand(newRunCmd(), newCurvesCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
