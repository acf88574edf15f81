// Command nkzctl renders robot overlay configuration offline, for provisioning
// robots that cannot reach the API at first boot.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPathFlag string

var rootCmd = &cobra.Command{
	Use:           "nkzctl",
	Short:         "Nekazari robotics configuration tool",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "path to config file")
	rootCmd.AddCommand(newRenderCmd(), newCheckConfigCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
