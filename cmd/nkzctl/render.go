package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nekazari/nkz-module-robotics/internal/config"
	"github.com/nekazari/nkz-module-robotics/internal/robotconfig"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by render.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newRenderCmd() *cobra.Command {
	var tenant, robot, format string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the configuration document for a robot",
		Long: `Render the overlay configuration document for one robot using the same
policy the API serves.

Examples:
  nkzctl render --tenant acme --robot r2d2
  nkzctl render --tenant acme --robot r2d2 --format yaml > /mnt/robot/overlay.yaml
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPathFlag)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), cfg.Policy(), tenant, robot, format)
		},
	}

	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant ID owning the robot")
	cmd.Flags().StringVar(&robot, "robot", "", "robot ID")
	cmd.Flags().StringVarP(&format, "format", "o", formatJSON, "output format (json|yaml)")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("robot")

	return cmd
}

func render(w io.Writer, policy robotconfig.Policy, tenant, robot, format string) error {
	generator, err := robotconfig.NewGenerator(policy, nil)
	if err != nil {
		return err
	}

	doc, err := generator.Generate(tenant, robot)
	if err != nil {
		return err
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q (want %s or %s)", format, formatJSON, formatYAML)
	}
}

func newCheckConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Load and validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPathFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration valid")
			fmt.Fprintf(out, "  router endpoints:   %v\n", cfg.Generator.RouterEndpoints)
			fmt.Fprintf(out, "  watchdog timeout:   %s\n", cfg.Generator.WatchdogTimeout)
			fmt.Fprintf(out, "  safe stop behavior: %s\n", cfg.Generator.SafeStopBehavior)
			return nil
		},
	}
}
