package cli

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"layerforge/internal/app"
)

type inspectOptions struct {
	Endpoint     string
	TimeoutSec   int
	Retries      int
	RetryDelayMs int
	JSON         bool
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect <layer-version-arn>",
		Short: "Show details of a published layer version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, args[0])
		},
	}
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "Cloud API endpoint override")
	cmd.Flags().IntVar(&opts.TimeoutSec, "timeout", 60, "Timeout in seconds for the lookup")
	cmd.Flags().IntVar(&opts.Retries, "retries", 3, "Retries for transient API errors")
	cmd.Flags().IntVar(&opts.RetryDelayMs, "retry-delay-ms", 500, "Retry base delay in ms")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output result as JSON")
	_ = viper.BindPFlag("endpoint", cmd.Flags().Lookup("endpoint"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions, layerARN string) error {
	service := newAppService()
	ctx := log.Logger.WithContext(cmd.Context())
	result, err := service.Inspect(ctx, app.InspectRequest{
		LayerARN:     layerARN,
		Endpoint:     resolveString(cmd, opts.Endpoint, "endpoint", "endpoint"),
		TimeoutSec:   opts.TimeoutSec,
		Retries:      opts.Retries,
		RetryDelayMs: opts.RetryDelayMs,
	})
	if err != nil {
		renderFailure(cmd, opts.JSON, err)
		return err
	}
	if opts.JSON {
		data, merr := json.MarshalIndent(result, "", "  ")
		if merr != nil {
			return merr
		}
		cmd.Println(string(data))
		return nil
	}
	cmd.Printf("layer version: %s\n", result.LayerARN)
	cmd.Printf("  version:       %d\n", result.Version)
	cmd.Printf("  description:   %s\n", result.Description)
	cmd.Printf("  created:       %s\n", result.CreatedAt)
	cmd.Printf("  runtimes:      %s\n", strings.Join(result.Runtimes, ", "))
	cmd.Printf("  architectures: %s\n", strings.Join(result.Architectures, ", "))
	return nil
}
