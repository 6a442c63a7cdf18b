package cli

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"layerforge/internal/adapters"
	"layerforge/internal/app"
	"layerforge/internal/types"
)

type generateOptions struct {
	LayerFile    string
	Runtime      string
	Description  string
	S3Bucket     string
	Endpoint     string
	PipIndexURL  string
	TimeoutSec   int
	Retries      int
	RetryDelayMs int
	JSON         bool
	Quiet        bool
}

func newGenerateCommand() *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [packages]",
		Short: "Build and publish a Lambda layer from package specifiers",
		Long: `Build and publish a Lambda layer from a comma-separated list of
Python package specifiers, e.g. "boto3>=1.26.1,requests==2.28.0".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packages := ""
			if len(args) > 0 {
				packages = args[0]
			}
			return runGenerate(cmd, opts, packages)
		},
	}
	cmd.Flags().StringVar(&opts.LayerFile, "spec-file", "", "YAML layer definition instead of a packages argument")
	cmd.Flags().StringVar(&opts.Runtime, "runtime", "", "Python runtime (default "+string(types.DefaultRuntime)+")")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Layer description override")
	cmd.Flags().StringVar(&opts.S3Bucket, "s3-bucket", "", "Bucket for archives above the inline upload ceiling")
	cmd.Flags().StringVar(&opts.Endpoint, "endpoint", "", "Cloud API endpoint override")
	cmd.Flags().StringVar(&opts.PipIndexURL, "pip-index-url", "", "Optional pip index URL override")
	cmd.Flags().IntVar(&opts.TimeoutSec, "timeout", 900, "Timeout in seconds for install and publish")
	cmd.Flags().IntVar(&opts.Retries, "retries", 3, "Publish retries for transient API errors")
	cmd.Flags().IntVar(&opts.RetryDelayMs, "retry-delay-ms", 500, "Publish retry base delay in ms")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output result as JSON")
	cmd.Flags().BoolVar(&opts.Quiet, "quiet", false, "Suppress progress output (JSON mode only)")
	_ = viper.BindPFlag("spec_file", cmd.Flags().Lookup("spec-file"))
	_ = viper.BindPFlag("runtime", cmd.Flags().Lookup("runtime"))
	_ = viper.BindPFlag("s3_bucket", cmd.Flags().Lookup("s3-bucket"))
	_ = viper.BindPFlag("endpoint", cmd.Flags().Lookup("endpoint"))
	_ = viper.BindPFlag("pip_index_url", cmd.Flags().Lookup("pip-index-url"))
	_ = viper.BindPFlag("timeout_sec", cmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("retries", cmd.Flags().Lookup("retries"))
	_ = viper.BindPFlag("retry_delay_ms", cmd.Flags().Lookup("retry-delay-ms"))
	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOptions, packages string) error {
	if opts.Quiet && opts.JSON {
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	}
	service := newAppService()
	if indexURL := resolveString(cmd, opts.PipIndexURL, "pip_index_url", "pip-index-url"); indexURL != "" {
		service.Installer = adapters.NewPipInstallAdapter(indexURL)
	}
	ctx := log.Logger.WithContext(cmd.Context())
	result, err := service.Generate(ctx, app.GenerateRequest{
		Packages:      packages,
		LayerFilePath: resolveString(cmd, opts.LayerFile, "spec_file", "spec-file"),
		Runtime:       resolveString(cmd, opts.Runtime, "runtime", "runtime"),
		Description:   opts.Description,
		S3Bucket:      resolveString(cmd, opts.S3Bucket, "s3_bucket", "s3-bucket"),
		Endpoint:      resolveString(cmd, opts.Endpoint, "endpoint", "endpoint"),
		TimeoutSec:    resolveInt(cmd, opts.TimeoutSec, "timeout_sec", "timeout"),
		Retries:       resolveInt(cmd, opts.Retries, "retries", "retries"),
		RetryDelayMs:  resolveInt(cmd, opts.RetryDelayMs, "retry_delay_ms", "retry-delay-ms"),
	})
	if err != nil {
		renderFailure(cmd, opts.JSON, err)
		return err
	}
	return renderGenerateResult(cmd, opts.JSON, result)
}

func renderGenerateResult(cmd *cobra.Command, asJSON bool, result app.GenerateResult) error {
	if asJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}
	cmd.Printf("layer created: %s\n", result.LayerName)
	cmd.Printf("  arn:         %s\n", result.LayerARN)
	cmd.Printf("  version:     %d\n", result.Version)
	cmd.Printf("  runtime:     %s\n", result.Runtime)
	cmd.Printf("  region:      %s\n", result.Region)
	cmd.Printf("  packages:    %s\n", strings.Join(result.Packages, ", "))
	cmd.Printf("  description: %s\n", result.Description)
	return nil
}

// renderFailure prints the stable {stage, kind, message} payload; the
// non-zero exit code comes from the returned error.
func renderFailure(cmd *cobra.Command, asJSON bool, err error) {
	failure := types.FailureFrom(err)
	if asJSON {
		data, merr := json.MarshalIndent(failure, "", "  ")
		if merr == nil {
			cmd.Println(string(data))
		}
		return
	}
	cmd.PrintErrf("failed at %s stage (%s): %s\n", failure.Stage, failure.Kind, failure.Message)
}

func newAppService() app.Service {
	return app.NewService()
}
