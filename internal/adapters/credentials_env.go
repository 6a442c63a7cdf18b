package adapters

import (
	"os"

	"github.com/spf13/viper"

	"layerforge/internal/ports"
	"layerforge/internal/types"
)

// EnvCredentialsAdapter reads cloud credentials from the process
// environment, optionally overlaid with a .env file. It is the only
// place credentials are read from the environment; everything past the
// port boundary receives them as an explicit value.
type EnvCredentialsAdapter struct {
	// DotenvPath points at a .env file. Loaded when it exists, silently
	// skipped otherwise.
	DotenvPath string
}

func NewEnvCredentialsAdapter(dotenvPath string) EnvCredentialsAdapter {
	return EnvCredentialsAdapter{DotenvPath: dotenvPath}
}

func (a EnvCredentialsAdapter) Load() (types.Credentials, error) {
	v := viper.New()
	_ = v.BindEnv("aws_access_key_id", "AWS_ACCESS_KEY_ID")
	_ = v.BindEnv("aws_secret_access_key", "AWS_SECRET_ACCESS_KEY")
	_ = v.BindEnv("aws_session_token", "AWS_SESSION_TOKEN")
	_ = v.BindEnv("aws_region", "AWS_REGION", "AWS_DEFAULT_REGION")

	if a.DotenvPath != "" {
		if _, err := os.Stat(a.DotenvPath); err == nil {
			v.SetConfigFile(a.DotenvPath)
			v.SetConfigType("env")
			// Environment variables still win over file values.
			_ = v.ReadInConfig()
		}
	}

	return types.Credentials{
		AccessKeyID:     v.GetString("aws_access_key_id"),
		SecretAccessKey: v.GetString("aws_secret_access_key"),
		SessionToken:    v.GetString("aws_session_token"),
		Region:          v.GetString("aws_region"),
	}, nil
}

var _ ports.CredentialsPort = EnvCredentialsAdapter{}
