package app

import "time"

type GenerateRequest struct {
	// Packages is the comma-separated specifier string. Ignored when
	// LayerFilePath is set.
	Packages      string
	LayerFilePath string
	Runtime       string
	Description   string
	S3Bucket      string
	Endpoint      string
	TimeoutSec    int
	Retries       int
	RetryDelayMs  int
}

type GenerateResult struct {
	LayerARN    string    `json:"layer_arn"`
	LayerName   string    `json:"layer_name"`
	Version     int64     `json:"version"`
	Description string    `json:"description"`
	Runtime     string    `json:"runtime"`
	Region      string    `json:"region"`
	Packages    []string  `json:"packages"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

type InspectRequest struct {
	LayerARN     string
	Endpoint     string
	TimeoutSec   int
	Retries      int
	RetryDelayMs int
}

type InspectResult struct {
	LayerARN      string    `json:"layer_arn"`
	Version       int64     `json:"version"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	Runtimes      []string  `json:"runtimes"`
	Architectures []string  `json:"architectures"`
}
