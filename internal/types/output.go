package types

import "time"

// PublishResult is returned by the publisher boundary after a layer
// version has been registered.
type PublishResult struct {
	LayerARN  string
	Version   int64
	CreatedAt time.Time
}

// LayerVersionInfo describes an already-published layer version.
type LayerVersionInfo struct {
	LayerARN      string
	Version       int64
	Description   string
	CreatedAt     time.Time
	Runtimes      []string
	Architectures []string
}

// Credentials carries the cloud credentials and region handed to the
// publisher at construction time. Core logic never reads them from the
// ambient environment.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string
}
