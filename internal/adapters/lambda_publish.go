package adapters

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	lambdatypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog/log"

	"layerforge/internal/ports"
	"layerforge/internal/shared"
	"layerforge/internal/types"
)

const defaultPublishRetries = 3
const defaultPublishRetryDelay = 500 * time.Millisecond
const maxPublishRetryDelay = 8 * time.Second

// LambdaPublishAdapter registers layer versions through the Lambda API.
// The SDK's own retryer is disabled; this adapter owns the retry policy
// so transient throttling is retried here and nowhere else.
type LambdaPublishAdapter struct {
	Region     string
	S3Bucket   string
	Retries    int
	RetryDelay time.Duration

	lambda *lambda.Client
	s3     *s3.Client
}

// PublishOptions tune the adapter beyond the required credentials.
type PublishOptions struct {
	// S3Bucket enables the object-storage upload path for archives
	// above the inline ceiling. Empty means inline-only.
	S3Bucket string
	// Endpoint overrides the API endpoint (local stacks, tests).
	Endpoint string
	Retries  int
	// RetryDelayMs is the base backoff delay in milliseconds.
	RetryDelayMs int
}

func NewLambdaPublishAdapter(ctx context.Context, credentials types.Credentials, opts PublishOptions) (*LambdaPublishAdapter, error) {
	if err := validateCredentials(credentials); err != nil {
		return nil, err
	}
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(credentials.Region),
		config.WithCredentialsProvider(awscreds.NewStaticCredentialsProvider(
			credentials.AccessKeyID, credentials.SecretAccessKey, credentials.SessionToken)),
		config.WithRetryer(func() aws.Retryer { return aws.NopRetryer{} }),
	)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("failed to build cloud client configuration").
			WithCause(err)
	}
	endpoint := strings.TrimSpace(opts.Endpoint)
	lambdaClient := lambda.NewFromConfig(cfg, func(o *lambda.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &LambdaPublishAdapter{
		Region:     credentials.Region,
		S3Bucket:   strings.TrimSpace(opts.S3Bucket),
		Retries:    normalizePublishRetries(opts.Retries),
		RetryDelay: normalizePublishRetryDelay(opts.RetryDelayMs),
		lambda:     lambdaClient,
		s3:         s3Client,
	}, nil
}

func validateCredentials(credentials types.Credentials) error {
	missing := []string{}
	if strings.TrimSpace(credentials.AccessKeyID) == "" {
		missing = append(missing, "access key id")
	}
	if strings.TrimSpace(credentials.SecretAccessKey) == "" {
		missing = append(missing, "secret access key")
	}
	if strings.TrimSpace(credentials.Region) == "" {
		missing = append(missing, "region")
	}
	if len(missing) > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("missing cloud credentials: " + strings.Join(missing, ", "))
	}
	return nil
}

func (a *LambdaPublishAdapter) PublishLayerVersion(ctx context.Context, spec types.LayerSpec, artifact types.StagingArtifact) (types.PublishResult, error) {
	content, err := a.layerContent(ctx, spec.LayerName, artifact)
	if err != nil {
		return types.PublishResult{}, err
	}
	input := &lambda.PublishLayerVersionInput{
		LayerName:   aws.String(spec.LayerName),
		Description: aws.String(spec.Description),
		Content:     content,
		CompatibleRuntimes: []lambdatypes.Runtime{
			lambdatypes.Runtime(spec.Runtime),
		},
		CompatibleArchitectures: []lambdatypes.Architecture{
			lambdatypes.ArchitectureX8664,
			lambdatypes.ArchitectureArm64,
		},
	}
	var lastErr error
	for attempt := 0; attempt < a.Retries; attempt++ {
		if ctx.Err() != nil {
			return types.PublishResult{}, remoteTimeoutError(ctx)
		}
		output, err := a.lambda.PublishLayerVersion(ctx, input)
		if err == nil {
			return types.PublishResult{
				LayerARN:  aws.ToString(output.LayerVersionArn),
				Version:   output.Version,
				CreatedAt: parseTimeFlexible(aws.ToString(output.CreatedDate)),
			}, nil
		}
		retryable := false
		retryable, lastErr = classifyRemoteError(err)
		if !retryable || attempt == a.Retries-1 {
			return types.PublishResult{}, lastErr
		}
		delay := publishRetryDelay(a.RetryDelay, attempt)
		log.Ctx(ctx).Warn().
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("layer publish throttled, retrying")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return types.PublishResult{}, remoteTimeoutError(ctx)
		}
	}
	return types.PublishResult{}, lastErr
}

// layerContent chooses between inline upload and the object-storage
// path. Archives above the inline ceiling are staged to the configured
// bucket first; the orchestrator has already rejected oversize archives
// when no bucket is configured.
func (a *LambdaPublishAdapter) layerContent(ctx context.Context, layerName string, artifact types.StagingArtifact) (*lambdatypes.LayerVersionContentInput, error) {
	if artifact.SizeBytes <= types.MaxZippedBytes {
		data, err := os.ReadFile(artifact.ArchivePath)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("failed to read layer archive").
				WithCause(err)
		}
		return &lambdatypes.LayerVersionContentInput{ZipFile: data}, nil
	}
	if a.S3Bucket == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeResourceExhausted).
			WithMsg(fmt.Sprintf("archive is %s, above the %s inline ceiling, and no upload bucket is configured",
				shared.FormatMB(artifact.SizeBytes), shared.FormatMB(types.MaxZippedBytes)))
	}
	key := fmt.Sprintf("layers/%s-%d.zip", layerName, time.Now().UnixNano())
	file, err := os.Open(artifact.ArchivePath)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open layer archive").
			WithCause(err)
	}
	defer file.Close()
	_, err = a.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.S3Bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(artifact.SizeBytes),
	})
	if err != nil {
		_, err = classifyRemoteError(err)
		return nil, err
	}
	log.Ctx(ctx).Debug().Str("bucket", a.S3Bucket).Str("key", key).Msg("archive staged to object storage")
	return &lambdatypes.LayerVersionContentInput{
		S3Bucket: aws.String(a.S3Bucket),
		S3Key:    aws.String(key),
	}, nil
}

func (a *LambdaPublishAdapter) GetLayerVersion(ctx context.Context, layerARN string) (types.LayerVersionInfo, error) {
	name, version, err := splitLayerARN(layerARN)
	if err != nil {
		return types.LayerVersionInfo{}, err
	}
	output, err := a.lambda.GetLayerVersion(ctx, &lambda.GetLayerVersionInput{
		LayerName:     aws.String(name),
		VersionNumber: aws.Int64(version),
	})
	if err != nil {
		_, err = classifyRemoteError(err)
		return types.LayerVersionInfo{}, err
	}
	info := types.LayerVersionInfo{
		LayerARN:    aws.ToString(output.LayerVersionArn),
		Version:     output.Version,
		Description: aws.ToString(output.Description),
		CreatedAt:   parseTimeFlexible(aws.ToString(output.CreatedDate)),
	}
	for _, rt := range output.CompatibleRuntimes {
		info.Runtimes = append(info.Runtimes, string(rt))
	}
	for _, arch := range output.CompatibleArchitectures {
		info.Architectures = append(info.Architectures, string(arch))
	}
	return info, nil
}

// splitLayerARN pulls the layer name and version number out of a layer
// version ARN (arn:aws:lambda:region:account:layer:name:version).
func splitLayerARN(layerARN string) (string, int64, error) {
	parts := strings.Split(strings.TrimSpace(layerARN), ":")
	if len(parts) < 8 || parts[5] != "layer" {
		return "", 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("not a layer version ARN: %s", layerARN))
	}
	version, err := strconv.ParseInt(parts[7], 10, 64)
	if err != nil {
		return "", 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid layer version in ARN: %s", parts[7])).
			WithCause(err)
	}
	return parts[6], version, nil
}

// classifyRemoteError maps a cloud API failure to an errbuilder error
// and reports whether the caller may retry it.
func classifyRemoteError(err error) (bool, error) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch code {
		case "TooManyRequestsException", "ThrottlingException", "Throttling":
			return true, errbuilder.New().
				WithCode(errbuilder.CodeUnavailable).
				WithMsg(fmt.Sprintf("cloud API throttled the request (%s)", code)).
				WithCause(err)
		case "InvalidParameterValueException":
			return false, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("cloud API rejected the layer parameters: " + apiErr.ErrorMessage()).
				WithCause(err)
		case "AccessDeniedException", "UnrecognizedClientException", "InvalidClientTokenId":
			return false, errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg("cloud API rejected the credentials: " + apiErr.ErrorMessage()).
				WithCause(err)
		case "ResourceNotFoundException", "NoSuchBucket":
			return false, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("cloud resource not found: " + apiErr.ErrorMessage()).
				WithCause(err)
		}
		if apiErr.ErrorFault() == smithy.FaultServer {
			return true, errbuilder.New().
				WithCode(errbuilder.CodeUnavailable).
				WithMsg(fmt.Sprintf("cloud API server error (%s)", code)).
				WithCause(err)
		}
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("cloud API error (%s): %s", code, apiErr.ErrorMessage())).
			WithCause(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeDeadlineExceeded).
			WithMsg("cloud API call timed out").
			WithCause(err)
	}
	// Transport-level failures without an API response are worth a retry.
	return true, errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg("cloud API request failed").
		WithCause(err)
}

func remoteTimeoutError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errbuilder.New().
			WithCode(errbuilder.CodeDeadlineExceeded).
			WithMsg("layer publish timed out")
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeAborted).
		WithMsg("layer publish canceled")
}

func publishRetryDelay(base time.Duration, attempt int) time.Duration {
	delay := base * time.Duration(1<<attempt)
	if delay > maxPublishRetryDelay {
		delay = maxPublishRetryDelay
	}
	jitter := time.Duration(time.Now().UnixNano() % int64(delay/2+1))
	return delay + jitter
}

func normalizePublishRetries(value int) int {
	if value <= 0 {
		return defaultPublishRetries
	}
	return value
}

func normalizePublishRetryDelay(value int) time.Duration {
	delay := time.Duration(value) * time.Millisecond
	if delay <= 0 {
		return defaultPublishRetryDelay
	}
	return delay
}

var _ ports.PublisherPort = (*LambdaPublishAdapter)(nil)
