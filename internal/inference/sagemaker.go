package inference

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	"go.uber.org/zap"

	"github.com/example/image-pipeline/internal/logging"
)

// SageMakerAPI is the subset of the SageMaker Runtime client used here.
type SageMakerAPI interface {
	InvokeEndpoint(
		ctx context.Context,
		params *sagemakerruntime.InvokeEndpointInput,
		optFns ...func(*sagemakerruntime.Options),
	) (*sagemakerruntime.InvokeEndpointOutput, error)
}

// SageMakerInvoker calls a fixed SageMaker endpoint with the request body as
// the image payload.
type SageMakerInvoker struct {
	api      SageMakerAPI
	endpoint string
	logger   *zap.Logger
}

// NewSageMakerInvoker constructs an invoker bound to the named endpoint.
func NewSageMakerInvoker(api SageMakerAPI, endpoint string, logger *zap.Logger) *SageMakerInvoker {
	return &SageMakerInvoker{
		api:      api,
		endpoint: endpoint,
		logger:   logger.Named("sagemaker_invoker"),
	}
}

// Invoke submits the body to the endpoint and returns the full response
// body. Endpoint failures (timeout, 5xx, throttling) surface as-is.
func (i *SageMakerInvoker) Invoke(ctx context.Context, contentType string, body []byte) ([]byte, error) {
	out, err := i.api.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(i.endpoint),
		ContentType:  aws.String(contentType),
		Body:         body,
	})
	if err != nil {
		wrapped := logging.NewStepError("inference.invoke_endpoint", "", err)
		i.logger.Error("endpoint invocation failed",
			zap.Error(wrapped),
			zap.String("endpoint", i.endpoint))
		return nil, wrapped
	}
	return out.Body, nil
}
