package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	"go.uber.org/zap"

	"github.com/example/image-pipeline/internal/logging"
)

type fakeSageMaker struct {
	response    []byte
	err         error
	endpoint    string
	contentType string
	body        []byte
}

func (f *fakeSageMaker) InvokeEndpoint(ctx context.Context, params *sagemakerruntime.InvokeEndpointInput, optFns ...func(*sagemakerruntime.Options)) (*sagemakerruntime.InvokeEndpointOutput, error) {
	f.endpoint = *params.EndpointName
	f.contentType = *params.ContentType
	f.body = params.Body
	if f.err != nil {
		return nil, f.err
	}
	return &sagemakerruntime.InvokeEndpointOutput{Body: f.response}, nil
}

func TestInvokeSubmitsBodyToConfiguredEndpoint(t *testing.T) {
	api := &fakeSageMaker{response: []byte("[0.1, 0.95]")}
	invoker := NewSageMakerInvoker(api, "my-endpoint", zap.NewNop())

	out, err := invoker.Invoke(context.Background(), "image/png", []byte("imgbytes"))
	if err != nil {
		t.Fatalf("expected success, got: %v", err)
	}
	if string(out) != "[0.1, 0.95]" {
		t.Fatalf("unexpected response: %q", out)
	}
	if api.endpoint != "my-endpoint" {
		t.Fatalf("unexpected endpoint: %s", api.endpoint)
	}
	if api.contentType != "image/png" {
		t.Fatalf("unexpected content type: %s", api.contentType)
	}
	if string(api.body) != "imgbytes" {
		t.Fatalf("unexpected body: %q", api.body)
	}
}

func TestInvokeWrapsEndpointFailure(t *testing.T) {
	cause := errors.New("ThrottlingException")
	invoker := NewSageMakerInvoker(&fakeSageMaker{err: cause}, DefaultEndpointName, zap.NewNop())

	_, err := invoker.Invoke(context.Background(), "image/png", []byte("img"))
	if !errors.Is(err, cause) {
		t.Fatalf("cause not preserved, got: %v", err)
	}

	var stepErr *logging.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %T", err)
	}
}
