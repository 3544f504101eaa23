package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/example/image-pipeline/internal/inference"
	"github.com/example/image-pipeline/internal/logging"
)

// ImageContentType is the content type every payload image is submitted as.
const ImageContentType = "image/png"

// Classifier is the second pipeline step: it decodes the payload image and
// runs it through the remote classification endpoint.
type Classifier struct {
	invoker inference.Invoker
	logger  *zap.Logger
}

// NewClassifier constructs the classify step around an endpoint invoker.
func NewClassifier(invoker inference.Invoker, logger *zap.Logger) *Classifier {
	return &Classifier{invoker: invoker, logger: logger.Named("classify_step")}
}

// Run decodes image_data, submits the raw bytes to the endpoint, and stores
// the response text into the payload's inferences field. Malformed base64
// fails before the endpoint is ever called. The response is not validated
// here; the filter step parses it.
func (c *Classifier) Run(ctx context.Context, p *Payload) (*Payload, error) {
	raw, err := base64.StdEncoding.DecodeString(p.ImageData)
	if err != nil {
		wrapped := logging.NewStepError("classify.decode_image", "",
			fmt.Errorf("%w: %v", ErrImageDecode, err))
		c.logger.Error("image_data is not valid base64", zap.Error(wrapped))
		return nil, wrapped
	}

	body, err := c.invoker.Invoke(ctx, ImageContentType, raw)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(body) {
		wrapped := logging.NewStepError("classify.decode_response", "", ErrResponseDecode)
		c.logger.Error("endpoint response is not valid UTF-8", zap.Error(wrapped))
		return nil, wrapped
	}

	p.Inferences = string(body)
	c.logger.Info("inferences attached",
		zap.String("bucket", p.S3Bucket),
		zap.String("key", p.S3Key),
		zap.Int("response_bytes", len(body)))
	return p, nil
}
