package inference

import "context"

// DefaultEndpointName is the deployed image-classification endpoint.
const DefaultEndpointName = "image-classification-2025-09-19-19-15-12-655"

// Invoker submits an encoded image to the classification endpoint and
// returns the endpoint's raw response body.
type Invoker interface {
	Invoke(ctx context.Context, contentType string, body []byte) ([]byte, error)
}
