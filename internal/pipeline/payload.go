package pipeline

import "encoding/json"

// Payload is the single record passed between pipeline steps. Each step adds
// exactly one field and leaves the rest untouched.
type Payload struct {
	ImageData string `json:"image_data"`
	S3Bucket  string `json:"s3_bucket"`
	S3Key     string `json:"s3_key"`
	// Inferences is the raw response text of the classification endpoint,
	// expected to be a JSON array of confidence scores. It stays a string
	// until the filter step parses it.
	Inferences string `json:"inferences"`
}

// MarshalJSON emits inferences as an empty array while the classifier has
// not run yet, matching the wire shape the orchestrator expects.
func (p Payload) MarshalJSON() ([]byte, error) {
	type wire struct {
		ImageData  string          `json:"image_data"`
		S3Bucket   string          `json:"s3_bucket"`
		S3Key      string          `json:"s3_key"`
		Inferences json.RawMessage `json:"inferences"`
	}
	w := wire{
		ImageData:  p.ImageData,
		S3Bucket:   p.S3Bucket,
		S3Key:      p.S3Key,
		Inferences: json.RawMessage(`[]`),
	}
	if p.Inferences != "" {
		enc, err := json.Marshal(p.Inferences)
		if err != nil {
			return nil, err
		}
		w.Inferences = enc
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts both the pre-classification empty array and the
// post-classification string form of the inferences field.
func (p *Payload) UnmarshalJSON(data []byte) error {
	type wire struct {
		ImageData  string          `json:"image_data"`
		S3Bucket   string          `json:"s3_bucket"`
		S3Key      string          `json:"s3_key"`
		Inferences json.RawMessage `json:"inferences"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	p.ImageData = w.ImageData
	p.S3Bucket = w.S3Bucket
	p.S3Key = w.S3Key
	p.Inferences = ""
	if len(w.Inferences) > 0 {
		var s string
		if err := json.Unmarshal(w.Inferences, &s); err == nil {
			p.Inferences = s
		} else {
			// Pre-classification payloads carry a JSON array here; keep its
			// literal text so a round trip is lossless.
			trimmed := string(w.Inferences)
			if trimmed != "[]" && trimmed != "null" {
				p.Inferences = trimmed
			}
		}
	}
	return nil
}
