package header_mapping_service

import (
	"context"

	"github.com/nebula-marketing/lead-importer/domain/app"
)

// NoopClassifier never proposes a mapping. Used when AI assistance is disabled
// or no provider is configured.
type NoopClassifier struct{}

var _ app.ColumnClassifier = NoopClassifier{}

func (NoopClassifier) Classify(context.Context, app.ClassificationRequest) (map[string]string, error) {
	return map[string]string{}, nil
}
