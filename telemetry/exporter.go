// Package telemetry ships finished measurement results to an MQTT topic.
// Export is strictly post-invocation: nothing is aggregated or retained.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/Dlordkendex/gas2nel/meter"
	"github.com/Dlordkendex/gas2nel/pkg/mqtt"
	"github.com/google/uuid"
)

const topicTemplate = "gas2nel/%s/results"

// Envelope is the wire form of an exported result.
type Envelope struct {
	ID        string       `json:"id"`
	Source    string       `json:"source"`
	Timestamp time.Time    `json:"timestamp"`
	Result    meter.Result `json:"result"`
}

// Exporter publishes results under a fixed source-scoped topic.
type Exporter struct {
	source string
	pub    mqtt.Publisher
}

// NewExporter returns an exporter publishing on behalf of the named source.
func NewExporter(source string, pub mqtt.Publisher) *Exporter {
	return &Exporter{source: source, pub: pub}
}

// Export publishes one result. Each export gets a fresh envelope id.
func (e *Exporter) Export(ctx context.Context, res meter.Result) error {
	env := Envelope{
		ID:        uuid.NewString(),
		Source:    e.source,
		Timestamp: time.Now().UTC(),
		Result:    res,
	}

	return e.pub.Publish(ctx, fmt.Sprintf(topicTemplate, e.source), env)
}
