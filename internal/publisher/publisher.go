package publisher

import (
	"context"
	"fmt"

	"github.com/go-json-experiment/json"

	"github.com/jgoulah/energyview/internal/chart"
	"github.com/jgoulah/energyview/pkg/models"
)

// AnomalyPayload is the message published for each anomalous record
type AnomalyPayload struct {
	Date               string       `json:"date"`
	Consumption        models.Value `json:"consumption"`
	AverageHumidity    models.Value `json:"averageHumidity"`
	AverageTemperature models.Value `json:"averageTemperature"`
	Anomaly            models.Value `json:"anomaly"`
	Tooltip            string       `json:"tooltip"`
}

// Encode returns the JSON body of the payload
func (p AnomalyPayload) Encode() ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding payload for %s: %w", p.Date, err)
	}
	return b, nil
}

// Sink delivers anomaly payloads to a broker
type Sink interface {
	Name() string
	Publish(ctx context.Context, p AnomalyPayload) error
	Close() error
}

// Anomalies builds one payload per record with a truthy anomaly, in dataset
// order. Tooltips are taken from o, which must have been built from ds.
func Anomalies(ds models.Dataset, o chart.Options) []AnomalyPayload {
	var out []AnomalyPayload
	for i, r := range ds {
		if !r.IsAnomaly() {
			continue
		}
		tip, ok := o.Tooltip(i)
		if !ok {
			tip = chart.Tooltip(string(r.Date), chart.NewPoint(r))
		}
		out = append(out, AnomalyPayload{
			Date:               string(r.Date),
			Consumption:        r.Consumption,
			AverageHumidity:    r.AverageHumidity,
			AverageTemperature: r.AverageTemperature,
			Anomaly:            r.Anomaly,
			Tooltip:            tip,
		})
	}
	return out
}

// PublishAll sends every payload to sink and stops at the first failure.
// It returns how many payloads were delivered.
func PublishAll(ctx context.Context, sink Sink, payloads []AnomalyPayload) (int, error) {
	for i, p := range payloads {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := sink.Publish(ctx, p); err != nil {
			return i, fmt.Errorf("publishing to %s: %w", sink.Name(), err)
		}
	}
	return len(payloads), nil
}
