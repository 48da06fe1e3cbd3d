package models

// Record is one observation returned by the energy endpoint
type Record struct {
	Date               Label `json:"date"`
	AverageTemperature Value `json:"averageTemperature"`
	AverageHumidity    Value `json:"averageHumidity"`
	Consumption        Value `json:"consumption"`
	Anomaly            Value `json:"anomaly"`
}

// IsAnomaly reports whether the record carries a truthy anomaly flag
func (r Record) IsAnomaly() bool {
	return r.Anomaly.Truthy()
}

// Dataset is the ordered sequence of records currently loaded.
// A nil Dataset means nothing has been loaded yet.
type Dataset []Record

// Loaded reports whether the dataset has been set
func (d Dataset) Loaded() bool {
	return d != nil
}

// Anomalies returns the records whose anomaly flag is truthy, in dataset order
func (d Dataset) Anomalies() []Record {
	var out []Record
	for _, r := range d {
		if r.IsAnomaly() {
			out = append(out, r)
		}
	}
	return out
}
