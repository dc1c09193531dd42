// Package models defines data structures for pricebars
package models

// PriceBar is one row of a raw stock price dataset.
type PriceBar struct {
	Date   string  `json:"Date"`
	Open   float64 `json:"Open"`
	High   float64 `json:"High"`
	Low    float64 `json:"Low"`
	Close  float64 `json:"Close"`
	Volume float64 `json:"Volume"`
}

// PriceRecord is a sampled data point shown as one bar.
type PriceRecord struct {
	Date   string  `json:"date"`
	Close  float64 `json:"close"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume float64 `json:"volume"`
}

// RecordFromBar keeps the fields a bar chart displays.
func RecordFromBar(b PriceBar) PriceRecord {
	return PriceRecord{
		Date:   b.Date,
		Close:  b.Close,
		High:   b.High,
		Low:    b.Low,
		Volume: b.Volume,
	}
}
