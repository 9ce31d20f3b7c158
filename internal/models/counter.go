package models

import "time"

// CounterRecord is the on-disk layout of the file-backed visitor counter.
type CounterRecord struct {
	Count       int64     `json:"count"`
	LastUpdated time.Time `json:"lastUpdated"`
}
