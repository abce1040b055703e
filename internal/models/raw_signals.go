package models

import "time"

// Raw market-signal records written by external collectors. The core never
// reads their payloads; only the recency timestamps matter for the freshness
// decision, so the models carry just enough to index them.

// RawSalesRecord is one retail sales data point
type RawSalesRecord struct {
	ID      string    `json:"id" badgerhold:"key"`
	Country string    `json:"country,omitempty"`
	Date    time.Time `json:"date" badgerhold:"index"`
}

// RawReview is one consumer review
type RawReview struct {
	ID       string    `json:"id" badgerhold:"key"`
	Country  string    `json:"country,omitempty"`
	PostedAt time.Time `json:"posted_at" badgerhold:"index"`
}

// RawSocialPost is one social media post
type RawSocialPost struct {
	ID       string    `json:"id" badgerhold:"key"`
	Platform string    `json:"platform,omitempty"`
	PostedAt time.Time `json:"posted_at" badgerhold:"index"`
}
