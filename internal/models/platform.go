package models

import "time"

// PlatformKeyword is a single keyword with its engagement value on a platform
type PlatformKeyword struct {
	Keyword string  `json:"keyword"`
	Value   float64 `json:"value"`
}

// PlatformStat is one per-platform keyword statistics document written by the
// external workflow, read-only to the core.
type PlatformStat struct {
	ID       string            `json:"id" badgerhold:"key"`
	Platform string            `json:"platform" badgerhold:"index"`
	Country  string            `json:"country" badgerhold:"index"`
	Date     time.Time         `json:"date" badgerhold:"index"`
	Keywords []PlatformKeyword `json:"keywords"`
}

// PlatformRanking is the derived top-N keyword list for one social platform
type PlatformRanking struct {
	Platform string            `json:"platform"`
	Keywords []PlatformKeyword `json:"keywords"`
}
