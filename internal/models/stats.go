package models

import "time"

// Stats is a snapshot of table sizes and host load.
type Stats struct {
	Users         int64     `json:"users"`
	Posts         int64     `json:"posts"`
	Comments      int64     `json:"comments"`
	Likes         int64     `json:"likes"`
	CPUPercent    float64   `json:"cpuPercent"`
	MemoryPercent float64   `json:"memoryPercent"`
	CollectedAt   time.Time `json:"collectedAt"`
}
