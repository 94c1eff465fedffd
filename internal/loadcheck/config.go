// Package loadcheck drives a running catalog service over HTTP with
// concurrent writers and verifies referential integrity afterwards.
package loadcheck

import "time"

// Config holds configuration for a load check run.
type Config struct {
	BaseURL   string        // Base URL of the service
	Topics    int           // Number of topics to create
	Skills    int           // Skills created under each topic
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	KeepData  bool          // Skip the final cleanup
	RunPrefix string        // Name prefix isolating this run's records
}

// Stats holds run statistics.
type Stats struct {
	TopicsCreated   int
	SkillsCreated   int
	Conflicts       int // topic deletes refused while skills existed
	Deleted         int
	Failed          int
	StartTime       time.Time
	Duration        time.Duration
	RequestsPerSec  float64
	requestsStarted int64
}

type topic struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ParentTopicID *string `json:"parentTopicID"`
}

type skill struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TopicID string `json:"topicID"`
}

type page[T any] struct {
	Data []T `json:"data"`
	Meta struct {
		Total int `json:"total"`
	} `json:"meta"`
}
