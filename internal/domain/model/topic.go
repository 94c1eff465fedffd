// Package model contains domain models passed between layers.
package model

import "time"

// Topic is a learning subject, optionally nested under a parent topic.
type Topic struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	ParentTopicID *string   `json:"parentTopicID"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HasParent reports whether the topic is nested under another topic.
func (t Topic) HasParent() bool {
	return t.ParentTopicID != nil && *t.ParentTopicID != ""
}

// TopicFilter narrows a topic listing.
type TopicFilter struct {
	Query    string // case-insensitive substring of name
	ParentID string // exact parentTopicID
	Limit    int
	Offset   int
}

// TopicInput carries the fields accepted on topic creation.
type TopicInput struct {
	Name          string
	Description   *string
	ParentTopicID *string
}

// TopicPatch carries an update. Unset fields keep the stored value; a set
// field holding nil clears it.
type TopicPatch struct {
	Name          Optional[string]
	Description   Optional[string]
	ParentTopicID Optional[string]
}
