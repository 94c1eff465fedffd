package model

import "time"

// DefaultDifficulty is assigned to skills created without a difficulty.
const DefaultDifficulty = "beginner"

// Skill is a learnable item that belongs to exactly one topic.
type Skill struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	TopicID    string    `json:"topicID"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SkillFilter narrows a skill listing.
type SkillFilter struct {
	Query   string // case-insensitive substring of name
	TopicID string // exact topicID
	Limit   int
	Offset  int
}

// SkillInput carries the fields accepted on skill creation.
type SkillInput struct {
	Name       string
	TopicID    string
	Difficulty *string
}

// SkillPatch carries a skill update. Unset or blank fields keep the stored value.
type SkillPatch struct {
	Name       Optional[string]
	TopicID    Optional[string]
	Difficulty Optional[string]
}
