package service

import "github.com/okian/learnmap/internal/domain/model"

// Client-facing messages.
const (
	msgTopicNotFound     = "Topic not found"
	msgSkillNotFound     = "Skill not found"
	msgParentNotFound    = "parentTopicID not found"
	msgParentCycle       = "parentTopicID would create a cycle"
	msgTopicIDRequired   = "Field 'topicID' is required."
	msgTopicIDNotFound   = "topicID not found"
	msgTopicHasSkills    = "The topic has dependent skills, cannot delete the topic"
	msgTopicHasSubtopics = "The topic has dependent topics, cannot delete the topic"
)

func validationError(msg string) error { return model.Validation("%s", msg) }
func notFoundError(msg string) error   { return model.NotFound("%s", msg) }
func conflictError(msg string) error   { return model.Conflict("%s", msg) }
