// Package repository defines the catalog storage port and its adapters:
// a gorm-backed SQL store and a flat JSON file store.
package repository

import (
	"context"

	"github.com/okian/learnmap/internal/domain/model"
)

// Lock selects the row lock taken by a read inside an Update transaction.
// Backends without row-level locking ignore it.
type Lock int

const (
	// LockNone reads without locking.
	LockNone Lock = iota
	// LockShare keeps the row from being deleted until commit.
	LockShare
	// LockUpdate takes the row exclusively until commit.
	LockUpdate
)

// Tx is the view of the catalog inside one transaction.
type Tx interface {
	// ListTopics returns one window of matching topics ordered by name and
	// the number of matches before windowing.
	ListTopics(ctx context.Context, f model.TopicFilter) ([]model.Topic, int64, error)
	// GetTopic returns ErrNotFound if no topic has the id.
	GetTopic(ctx context.Context, id string, lock Lock) (model.Topic, error)
	InsertTopic(ctx context.Context, t *model.Topic) error
	// SaveTopic overwrites name, description and parent of an existing topic.
	SaveTopic(ctx context.Context, t *model.Topic) error
	DeleteTopic(ctx context.Context, id string) error
	// CountChildTopics counts topics whose parent is id.
	CountChildTopics(ctx context.Context, id string) (int64, error)

	ListSkills(ctx context.Context, f model.SkillFilter) ([]model.Skill, int64, error)
	GetSkill(ctx context.Context, id string, lock Lock) (model.Skill, error)
	InsertSkill(ctx context.Context, s *model.Skill) error
	// SaveSkill overwrites name, topic and difficulty of an existing skill.
	SaveSkill(ctx context.Context, s *model.Skill) error
	DeleteSkill(ctx context.Context, id string) error
	// CountTopicSkills counts skills that belong to topicID.
	CountTopicSkills(ctx context.Context, topicID string) (int64, error)
}

// Store runs callbacks against the catalog. Update callbacks are atomic:
// either every write inside them is committed or none is.
type Store interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}
