package repository

import (
	"time"

	"github.com/okian/learnmap/internal/domain/model"
)

// topicRow maps the topics table. Parent is a self-referencing belongs-to
// so AutoMigrate emits the parent foreign key; Skills carries the cascade.
type topicRow struct {
	ID            string     `gorm:"primaryKey;size:36"`
	Name          string     `gorm:"not null;index"`
	Description   *string    `gorm:"type:text"`
	ParentTopicID *string    `gorm:"size:36;index"`
	CreatedAt     time.Time  `gorm:"not null"`
	Parent        *topicRow  `gorm:"foreignKey:ParentTopicID;references:ID"`
	Skills        []skillRow `gorm:"foreignKey:TopicID;references:ID;constraint:OnDelete:CASCADE"`
}

func (topicRow) TableName() string { return "topics" }

type skillRow struct {
	ID         string    `gorm:"primaryKey;size:36"`
	Name       string    `gorm:"not null;index"`
	TopicID    string    `gorm:"size:36;not null;index"`
	Difficulty string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (skillRow) TableName() string { return "skills" }

func topicFromRow(r topicRow) model.Topic {
	return model.Topic{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		ParentTopicID: r.ParentTopicID,
		CreatedAt:     r.CreatedAt.UTC(),
	}
}

func topicToRow(t *model.Topic) topicRow {
	return topicRow{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		ParentTopicID: t.ParentTopicID,
		CreatedAt:     t.CreatedAt,
	}
}

func skillFromRow(r skillRow) model.Skill {
	return model.Skill{
		ID:         r.ID,
		Name:       r.Name,
		TopicID:    r.TopicID,
		Difficulty: r.Difficulty,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

func skillToRow(s *model.Skill) skillRow {
	return skillRow{
		ID:         s.ID,
		Name:       s.Name,
		TopicID:    s.TopicID,
		Difficulty: s.Difficulty,
		CreatedAt:  s.CreatedAt,
	}
}
