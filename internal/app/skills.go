package service

import (
	"context"
	"errors"
	"strings"

	repository "github.com/okian/learnmap/internal/adapters/repository"
	"github.com/okian/learnmap/internal/domain/model"
	"github.com/okian/learnmap/internal/domain/validate"
	"github.com/okian/learnmap/pkg/logger"
	"github.com/okian/learnmap/pkg/metrics"
)

// SkillService manages skills. Every skill belongs to an existing topic.
type SkillService struct {
	*deps
	log logger.Logger
}

// List returns one page of skills ordered by name.
func (s *SkillService) List(ctx context.Context, f model.SkillFilter) (model.Page[model.Skill], error) {
	limit, offset, err := validate.ClampPage(f.Limit, f.Offset)
	if err != nil {
		return model.Page[model.Skill]{}, err
	}
	f.Limit, f.Offset = limit, offset
	f.Query = strings.TrimSpace(f.Query)
	f.TopicID = strings.TrimSpace(f.TopicID)

	var (
		items []model.Skill
		total int64
	)
	err = s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		items, total, err = tx.ListSkills(ctx, f)
		return err
	})
	if err != nil {
		return model.Page[model.Skill]{}, err
	}
	return model.NewPage(items, total, limit, offset), nil
}

// Get returns the skill with id.
func (s *SkillService) Get(ctx context.Context, id string) (model.Skill, error) {
	var skill model.Skill
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		skill, err = tx.GetSkill(ctx, id, repository.LockNone)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return model.Skill{}, notFoundError(msgSkillNotFound)
	}
	return skill, err
}

// Create stores a new skill under an existing topic.
func (s *SkillService) Create(ctx context.Context, in model.SkillInput) (model.Skill, error) {
	name, err := validate.Name(in.Name)
	if err != nil {
		return model.Skill{}, err
	}
	topicID := validate.Ref(&in.TopicID)
	if topicID == nil {
		return model.Skill{}, validationError(msgTopicIDRequired)
	}
	skill := model.Skill{
		ID:         s.newID(),
		Name:       name,
		TopicID:    *topicID,
		Difficulty: validate.Difficulty(in.Difficulty),
		CreatedAt:  s.timestamp(),
	}

	err = s.store.Update(ctx, func(tx repository.Tx) error {
		if err := requireTopic(ctx, tx, skill.TopicID, msgTopicIDNotFound); err != nil {
			return err
		}
		return refError(tx.InsertSkill(ctx, &skill), msgTopicIDNotFound)
	})
	if err != nil {
		return model.Skill{}, err
	}

	metrics.RecordMutation("skill", "create")
	s.log.Debug(ctx, "skill created", logger.String("id", skill.ID), logger.String("topic_id", skill.TopicID))
	return skill, nil
}

// Update applies p to the stored skill. Blank fields keep the stored values;
// the resulting topic is checked again even when unchanged.
func (s *SkillService) Update(ctx context.Context, id string, p model.SkillPatch) (model.Skill, error) {
	var skill model.Skill
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		cur, err := tx.GetSkill(ctx, id, repository.LockUpdate)
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError(msgSkillNotFound)
		}
		if err != nil {
			return err
		}

		if name := strings.TrimSpace(p.Name.Or("")); name != "" {
			cur.Name = name
		}
		if topicID := validate.Ref(p.TopicID.Value); topicID != nil {
			cur.TopicID = *topicID
		}
		if difficulty := strings.TrimSpace(p.Difficulty.Or("")); difficulty != "" {
			cur.Difficulty = difficulty
		}

		if err := requireTopic(ctx, tx, cur.TopicID, msgTopicIDNotFound); err != nil {
			return err
		}
		if err := tx.SaveSkill(ctx, &cur); err != nil {
			return refError(err, msgTopicIDNotFound)
		}
		skill = cur
		return nil
	})
	if err != nil {
		return model.Skill{}, err
	}

	metrics.RecordMutation("skill", "update")
	s.log.Debug(ctx, "skill updated", logger.String("id", skill.ID))
	return skill, nil
}

// Delete removes a skill.
func (s *SkillService) Delete(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		err := tx.DeleteSkill(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError(msgSkillNotFound)
		}
		return err
	})
	if err != nil {
		return err
	}

	metrics.RecordMutation("skill", "delete")
	s.log.Debug(ctx, "skill deleted", logger.String("id", id))
	return nil
}
