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

// TopicService manages topics and their hierarchy.
type TopicService struct {
	*deps
	log logger.Logger
}

// List returns one page of topics ordered by name.
func (s *TopicService) List(ctx context.Context, f model.TopicFilter) (model.Page[model.Topic], error) {
	limit, offset, err := validate.ClampPage(f.Limit, f.Offset)
	if err != nil {
		return model.Page[model.Topic]{}, err
	}
	f.Limit, f.Offset = limit, offset
	f.Query = strings.TrimSpace(f.Query)
	f.ParentID = strings.TrimSpace(f.ParentID)

	var (
		items []model.Topic
		total int64
	)
	err = s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		items, total, err = tx.ListTopics(ctx, f)
		return err
	})
	if err != nil {
		return model.Page[model.Topic]{}, err
	}
	return model.NewPage(items, total, limit, offset), nil
}

// Get returns the topic with id.
func (s *TopicService) Get(ctx context.Context, id string) (model.Topic, error) {
	var topic model.Topic
	err := s.store.View(ctx, func(tx repository.Tx) error {
		var err error
		topic, err = tx.GetTopic(ctx, id, repository.LockNone)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return model.Topic{}, notFoundError(msgTopicNotFound)
	}
	return topic, err
}

// Create stores a new topic. The parent, when given, must exist.
func (s *TopicService) Create(ctx context.Context, in model.TopicInput) (model.Topic, error) {
	name, err := validate.Name(in.Name)
	if err != nil {
		return model.Topic{}, err
	}
	topic := model.Topic{
		ID:            s.newID(),
		Name:          name,
		Description:   in.Description,
		ParentTopicID: validate.Ref(in.ParentTopicID),
		CreatedAt:     s.timestamp(),
	}

	err = s.store.Update(ctx, func(tx repository.Tx) error {
		if topic.HasParent() {
			if err := requireTopic(ctx, tx, *topic.ParentTopicID, msgParentNotFound); err != nil {
				return err
			}
		}
		return refError(tx.InsertTopic(ctx, &topic), msgParentNotFound)
	})
	if err != nil {
		return model.Topic{}, err
	}

	metrics.RecordMutation("topic", "create")
	s.log.Debug(ctx, "topic created", logger.String("id", topic.ID))
	return topic, nil
}

// Update applies p to the stored topic. Blank names keep the stored name and
// a null description or parent clears it.
func (s *TopicService) Update(ctx context.Context, id string, p model.TopicPatch) (model.Topic, error) {
	var topic model.Topic
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		cur, err := tx.GetTopic(ctx, id, repository.LockUpdate)
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError(msgTopicNotFound)
		}
		if err != nil {
			return err
		}

		if name := strings.TrimSpace(p.Name.Or("")); name != "" {
			cur.Name = name
		}
		if p.Description.Set {
			cur.Description = p.Description.Value
		}
		if p.ParentTopicID.Set {
			cur.ParentTopicID = validate.Ref(p.ParentTopicID.Value)
		}
		if cur.HasParent() {
			if err := checkParent(ctx, tx, cur.ID, *cur.ParentTopicID); err != nil {
				return err
			}
		}

		if err := tx.SaveTopic(ctx, &cur); err != nil {
			return refError(err, msgParentNotFound)
		}
		topic = cur
		return nil
	})
	if err != nil {
		return model.Topic{}, err
	}

	metrics.RecordMutation("topic", "update")
	s.log.Debug(ctx, "topic updated", logger.String("id", topic.ID))
	return topic, nil
}

// checkParent verifies that parentID exists and that following the parent
// chain upwards from it never reaches id.
func checkParent(ctx context.Context, tx repository.Tx, id, parentID string) error {
	if err := requireTopic(ctx, tx, parentID, msgParentNotFound); err != nil {
		return err
	}
	seen := make(map[string]struct{})
	for next := parentID; ; {
		if next == id {
			return validationError(msgParentCycle)
		}
		if _, ok := seen[next]; ok {
			// an older loop that does not pass through id
			return nil
		}
		seen[next] = struct{}{}

		ancestor, err := tx.GetTopic(ctx, next, repository.LockNone)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !ancestor.HasParent() {
			return nil
		}
		next = *ancestor.ParentTopicID
	}
}

// Delete removes a topic that no skill and no topic refers to.
func (s *TopicService) Delete(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(tx repository.Tx) error {
		if _, err := tx.GetTopic(ctx, id, repository.LockUpdate); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFoundError(msgTopicNotFound)
			}
			return err
		}

		skills, err := tx.CountTopicSkills(ctx, id)
		if err != nil {
			return err
		}
		if skills > 0 {
			return conflictError(msgTopicHasSkills)
		}
		children, err := tx.CountChildTopics(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return conflictError(msgTopicHasSubtopics)
		}

		switch err := tx.DeleteTopic(ctx, id); {
		case errors.Is(err, repository.ErrNotFound):
			return notFoundError(msgTopicNotFound)
		case errors.Is(err, repository.ErrForeignKey):
			return conflictError(msgTopicHasSubtopics)
		default:
			return err
		}
	})
	if err != nil {
		return err
	}

	metrics.RecordMutation("topic", "delete")
	s.log.Debug(ctx, "topic deleted", logger.String("id", id))
	return nil
}
