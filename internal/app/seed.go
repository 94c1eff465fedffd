package service

import (
	"context"

	repository "github.com/okian/learnmap/internal/adapters/repository"
	"github.com/okian/learnmap/internal/domain/model"
	"github.com/okian/learnmap/internal/domain/validate"
	"github.com/okian/learnmap/pkg/logger"
	"github.com/okian/learnmap/pkg/metrics"
)

// SeedTopic is one topic of the sample catalog.
type SeedTopic struct {
	Name        string
	Description string
}

// SeedSkill is one skill of the sample catalog, keyed by its topic's name.
type SeedSkill struct {
	Name       string
	Topic      string
	Difficulty string
}

// SampleTopics and SampleSkills make up the catalog created by Seed.
var (
	SampleTopics = []SeedTopic{
		{Name: "Web Development Fundamentals", Description: "Grundlagen für Webanwendungen"},
		{Name: "Frontend Development", Description: "UI bauen"},
		{Name: "Backend Development", Description: "Serverlogik & Datenbanken"},
		{Name: "Data Analysis Basics", Description: "Statistik & Visualisierung"},
		{Name: "Databases 101", Description: "SQL & Datenmodellierung"},
	}
	SampleSkills = []SeedSkill{
		{Name: "HTML Basics", Topic: "Web Development Fundamentals", Difficulty: "beginner"},
		{Name: "CSS Layouts (Flex/Grid)", Topic: "Web Development Fundamentals", Difficulty: "intermediate"},
		{Name: "JavaScript ES6+", Topic: "Web Development Fundamentals", Difficulty: "intermediate"},
		{Name: "React Hooks", Topic: "Frontend Development", Difficulty: "advanced"},
		{Name: "APIs mit Flask", Topic: "Backend Development", Difficulty: "intermediate"},
		{Name: "SQL SELECT Basics", Topic: "Databases 101", Difficulty: "beginner"},
		{Name: "Joins & Aggregation", Topic: "Databases 101", Difficulty: "intermediate"},
		{Name: "Explorative Analyse", Topic: "Data Analysis Basics", Difficulty: "beginner"},
	}
)

// SeedResult lists the records of the sample catalog after seeding, in the
// order of SampleTopics and SampleSkills.
type SeedResult struct {
	Topics []model.Topic
	Skills []model.Skill
}

// Seed creates the sample catalog. Topics are matched by exact name and
// skills by name and topic; existing records are reused, so running it again
// changes nothing.
func (s *Service) Seed(ctx context.Context) (SeedResult, error) {
	var (
		res     SeedResult
		created int
	)
	d := s.Topics.deps
	err := d.store.Update(ctx, func(tx repository.Tx) error {
		res, created = SeedResult{}, 0
		byName := make(map[string]model.Topic, len(SampleTopics))

		for _, st := range SampleTopics {
			topic, found, err := findTopic(ctx, tx, st.Name)
			if err != nil {
				return err
			}
			if !found {
				desc := st.Description
				topic = model.Topic{ID: d.newID(), Name: st.Name, Description: &desc, CreatedAt: d.timestamp()}
				if err := tx.InsertTopic(ctx, &topic); err != nil {
					return err
				}
				created++
			}
			byName[st.Name] = topic
			res.Topics = append(res.Topics, topic)
		}

		for _, ss := range SampleSkills {
			topic, ok := byName[ss.Topic]
			if !ok {
				return validationError("seed skill " + ss.Name + " names unknown topic " + ss.Topic)
			}
			skill, found, err := findSkill(ctx, tx, ss.Name, topic.ID)
			if err != nil {
				return err
			}
			if !found {
				diff := ss.Difficulty
				skill = model.Skill{
					ID:         d.newID(),
					Name:       ss.Name,
					TopicID:    topic.ID,
					Difficulty: validate.Difficulty(&diff),
					CreatedAt:  d.timestamp(),
				}
				if err := tx.InsertSkill(ctx, &skill); err != nil {
					return err
				}
				created++
			}
			res.Skills = append(res.Skills, skill)
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	if created > 0 {
		metrics.RecordMutation("catalog", "seed")
	}
	s.logger.Info(ctx, "sample catalog seeded",
		logger.Int("topics", len(res.Topics)),
		logger.Int("skills", len(res.Skills)),
		logger.Int("created", created),
	)
	return res, nil
}

// findTopic looks a topic up by exact name. The name filter of ListTopics is
// a case-insensitive substring match, so results are narrowed here.
func findTopic(ctx context.Context, tx repository.Tx, name string) (model.Topic, bool, error) {
	f := model.TopicFilter{Query: name, Limit: validate.MaxLimit}
	for {
		items, total, err := tx.ListTopics(ctx, f)
		if err != nil {
			return model.Topic{}, false, err
		}
		for _, t := range items {
			if t.Name == name {
				return t, true, nil
			}
		}
		f.Offset += len(items)
		if len(items) == 0 || int64(f.Offset) >= total {
			return model.Topic{}, false, nil
		}
	}
}

func findSkill(ctx context.Context, tx repository.Tx, name, topicID string) (model.Skill, bool, error) {
	f := model.SkillFilter{Query: name, TopicID: topicID, Limit: validate.MaxLimit}
	for {
		items, total, err := tx.ListSkills(ctx, f)
		if err != nil {
			return model.Skill{}, false, err
		}
		for _, sk := range items {
			if sk.Name == name {
				return sk, true, nil
			}
		}
		f.Offset += len(items)
		if len(items) == 0 || int64(f.Offset) >= total {
			return model.Skill{}, false, nil
		}
	}
}
