package repository

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/okian/learnmap/internal/domain/model"
)

// Data file names inside the data directory.
const (
	TopicsFile = "topics.json"
	SkillsFile = "skills.json"
)

const fileBackend = "file"

// FileStore implements Store on two JSON array files. Every Update holds
// both file locks for the whole read-modify-write cycle, acquired in a fixed
// order (topics, then skills); View holds both read locks.
type FileStore struct {
	topics *jsonFile[model.Topic]
	skills *jsonFile[model.Skill]
}

// NewFileStore creates a store rooted at dir. Files are created on first write.
func NewFileStore(dir string, opts ...Option) *FileStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &FileStore{
		topics: newJSONFile[model.Topic](filepath.Join(dir, TopicsFile), o.logger),
		skills: newJSONFile[model.Skill](filepath.Join(dir, SkillsFile), o.logger),
	}
}

// View runs fn against a snapshot of both files.
func (s *FileStore) View(ctx context.Context, fn func(tx Tx) error) error {
	start := time.Now()
	s.topics.mu.RLock()
	defer s.topics.mu.RUnlock()
	s.skills.mu.RLock()
	defer s.skills.mu.RUnlock()

	tx, err := s.begin(ctx, true)
	if err == nil {
		err = fn(tx)
	}
	observe(fileBackend, "view", start, err)
	return err
}

// Update runs fn and writes back the files it changed. Nothing is written
// when fn fails.
func (s *FileStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	start := time.Now()
	s.topics.mu.Lock()
	defer s.topics.mu.Unlock()
	s.skills.mu.Lock()
	defer s.skills.mu.Unlock()

	tx, err := s.begin(ctx, false)
	if err == nil {
		err = fn(tx)
	}
	if err == nil {
		err = s.commit(tx)
	}
	observe(fileBackend, "update", start, err)
	return err
}

func (s *FileStore) begin(ctx context.Context, readOnly bool) (*fileTx, error) {
	topics, err := s.topics.read(ctx)
	if err != nil {
		return nil, err
	}
	skills, err := s.skills.read(ctx)
	if err != nil {
		return nil, err
	}
	return &fileTx{topics: topics, skills: skills, readOnly: readOnly}, nil
}

func (s *FileStore) commit(tx *fileTx) error {
	var stages []func() (*staged, error)
	if tx.topicsDirty {
		stages = append(stages, func() (*staged, error) { return s.topics.stage(tx.topics) })
	}
	if tx.skillsDirty {
		stages = append(stages, func() (*staged, error) { return s.skills.stage(tx.skills) })
	}
	return applyAll(stages...)
}

// Ping always succeeds; file errors surface on the first read.
func (s *FileStore) Ping(context.Context) error { return nil }

// Close is a no-op; every Update leaves the files complete on disk.
func (s *FileStore) Close() error { return nil }

// fileTx holds both collections in memory for one transaction.
type fileTx struct {
	topics      []model.Topic
	skills      []model.Skill
	topicsDirty bool
	skillsDirty bool
	readOnly    bool
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// window sorts by name then id and cuts one page out of items.
func window[T any](items []T, key func(T) (string, string), limit, offset int) []T {
	slices.SortStableFunc(items, func(a, b T) int {
		an, aid := key(a)
		bn, bid := key(b)
		if c := strings.Compare(an, bn); c != 0 {
			return c
		}
		return strings.Compare(aid, bid)
	})
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func (t *fileTx) ListTopics(_ context.Context, f model.TopicFilter) ([]model.Topic, int64, error) {
	var matched []model.Topic
	for _, topic := range t.topics {
		if f.Query != "" && !containsFold(topic.Name, f.Query) {
			continue
		}
		if f.ParentID != "" && (topic.ParentTopicID == nil || *topic.ParentTopicID != f.ParentID) {
			continue
		}
		matched = append(matched, topic)
	}
	page := window(matched, func(t model.Topic) (string, string) { return t.Name, t.ID }, f.Limit, f.Offset)
	return page, int64(len(matched)), nil
}

func (t *fileTx) topicIndex(id string) int {
	return slices.IndexFunc(t.topics, func(topic model.Topic) bool { return topic.ID == id })
}

func (t *fileTx) GetTopic(_ context.Context, id string, _ Lock) (model.Topic, error) {
	i := t.topicIndex(id)
	if i < 0 {
		return model.Topic{}, ErrNotFound
	}
	return t.topics[i], nil
}

func (t *fileTx) InsertTopic(_ context.Context, topic *model.Topic) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if topic.HasParent() && t.topicIndex(*topic.ParentTopicID) < 0 {
		return ErrForeignKey
	}
	t.topics = append(t.topics, *topic)
	t.topicsDirty = true
	return nil
}

func (t *fileTx) SaveTopic(_ context.Context, topic *model.Topic) error {
	if t.readOnly {
		return ErrReadOnly
	}
	i := t.topicIndex(topic.ID)
	if i < 0 {
		return ErrNotFound
	}
	if topic.HasParent() && t.topicIndex(*topic.ParentTopicID) < 0 {
		return ErrForeignKey
	}
	cur := &t.topics[i]
	cur.Name = topic.Name
	cur.Description = topic.Description
	cur.ParentTopicID = topic.ParentTopicID
	t.topicsDirty = true
	return nil
}

func (t *fileTx) DeleteTopic(ctx context.Context, id string) error {
	if t.readOnly {
		return ErrReadOnly
	}
	i := t.topicIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	if n, _ := t.CountChildTopics(ctx, id); n > 0 {
		return ErrForeignKey
	}
	t.topics = slices.Delete(t.topics, i, i+1)
	t.topicsDirty = true

	// mirror ON DELETE CASCADE of the SQL schema
	before := len(t.skills)
	t.skills = slices.DeleteFunc(t.skills, func(s model.Skill) bool { return s.TopicID == id })
	if len(t.skills) != before {
		t.skillsDirty = true
	}
	return nil
}

func (t *fileTx) CountChildTopics(_ context.Context, id string) (int64, error) {
	var n int64
	for _, topic := range t.topics {
		if topic.ParentTopicID != nil && *topic.ParentTopicID == id {
			n++
		}
	}
	return n, nil
}

func (t *fileTx) ListSkills(_ context.Context, f model.SkillFilter) ([]model.Skill, int64, error) {
	var matched []model.Skill
	for _, skill := range t.skills {
		if f.Query != "" && !containsFold(skill.Name, f.Query) {
			continue
		}
		if f.TopicID != "" && skill.TopicID != f.TopicID {
			continue
		}
		matched = append(matched, skill)
	}
	page := window(matched, func(s model.Skill) (string, string) { return s.Name, s.ID }, f.Limit, f.Offset)
	return page, int64(len(matched)), nil
}

func (t *fileTx) skillIndex(id string) int {
	return slices.IndexFunc(t.skills, func(skill model.Skill) bool { return skill.ID == id })
}

func (t *fileTx) GetSkill(_ context.Context, id string, _ Lock) (model.Skill, error) {
	i := t.skillIndex(id)
	if i < 0 {
		return model.Skill{}, ErrNotFound
	}
	return t.skills[i], nil
}

func (t *fileTx) InsertSkill(_ context.Context, skill *model.Skill) error {
	if t.readOnly {
		return ErrReadOnly
	}
	if t.topicIndex(skill.TopicID) < 0 {
		return ErrForeignKey
	}
	t.skills = append(t.skills, *skill)
	t.skillsDirty = true
	return nil
}

func (t *fileTx) SaveSkill(_ context.Context, skill *model.Skill) error {
	if t.readOnly {
		return ErrReadOnly
	}
	i := t.skillIndex(skill.ID)
	if i < 0 {
		return ErrNotFound
	}
	if t.topicIndex(skill.TopicID) < 0 {
		return ErrForeignKey
	}
	cur := &t.skills[i]
	cur.Name = skill.Name
	cur.TopicID = skill.TopicID
	cur.Difficulty = skill.Difficulty
	t.skillsDirty = true
	return nil
}

func (t *fileTx) DeleteSkill(_ context.Context, id string) error {
	if t.readOnly {
		return ErrReadOnly
	}
	i := t.skillIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	t.skills = slices.Delete(t.skills, i, i+1)
	t.skillsDirty = true
	return nil
}

func (t *fileTx) CountTopicSkills(_ context.Context, topicID string) (int64, error) {
	var n int64
	for _, skill := range t.skills {
		if skill.TopicID == topicID {
			n++
		}
	}
	return n, nil
}
