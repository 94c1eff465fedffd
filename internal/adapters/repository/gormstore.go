package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/learnmap/internal/domain/model"
	"github.com/okian/learnmap/pkg/logger"
)

// SQL dialects accepted by NewGormStore.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// GormStore implements Store on a relational database through gorm.
// Topics and skills live in two tables tied by foreign keys.
type GormStore struct {
	db      *gorm.DB
	dialect string
}

// NewGormStore opens the database, sizes the pool and migrates the schema.
func NewGormStore(ctx context.Context, dialect, dsn string, opts ...Option) (*GormStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var dialector gorm.Dialector
	switch dialect {
	case DialectPostgres:
		dialector = postgres.Open(dsn)
	case DialectSQLite:
		dialector = sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: sqliteDSN(dsn)})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(o),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	if dialect == DialectSQLite {
		// one connection serializes sqlite writers and keeps the
		// foreign_keys pragma in effect for every statement
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(o.maxOpenConns)
		sqlDB.SetMaxIdleConns(o.maxIdleConns)
		sqlDB.SetConnMaxLifetime(o.connMaxLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connecting to %s: %w", dialect, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&topicRow{}, &skillRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &GormStore{db: db, dialect: dialect}, nil
}

// sqliteDSN makes sure foreign keys are enforced and writers wait on a busy
// database instead of failing.
func sqliteDSN(dsn string) string {
	for _, param := range []string{"_foreign_keys=on", "_busy_timeout=5000"} {
		key := param[:strings.IndexByte(param, '=')]
		if strings.Contains(dsn, key) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + param
	}
	return dsn
}

// View runs fn in a read-only transaction.
func (s *GormStore) View(ctx context.Context, fn func(tx Tx) error) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{db: db, nameFilter: nameMatch(s.dialect)})
	}, &sql.TxOptions{ReadOnly: true})
	observe(s.dialect, "view", start, err)
	return err
}

// Update runs fn in a read-write transaction. Returning an error from fn
// rolls everything back.
func (s *GormStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{db: db, nameFilter: nameMatch(s.dialect)})
	})
	observe(s.dialect, "update", start, err)
	return err
}

// Ping checks database connectivity.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// gormTx implements Tx on a gorm transaction handle.
type gormTx struct {
	db         *gorm.DB
	nameFilter string
}

// nameMatch is the case-insensitive substring condition on name for the
// dialect. Both sides are folded the way strings.ToLower folds.
func nameMatch(dialect string) string {
	if dialect == DialectSQLite {
		return `unicode_lower(name) LIKE ? ESCAPE '\'`
	}
	return `name ILIKE ? ESCAPE '\'`
}

func lockClauses(l Lock) []clause.Expression {
	switch l {
	case LockShare:
		return []clause.Expression{clause.Locking{Strength: "SHARE"}}
	case LockUpdate:
		return []clause.Expression{clause.Locking{Strength: "UPDATE"}}
	default:
		return nil
	}
}

// likePattern builds a lower-cased substring pattern with LIKE wildcards escaped.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(q)) + "%"
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	default:
		return err
	}
}

func (t *gormTx) ListTopics(ctx context.Context, f model.TopicFilter) ([]model.Topic, int64, error) {
	q := t.db.WithContext(ctx).Model(&topicRow{})
	if f.Query != "" {
		q = q.Where(t.nameFilter, likePattern(f.Query))
	}
	if f.ParentID != "" {
		q = q.Where("parent_topic_id = ?", f.ParentID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting topics: %w", err)
	}

	var rows []topicRow
	if err := q.Order("name ASC").Order("id ASC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("listing topics: %w", err)
	}

	topics := make([]model.Topic, len(rows))
	for i, r := range rows {
		topics[i] = topicFromRow(r)
	}
	return topics, total, nil
}

func (t *gormTx) GetTopic(ctx context.Context, id string, lock Lock) (model.Topic, error) {
	var row topicRow
	err := t.db.WithContext(ctx).Clauses(lockClauses(lock)...).Take(&row, "id = ?", id).Error
	if err != nil {
		return model.Topic{}, translate(err)
	}
	return topicFromRow(row), nil
}

func (t *gormTx) InsertTopic(ctx context.Context, topic *model.Topic) error {
	row := topicToRow(topic)
	return translate(t.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error)
}

func (t *gormTx) SaveTopic(ctx context.Context, topic *model.Topic) error {
	row := topicToRow(topic)
	res := t.db.WithContext(ctx).
		Model(&topicRow{ID: topic.ID}).
		Select("Name", "Description", "ParentTopicID").
		Updates(&row)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *gormTx) DeleteTopic(ctx context.Context, id string) error {
	res := t.db.WithContext(ctx).Delete(&topicRow{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *gormTx) CountChildTopics(ctx context.Context, id string) (int64, error) {
	var n int64
	err := t.db.WithContext(ctx).Model(&topicRow{}).Where("parent_topic_id = ?", id).Count(&n).Error
	return n, translate(err)
}

func (t *gormTx) ListSkills(ctx context.Context, f model.SkillFilter) ([]model.Skill, int64, error) {
	q := t.db.WithContext(ctx).Model(&skillRow{})
	if f.Query != "" {
		q = q.Where(t.nameFilter, likePattern(f.Query))
	}
	if f.TopicID != "" {
		q = q.Where("topic_id = ?", f.TopicID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting skills: %w", err)
	}

	var rows []skillRow
	if err := q.Order("name ASC").Order("id ASC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("listing skills: %w", err)
	}

	skills := make([]model.Skill, len(rows))
	for i, r := range rows {
		skills[i] = skillFromRow(r)
	}
	return skills, total, nil
}

func (t *gormTx) GetSkill(ctx context.Context, id string, lock Lock) (model.Skill, error) {
	var row skillRow
	err := t.db.WithContext(ctx).Clauses(lockClauses(lock)...).Take(&row, "id = ?", id).Error
	if err != nil {
		return model.Skill{}, translate(err)
	}
	return skillFromRow(row), nil
}

func (t *gormTx) InsertSkill(ctx context.Context, skill *model.Skill) error {
	row := skillToRow(skill)
	return translate(t.db.WithContext(ctx).Create(&row).Error)
}

func (t *gormTx) SaveSkill(ctx context.Context, skill *model.Skill) error {
	row := skillToRow(skill)
	res := t.db.WithContext(ctx).
		Model(&skillRow{ID: skill.ID}).
		Select("Name", "TopicID", "Difficulty").
		Updates(&row)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *gormTx) DeleteSkill(ctx context.Context, id string) error {
	res := t.db.WithContext(ctx).Delete(&skillRow{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *gormTx) CountTopicSkills(ctx context.Context, topicID string) (int64, error) {
	var n int64
	err := t.db.WithContext(ctx).Model(&skillRow{}).Where("topic_id = ?", topicID).Count(&n).Error
	return n, translate(err)
}

// gormLogWriter routes gorm's slow-query and error lines to our logger.
type gormLogWriter struct {
	log logger.Logger
}

func (w gormLogWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(context.Background(), "sql", logger.String("detail", fmt.Sprintf(format, args...)))
}

func newGormLogger(o options) gormlogger.Interface {
	if o.logger == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(gormLogWriter{log: o.logger.Named("gorm")}, gormlogger.Config{
		SlowThreshold:             o.slowQuery,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
