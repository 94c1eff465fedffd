package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/learnmap/internal/domain/model"
)

func TestSQLiteDSN(t *testing.T) {
	Convey("Given sqlite DSNs", t, func() {
		Convey("Then pragmas are appended once", func() {
			So(sqliteDSN("app.db"), ShouldEqual, "app.db?_foreign_keys=on&_busy_timeout=5000")
			So(sqliteDSN("app.db?cache=shared"), ShouldEqual, "app.db?cache=shared&_foreign_keys=on&_busy_timeout=5000")
			So(sqliteDSN("app.db?_foreign_keys=off"), ShouldEqual, "app.db?_foreign_keys=off&_busy_timeout=5000")
		})
	})
}

func TestLikePattern(t *testing.T) {
	Convey("Given user queries", t, func() {
		Convey("Then wildcards are escaped and case folded", func() {
			So(likePattern("Web"), ShouldEqual, "%web%")
			So(likePattern(`50%_a\b`), ShouldEqual, `%50\%\_a\\b%`)
		})
	})
}

func TestGormStore_SQLite(t *testing.T) {
	Convey("Given a migrated sqlite store", t, func() {
		ctx := context.Background()
		store, err := NewGormStore(ctx, DialectSQLite, filepath.Join(t.TempDir(), "test.db"))
		So(err, ShouldBeNil)
		defer func() { _ = store.Close() }()
		now := time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC)

		err = store.Update(ctx, func(tx Tx) error {
			if err := tx.InsertTopic(ctx, &model.Topic{ID: "root", Name: "Root", CreatedAt: now}); err != nil {
				return err
			}
			if err := tx.InsertTopic(ctx, &model.Topic{ID: "child", Name: "Child", ParentTopicID: strPtr("root"), CreatedAt: now}); err != nil {
				return err
			}
			return tx.InsertSkill(ctx, &model.Skill{ID: "s1", Name: "Skill", TopicID: "root", Difficulty: "beginner", CreatedAt: now})
		})
		So(err, ShouldBeNil)

		Convey("When reading a topic back", func() {
			var got model.Topic
			err := store.View(ctx, func(tx Tx) error {
				var err error
				got, err = tx.GetTopic(ctx, "child", LockShare)
				return err
			})

			Convey("Then every column round-trips", func() {
				So(err, ShouldBeNil)
				So(*got.ParentTopicID, ShouldEqual, "root")
				So(got.Description, ShouldBeNil)
				So(got.CreatedAt.Equal(now), ShouldBeTrue)
			})
		})

		Convey("When inserting a skill under a missing topic", func() {
			err := store.Update(ctx, func(tx Tx) error {
				return tx.InsertSkill(ctx, &model.Skill{ID: "s2", Name: "x", TopicID: "missing", Difficulty: "beginner", CreatedAt: now})
			})

			Convey("Then the foreign key rejects it", func() {
				So(errors.Is(err, ErrForeignKey), ShouldBeTrue)
			})
		})

		Convey("When counting dependents", func() {
			var children, skills int64
			err := store.View(ctx, func(tx Tx) error {
				var err error
				if children, err = tx.CountChildTopics(ctx, "root"); err != nil {
					return err
				}
				skills, err = tx.CountTopicSkills(ctx, "root")
				return err
			})

			Convey("Then both are found", func() {
				So(err, ShouldBeNil)
				So(children, ShouldEqual, 1)
				So(skills, ShouldEqual, 1)
			})
		})

		Convey("When saving or deleting unknown rows", func() {
			err := store.Update(ctx, func(tx Tx) error {
				return tx.SaveSkill(ctx, &model.Skill{ID: "nope", Name: "x", TopicID: "root", Difficulty: "beginner"})
			})
			delErr := store.Update(ctx, func(tx Tx) error { return tx.DeleteTopic(ctx, "nope") })

			Convey("Then ErrNotFound is returned", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				So(errors.Is(delErr, ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the store is pinged", func() {
			So(store.Ping(ctx), ShouldBeNil)
		})
	})

	Convey("Given an unknown dialect", t, func() {
		_, err := NewGormStore(context.Background(), "oracle", "")

		Convey("Then it is refused", func() {
			So(errors.Is(err, ErrUnknownDialect), ShouldBeTrue)
		})
	})
}
