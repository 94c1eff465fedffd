package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/learnmap/internal/domain/model"
	"github.com/okian/learnmap/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func strPtr(s string) *string { return &s }

func TestFileStore(t *testing.T) {
	Convey("Given a file store in an empty directory", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		store := NewFileStore(dir, WithLogger(logger.Get()))
		now := time.Date(2025, 1, 2, 3, 4, 5, 6000, time.UTC)

		Convey("When nothing was written yet", func() {
			var total int64
			err := store.View(ctx, func(tx Tx) error {
				var err error
				_, total, err = tx.ListTopics(ctx, model.TopicFilter{Limit: 10})
				return err
			})

			Convey("Then the catalog reads as empty and no file is created", func() {
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 0)
				_, statErr := os.Stat(filepath.Join(dir, TopicsFile))
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})

		Convey("When a topic and a skill are inserted", func() {
			err := store.Update(ctx, func(tx Tx) error {
				if err := tx.InsertTopic(ctx, &model.Topic{ID: "t1", Name: "Databases", CreatedAt: now}); err != nil {
					return err
				}
				return tx.InsertSkill(ctx, &model.Skill{ID: "s1", Name: "SQL", TopicID: "t1", Difficulty: "beginner", CreatedAt: now})
			})
			So(err, ShouldBeNil)

			Convey("Then both files hold indented JSON arrays", func() {
				raw, err := os.ReadFile(filepath.Join(dir, SkillsFile))
				So(err, ShouldBeNil)
				So(string(raw), ShouldStartWith, "[\n")
				So(string(raw), ShouldContainSubstring, `"topicID": "t1"`)
			})

			Convey("Then a new store over the same directory reads them back", func() {
				var got model.Topic
				err := NewFileStore(dir).View(ctx, func(tx Tx) error {
					var err error
					got, err = tx.GetTopic(ctx, "t1", LockNone)
					return err
				})
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Databases")
				So(got.CreatedAt.Equal(now), ShouldBeTrue)
			})

			Convey("Then a failing update leaves the files untouched", func() {
				boom := errors.New("boom")
				err := store.Update(ctx, func(tx Tx) error {
					if err := tx.DeleteSkill(ctx, "s1"); err != nil {
						return err
					}
					return boom
				})
				So(errors.Is(err, boom), ShouldBeTrue)

				var n int64
				_ = store.View(ctx, func(tx Tx) error {
					n, _ = tx.CountTopicSkills(ctx, "t1")
					return nil
				})
				So(n, ShouldEqual, 1)
			})

			Convey("Then deleting the topic cascades to its skills", func() {
				err := store.Update(ctx, func(tx Tx) error { return tx.DeleteTopic(ctx, "t1") })
				So(err, ShouldBeNil)
				err = store.View(ctx, func(tx Tx) error {
					_, err := tx.GetSkill(ctx, "s1", LockNone)
					return err
				})
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})

			Convey("Then dangling references are refused", func() {
				err := store.Update(ctx, func(tx Tx) error {
					return tx.InsertSkill(ctx, &model.Skill{ID: "s2", Name: "x", TopicID: "nope"})
				})
				So(errors.Is(err, ErrForeignKey), ShouldBeTrue)

				err = store.Update(ctx, func(tx Tx) error {
					return tx.InsertTopic(ctx, &model.Topic{ID: "t2", Name: "x", ParentTopicID: strPtr("nope")})
				})
				So(errors.Is(err, ErrForeignKey), ShouldBeTrue)
			})

			Convey("Then writes inside View are refused", func() {
				err := store.View(ctx, func(tx Tx) error { return tx.DeleteSkill(ctx, "s1") })
				So(errors.Is(err, ErrReadOnly), ShouldBeTrue)
			})
		})

		Convey("When the data file is malformed", func() {
			So(os.WriteFile(filepath.Join(dir, TopicsFile), []byte("{oops"), 0o600), ShouldBeNil)

			var total int64
			err := store.View(ctx, func(tx Tx) error {
				var err error
				_, total, err = tx.ListTopics(ctx, model.TopicFilter{Limit: 10})
				return err
			})

			Convey("Then it reads as empty", func() {
				So(err, ShouldBeNil)
				So(total, ShouldEqual, 0)
			})
		})

		Convey("When many writers insert concurrently", func() {
			const writers = 16
			var wg sync.WaitGroup
			errs := make(chan error, writers)
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					errs <- store.Update(ctx, func(tx Tx) error {
						return tx.InsertTopic(ctx, &model.Topic{ID: string(rune('a' + i)), Name: "t", CreatedAt: now})
					})
				}(i)
			}
			wg.Wait()
			close(errs)

			Convey("Then no write is lost", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				var total int64
				_ = store.View(ctx, func(tx Tx) error {
					_, total, _ = tx.ListTopics(ctx, model.TopicFilter{Limit: 100})
					return nil
				})
				So(total, ShouldEqual, writers)
			})
		})
	})
}

func TestWindow(t *testing.T) {
	Convey("Given unsorted items", t, func() {
		items := []model.Topic{{ID: "2", Name: "b"}, {ID: "1", Name: "b"}, {ID: "3", Name: "a"}}
		key := func(t model.Topic) (string, string) { return t.Name, t.ID }

		Convey("Then window sorts by name then id and cuts the page", func() {
			page := window(items, key, 2, 0)
			So(len(page), ShouldEqual, 2)
			So(page[0].ID, ShouldEqual, "3")
			So(page[1].ID, ShouldEqual, "1")
			So(len(window(items, key, 0, 0)), ShouldEqual, 0)
			So(window(items, key, 5, 3), ShouldBeNil)
		})
	})
}

func TestApplyAll(t *testing.T) {
	Convey("Given two collections on disk", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		topics := newJSONFile[model.Topic](filepath.Join(dir, TopicsFile), nil)
		skills := newJSONFile[model.Skill](filepath.Join(dir, SkillsFile), nil)
		So(applyAll(
			func() (*staged, error) { return topics.stage([]model.Topic{{ID: "t1", Name: "Old"}}) },
			func() (*staged, error) { return skills.stage([]model.Skill{{ID: "s1", TopicID: "t1"}}) },
		), ShouldBeNil)

		Convey("When the second file fails to stage", func() {
			boom := errors.New("disk full")
			err := applyAll(
				func() (*staged, error) { return topics.stage(nil) },
				func() (*staged, error) { return nil, boom },
			)

			Convey("Then the first file is not replaced and no temp file is left", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				got, err := topics.read(ctx)
				So(err, ShouldBeNil)
				So(len(got), ShouldEqual, 1)
				So(got[0].Name, ShouldEqual, "Old")

				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
			})
		})

		Convey("When both stage", func() {
			err := applyAll(
				func() (*staged, error) { return topics.stage(nil) },
				func() (*staged, error) { return skills.stage(nil) },
			)

			Convey("Then both are replaced", func() {
				So(err, ShouldBeNil)
				gotTopics, _ := topics.read(ctx)
				gotSkills, _ := skills.read(ctx)
				So(len(gotTopics), ShouldEqual, 0)
				So(len(gotSkills), ShouldEqual, 0)
			})
		})
	})
}
