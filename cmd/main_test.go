package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/learnmap/internal/app"
	"github.com/okian/learnmap/internal/config"
	"github.com/okian/learnmap/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		root := newRootCmd()

		convey.Convey("Then it exposes serve, seed and loadcheck", func() {
			names := map[string]bool{}
			for _, c := range root.Commands() {
				names[c.Name()] = true
			}
			convey.So(names["serve"], convey.ShouldBeTrue)
			convey.So(names["seed"], convey.ShouldBeTrue)
			convey.So(names["loadcheck"], convey.ShouldBeTrue)
			convey.So(root.PersistentFlags().Lookup("config"), convey.ShouldNotBeNil)
		})
	})
}

func TestSeedCommand(t *testing.T) {
	convey.Convey("Given a file backend configured through the environment", t, func() {
		dir := t.TempDir()
		t.Setenv("LEARNMAP_STORAGE", "file")
		t.Setenv("LEARNMAP_DATA_DIR", dir)
		t.Setenv("LEARNMAP_CONFIG", "")

		convey.Convey("When running seed twice", func() {
			var first, second bytes.Buffer
			for _, out := range []*bytes.Buffer{&first, &second} {
				root := newRootCmd()
				root.SetOut(out)
				root.SetErr(&bytes.Buffer{})
				root.SetArgs([]string{"seed"})
				convey.So(root.ExecuteContext(context.Background()), convey.ShouldBeNil)
			}

			convey.Convey("Then the catalog is printed with stable ids", func() {
				convey.So(first.String(), convey.ShouldContainSubstring, "Databases 101")
				convey.So(first.String(), convey.ShouldContainSubstring, "React Hooks (advanced)")
				convey.So(second.String(), convey.ShouldEqual, first.String())

				_, err := os.Stat(filepath.Join(dir, "topics.json"))
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestOpenStore(t *testing.T) {
	convey.Convey("Given storage configurations", t, func() {
		ctx := context.Background()
		cfg := config.New()

		convey.Convey("When the backend is sqlite", func() {
			cfg.Storage = config.StorageSQLite
			cfg.SQLitePath = filepath.Join(t.TempDir(), "learnmap.db")
			store, err := openStore(ctx, cfg, logger.Get())

			convey.Convey("Then the store is reachable", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(store.Ping(ctx), convey.ShouldBeNil)
				convey.So(store.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the backend is file", func() {
			cfg.Storage = config.StorageFile
			cfg.DataDir = filepath.Join(t.TempDir(), "nested", "data")
			store, err := openStore(ctx, cfg, logger.Get())

			convey.Convey("Then the data directory is created", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(store, convey.ShouldNotBeNil)
				info, err := os.Stat(cfg.DataDir)
				convey.So(err, convey.ShouldBeNil)
				convey.So(info.IsDir(), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the backend is unknown", func() {
			cfg.Storage = "mongo"
			_, err := openStore(ctx, cfg, logger.Get())

			convey.Convey("Then it fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestRouter(t *testing.T) {
	convey.Convey("Given the assembled router", t, func() {
		cfg := config.New()
		cfg.GinMode = "test"
		cfg.Storage = config.StorageFile
		cfg.DataDir = t.TempDir()

		store, err := openStore(context.Background(), cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		svc := app.New(store)
		defer func() { _ = svc.Close() }()
		r := newRouter(cfg, svc, logger.Get())

		convey.Convey("Then every surface is routed", func() {
			for path, want := range map[string]string{
				"/":             "Hello from Topic & Skill Service!",
				"/healthz":      `{"status":"ok"}`,
				"/readyz":       `{"status":"ok"}`,
				"/openapi.yaml": "openapi: 3.0.3",
				"/api-docs":     "redoc",
				"/topics":       `"data":[]`,
				"/skills":       `"meta"`,
			} {
				w := httptest.NewRecorder()
				r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(strings.Contains(w.Body.String(), want), convey.ShouldBeTrue)
			}
		})
	})
}
