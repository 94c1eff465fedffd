package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/learnmap/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
			convey.So(cfg.Storage, convey.ShouldEqual, config.StoragePostgres)
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DBMaxOpenConns, convey.ShouldEqual, 25)
			convey.So(cfg.DBConnMaxLifetime, convey.ShouldEqual, time.Hour)
			convey.So(cfg.DBSlowQuery, convey.ShouldEqual, 200*time.Millisecond)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "learnmap")
			convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "catalog")
			convey.So(cfg.MetricsLatencyBuckets, convey.ShouldBeEmpty)
			convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"http://localhost:5173"})
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with missing backend settings", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":        func(c *config.Config) { c.Addr = " " },
			"unknown storage":   func(c *config.Config) { c.Storage = "mongo" },
			"postgres no dsn":   func(c *config.Config) { c.DatabaseURL = "" },
			"sqlite no path":    func(c *config.Config) { c.Storage = config.StorageSQLite; c.SQLitePath = "" },
			"file no directory": func(c *config.Config) { c.Storage = config.StorageFile; c.DataDir = "" },
		}
		for name, mutate := range cases {
			convey.Convey("When "+name, func() {
				cfg := config.New()
				mutate(cfg)

				convey.Convey("Then Validate reports an invalid config", func() {
					convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
