package loadcheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/learnmap/pkg/logger"
)

// Defaults applied to zero Config fields.
const (
	DefaultTopics  = 20
	DefaultSkills  = 5
	DefaultWorkers = 8
	DefaultTimeout = 10 * time.Second
)

// ErrIntegrity reports a violated catalog invariant found during verification.
var ErrIntegrity = errors.New("catalog integrity violated")

func (c *Config) applyDefaults() {
	if c.Topics <= 0 {
		c.Topics = DefaultTopics
	}
	if c.Skills < 0 {
		c.Skills = 0
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RunPrefix == "" {
		c.RunPrefix = "loadcheck-" + uuid.NewString()[:8]
	}
}

// Run executes the complete load check and returns its statistics.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	cfg.applyDefaults()
	stats := &Stats{StartTime: time.Now()}
	c := newClient(cfg.BaseURL, cfg.Timeout, &stats.requestsStarted)
	log := logger.Named("loadcheck")

	log.Info(ctx, "starting catalog load check",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("prefix", cfg.RunPrefix),
		logger.Int("topics", cfg.Topics),
		logger.Int("skillsPerTopic", cfg.Skills),
		logger.Int("workers", cfg.Workers))

	// Step 1: Check service readiness
	if status, err := c.do(ctx, http.MethodGet, "/readyz", nil, nil); err != nil || status != http.StatusOK {
		return stats, fmt.Errorf("service readiness check failed (status %d): %v", status, err)
	}

	// Step 2: Create topics concurrently
	topics := createTopics(ctx, c, cfg, stats)

	// Step 3: Create skills while deletes of their topics race against them
	skills := createSkillsRacingDeletes(ctx, c, cfg, topics, stats)

	// Step 4: Verify results
	if err := verify(ctx, c, cfg, topics, skills); err != nil {
		return stats, err
	}

	// Step 5: Remove this run's records
	if !cfg.KeepData {
		cleanup(ctx, c, cfg, topics, skills, stats)
	}

	stats.Duration = time.Since(stats.StartTime)
	if stats.Duration > 0 {
		stats.RequestsPerSec = float64(atomic.LoadInt64(&stats.requestsStarted)) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("topicsCreated", stats.TopicsCreated),
		logger.Int("skillsCreated", stats.SkillsCreated),
		logger.Int("conflicts", stats.Conflicts),
		logger.Int("deleted", stats.Deleted),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("requestsPerSecond", stats.RequestsPerSec))
	return stats, nil
}

// fanOut runs fn for 0..n-1 on a pool of workers goroutines.
func fanOut(ctx context.Context, workers, n int, fn func(i int)) {
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				fn(i)
			}
		}()
	}
feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
}

func createTopics(ctx context.Context, c *client, cfg Config, stats *Stats) []topic {
	created := make([]topic, cfg.Topics)
	var failed int64
	fanOut(ctx, cfg.Workers, cfg.Topics, func(i int) {
		body := map[string]any{"name": fmt.Sprintf("%s topic %03d", cfg.RunPrefix, i)}
		status, err := c.do(ctx, http.MethodPost, "/topics", body, &created[i])
		if err != nil || status != http.StatusCreated {
			atomic.AddInt64(&failed, 1)
		}
	})

	out := created[:0]
	for _, t := range created {
		if t.ID != "" {
			out = append(out, t)
		}
	}
	stats.TopicsCreated = len(out)
	stats.Failed += int(failed)
	return out
}

func createSkillsRacingDeletes(ctx context.Context, c *client, cfg Config, topics []topic, stats *Stats) []skill {
	var (
		mu        sync.Mutex
		skills    []skill
		failed    int64
		conflicts int64
	)
	jobs := len(topics) * (cfg.Skills + 1)
	fanOut(ctx, cfg.Workers, jobs, func(i int) {
		t := topics[i/(cfg.Skills+1)]
		n := i % (cfg.Skills + 1)

		// The last job per topic attempts a delete. It must be refused once a
		// skill exists; a topic deleted before any skill landed is fine too,
		// but then every later skill create for it has to fail validation.
		if n == cfg.Skills {
			status, err := c.do(ctx, http.MethodDelete, "/topics/"+url.PathEscape(t.ID), nil, nil)
			switch {
			case err != nil:
				atomic.AddInt64(&failed, 1)
			case status == http.StatusConflict:
				atomic.AddInt64(&conflicts, 1)
			}
			return
		}

		var s skill
		body := map[string]any{"name": fmt.Sprintf("%s skill %03d", cfg.RunPrefix, n), "topicID": t.ID}
		status, err := c.do(ctx, http.MethodPost, "/skills", body, &s)
		switch {
		case err != nil:
			atomic.AddInt64(&failed, 1)
		case status == http.StatusCreated:
			mu.Lock()
			skills = append(skills, s)
			mu.Unlock()
		case status != http.StatusUnprocessableEntity:
			atomic.AddInt64(&failed, 1)
		}
	})

	stats.SkillsCreated = len(skills)
	stats.Conflicts = int(conflicts)
	stats.Failed += int(failed)
	return skills
}

func cleanup(ctx context.Context, c *client, cfg Config, topics []topic, skills []skill, stats *Stats) {
	var deleted, failed int64
	remove := func(path string) {
		status, err := c.do(ctx, http.MethodDelete, path, nil, nil)
		switch {
		case err == nil && status == http.StatusNoContent:
			atomic.AddInt64(&deleted, 1)
		case err == nil && status == http.StatusNotFound:
			// already removed by the racing delete
		default:
			atomic.AddInt64(&failed, 1)
		}
	}
	fanOut(ctx, cfg.Workers, len(skills), func(i int) { remove("/skills/" + url.PathEscape(skills[i].ID)) })
	fanOut(ctx, cfg.Workers, len(topics), func(i int) { remove("/topics/" + url.PathEscape(topics[i].ID)) })
	stats.Deleted = int(deleted)
	stats.Failed += int(failed)
}
