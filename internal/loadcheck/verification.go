package loadcheck

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/learnmap/pkg/logger"
)

const pageSize = 200

// verify checks that every skill created in this run is listed under a topic
// that still exists, and that no listed skill points at a deleted topic.
func verify(ctx context.Context, c *client, cfg Config, topics []topic, created []skill) error {
	alive, err := listAll[topic](ctx, c, "/topics", cfg.RunPrefix)
	if err != nil {
		return err
	}
	listed, err := listAll[skill](ctx, c, "/skills", cfg.RunPrefix)
	if err != nil {
		return err
	}

	topicIDs := make(map[string]bool, len(alive))
	for _, t := range alive {
		topicIDs[t.ID] = true
	}
	for _, s := range listed {
		if !topicIDs[s.TopicID] {
			return fmt.Errorf("%w: skill %s references missing topic %s", ErrIntegrity, s.ID, s.TopicID)
		}
	}

	listedIDs := make(map[string]bool, len(listed))
	for _, s := range listed {
		listedIDs[s.ID] = true
	}
	for _, s := range created {
		if !listedIDs[s.ID] {
			return fmt.Errorf("%w: created skill %s is not listed", ErrIntegrity, s.ID)
		}
	}

	if len(alive) > len(topics) {
		return fmt.Errorf("%w: %d topics listed, only %d created", ErrIntegrity, len(alive), len(topics))
	}

	logger.Named("loadcheck").Info(ctx, "verification passed",
		logger.Int("topicsAlive", len(alive)),
		logger.Int("skillsListed", len(listed)))
	return nil
}

// listAll pages through a list endpoint filtered by q.
func listAll[T any](ctx context.Context, c *client, path, q string) ([]T, error) {
	var all []T
	for offset := 0; ; offset += pageSize {
		query := url.Values{}
		query.Set("q", q)
		query.Set("limit", strconv.Itoa(pageSize))
		query.Set("offset", strconv.Itoa(offset))

		var p page[T]
		status, err := c.do(ctx, http.MethodGet, path+"?"+query.Encode(), nil, &p)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("listing %s failed with status %d", path, status)
		}
		all = append(all, p.Data...)
		if len(p.Data) == 0 || len(all) >= p.Meta.Total {
			return all, nil
		}
	}
}
