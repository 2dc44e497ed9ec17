// Package catalog implements the outbound client for the KOPIS open API,
// the third-party performance catalog this service lists and searches.
package catalog

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"log/slog"
	"strconv"
	"time"

	"remu/config"
	"remu/internal/domain/service"
	"remu/internal/errors"

	"github.com/allegro/bigcache/v3"
	"github.com/go-resty/resty/v2"
	"go.uber.org/fx"
)

const (
	// Upstream code for performances currently on stage.
	stateRunning = "02"

	// ListAllRunning only walks performances that started in this window;
	// without a start-date bound the upstream walk takes far too long.
	recentWindow = 30 * 24 * time.Hour

	defaultTimeout      = 10 * time.Second
	defaultListCacheTTL = 10 * time.Minute

	allPagesCacheKey = "running-performances"
)

// performanceDoc mirrors the upstream XML envelope: a <dbs> root with one
// <db> element per performance.
type performanceDoc struct {
	XMLName      xml.Name         `xml:"dbs"`
	Performances []performanceRow `xml:"db"`
}

type performanceRow struct {
	ID        string `xml:"mt20id" json:"id"`
	Name      string `xml:"prfnm" json:"name"`
	Genre     string `xml:"genrenm" json:"genre"`
	StartDate string `xml:"prfpdfrom" json:"startDate"`
	EndDate   string `xml:"prfpdto" json:"endDate"`
	Poster    string `xml:"poster" json:"poster"`
	State     string `xml:"prfstate" json:"state"`
}

// Params defines the dependencies for the catalog client.
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// client talks to the upstream catalog over REST and caches full listing
// walks, which span many pages and change slowly.
type client struct {
	rest       *resty.Client
	serviceKey string
	logger     *slog.Logger
	listCache  *bigcache.BigCache
}

// New builds the catalog client. The page-walk cache lives for the
// configured TTL and is shared across requests.
func New(params Params) (service.CatalogService, error) {
	cfg := params.Config.Catalog
	if cfg.BaseURL == "" || cfg.ServiceKey == "" {
		return nil, errors.New("catalog base URL and service key must be provided")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cacheTTL := cfg.ListCacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultListCacheTTL
	}

	listCache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(cacheTTL))
	if err != nil {
		return nil, errors.Wrap(err, "init catalog list cache")
	}

	rest := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout)

	return &client{
		rest:       rest,
		serviceKey: cfg.ServiceKey,
		logger:     params.Logger,
		listCache:  listCache,
	}, nil
}

// ListRunning fetches one page of currently running performances.
func (c *client) ListRunning(ctx context.Context, page, rows int) ([]*service.Performance, error) {
	return c.fetchPage(ctx, map[string]string{
		"cpage":    strconv.Itoa(page),
		"rows":     strconv.Itoa(rows),
		"prfstate": stateRunning,
	})
}

// ListAllRunning walks every page of running performances that started
// within the recent window. The full walk is cached.
func (c *client) ListAllRunning(ctx context.Context, rows int) ([]*service.Performance, error) {
	if cached, err := c.listCache.Get(allPagesCacheKey); err == nil {
		var performances []*service.Performance
		if err := json.Unmarshal(cached, &performances); err == nil {
			return performances, nil
		}
		// A corrupt entry falls through to a fresh walk.
	}

	startDate := time.Now().Add(-recentWindow).Format("20060102")

	var all []*service.Performance
	for page := 1; ; page++ {
		performances, err := c.fetchPage(ctx, map[string]string{
			"cpage":    strconv.Itoa(page),
			"rows":     strconv.Itoa(rows),
			"stdate":   startDate,
			"prfstate": stateRunning,
		})
		if err != nil {
			return nil, err
		}
		if len(performances) == 0 {
			break
		}
		all = append(all, performances...)
	}

	if encoded, err := json.Marshal(all); err == nil {
		if err := c.listCache.Set(allPagesCacheKey, encoded); err != nil {
			c.logger.Warn("catalog list cache write failed", slog.String("error", err.Error()))
		}
	}

	return all, nil
}

// Search fetches one page of performances matching a name fragment and an
// optional upstream category code.
func (c *client) Search(ctx context.Context, name, categoryCode string, page, rows int) ([]*service.Performance, error) {
	return c.fetchPage(ctx, map[string]string{
		"shprfnm": name,
		"shcate":  categoryCode,
		"cpage":   strconv.Itoa(page),
		"rows":    strconv.Itoa(rows),
	})
}

// FindByName resolves a performance by name. The upstream matches by name
// fragment, so the first running match wins. Returns nil when nothing matches.
func (c *client) FindByName(ctx context.Context, name string) (*service.Performance, error) {
	performances, err := c.fetchPage(ctx, map[string]string{
		"shprfnm":  name,
		"cpage":    "1",
		"rows":     "10",
		"prfstate": stateRunning,
	})
	if err != nil {
		return nil, err
	}
	if len(performances) == 0 {
		return nil, nil
	}

	return performances[0], nil
}

// Detail fetches the full record for a single performance id.
func (c *client) Detail(ctx context.Context, id string) (*service.Performance, error) {
	doc, err := c.fetch(ctx, "/pblprfr/"+id, map[string]string{})
	if err != nil {
		return nil, err
	}
	if len(doc.Performances) == 0 {
		return nil, nil
	}

	return toPerformance(&doc.Performances[0]), nil
}

// fetchPage queries the performance listing endpoint with the given params.
func (c *client) fetchPage(ctx context.Context, params map[string]string) ([]*service.Performance, error) {
	doc, err := c.fetch(ctx, "/pblprfr", params)
	if err != nil {
		return nil, err
	}

	performances := make([]*service.Performance, 0, len(doc.Performances))
	for i := range doc.Performances {
		performances = append(performances, toPerformance(&doc.Performances[i]))
	}

	return performances, nil
}

func (c *client) fetch(ctx context.Context, path string, params map[string]string) (*performanceDoc, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("service", c.serviceKey).
		SetQueryParam("newsql", "Y").
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, errors.Wrap(err, "catalog request failed")
	}
	if resp.IsError() {
		return nil, errors.Errorf("catalog responded with status %d", resp.StatusCode())
	}

	doc := new(performanceDoc)
	if err := xml.Unmarshal(resp.Body(), doc); err != nil {
		return nil, errors.Wrap(err, "decode catalog response")
	}

	return doc, nil
}

func toPerformance(row *performanceRow) *service.Performance {
	return &service.Performance{
		ID:        row.ID,
		Name:      row.Name,
		Genre:     row.Genre,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		Poster:    row.Poster,
		State:     row.State,
	}
}
