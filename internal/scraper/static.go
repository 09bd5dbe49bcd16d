package scraper

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
)

// Fetcher loads a source's listing page and, when the source asks for it,
// each item's detail page.
type Fetcher interface {
	FetchList(ctx context.Context, src Source) ([]Item, error)
	FetchDetail(ctx context.Context, src Source, link string) (Item, error)
}

// StaticFetcher scrapes server-rendered pages with colly.
type StaticFetcher struct {
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
}

func NewStaticFetcher(userAgent string, timeout time.Duration) *StaticFetcher {
	return &StaticFetcher{UserAgent: userAgent, Timeout: timeout, Delay: 450 * time.Millisecond}
}

func (f *StaticFetcher) collector(pageURL string) *colly.Collector {
	opts := []colly.CollectorOption{}
	if hosts := allowedHosts(pageURL); len(hosts) > 0 {
		opts = append(opts, colly.AllowedDomains(hosts...))
	}
	if strings.TrimSpace(f.UserAgent) != "" {
		opts = append(opts, colly.UserAgent(f.UserAgent))
	}
	c := colly.NewCollector(opts...)
	if f.Timeout > 0 {
		c.SetRequestTimeout(f.Timeout)
	}
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, Delay: f.Delay, RandomDelay: f.Delay})
	c.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})
	return c
}

func (f *StaticFetcher) FetchList(ctx context.Context, src Source) ([]Item, error) {
	c := f.collector(src.ListURL)

	var (
		mu     sync.Mutex
		items  []Item
		reqErr error
	)
	c.OnHTML("html", func(e *colly.HTMLElement) {
		base := e.Request.URL
		found := extractItems(e.DOM, src, base)
		mu.Lock()
		items = append(items, found...)
		mu.Unlock()
	})
	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Visit(src.ListURL); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	return dedupe(items), nil
}

func (f *StaticFetcher) FetchDetail(ctx context.Context, src Source, link string) (Item, error) {
	if _, err := url.Parse(link); err != nil {
		return nil, err
	}
	c := f.collector(link)

	var (
		out    Item
		reqErr error
	)
	c.OnHTML("html", func(e *colly.HTMLElement) {
		out = extractFields(e.DOM, src.Detail, e.Request.URL)
	})
	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Visit(link); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	if out == nil {
		out = Item{}
	}
	return out, nil
}

func httpHeaders() map[string]string {
	return map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-IN,en;q=0.9,hi;q=0.8",
	}
}

// dedupe drops items whose link was already seen, keeping page order.
func dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		link := it[FieldLink]
		if link != "" {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
		}
		out = append(out, it)
	}
	return out
}
