package scraper

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

const defaultBrowserUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Renderer returns the HTML of a page after scripts have run.
type Renderer interface {
	Render(ctx context.Context, pageURL string, waitSelector string) (string, error)
}

// ChromeRenderer drives a headless Chrome through chromedp.
type ChromeRenderer struct {
	UserAgent string
	Timeout   time.Duration
	Settle    time.Duration
}

func NewChromeRenderer(timeout time.Duration) *ChromeRenderer {
	return &ChromeRenderer{UserAgent: defaultBrowserUA, Timeout: timeout, Settle: 1500 * time.Millisecond}
}

func (r *ChromeRenderer) Render(ctx context.Context, pageURL string, waitSelector string) (string, error) {
	ua := r.UserAgent
	if ua == "" {
		ua = defaultBrowserUA
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(ua),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	reqCtx, reqCancel := context.WithTimeout(browserCtx, timeout)
	defer reqCancel()

	if strings.TrimSpace(waitSelector) == "" {
		waitSelector = "body"
	}
	var html string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(waitSelector, chromedp.ByQuery),
		chromedp.Sleep(r.Settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}

// HeadlessFetcher renders pages with a Renderer and applies the source's
// selectors with goquery.
type HeadlessFetcher struct {
	renderer Renderer
}

func NewHeadlessFetcher(r Renderer) *HeadlessFetcher {
	return &HeadlessFetcher{renderer: r}
}

func (f *HeadlessFetcher) document(ctx context.Context, pageURL, wait string) (*goquery.Document, *url.URL, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, err
	}
	html, err := f.renderer.Render(ctx, pageURL, wait)
	if err != nil {
		return nil, nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, err
	}
	return doc, base, nil
}

func (f *HeadlessFetcher) FetchList(ctx context.Context, src Source) ([]Item, error) {
	wait := src.WaitSelector
	if wait == "" {
		wait = src.ItemSelector
	}
	doc, base, err := f.document(ctx, src.ListURL, wait)
	if err != nil {
		return nil, err
	}
	return dedupe(extractItems(doc.Selection, src, base)), nil
}

func (f *HeadlessFetcher) FetchDetail(ctx context.Context, src Source, link string) (Item, error) {
	doc, base, err := f.document(ctx, link, "body")
	if err != nil {
		return nil, err
	}
	return extractFields(doc.Selection, src.Detail, base), nil
}
