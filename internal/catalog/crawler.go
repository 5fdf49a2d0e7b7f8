package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// Stager is the staging surface the crawler drives. Implemented by
// store.Batcher.
type Stager interface {
	// Stage queues a course unless its code is already known; reports whether
	// it was queued.
	Stage(course Course) bool
	// FlushIfFull commits the pending batch once it reaches the threshold.
	FlushIfFull(ctx context.Context) error
	// Flush commits whatever is pending.
	Flush(ctx context.Context) error
	// Staged reports how many new courses were queued during the run.
	Staged() int
}

// Crawler walks the catalog, index page → category pages → subject pages →
// course blocks, staging each newly seen course. Failures while processing a
// category or a subject are logged and that unit skipped; staging and flush
// failures abort the run.
type Crawler struct {
	fetcher Fetcher
	stager  Stager
	baseURL *url.URL
	logger  *zap.Logger
}

// NewCrawler wires a Crawler from its collaborators.
func NewCrawler(fetcher Fetcher, stager Stager, baseURL *url.URL, logger *zap.Logger) *Crawler {
	return &Crawler{
		fetcher: fetcher,
		stager:  stager,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Run performs one full traversal and flushes any remaining staged courses at
// the end. An empty category list is not an error; there is just nothing to
// do.
func (c *Crawler) Run(ctx context.Context) error {
	categories, err := c.fetchCategoryLinks(ctx)
	if err != nil {
		return err
	}

	for _, category := range categories {
		if err := c.processCategory(ctx, category); err != nil {
			if !isSkippable(err) {
				return err
			}
			c.logger.Error("Skipping category", zap.String("category", category), zap.Error(err))
		}
	}

	if err := c.stager.Flush(ctx); err != nil {
		return fmt.Errorf("flush remaining courses: %w", err)
	}
	c.logger.Info("Crawl finished", zap.Int("courses_added", c.stager.Staged()))
	return nil
}

func (c *Crawler) fetchCategoryLinks(ctx context.Context) ([]string, error) {
	doc, err := c.fetcher.Fetch(ctx, c.baseURL.String())
	if err != nil {
		if !isSkippable(err) {
			return nil, err
		}
		c.logger.Error("Error fetching category links", zap.Error(err))
		return nil, nil
	}
	links := CategoryLinks(doc, c.baseURL)
	if len(links) == 0 {
		c.logger.Warn("No category links found")
		return nil, nil
	}
	c.logger.Info("Fetched category links", zap.Int("count", len(links)))
	return links, nil
}

func (c *Crawler) processCategory(ctx context.Context, category string) error {
	doc, err := c.fetcher.Fetch(ctx, category)
	if err != nil {
		return err
	}
	categoryURL, err := url.Parse(category)
	if err != nil {
		return fmt.Errorf("parse category url %s: %w", category, err)
	}
	subjects, err := SubjectLinks(doc, categoryURL)
	if err != nil {
		return err
	}
	c.logger.Info("Fetched subject links",
		zap.Int("count", len(subjects)),
		zap.String("category", category),
	)

	for _, subject := range subjects {
		if err := c.processSubject(ctx, subject); err != nil {
			if !isSkippable(err) {
				return err
			}
			c.logger.Error("Skipping subject", zap.String("subject", subject), zap.Error(err))
		}
	}
	return nil
}

func (c *Crawler) processSubject(ctx context.Context, subject string) error {
	doc, err := c.fetcher.Fetch(ctx, subject)
	if err != nil {
		return err
	}
	blocks, err := CourseBlocks(doc, subject)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		c.logger.Warn("No courses found", zap.String("subject", subject))
		return nil
	}

	for _, block := range blocks {
		course, err := ParseCourse(block)
		if err != nil {
			return err
		}
		if !c.stager.Stage(course) {
			continue
		}
		if err := c.stager.FlushIfFull(ctx); err != nil {
			return fmt.Errorf("flush courses: %w", err)
		}
	}
	return nil
}

// isSkippable classifies an error from one traversal step: request,
// extraction, and parse failures lose only their unit of work, while
// cancellation and store failures abort the run.
func isSkippable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var (
		reqErr   *RequestError
		extErr   *ExtractionError
		parseErr *ParseError
	)
	return errors.As(err, &reqErr) || errors.As(err, &extErr) || errors.As(err, &parseErr)
}
