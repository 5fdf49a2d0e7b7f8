package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/bmackey/catalog-scraper/internal/catalog"
)

// DefaultBatchSize is the flush threshold used when none is configured.
const DefaultBatchSize = 100

// Inserter is the slice of CourseStore the Batcher needs, so dry runs and
// tests can substitute their own sink.
type Inserter interface {
	InsertCourses(ctx context.Context, courses []catalog.Course) error
}

// NoOpInserter discards batches. It backs --dry-run.
type NoOpInserter struct{}

// InsertCourses for NoOpInserter does nothing and returns no error.
func (NoOpInserter) InsertCourses(context.Context, []catalog.Course) error { return nil }

// Batcher buffers newly discovered courses and deduplicates them against the
// codes already present in the database. It is not safe for concurrent use;
// the crawl is single-threaded.
type Batcher struct {
	inserter  Inserter
	logger    *zap.Logger
	batchSize int

	known   map[string]struct{}
	pending []catalog.Course
	staged  int
}

// NewBatcher builds a Batcher seeded with the known course codes, typically
// from CourseStore.LoadCodes.
func NewBatcher(inserter Inserter, known map[string]struct{}, batchSize int, logger *zap.Logger) *Batcher {
	if known == nil {
		known = make(map[string]struct{})
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Batcher{
		inserter:  inserter,
		logger:    logger,
		batchSize: batchSize,
		known:     known,
		pending:   make([]catalog.Course, 0, batchSize),
	}
}

// Stage queues a course for insertion unless its code is already known.
// Codes are marked known at staging time, so a duplicate appearing later in
// the same run is dropped even before its batch has been committed.
func (b *Batcher) Stage(course catalog.Course) bool {
	if _, ok := b.known[course.Code]; ok {
		b.logger.Info("Course already in database",
			zap.String("code", course.Code),
			zap.String("name", course.Name),
		)
		return false
	}
	b.known[course.Code] = struct{}{}
	b.pending = append(b.pending, course)
	b.staged++
	b.logger.Info("Prepared entry",
		zap.String("code", course.Code),
		zap.String("name", course.Name),
	)
	return true
}

// FlushIfFull commits the pending batch once it reaches the threshold.
func (b *Batcher) FlushIfFull(ctx context.Context) error {
	if len(b.pending) < b.batchSize {
		return nil
	}
	return b.Flush(ctx)
}

// Flush commits whatever is pending, if anything. An insert failure
// propagates and aborts the run.
func (b *Batcher) Flush(ctx context.Context) error {
	if len(b.pending) == 0 {
		return nil
	}
	if err := b.inserter.InsertCourses(ctx, b.pending); err != nil {
		return err
	}
	b.logger.Info("Inserted courses",
		zap.Int("count", len(b.pending)),
		zap.String("last_code", b.pending[len(b.pending)-1].Code),
	)
	b.pending = b.pending[:0]
	return nil
}

// Staged reports how many new courses have been staged during this run.
func (b *Batcher) Staged() int { return b.staged }
