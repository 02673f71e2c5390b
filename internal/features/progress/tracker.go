package progress

import (
	"context"
	"math"

	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/coursehub/curriculum-server-go/pkg/cache"
	"github.com/coursehub/curriculum-server-go/pkg/metrics"
)

// CompletionChannel is the event bus channel mirroring completion events
// for other processes.
const CompletionChannel = "curriculum:lecture-completed"

// Notifier receives the one-shot completion signal on the first threshold
// crossing.
type Notifier interface {
	LectureCompleted(userID, courseID, lectureID uuid.UUID)
}

// Sample is one watch update from a player instance.
type Sample struct {
	UserID        uuid.UUID
	CourseID      uuid.UUID
	LectureID     uuid.UUID
	CurrentTime   float64
	TotalDuration float64

	// PlayerID identifies the player instance for throttling. Empty falls
	// back to the (user, lecture) pair.
	PlayerID string
}

// Result describes what a sample did.
type Result struct {
	Persisted       bool `json:"persisted"`
	Completed       bool `json:"completed"`
	FirstCompletion bool `json:"firstCompletion"`
	WatchPercentage int  `json:"watchPercentage"`
}

// Tracker records watch samples and derives completion against a
// configurable threshold. The threshold is re-read per evaluation via the
// provider func; changing it is not retroactive for rows already completed.
type Tracker struct {
	db        *gorm.DB
	logger    *slog.Logger
	threshold func() int
	throttle  *Throttle
	notifier  Notifier
	bus       cache.Client
}

// NewTracker constructs a progress tracker. notifier and bus may be nil.
func NewTracker(db *gorm.DB, logger *slog.Logger, threshold func() int, throttle *Throttle, notifier Notifier, bus cache.Client) *Tracker {
	return &Tracker{
		db:        db,
		logger:    logger,
		threshold: threshold,
		throttle:  throttle,
		notifier:  notifier,
		bus:       bus,
	}
}

// RecordSample persists a watch sample subject to the per-player throttle.
// Write failures are logged and dropped: a missed sample is invisible to
// the learner and the next one self-corrects.
func (t *Tracker) RecordSample(ctx context.Context, s Sample) (Result, error) {
	if s.TotalDuration <= 0 {
		metrics.RecordProgressSample("invalid")
		return Result{}, ErrInvalidSample
	}

	playerID := s.PlayerID
	if playerID == "" {
		playerID = s.UserID.String() + ":" + s.LectureID.String()
	}

	if !t.throttle.Allow(playerID) {
		metrics.RecordProgressSample("throttled")
		return Result{}, nil
	}

	db := t.db.WithContext(ctx)

	var prev Record
	err := db.Where("user_id = ? AND course_id = ? AND lecture_id = ?", s.UserID, s.CourseID, s.LectureID).First(&prev).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		t.logProgressWriteFailure(s, err)
		return Result{}, nil
	}

	next := applySample(prev, s, t.threshold())
	next.UserID = s.UserID
	next.CourseID = s.CourseID
	next.LectureID = s.LectureID

	firstCompletion := next.Completed && !prev.Completed

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "lecture_id"}},
		DoUpdates: upsertAssignments(),
	}).Create(&next).Error; err != nil {
		t.logProgressWriteFailure(s, err)
		return Result{}, nil
	}

	metrics.RecordProgressSample("persisted")

	if firstCompletion {
		metrics.RecordCompletion()
		t.emitCompletion(ctx, s)
	}

	return Result{
		Persisted:       true,
		Completed:       next.Completed,
		FirstCompletion: firstCompletion,
		WatchPercentage: next.WatchPercentage,
	}, nil
}

// upsertAssignments builds the conflict-update set. Monotonicity is enforced
// in the statement itself, not just in applySample: two samples racing on the
// same row both read the pre-write state, so the losing writer would otherwise
// clobber completed=true or an incremented watch_count.
func upsertAssignments() clause.Set {
	return clause.Set{
		{Column: clause.Column{Name: "last_position_seconds"}, Value: gorm.Expr("excluded.last_position_seconds")},
		{Column: clause.Column{Name: "watch_percentage"}, Value: gorm.Expr("excluded.watch_percentage")},
		{Column: clause.Column{Name: "watch_duration_seconds"}, Value: gorm.Expr("GREATEST(progress.watch_duration_seconds, excluded.watch_duration_seconds)")},
		{Column: clause.Column{Name: "total_duration_seconds"}, Value: gorm.Expr("excluded.total_duration_seconds")},
		{Column: clause.Column{Name: "completed"}, Value: gorm.Expr("progress.completed OR excluded.completed")},
		{Column: clause.Column{Name: "watch_count"}, Value: gorm.Expr("GREATEST(progress.watch_count, excluded.watch_count)")},
		{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
	}
}

// applySample folds one sample into the previous record state. Pure so the
// monotonicity rules are testable without a store.
func applySample(prev Record, s Sample, threshold int) Record {
	pct := int(math.Floor(s.CurrentTime / s.TotalDuration * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	next := prev
	next.LastPositionSeconds = s.CurrentTime
	next.WatchPercentage = pct
	next.TotalDurationSeconds = s.TotalDuration
	if s.CurrentTime > prev.WatchDurationSeconds {
		next.WatchDurationSeconds = s.CurrentTime
	}

	// completed never regresses; watch_count never decreases.
	if !prev.Completed && pct >= threshold {
		next.Completed = true
		next.WatchCount = prev.WatchCount + 1
		if next.WatchCount < 1 {
			next.WatchCount = 1
		}
	}

	return next
}

func (t *Tracker) emitCompletion(ctx context.Context, s Sample) {
	if t.notifier != nil {
		t.notifier.LectureCompleted(s.UserID, s.CourseID, s.LectureID)
	}

	if t.bus == nil {
		return
	}

	// The bus client handles JSON encoding.
	payload := map[string]string{
		"userId":    s.UserID.String(),
		"courseId":  s.CourseID.String(),
		"lectureId": s.LectureID.String(),
	}

	if err := t.bus.Publish(ctx, CompletionChannel, payload); err != nil {
		t.logger.Warn("failed to publish completion event",
			slog.String("lectureId", s.LectureID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func (t *Tracker) logProgressWriteFailure(s Sample, err error) {
	metrics.RecordProgressSample("write_error")
	t.logger.Error("progress write failed, sample dropped",
		slog.String("userId", s.UserID.String()),
		slog.String("lectureId", s.LectureID.String()),
		slog.String("error", err.Error()),
	)
}
