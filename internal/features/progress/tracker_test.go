package progress

import (
	"context"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func TestApplySamplePercentage(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		total   float64
		wantPct int
	}{
		{"zero", 0, 50, 0},
		{"partial floors down", 24.9, 100, 24},
		{"exact threshold", 40, 50, 80},
		{"past the end clamps to 100", 120, 100, 100},
		{"negative clamps to 0", -5, 100, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next := applySample(Record{}, Sample{CurrentTime: tc.current, TotalDuration: tc.total}, 80)
			assert.Equal(t, tc.wantPct, next.WatchPercentage)
		})
	}
}

func TestApplySampleCompletion(t *testing.T) {
	// 40/50 = 80% at threshold 80 completes and bumps the count.
	next := applySample(Record{}, Sample{CurrentTime: 40, TotalDuration: 50}, 80)
	assert.True(t, next.Completed)
	assert.Equal(t, 1, next.WatchCount)

	// A later 10/50 = 20% sample must not regress either field.
	later := applySample(next, Sample{CurrentTime: 10, TotalDuration: 50}, 80)
	assert.True(t, later.Completed)
	assert.Equal(t, 1, later.WatchCount)
	assert.Equal(t, 20, later.WatchPercentage)
}

func TestApplySampleBelowThreshold(t *testing.T) {
	next := applySample(Record{}, Sample{CurrentTime: 10, TotalDuration: 100}, 80)
	assert.False(t, next.Completed)
	assert.Equal(t, 0, next.WatchCount)
}

func TestApplySampleRepeatedCompletionKeepsCount(t *testing.T) {
	first := applySample(Record{}, Sample{CurrentTime: 90, TotalDuration: 100}, 80)
	assert.Equal(t, 1, first.WatchCount)

	// Already completed: another high sample is not another completion.
	second := applySample(first, Sample{CurrentTime: 95, TotalDuration: 100}, 80)
	assert.Equal(t, 1, second.WatchCount)
	assert.True(t, second.Completed)
}

func TestApplySampleThresholdChangeNotRetroactive(t *testing.T) {
	completed := applySample(Record{}, Sample{CurrentTime: 85, TotalDuration: 100}, 80)
	assert.True(t, completed.Completed)

	// Raising the threshold afterwards leaves the stored flag alone.
	next := applySample(completed, Sample{CurrentTime: 85, TotalDuration: 100}, 95)
	assert.True(t, next.Completed)
}

func TestApplySampleWatchDurationHighWater(t *testing.T) {
	first := applySample(Record{}, Sample{CurrentTime: 30, TotalDuration: 100}, 80)
	assert.Equal(t, 30.0, first.WatchDurationSeconds)

	// Seeking backwards keeps the high-water mark.
	second := applySample(first, Sample{CurrentTime: 10, TotalDuration: 100}, 80)
	assert.Equal(t, 30.0, second.WatchDurationSeconds)
	assert.Equal(t, 10.0, second.LastPositionSeconds)
}

func TestUpsertAssignmentsMonotonic(t *testing.T) {
	exprs := map[string]string{}
	for _, a := range upsertAssignments() {
		if e, ok := a.Value.(clause.Expr); ok {
			exprs[a.Column.Name] = e.SQL
		}
	}

	// Two players racing on the same row both read the pre-write state; the
	// store itself must refuse to regress these columns, whichever writer
	// lands last.
	assert.Equal(t, "progress.completed OR excluded.completed", exprs["completed"])
	assert.Equal(t, "GREATEST(progress.watch_count, excluded.watch_count)", exprs["watch_count"])
	assert.Equal(t, "GREATEST(progress.watch_duration_seconds, excluded.watch_duration_seconds)", exprs["watch_duration_seconds"])

	// Position and percentage follow the latest sample.
	assert.Equal(t, "excluded.last_position_seconds", exprs["last_position_seconds"])
	assert.Equal(t, "excluded.watch_percentage", exprs["watch_percentage"])
}

type captureBus struct {
	channel string
	payload interface{}
}

func (b *captureBus) Get(ctx context.Context, key string) (string, error) { return "", nil }
func (b *captureBus) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (b *captureBus) Delete(ctx context.Context, keys ...string) error { return nil }
func (b *captureBus) Close() error                                     { return nil }
func (b *captureBus) Publish(ctx context.Context, channel string, payload interface{}) error {
	b.channel = channel
	b.payload = payload
	return nil
}

func TestEmitCompletionPublishesStructuredPayload(t *testing.T) {
	bus := &captureBus{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracker := NewTracker(nil, logger, nil, nil, nil, bus)

	s := Sample{UserID: uuid.New(), CourseID: uuid.New(), LectureID: uuid.New()}
	tracker.emitCompletion(context.Background(), s)

	assert.Equal(t, CompletionChannel, bus.channel)

	// The bus client owns JSON encoding; handing it a pre-encoded string
	// would double-encode the event.
	payload, ok := bus.payload.(map[string]string)
	require.True(t, ok, "payload must be the structured event, not a pre-encoded string")
	assert.Equal(t, s.UserID.String(), payload["userId"])
	assert.Equal(t, s.CourseID.String(), payload["courseId"])
	assert.Equal(t, s.LectureID.String(), payload["lectureId"])
}
