package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"aable-presence/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func intPtr(v int) *int { return &v }

func sampleEvents() []models.AnomalyEvent {
	from := time.Date(2024, 1, 1, 8, 2, 0, 0, time.UTC)
	return []models.AnomalyEvent{
		{
			EventID:      "ev-1",
			BatchID:      "batch-1",
			EventType:    models.AnomalyZeroSignal,
			IdentityCode: "002",
			DisplayName:  "Петров П.П.",
			TriggerData:  models.TriggerData{Count: intPtr(150), Threshold: 100},
		},
		{
			EventID:      "ev-2",
			BatchID:      "batch-1",
			EventType:    models.AnomalyTimeGap,
			IdentityCode: "001",
			DisplayName:  "Иванов И.И.",
			TriggerData: models.TriggerData{
				Count:     intPtr(1),
				Threshold: 1,
				Gaps:      []models.GapRecord{{IdentityCode: "001", From: from, To: from.Add(3 * time.Minute), GapMinutes: 2}},
			},
		},
	}
}

type recordingNotifier struct {
	name   string
	err    error
	called int
}

func (r *recordingNotifier) Name() string { return r.name }

func (r *recordingNotifier) Notify(ctx context.Context, events []models.AnomalyEvent) error {
	r.called += len(events)
	return r.err
}

func TestMulti_ContinuesAfterFailure(t *testing.T) {
	failing := &recordingNotifier{name: "broken", err: errors.New("boom")}
	ok := &recordingNotifier{name: "ok"}
	m := NewMulti(zap.NewNop(), failing, ok)

	err := m.Notify(context.Background(), sampleEvents())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: boom")
	assert.Equal(t, 2, failing.called)
	assert.Equal(t, 2, ok.called)
}

func TestMulti_NoEvents(t *testing.T) {
	n := &recordingNotifier{name: "n"}
	assert.NoError(t, NewMulti(zap.NewNop(), n).Notify(context.Background(), nil))
	assert.Equal(t, 0, n.called)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Notify(context.Background(), sampleEvents()))

	require.Equal(t, 2, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Presence anomaly", entry.Message)
	assert.Equal(t, "zero_signal", entry.ContextMap()["event_type"])
	assert.Equal(t, int64(150), entry.ContextMap()["count"])
}
