package predictor_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medscreen/asthmarisk/predictor"
)

type stubScorer struct {
	width  int
	score  float64
	err    error
	vecs   [][]float32
	closed bool
}

func (s *stubScorer) Score(_ context.Context, vec []float32) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	clone := make([]float32, len(vec))
	copy(clone, vec)
	s.vecs = append(s.vecs, clone)
	return s.score, nil
}

func (s *stubScorer) InputWidth() int { return s.width }

func (s *stubScorer) ModelID() string { return "stub.onnx" }

func (s *stubScorer) Close() error {
	s.closed = true
	return nil
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewServiceValidatesInputs(t *testing.T) {
	_, err := predictor.NewService(nil, orderV1(), newTestLogger())
	assert.Error(t, err)

	_, err = predictor.NewService(&stubScorer{}, nil, newTestLogger())
	assert.Error(t, err)
}

func TestNewServiceWidthMismatch(t *testing.T) {
	_, err := predictor.NewService(&stubScorer{width: 5}, orderV1(), newTestLogger())
	require.Error(t, err)
	var mismatch *predictor.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 5, mismatch.Expected)
	assert.Equal(t, 17, mismatch.Got)
}

func TestNewServiceAcceptsDynamicWidth(t *testing.T) {
	svc, err := predictor.NewService(&stubScorer{width: 0}, orderV1(), newTestLogger())
	require.NoError(t, err)
	assert.Equal(t, predictor.SchemaV1, svc.SchemaVersion())
}

func TestSharedServiceLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "feature_order.json")
	cfg := predictor.Config{
		ModelPath:   filepath.Join(dir, "model.onnx"),
		SchemaPath:  schemaPath,
		LoadRetries: 1,
	}
	logger, hook := logrustest.NewNullLogger()

	_, err := predictor.SharedService(cfg, logger)
	require.Error(t, err)
	var loadErr *predictor.ArtifactLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, schemaPath, loadErr.Path)
	assert.Len(t, hook.AllEntries(), 2, "initial load attempt plus one retry")

	// A schema appearing later must not trigger a second load.
	require.NoError(t, os.WriteFile(schemaPath, []byte(`["Age_Group", "BMI"]`), 0o644))
	_, again := predictor.SharedService(cfg, logger)
	require.Error(t, again)
	assert.Same(t, err, again)
	assert.Len(t, hook.AllEntries(), 2, "no further load attempts")
}

func TestPredictEndToEnd(t *testing.T) {
	scorer := &stubScorer{width: 17, score: 0.62}
	svc, err := predictor.NewService(scorer, orderV1(), newTestLogger())
	require.NoError(t, err)

	before := time.Now().UTC()
	assessment, err := svc.Predict(context.Background(), predictor.DefaultAnswers())
	require.NoError(t, err)

	assert.Equal(t, 0.62, assessment.Probability)
	assert.Equal(t, predictor.RiskHigh, assessment.Level)
	assert.Equal(t, predictor.SchemaV1, assessment.SchemaVersion)
	assert.NotEqual(t, uuid.Nil, assessment.ID)
	assert.Equal(t, time.UTC, assessment.AssessedAt.Location())
	assert.False(t, assessment.AssessedAt.Before(before))

	require.Len(t, scorer.vecs, 1)
	assert.Len(t, scorer.vecs[0], 17)
}

func TestPredictLowAndNoRisk(t *testing.T) {
	cases := []struct {
		name  string
		score float64
		want  predictor.RiskLevel
	}{
		{name: "no risk", score: 0.1, want: predictor.RiskNone},
		{name: "low risk", score: 0.35, want: predictor.RiskLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := predictor.NewService(&stubScorer{width: 17, score: tc.score}, orderV1(), newTestLogger())
			require.NoError(t, err)
			assessment, err := svc.Predict(context.Background(), predictor.DefaultAnswers())
			require.NoError(t, err)
			assert.Equal(t, tc.want, assessment.Level)
		})
	}
}

func TestPredictUnknownFeatureTolerated(t *testing.T) {
	order := append(orderV1(), "Ozone_level")
	scorer := &stubScorer{width: 18, score: 0.1}
	svc, err := predictor.NewService(scorer, order, newTestLogger())
	require.NoError(t, err)

	_, err = svc.Predict(context.Background(), predictor.DefaultAnswers())
	require.NoError(t, err)
	require.Len(t, scorer.vecs, 1)
	assert.Zero(t, scorer.vecs[0][17])
}

func TestPredictEncodeErrorPropagates(t *testing.T) {
	svc, err := predictor.NewService(&stubScorer{width: 17}, orderV1(), newTestLogger())
	require.NoError(t, err)

	answers := predictor.DefaultAnswers()
	answers.Smoking = "Sometimes"
	_, err = svc.Predict(context.Background(), answers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode answers")
}

func TestPredictScorerErrorPropagates(t *testing.T) {
	scorer := &stubScorer{width: 17, err: errors.New("session gone")}
	svc, err := predictor.NewService(scorer, orderV1(), newTestLogger())
	require.NoError(t, err)

	_, err = svc.Predict(context.Background(), predictor.DefaultAnswers())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "score features")
}

func TestPredictSurfacesSchemaMismatch(t *testing.T) {
	scorer := &stubScorer{width: 17, err: predictor.NewSchemaMismatchError(17, 5)}
	svc, err := predictor.NewService(scorer, orderV1(), newTestLogger())
	require.NoError(t, err)

	_, err = svc.Predict(context.Background(), predictor.DefaultAnswers())
	require.Error(t, err)
	var mismatch *predictor.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 17, mismatch.Expected)
}

func TestServiceCloseReleasesScorer(t *testing.T) {
	scorer := &stubScorer{width: 17}
	svc, err := predictor.NewService(scorer, orderV1(), newTestLogger())
	require.NoError(t, err)
	require.NoError(t, svc.Close())
	assert.True(t, scorer.closed)
}

func TestServiceOrderIsACopy(t *testing.T) {
	svc, err := predictor.NewService(&stubScorer{width: 17}, orderV1(), newTestLogger())
	require.NoError(t, err)
	order := svc.Order()
	order[0] = "Changed"
	assert.Equal(t, predictor.FeatureAgeGroup, svc.Order()[0])
}
