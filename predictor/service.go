package predictor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Service wires the encoder, the classifier and the categorizer into one
// pipeline run per submission.
type Service struct {
	scorer Scorer
	order  FeatureOrder
	logger *logrus.Logger
}

// NewService validates that the schema and the classifier agree on the
// vector width before any scoring happens.
func NewService(scorer Scorer, order FeatureOrder, logger *logrus.Logger) (*Service, error) {
	if scorer == nil {
		return nil, errors.New("scorer is required")
	}
	if len(order) == 0 {
		return nil, errors.New("feature order is required")
	}
	if w := scorer.InputWidth(); w > 0 && w != len(order) {
		return nil, NewSchemaMismatchError(w, len(order))
	}
	return &Service{scorer: scorer, order: order.Clone(), logger: logger}, nil
}

// NewServiceFromConfig loads both artifacts with bounded retries and
// assembles the pipeline. Each call opens its own session; the binaries go
// through SharedService instead.
func NewServiceFromConfig(cfg Config, logger *logrus.Logger) (*Service, error) {
	cfg.ApplyDefaults()
	var order FeatureOrder
	err := withRetries(cfg.LoadRetries, logger, "feature order", func() error {
		var loadErr error
		order, loadErr = LoadFeatureOrder(cfg.SchemaPath)
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	var clf *OrtClassifier
	err = withRetries(cfg.LoadRetries, logger, "scoring model", func() error {
		var loadErr error
		clf, loadErr = NewOrtClassifier(ClassifierConfig{
			ModelPath:  cfg.ModelPath,
			OrtLibrary: cfg.OrtLibrary,
		})
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	svc, err := NewService(clf, order, logger)
	if err != nil {
		_ = clf.Close()
		return nil, err
	}
	svc.infof("loaded %s with %d features (%s schema)", clf.ModelID(), len(order), order.Version())
	return svc, nil
}

var (
	sharedOnce    sync.Once
	sharedService *Service
	sharedErr     error
)

// SharedService builds the pipeline on the first call and returns the same
// instance on every later call without touching the artifacts again. The
// bounded load retries run inside the guard, so the first outcome, success
// or failure, is final for the process lifetime; later cfg and logger values
// are ignored.
func SharedService(cfg Config, logger *logrus.Logger) (*Service, error) {
	sharedOnce.Do(func() {
		sharedService, sharedErr = NewServiceFromConfig(cfg, logger)
	})
	return sharedService, sharedErr
}

// withRetries runs op with exponential backoff, giving up after the
// configured number of retries.
func withRetries(retries int, logger *logrus.Logger, what string, op func() error) error {
	if retries < 0 {
		retries = 0
	}
	attempt := 0
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retries))
	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err != nil && logger != nil {
			logger.WithError(err).Warnf("load %s failed (attempt %d)", what, attempt)
		}
		return err
	}, policy)
}

// Close releases classifier resources.
func (s *Service) Close() error {
	if s == nil || s.scorer == nil {
		return nil
	}
	return s.scorer.Close()
}

// Order returns a copy of the loaded feature order.
func (s *Service) Order() FeatureOrder {
	return s.order.Clone()
}

// SchemaVersion reports which contract generation the loaded order follows.
func (s *Service) SchemaVersion() SchemaVersion {
	return s.order.Version()
}

// ModelID names the loaded scoring artifact.
func (s *Service) ModelID() string {
	return s.scorer.ModelID()
}

// Predict encodes the answers, scores them and categorizes the result.
func (s *Service) Predict(ctx context.Context, answers RawAnswers) (Assessment, error) {
	vec, missing, err := EncodeAnswers(answers, s.order)
	if err != nil {
		return Assessment{}, fmt.Errorf("encode answers: %w", err)
	}
	for _, name := range missing {
		s.warnf("feature %q has no encoded field, defaulting to zero", name)
	}
	score, err := s.scorer.Score(ctx, vec)
	if err != nil {
		return Assessment{}, fmt.Errorf("score features: %w", err)
	}
	return Assessment{
		ID:            uuid.New(),
		Probability:   score,
		Level:         CategorizeRisk(score),
		SchemaVersion: s.order.Version(),
		AssessedAt:    time.Now().UTC(),
	}, nil
}

func (s *Service) infof(format string, args ...any) {
	if s.logger != nil {
		s.logger.Infof(format, args...)
	}
}

func (s *Service) warnf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Warnf(format, args...)
	}
}
