package service

import (
	"context"
	"errors"
	"io"
	"time"

	"pet-nutrition-service/encoder"
	"pet-nutrition-service/llm"
	"pet-nutrition-service/metrics"
	"pet-nutrition-service/models"
	"pet-nutrition-service/parser"
	"pet-nutrition-service/prompt"

	"github.com/apex/log"
)

// ErrAnalysisInFlight is returned when an analysis is already running for the pet
var ErrAnalysisInFlight = errors.New("an analysis is already in progress for this pet")

// State identifies a step of the analysis pipeline
type State string

const (
	StateIdle          State = "idle"
	StateGating        State = "gating"
	StateEncoding      State = "encoding"
	StateRequesting    State = "requesting"
	StateValidating    State = "validating"
	StatePersisting    State = "persisting"
	StateDone          State = "done"
	StateQuotaExceeded State = "quota_exceeded"
	StateError         State = "error"
)

// Store is the persistence surface the analyzer needs: pet profiles,
// analysis history and the free-scan counter.
type Store interface {
	GetPet(ctx context.Context, userID, petID string) (*models.Pet, error)
	SaveAnalysis(ctx context.Context, petID, imageData string, result models.AnalysisResult) (*models.Analysis, error)
	ListAnalyses(ctx context.Context, petID string) ([]models.Analysis, error)
	GetFreeScansUsed(ctx context.Context, userID string) (int, error)
	IncrementFreeScans(ctx context.Context, userID string) error
}

// Billing resolves subscription state and mints checkout URLs
type Billing interface {
	IsSubscribed(ctx context.Context, email string) (bool, error)
	CreateCheckoutSession(ctx context.Context, email string) (string, error)
}

// EventPublisher emits analysis-completed events. Publishing is best-effort.
type EventPublisher interface {
	Publish(event any) error
}

// Outcome is the single discriminated result of one analyze invocation.
// Exactly one of the terminal states is set; user-visible messaging is
// decided by the HTTP layer from this value alone.
type Outcome struct {
	State       State
	FailedState State
	Result      *models.AnalysisResult
	Record      *models.Analysis
	CheckoutURL string
	SaveWarning bool
	Err         error
}

// Service orchestrates the usage-metered analysis pipeline
type Service struct {
	store     Store
	billing   Billing
	llmClient llm.Client
	publisher EventPublisher

	inFlight *inFlightSet
}

// NewService creates the analysis orchestrator. publisher may be nil when
// RabbitMQ is unavailable; analysis still works without it.
func NewService(store Store, billing Billing, llmClient llm.Client, publisher EventPublisher) *Service {
	return &Service{
		store:     store,
		billing:   billing,
		llmClient: llmClient,
		publisher: publisher,
		inFlight:  newInFlightSet(),
	}
}

// Analyze runs the full pipeline for one captured label image:
// gate -> encode -> prompt -> inference -> validate -> persist -> quota.
// A second invocation for the same pet while one is running is rejected
// with ErrAnalysisInFlight.
func (s *Service) Analyze(ctx context.Context, userID, email, petID string, image io.Reader, mediaType string) (*Outcome, error) {
	if !s.inFlight.tryAcquire(petID) {
		return nil, ErrAnalysisInFlight
	}
	defer s.inFlight.release(petID)

	metrics.AnalysesInFlight.Inc()
	defer metrics.AnalysesInFlight.Dec()

	start := time.Now()
	outcome := s.run(ctx, userID, email, petID, image, mediaType)

	metrics.AnalysesTotal.WithLabelValues(string(outcome.State)).Inc()
	metrics.AnalysisDurationSeconds.WithLabelValues(string(outcome.State)).Observe(time.Since(start).Seconds())

	return outcome, nil
}

func (s *Service) run(ctx context.Context, userID, email, petID string, image io.Reader, mediaType string) *Outcome {
	logger := log.WithFields(log.Fields{"user_id": userID, "pet_id": petID})

	pet, err := s.store.GetPet(ctx, userID, petID)
	if err != nil {
		return &Outcome{State: StateError, FailedState: StateGating, Err: err}
	}

	// Gating
	decision := s.gate(ctx, userID, email)
	if decision.err != nil {
		return &Outcome{State: StateError, FailedState: StateGating, Err: decision.err}
	}
	if !decision.allowed {
		metrics.QuotaDeniedTotal.Inc()
		logger.WithField("free_scans_used", decision.freeScansUsed).Info("Free scan quota exhausted, handing off to checkout")

		url, err := s.billing.CreateCheckoutSession(ctx, email)
		if err != nil {
			logger.WithError(err).Warn("Failed to create checkout session")
		}
		return &Outcome{State: StateQuotaExceeded, CheckoutURL: url}
	}

	// Encoding
	imageData, err := encoder.EncodeDataURI(image, mediaType)
	if err != nil {
		return &Outcome{State: StateError, FailedState: StateEncoding, Err: err}
	}

	// Requesting
	rawText, err := s.llmClient.AnalyzeImage(ctx, prompt.SystemInstruction, prompt.Build(pet), imageData)
	if err != nil {
		return &Outcome{State: StateError, FailedState: StateRequesting, Err: err}
	}

	// Validating
	result, err := parser.ParseAnalysis(rawText)
	if err != nil {
		return &Outcome{State: StateError, FailedState: StateValidating, Err: err}
	}

	outcome := &Outcome{State: StateDone, Result: result}

	// Persisting. A failed save is a soft warning: the analysis is still
	// returned, nothing is rolled back or retried.
	record, err := s.store.SaveAnalysis(ctx, petID, imageData, *result)
	if err != nil {
		metrics.HistorySaveFailureTotal.Inc()
		logger.WithError(err).Error("Analysis completed but could not be saved to history")
		outcome.SaveWarning = true
	} else {
		outcome.Record = record
	}

	// Quota reconciliation: exactly one increment per successful
	// non-subscribed analysis, as one atomic server-side statement.
	if !decision.subscribed {
		if err := s.store.IncrementFreeScans(ctx, userID); err != nil {
			logger.WithError(err).Error("Failed to increment free scan counter")
		}
	}

	s.publishCompleted(userID, outcome)

	logger.WithField("score", result.Score).Info("Analysis completed")
	return outcome
}

// publishCompleted emits the analysis event when a record was persisted
func (s *Service) publishCompleted(userID string, outcome *Outcome) {
	if s.publisher == nil || outcome.Record == nil {
		return
	}
	event := models.AnalysisCompletedEvent{
		AnalysisID: outcome.Record.ID,
		PetID:      outcome.Record.PetID,
		UserID:     userID,
		Result:     outcome.Record.Result,
		CreatedAt:  outcome.Record.CreatedAt,
	}
	if err := s.publisher.Publish(event); err != nil {
		log.WithError(err).Warn("Failed to publish analysis event")
	}
}

// History returns the analysis history for a pet the user owns, newest first
func (s *Service) History(ctx context.Context, userID, petID string) ([]models.Analysis, error) {
	if _, err := s.store.GetPet(ctx, userID, petID); err != nil {
		return nil, err
	}
	return s.store.ListAnalyses(ctx, petID)
}

// Quota reports the user's current free-tier usage and subscription state
func (s *Service) Quota(ctx context.Context, userID, email string) (*models.QuotaStatus, error) {
	decision := s.gate(ctx, userID, email)
	if decision.err != nil {
		return nil, decision.err
	}
	return &models.QuotaStatus{
		FreeScansUsed:  decision.freeScansUsed,
		FreeScansLimit: FreeScanLimit,
		Subscribed:     decision.subscribed,
	}, nil
}

// Subscribed resolves the user's subscription state, failing closed
func (s *Service) Subscribed(ctx context.Context, email string) bool {
	return s.resolveSubscribed(ctx, email)
}

// Checkout mints a checkout URL for the premium subscription
func (s *Service) Checkout(ctx context.Context, email string) (string, error) {
	return s.billing.CreateCheckoutSession(ctx, email)
}
