package service

import (
	"context"
	"strings"

	"skillswap/internal/models"
	"skillswap/internal/observability"
	"skillswap/internal/repository"
	"skillswap/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// Transition outcomes, also used as metric labels.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeLostRace = "lost_race"
)

// TransitionResult reports the effect of a lifecycle action. Request holds
// the row as it stands after the attempt.
type TransitionResult struct {
	Request  *models.ServiceRequest
	Previous models.RequestStatus
	Applied  bool
	Outcome  string
}

// RequestService runs the service request lifecycle.
type RequestService struct {
	requestRepo repository.RequestRepository
	skillRepo   repository.SkillRepository
}

// NewRequestService returns a new RequestService.
func NewRequestService(requestRepo repository.RequestRepository, skillRepo repository.SkillRepository) *RequestService {
	return &RequestService{requestRepo: requestRepo, skillRepo: skillRepo}
}

// Create opens a PENDING request from requesterID for the chosen skill.
// The provider is always the skill's owner, and nobody may request their
// own skill.
func (s *RequestService) Create(ctx context.Context, requesterID uint, in CreateRequestInput) (req *models.ServiceRequest, err error) {
	ctx, span := observability.StartSpan(ctx, "RequestService.Create",
		attribute.Int64("skill.id", int64(in.OfferedSkillID)))
	defer func() { observability.EndSpan(span, err) }()

	in.Description = strings.TrimSpace(in.Description)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	skill, err := s.skillRepo.GetByID(ctx, in.OfferedSkillID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewValidationError("Selected skill does not exist")
		}
		return nil, err
	}
	if skill.UserID == requesterID {
		return nil, models.NewValidationError("You cannot request your own skill")
	}

	created := &models.ServiceRequest{
		RequesterID:    requesterID,
		ProviderID:     skill.UserID,
		OfferedSkillID: skill.ID,
		Description:    in.Description,
		Status:         models.RequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, created); err != nil {
		return nil, err
	}
	return s.requestRepo.GetByID(ctx, created.ID)
}

func (s *RequestService) Get(ctx context.Context, id uint) (*models.ServiceRequest, error) {
	return s.requestRepo.GetByID(ctx, id)
}

// ListAsRequester returns the requests userID has made, newest first.
func (s *RequestService) ListAsRequester(ctx context.Context, userID uint) ([]models.ServiceRequest, error) {
	return s.requestRepo.ListByRequester(ctx, userID)
}

// ListAsProvider returns the requests addressed to userID, newest first.
func (s *RequestService) ListAsProvider(ctx context.Context, userID uint) ([]models.ServiceRequest, error) {
	return s.requestRepo.ListByProvider(ctx, userID, 0)
}

// Feed runs the public search.
func (s *RequestService) Feed(ctx context.Context, q repository.FeedQuery) ([]models.ServiceRequest, error) {
	return s.requestRepo.Feed(ctx, q)
}

// Transition applies action to request id on behalf of actorID.
//
// A disallowed (actor, action, status) combination is not an error: the
// result has Applied false and the request is untouched. The write is a
// compare-and-swap on the status that was read, so of two racing actions
// on the same request at most one applies. A missing request is NOT_FOUND.
func (s *RequestService) Transition(ctx context.Context, actorID, id uint, action string) (res *TransitionResult, err error) {
	act := models.RequestAction(strings.ToLower(strings.TrimSpace(action)))
	ctx, span := observability.StartSpan(ctx, "RequestService.Transition",
		attribute.Int64("request.id", int64(id)),
		attribute.String("request.action", string(act)))
	defer func() {
		if res != nil {
			span.SetAttributes(attribute.String("request.outcome", res.Outcome))
			observability.RequestTransitions.WithLabelValues(metricAction(act), res.Outcome).Inc()
		}
		observability.EndSpan(span, err)
	}()

	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res = &TransitionResult{Request: req, Previous: req.Status, Outcome: OutcomeRejected}
	next, ok := req.NextStatus(actorID, act)
	if !ok {
		return res, nil
	}

	swapped, err := s.requestRepo.UpdateStatus(ctx, id, req.Status, next)
	if err != nil {
		return nil, err
	}
	if !swapped {
		res.Outcome = OutcomeLostRace
		if fresh, ferr := s.requestRepo.GetByID(ctx, id); ferr == nil {
			res.Request = fresh
		}
		return res, nil
	}

	req.Status = next
	res.Applied = true
	res.Outcome = OutcomeApplied
	return res, nil
}

// metricAction keeps arbitrary client input out of metric labels.
func metricAction(a models.RequestAction) string {
	switch a {
	case models.ActionAccept, models.ActionComplete, models.ActionCancel:
		return string(a)
	}
	return "unknown"
}
