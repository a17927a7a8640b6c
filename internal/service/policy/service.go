package policy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/policy"
	"github.com/smart-attendance/attendance-backend-go/internal/pkg/database"
)

const cacheTTL = time.Minute

type policyService struct {
	db         *database.DB
	policyRepo policy.PolicyRepository

	mu       sync.RWMutex
	cached   policy.Policy
	cachedAt time.Time

	now func() time.Time
}

func NewPolicyService(db *database.DB, policyRepo policy.PolicyRepository) policy.PolicyService {
	return &policyService{
		db:         db,
		policyRepo: policyRepo,
		now:        time.Now,
	}
}

// GetActivePolicy implements policy.PolicyService.
func (s *policyService) GetActivePolicy(ctx context.Context) (policy.Policy, error) {
	s.mu.RLock()
	if !s.cachedAt.IsZero() && s.now().Sub(s.cachedAt) < cacheTTL {
		p := s.cached
		s.mu.RUnlock()
		return p, nil
	}
	s.mu.RUnlock()

	p, err := s.policyRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, policy.ErrPolicyNotFound) {
			p = policy.Default()
		} else {
			return policy.Policy{}, fmt.Errorf("failed to load active policy: %w", err)
		}
	}

	s.mu.Lock()
	s.cached = p
	s.cachedAt = s.now()
	s.mu.Unlock()

	return p, nil
}

// UpdateRules implements policy.PolicyService.
func (s *policyService) UpdateRules(ctx context.Context, req policy.UpdateRulesRequest) (policy.Policy, error) {
	if err := req.Validate(); err != nil {
		return policy.Policy{}, err
	}

	current, err := s.GetActivePolicy(ctx)
	if err != nil {
		return policy.Policy{}, err
	}

	updated := current
	if req.OfficeLatitude != nil {
		updated.OfficeLatitude = *req.OfficeLatitude
	}
	if req.OfficeLongitude != nil {
		updated.OfficeLongitude = *req.OfficeLongitude
	}
	if req.LocationRadiusMeters != nil {
		updated.LocationRadiusMeters = *req.LocationRadiusMeters
	}
	if req.CheckInTime != nil {
		t, err := policy.ParseTimeOfDay(*req.CheckInTime)
		if err != nil {
			return policy.Policy{}, fmt.Errorf("failed to parse check_in_time: %w", err)
		}
		updated.CheckInTime = t
	}
	if req.CheckOutTime != nil {
		t, err := policy.ParseTimeOfDay(*req.CheckOutTime)
		if err != nil {
			return policy.Policy{}, fmt.Errorf("failed to parse check_out_time: %w", err)
		}
		updated.CheckOutTime = t
	}
	if req.LateThresholdMinutes != nil {
		updated.LateThresholdMinutes = *req.LateThresholdMinutes
	}

	saved, err := s.policyRepo.Save(ctx, updated)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("failed to save policy: %w", err)
	}

	s.mu.Lock()
	s.cached = saved
	s.cachedAt = s.now()
	s.mu.Unlock()

	return saved, nil
}
