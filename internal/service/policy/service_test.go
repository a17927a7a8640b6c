package policy

import (
	"context"
	"testing"
	"time"

	"github.com/smart-attendance/attendance-backend-go/internal/domain/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePolicyRepo struct {
	active    *policy.Policy
	getCalls  int
	saveCalls int
}

func (f *fakePolicyRepo) GetActive(ctx context.Context) (policy.Policy, error) {
	f.getCalls++
	if f.active == nil {
		return policy.Policy{}, policy.ErrPolicyNotFound
	}
	return *f.active, nil
}

func (f *fakePolicyRepo) Save(ctx context.Context, p policy.Policy) (policy.Policy, error) {
	f.saveCalls++
	p.ID = "rule-1"
	p.IsActive = true
	f.active = &p
	return p, nil
}

func newTestPolicyService(repo *fakePolicyRepo, at time.Time) *policyService {
	return &policyService{
		policyRepo: repo,
		now:        func() time.Time { return at },
	}
}

func ptr[T any](v T) *T { return &v }

func TestGetActivePolicy_FallsBackToDefault(t *testing.T) {
	repo := &fakePolicyRepo{}
	svc := newTestPolicyService(repo, time.Now())

	p, err := svc.GetActivePolicy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 23.2599, p.OfficeLatitude)
	assert.Equal(t, 77.4126, p.OfficeLongitude)
	assert.Equal(t, 100, p.LocationRadiusMeters)
	assert.Equal(t, "09:00:00", p.CheckInTime.String())
	assert.Equal(t, 15, p.LateThresholdMinutes)
}

func TestGetActivePolicy_ServesFromCache(t *testing.T) {
	configured := policy.Policy{
		ID:                   "rule-1",
		OfficeLatitude:       1.5,
		OfficeLongitude:      2.5,
		LocationRadiusMeters: 250,
		CheckInTime:          policy.TimeOfDay{Hour: 8, Minute: 30},
		CheckOutTime:         policy.TimeOfDay{Hour: 17},
		LateThresholdMinutes: 10,
		IsActive:             true,
	}
	repo := &fakePolicyRepo{active: &configured}
	svc := newTestPolicyService(repo, time.Now())

	for i := 0; i < 5; i++ {
		p, err := svc.GetActivePolicy(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 250, p.LocationRadiusMeters)
	}

	assert.Equal(t, 1, repo.getCalls)
}

func TestGetActivePolicy_CacheExpires(t *testing.T) {
	repo := &fakePolicyRepo{active: &policy.Policy{ID: "rule-1", IsActive: true}}
	base := time.Now()
	svc := newTestPolicyService(repo, base)

	_, err := svc.GetActivePolicy(context.Background())
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = svc.GetActivePolicy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.getCalls)
}

func TestUpdateRules_PartialUpdate(t *testing.T) {
	repo := &fakePolicyRepo{}
	svc := newTestPolicyService(repo, time.Now())

	updated, err := svc.UpdateRules(context.Background(), policy.UpdateRulesRequest{
		LocationRadiusMeters: ptr(300),
		CheckInTime:          ptr("08:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, 300, updated.LocationRadiusMeters)
	assert.Equal(t, "08:30:00", updated.CheckInTime.String())
	// Untouched fields keep the default values.
	assert.Equal(t, 23.2599, updated.OfficeLatitude)
	assert.Equal(t, 15, updated.LateThresholdMinutes)
	assert.Equal(t, 1, repo.saveCalls)
}

func TestUpdateRules_RefreshesCache(t *testing.T) {
	repo := &fakePolicyRepo{}
	svc := newTestPolicyService(repo, time.Now())

	_, err := svc.GetActivePolicy(context.Background())
	require.NoError(t, err)

	_, err = svc.UpdateRules(context.Background(), policy.UpdateRulesRequest{
		LocationRadiusMeters: ptr(500),
	})
	require.NoError(t, err)

	p, err := svc.GetActivePolicy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500, p.LocationRadiusMeters)
}

func TestUpdateRules_RejectsInvalidInput(t *testing.T) {
	repo := &fakePolicyRepo{}
	svc := newTestPolicyService(repo, time.Now())

	tests := []struct {
		name string
		req  policy.UpdateRulesRequest
	}{
		{"latitude out of range", policy.UpdateRulesRequest{OfficeLatitude: ptr(95.0)}},
		{"longitude out of range", policy.UpdateRulesRequest{OfficeLongitude: ptr(-200.0)}},
		{"zero radius", policy.UpdateRulesRequest{LocationRadiusMeters: ptr(0)}},
		{"bad time format", policy.UpdateRulesRequest{CheckInTime: ptr("9 o'clock")}},
		{"negative threshold", policy.UpdateRulesRequest{LateThresholdMinutes: ptr(-5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateRules(context.Background(), tt.req)
			assert.Error(t, err)
			assert.Equal(t, 0, repo.saveCalls)
		})
	}
}
