package services

import (
	"context"
	"testing"
	"time"

	domain "github.com/lakeview-kitchen/ordering-api/internal/domain"
	"github.com/lakeview-kitchen/ordering-api/internal/repositories"
)

type stubHealthRepository struct {
	report domain.SystemHealthReport
	err    error
}

func (s *stubHealthRepository) Collect(ctx context.Context) (domain.SystemHealthReport, error) {
	if s.err != nil {
		return domain.SystemHealthReport{}, s.err
	}
	return s.report, nil
}

var _ repositories.HealthRepository = (*stubHealthRepository)(nil)

func TestNewSystemServiceRequiresHealthRepository(t *testing.T) {
	if _, err := NewSystemService(SystemServiceDeps{}); err == nil {
		t.Fatalf("expected error when health repository missing")
	}
}

func TestSystemServiceHealthReport(t *testing.T) {
	started := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	now := started.Add(90 * time.Minute)

	svc, err := NewSystemService(SystemServiceDeps{
		HealthRepository: &stubHealthRepository{
			report: domain.SystemHealthReport{
				Status: domain.HealthStatusOK,
				Checks: map[string]domain.SystemHealthCheck{
					"square": {Status: domain.HealthStatusOK},
					"cache":  {Status: domain.HealthStatusOK},
				},
			},
		},
		Clock: func() time.Time { return now },
		Build: BuildInfo{Version: "1.4.0", Environment: "production", StartedAt: started},
	})
	if err != nil {
		t.Fatalf("NewSystemService: %v", err)
	}

	report, err := svc.HealthReport(context.Background())
	if err != nil {
		t.Fatalf("HealthReport: %v", err)
	}
	if report.Status != domain.HealthStatusOK {
		t.Fatalf("status = %s", report.Status)
	}
	if report.Version != "1.4.0" || report.Environment != "production" {
		t.Fatalf("build metadata missing: %+v", report)
	}
	if report.Uptime != 90*time.Minute {
		t.Fatalf("uptime = %v, want 90m", report.Uptime)
	}
	if report.GeneratedAt.IsZero() {
		t.Fatalf("generated at not stamped")
	}
}
