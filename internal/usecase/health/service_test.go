package health

import (
	"context"
	"errors"
	"testing"
)

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

type mockEmbeddingChecker struct {
	err error
}

func (m *mockEmbeddingChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockEmbeddingChecker{})

	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("expected healthy, got %q", report.Status)
	}
	if report.Checks["database"] != CheckOK {
		t.Errorf("expected database ok, got %q", report.Checks["database"])
	}
	if report.Checks["embedding"] != CheckOK {
		t.Errorf("expected embedding ok, got %q", report.Checks["embedding"])
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockDBPinger{err: errors.New("connection refused")}, &mockEmbeddingChecker{})

	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("expected degraded, got %q", report.Status)
	}
	if report.Checks["database"] != CheckError {
		t.Errorf("expected database error, got %q", report.Checks["database"])
	}
}

func TestCheck_EmbeddingError(t *testing.T) {
	svc := New(&mockDBPinger{}, &mockEmbeddingChecker{err: errors.New("timeout")})

	report := svc.Check(context.Background())

	if report.Status != Degraded {
		t.Errorf("expected degraded, got %q", report.Status)
	}
	if report.Checks["embedding"] != CheckError {
		t.Errorf("expected embedding error, got %q", report.Checks["embedding"])
	}
}

func TestCheck_NoEmbeddingConfigured(t *testing.T) {
	svc := New(&mockDBPinger{}, nil)

	report := svc.Check(context.Background())

	if report.Status != Healthy {
		t.Errorf("expected healthy, got %q", report.Status)
	}
	if _, ok := report.Checks["embedding"]; ok {
		t.Error("expected no embedding check when none is configured")
	}
}
