package usecase

import (
	"errors"
	"testing"

	"hospitality-booking/internal/data/entity"
)

func TestCommissionService(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rate, err := env.commission.ActiveRate(t.Context())
	if err != nil {
		t.Fatalf("ActiveRate() error = %v", err)
	}
	if rate != entity.RateFromPercent(10) {
		t.Fatalf("default rate = %v, want 10%%", rate.Percent())
	}

	config, err := env.commission.SetActiveRate(t.Context(), 12.5)
	if err != nil {
		t.Fatalf("SetActiveRate() error = %v", err)
	}
	if !config.IsActive || config.Rate != 1250 {
		t.Fatalf("config = %+v, want active 12.5%%", config)
	}

	rate, err = env.commission.ActiveRate(t.Context())
	if err != nil {
		t.Fatalf("ActiveRate() error = %v", err)
	}
	if rate != 1250 {
		t.Fatalf("active rate = %v, want 12.5%%", rate.Percent())
	}

	for _, percent := range []float64{-1, 100.01, 250} {
		if _, err := env.commission.SetActiveRate(t.Context(), percent); !errors.Is(err, ErrValidation) {
			t.Fatalf("SetActiveRate(%v) error = %v, want ErrValidation", percent, err)
		}
	}
	if rate, _ := env.commission.ActiveRate(t.Context()); rate != 1250 {
		t.Fatalf("rejected updates changed the rate to %v", rate.Percent())
	}
}
