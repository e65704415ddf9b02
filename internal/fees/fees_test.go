package fees_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/tokenizedart/settlement/internal/fees"
	"github.com/tokenizedart/settlement/internal/platform/tests"
)

func TestOpen_Defaults(t *testing.T) {
	ctx := context.Background()
	test := &tests.Test{}
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("Failed to set up test : %s", err)
	}
	defer test.Close(ctx)

	if got := test.Fees.Bps(); got != fees.DefaultBps {
		t.Errorf("default bps : got %d, want %d", got, fees.DefaultBps)
	}
	if !test.Fees.Treasury().Equal(test.Treasury) {
		t.Errorf("treasury : got %s, want %s", test.Fees.Treasury(), test.Treasury)
	}
}

func TestUpdatePlatformFee(t *testing.T) {
	ctx := context.Background()
	test := &tests.Test{}
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("Failed to set up test : %s", err)
	}
	defer test.Close(ctx)

	t.Run("non admin rejected", func(t *testing.T) {
		err := test.Fees.UpdatePlatformFee(ctx, test.Creator, 100, 200)
		if errors.Cause(err) != fees.ErrUnauthorized {
			t.Errorf("got %v, want %v", err, fees.ErrUnauthorized)
		}
	})

	t.Run("at the cap", func(t *testing.T) {
		if err := test.Fees.UpdatePlatformFee(ctx, test.Admin, fees.MaxBps, 200); err != nil {
			t.Fatalf("Failed to update fee : %s", err)
		}
		if got := test.Fees.Bps(); got != fees.MaxBps {
			t.Errorf("bps : got %d, want %d", got, fees.MaxBps)
		}
	})

	t.Run("over the cap", func(t *testing.T) {
		err := test.Fees.UpdatePlatformFee(ctx, test.Admin, fees.MaxBps+1, 300)
		if errors.Cause(err) != fees.ErrFeeTooHigh {
			t.Errorf("got %v, want %v", err, fees.ErrFeeTooHigh)
		}
		if got := test.Fees.Bps(); got != fees.MaxBps {
			t.Errorf("bps after rejected update : got %d, want %d", got, fees.MaxBps)
		}
	})

	t.Run("zero allowed", func(t *testing.T) {
		if err := test.Fees.UpdatePlatformFee(ctx, test.Admin, 0, 400); err != nil {
			t.Fatalf("Failed to update fee : %s", err)
		}
		if got := test.Fees.Bps(); got != 0 {
			t.Errorf("bps : got %d, want 0", got)
		}
	})
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	test := &tests.Test{}
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("Failed to set up test : %s", err)
	}
	defer test.Close(ctx)

	if err := test.Fees.UpdatePlatformFee(ctx, test.Admin, 600, 200); err != nil {
		t.Fatalf("Failed to update fee : %s", err)
	}

	reopened, err := fees.Open(ctx, test.DB, test.Journal, test.Admin, test.Treasury)
	if err != nil {
		t.Fatalf("Failed to reopen fee admin : %s", err)
	}

	if got := reopened.Bps(); got != 600 {
		t.Errorf("bps after reopen : got %d, want 600", got)
	}
}
