package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelsInside(ctx context.Context) map[string]string {
	got := map[string]string{}
	pprof.ForLabels(ctx, func(key, value string) bool {
		got[key] = value
		return true
	})
	return got
}

func TestWithProfilingLabelsAttachesLabels(t *testing.T) {
	var got map[string]string
	WithProfilingLabels(context.Background(), map[string]string{
		ProfilingLabelController: "CheckoutHandler",
		ProfilingLabelTenantID:   "loja-centro",
	}, func(ctx context.Context) {
		got = labelsInside(ctx)
	})

	assert.Equal(t, "CheckoutHandler", got["controller"])
	assert.Equal(t, "loja-centro", got["tenant_id"])
}

func TestWithProfilingLabelsEmptyMapRunsPlain(t *testing.T) {
	called := false
	WithProfilingLabels(context.Background(), nil, func(ctx context.Context) {
		called = true
		assert.Empty(t, labelsInside(ctx))
	})
	require.True(t, called)
}

func TestWithProfilingLabelsDropsHighCardinalityKeys(t *testing.T) {
	var got map[string]string
	WithProfilingLabels(context.Background(), map[string]string{
		"order_id":  "0198b2fa-1111-7000-8000-000000000001",
		"operation": "place_order",
	}, func(ctx context.Context) {
		got = labelsInside(ctx)
	})

	assert.NotContains(t, got, "order_id")
	assert.Equal(t, "place_order", got["operation"])
}

func TestOperationLabels(t *testing.T) {
	labels := OperationLabels("expire_carts", map[string]string{"store": "loja-centro"})

	assert.Equal(t, "expire_carts", labels[ProfilingLabelOperation])
	assert.Equal(t, "loja-centro", labels["store"])
}

func TestSanitizeLabels(t *testing.T) {
	pairs := sanitizeLabels(map[string]string{
		"Route Name": "/api/v1/checkout",
		"":           "dropped",
		"empty":      "",
		"user_id":    "dropped",
		"long":       strings.Repeat("x", MaxLabelValueLength+20),
	})

	// Flat key-value slice, sorted by the original key
	require.Len(t, pairs, 4)
	assert.Equal(t, "route_name", pairs[0])
	assert.Equal(t, "/api/v1/checkout", pairs[1])
	assert.Equal(t, "long", pairs[2])
	assert.Len(t, pairs[3], MaxLabelValueLength)
}

func TestSanitizeLabelKey(t *testing.T) {
	cases := map[string]string{
		"Tenant ID":  "tenant_id",
		"route-name": "route_name",
		"opera@ção":  "operao",
		"ok_key9":    "ok_key9",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeLabelKey(in), in)
	}
}
