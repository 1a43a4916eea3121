package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/tefcha/lib/log"
)

func TestWithDefault(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.False(t, log.Has(ctx))

	ctx = log.WithDefault(ctx)
	assert.True(t, log.Has(ctx))

	tbCtx := log.WithTB(context.Background(), t, nil)
	assert.True(t, tbCtx == log.WithDefault(tbCtx))
}
