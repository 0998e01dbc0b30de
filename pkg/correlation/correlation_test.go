package correlation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureID(t *testing.T) {
	ctx := EnsureID(context.Background())
	id := FromContext(ctx)
	assert.NotEmpty(t, id)

	assert.Equal(t, id, FromContext(EnsureID(ctx)), "existing id must be kept")
	assert.Empty(t, FromContext(context.Background()))
}
