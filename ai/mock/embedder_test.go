package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_DefaultVectors(t *testing.T) {
	ctx := context.Background()
	embedder := NewMockEmbedder()

	t.Run("Deterministic", func(t *testing.T) {
		first, err := embedder.EmbedText(ctx, "volunteer signup")
		require.NoError(t, err)
		second, err := embedder.EmbedText(ctx, "volunteer signup")
		require.NoError(t, err)
		assert.Equal(t, first, second)

		other, err := embedder.EmbedText(ctx, "catering order")
		require.NoError(t, err)
		assert.NotEqual(t, first, other)
	})

	t.Run("UnitLength", func(t *testing.T) {
		vector, err := embedder.EmbedText(ctx, "volunteer signup")
		require.NoError(t, err)
		require.Len(t, vector, 384)

		var sumSquares float64
		for _, v := range vector {
			sumSquares += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, sumSquares, 0.0001)
	})

	t.Run("BatchMatchesSingle", func(t *testing.T) {
		single, err := embedder.EmbedText(ctx, "feedback survey")
		require.NoError(t, err)

		batch, err := embedder.EmbedTexts(ctx, []string{"feedback survey"})
		require.NoError(t, err)
		require.Len(t, batch, 1)
		assert.Equal(t, single, batch[0])
	})
}
