package translation_engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinguaDetector(t *testing.T) {
	d := NewLinguaDetector(0)
	ctx := context.Background()

	tests := []struct {
		text string
		want string
	}{
		{text: "The quick brown fox jumps over the lazy dog while the children watch.", want: "english"},
		{text: "Bonjour à tous, nous sommes très heureux de vous présenter ce document.", want: "french"},
		{text: "مرحبا بكم جميعا في هذا المستند الذي يشرح كيفية استخدام الخدمة", want: "arabic"},
	}
	for _, tt := range tests {
		got, err := d.Detect(ctx, tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := d.Detect(ctx, "   ")
	assert.Error(t, err)
}
