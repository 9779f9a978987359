package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"yes word", "YES\n", true},
		{"no", "n\n", false},
		{"empty answer", "\n", false},
		{"eof", "", false},
		{"anything else", "maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Confirm(context.Background(), "Replace the active list?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Replace the active list? [y/N]")
		})
	}
}

func TestPrompter_Progress(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader(""), &out)

	bar := p.Progress(3, "Importing offers")
	for i := 0; i < 3; i++ {
		require.NoError(t, bar.Add(1))
	}
	assert.True(t, bar.IsFinished())
	assert.Contains(t, out.String(), "Importing offers")
}
