package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLabel(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantLabel int32
		wantRest  string
		wantErr   bool
	}{
		{"NoLabel", "1 0.5 7 0.25", Unlabeled, "1 0.5 7 0.25", false},
		{"Labeled", "label:3 1 0.5 7 0.25", 3, "1 0.5 7 0.25", false},
		{"Negative", "label:-1 1 0.5", -1, "1 0.5", false},
		{"LabelOnly", "label:42", 42, "", false},
		{"Malformed", "label:abc 1 0.5", Unlabeled, "", true},
		{"Empty", "", Unlabeled, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, rest, err := ExtractLabel(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, label)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestNormalizePunct(t *testing.T) {
	assert.Equal(t, "1 0.5 7 0.25", NormalizePunct("1:0.5,7:0.25"))
	assert.Equal(t, "plain text", NormalizePunct("plain text"))
	assert.Equal(t, "", NormalizePunct(""))
}

func TestObject(t *testing.T) {
	o := New(7, Unlabeled, []byte{1, 2, 3, 4})
	assert.Equal(t, int32(7), o.ID)
	assert.Equal(t, Unlabeled, o.Label)
	assert.Equal(t, 4, o.DataLength())
	assert.Contains(t, o.String(), "id=7")
}
