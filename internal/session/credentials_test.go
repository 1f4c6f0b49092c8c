package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCredentials(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"sk-1", []string{"sk-1"}},
		{" sk-1 ,sk-2,, sk-3 ", []string{"sk-1", "sk-2", "sk-3"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCredentials(tt.raw), tt.raw)
	}
}

func TestSelectCredential(t *testing.T) {
	keys := []string{"sk-1", "sk-2"}
	assert.Equal(t, "sk-2", SelectCredential(keys, "sk-2"))
	assert.Equal(t, "sk-1", SelectCredential(keys, "sk-9"), "falls back to the first key")
	assert.Equal(t, "sk-1", SelectCredential(keys, ""))
	assert.Equal(t, "", SelectCredential(nil, "sk-1"))
}

func TestMaskCredential(t *testing.T) {
	assert.Equal(t, "••••••••cdef", MaskCredential("sk-abcdef"))
	assert.Equal(t, "•••", MaskCredential("abc"))
}
