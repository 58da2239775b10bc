package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplyDisplayName(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane.doe@example.com", "Jane.doe"},
		{"bob@example.com", "Bob"},
		{"x@example.com", "X"},
		{"@example.com", "there"},
		{"", "there"},
	}

	for _, tt := range tests {
		r := Reply{FromEmail: tt.email}
		require.Equal(t, tt.want, r.DisplayName(), "email=%q", tt.email)
	}
}
