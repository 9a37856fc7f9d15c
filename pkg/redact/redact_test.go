package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLogin_Table — табличные тесты на маскирование логина.
func TestLogin_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii_long", in: "alice.writer", want: "al***"},
		{name: "len_1", in: "a", want: "***"},
		{name: "len_2", in: "ab", want: "***"},
		{name: "empty", in: "", want: "***"},
		{name: "email_like", in: "user@example.com", want: "us***"},
		{name: "unicode_runes", in: "юзер", want: "юз***"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, Login(tt.in))
		})
	}
}

// TestLiterals_TokenAndPassword — литералы для токенов/паролей неизменны.
func TestLiterals_TokenAndPassword(t *testing.T) {
	t.Parallel()

	require.Equal(t, "[REDACTED_TOKEN]", Token())
	require.Equal(t, "[REDACTED_PASSWORD]", Password())
}
