package guard

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		wantOK   bool
	}{
		{"ab_1", true},
		{"abc", true},
		{"Admin_2024", true},
		{"  spaced  ", false},
		{"ab", false},
		{"a b", false},
		{"bad name!", false},
		{"héllo", false},
		{"", false},
	}

	for _, tt := range tests {
		err := ValidateUsername(tt.username)
		if tt.wantOK {
			require.NoError(t, err, "username %q", tt.username)
		} else {
			require.Error(t, err, "username %q", tt.username)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantOK   bool
	}{
		{"passw0rd!", true},
		{"Tr0ub4dor&3", true},
		{"a1!aaaaa", true},
		{"password1", false}, // no symbol
		{"password!", false}, // no digit
		{"p4ss!", false},     // too short
		{"pass w0rd!", false},
		{"passw0rdé!", false},
		{"", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if tt.wantOK {
			require.NoError(t, err, "password %q", tt.password)
		} else {
			require.Error(t, err, "password %q", tt.password)
		}
	}
}

func TestValidateExpiry(t *testing.T) {
	require.NoError(t, ValidateExpiry("24"))
	require.NoError(t, ValidateExpiry("1"))
	require.Error(t, ValidateExpiry(""))
	require.Error(t, ValidateExpiry("24h"))
	require.Error(t, ValidateExpiry(" 24"))
	require.Error(t, ValidateExpiry("-1"))
}

func TestCollectFieldErrors(t *testing.T) {
	require.Nil(t, collectFieldErrors(nil, nil))

	herr := collectFieldErrors(ValidateUsername("x"), ValidatePassword("short"))
	require.NotNil(t, herr)
	require.Contains(t, herr.Advice()[0], "username")
	require.Contains(t, herr.Advice()[0], "password")
}
