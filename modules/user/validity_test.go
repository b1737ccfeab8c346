package user_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakubmanczak/quote-engine/modules/user"
)

func TestValidateHandle(t *testing.T) {
	t.Parallel()

	t.Run("accepts valid handles", func(t *testing.T) {
		t.Parallel()

		for _, handle := range []string{"a.b-c_d", "abc", "JohnDoe", "j0hn_d03", strings.Repeat("a", 24)} {
			assert.NoError(t, user.ValidateHandle(handle), "handle %q", handle)
		}
	})

	t.Run("rejects invalid handles with the specific error", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			handle string
			want   error
		}{
			{"ab", user.ErrHandleLength},
			{strings.Repeat("a", 25), user.ErrHandleLength},
			{"", user.ErrHandleLength},
			{"-abc", user.ErrHandleLeadTrailSpecialChars},
			{"abc-", user.ErrHandleLeadTrailSpecialChars},
			{".abc", user.ErrHandleLeadTrailSpecialChars},
			{"ab--cd", user.ErrHandleConsecutiveSpecials},
			{"a._b", user.ErrHandleConsecutiveSpecials},
			{"ab cd", user.ErrHandleInvalidChars},
			{"ab/cd", user.ErrHandleInvalidChars},
			{"żółw", user.ErrHandleInvalidChars},
		}
		for _, tc := range cases {
			require.ErrorIs(t, user.ValidateHandle(tc.handle), tc.want, "handle %q", tc.handle)
		}
	})
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	assert.NoError(t, user.ValidatePassword("12345678"))
	assert.NoError(t, user.ValidatePassword(strings.Repeat("x", 96)))
	assert.ErrorIs(t, user.ValidatePassword("1234567"), user.ErrPasswordLength)
	assert.ErrorIs(t, user.ValidatePassword(strings.Repeat("x", 97)), user.ErrPasswordLength)
}
