package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-signing-secret-0123456789"

func newTestIssuer() *Issuer {
	return NewIssuer(testSecret, 3*time.Second, time.Hour)
}

func TestVerify_AgeWindow(t *testing.T) {
	issuer := newTestIssuer()
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tok, err := issuer.Issue(issued)
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		wantOK  bool
		wantAge time.Duration
	}{
		{"too fast", issued.Add(2 * time.Second), false, 0},
		{"lower bound", issued.Add(3 * time.Second), true, 3 * time.Second},
		{"mid window", issued.Add(10 * time.Minute), true, 10 * time.Minute},
		{"upper bound", issued.Add(time.Hour), true, time.Hour},
		{"too old", issued.Add(time.Hour + time.Second), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			age, ok := issuer.Verify(tok, tt.now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantAge, age)
			}
		})
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	issuer := newTestIssuer()
	issued := time.Now()

	tok, err := issuer.Issue(issued)
	require.NoError(t, err)

	// Flip one byte at every position; none may verify or panic.
	for i := 0; i < len(tok); i++ {
		mutated := []byte(tok)
		mutated[i] ^= 0x01
		_, ok := issuer.Verify(string(mutated), issued.Add(10*time.Second))
		assert.False(t, ok, "tampered token at byte %d verified", i)
	}
}

func TestVerify_MalformedInput(t *testing.T) {
	issuer := newTestIssuer()
	now := time.Now()

	for _, tok := range []string{"", "garbage", "a.b.c", "..", "eyJhbGciOiJub25lIn0.e30."} {
		_, ok := issuer.Verify(tok, now)
		assert.False(t, ok, "malformed token %q verified", tok)
	}
}

func TestVerify_KeyMismatch(t *testing.T) {
	issued := time.Now()

	tok, err := newTestIssuer().Issue(issued)
	require.NoError(t, err)

	other := NewIssuer("a-completely-different-secret-key", 3*time.Second, time.Hour)
	_, ok := other.Verify(tok, issued.Add(10*time.Second))
	assert.False(t, ok)
}
