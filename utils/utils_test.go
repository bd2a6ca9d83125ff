package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketID(t *testing.T) {
	id := TicketID("evt-abcdef123456", "u-78901234", 1751234567890)
	assert.Equal(t, "EVNT-123456-901234-567890", id)
}

func TestTicketIDShortInputs(t *testing.T) {
	// Inputs shorter than six characters are used whole.
	id := TicketID("e1", "u2", 99)
	assert.Equal(t, "EVNT-e1-u2-99", id)
}

func TestLastN(t *testing.T) {
	assert.Equal(t, "cdef", LastN("abcdef", 4))
	assert.Equal(t, "ab", LastN("ab", 4))
	assert.Equal(t, "", LastN("", 3))
}

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(14)
	assert.Len(t, s, 14)
	for _, r := range s {
		assert.Contains(t, string(letterRunes), string(r))
	}
}
