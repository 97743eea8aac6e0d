package lib

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^HS-\d{8}-[A-Z0-9]{4}$`)

	for range 50 {
		number := GenerateOrderNumber()
		require.True(t, pattern.MatchString(number), "unexpected format: %s", number)
	}
}

func TestGenerateOrderNumberContainsToday(t *testing.T) {
	number := GenerateOrderNumber()
	assert.True(t, strings.HasPrefix(number, "HS-"+time.Now().Format("20060102")+"-"))
}

func TestGenerateOrderNumberVaries(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		seen[GenerateOrderNumber()] = true
	}
	// 4 random chars over 36 symbols; identical values across 100 draws
	// would indicate a broken source.
	assert.Greater(t, len(seen), 1)
}
