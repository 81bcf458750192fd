package favorites

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle_AddThenRemove(t *testing.T) {
	list := Toggle(nil, "Tokyo")
	assert.Equal(t, []string{"Tokyo"}, list)

	list = Toggle(list, "Tokyo")
	assert.Empty(t, list)
}

func TestToggle_PreservesOrder(t *testing.T) {
	list := []string{"Paris", "Tokyo", "Lima"}
	assert.Equal(t, []string{"Paris", "Lima"}, Toggle(list, "Tokyo"))
	assert.Equal(t, []string{"Paris", "Tokyo", "Lima", "Oslo"}, Toggle(list, "Oslo"))
	assert.Equal(t, []string{"Paris", "Tokyo", "Lima"}, list, "input must not be modified")
}

func TestToggle_TwiceIsIdentity(t *testing.T) {
	base := []string{"Paris", "Lima"}
	for _, city := range []string{"Tokyo", "Paris", "Lima"} {
		got := Toggle(Toggle(base, city), city)
		if city == "Tokyo" {
			assert.Equal(t, base, got)
		} else {
			// Removing then re-adding moves the city to the end.
			assert.ElementsMatch(t, base, got)
		}
	}
}

func TestToggle_NeverDuplicates(t *testing.T) {
	cities := []string{"Paris", "Tokyo", "Lima", "Oslo"}
	rng := rand.New(rand.NewSource(7))
	var list []string
	for i := 0; i < 500; i++ {
		list = Toggle(list, cities[rng.Intn(len(cities))])
		assert.Equal(t, Dedupe(list), list)
	}
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"Paris"}, "Paris"))
	assert.False(t, Contains([]string{"Paris"}, "paris"))
	assert.False(t, Contains(nil, "Paris"))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"Paris", "Tokyo"}, Dedupe([]string{"Paris", "Tokyo", "Paris"}))
	assert.Empty(t, Dedupe(nil))
}
