package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaroIdentical(t *testing.T) {
	assert.Equal(t, 1.0, Jaro("build", "build"))
	assert.Equal(t, 1.0, JaroWinkler("build", "build"))
}

func TestJaroEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Jaro("", "build"))
	assert.Equal(t, 0.0, Jaro("build", ""))
}

func TestJaroNoMatches(t *testing.T) {
	assert.Equal(t, 0.0, Jaro("abc", "xyz"))
}

func TestJaroClassicPair(t *testing.T) {
	// Known reference value for the MARTHA/MARHTA pair.
	assert.InDelta(t, 0.944, Jaro("MARTHA", "MARHTA"), 0.001)
	assert.InDelta(t, 0.961, JaroWinkler("MARTHA", "MARHTA"), 0.001)
}

func TestJaroWinklerTransposedTaskName(t *testing.T) {
	score := JaroWinkler("biuld", "build")
	assert.GreaterOrEqual(t, score, SuggestionThreshold)
}

func TestJaroWinklerPrefixCap(t *testing.T) {
	// Long shared prefix must not boost past four characters.
	withCap := JaroWinkler("deploy-staging", "deploy-prod")
	jaro := Jaro("deploy-staging", "deploy-prod")
	assert.InDelta(t, jaro+4*0.1*(1-jaro), withCap, 1e-9)
}

func TestSuggestTaskName(t *testing.T) {
	candidates := []string{"build", "test"}

	assert.Equal(t, "build", SuggestTaskName("biuld", candidates))
	assert.Equal(t, "test", SuggestTaskName("tets", candidates))
	assert.Equal(t, "", SuggestTaskName("totally-unrelated", candidates))
}

func TestSuggestTaskNameCaseSensitive(t *testing.T) {
	// Full-string, case-sensitive comparison: a case flip costs score.
	upper := JaroWinkler("BUILD", "build")
	assert.Less(t, upper, 1.0)
}

func TestSuggestTaskNameNoCandidates(t *testing.T) {
	assert.Equal(t, "", SuggestTaskName("build", nil))
}
