package app

import (
	"strings"

	"courtside-quiz/internal/domain"
)

// schoolAbbreviations maps common short forms to the school name they stand for.
var schoolAbbreviations = map[string]string{
	"uconn":   "connecticut",
	"k state": "kansas state",
	"kstate":  "kansas state",
	"ksu":     "kansas state",
	"vt":      "virginia tech",
	"ku":      "kansas",
	"uk":      "kentucky",
	"unlv":    "nevada las vegas",
	"usc":     "southern california",
	"fsu":     "florida state",
	"osu":     "ohio state",
	"asu":     "arizona state",
	"lsu":     "louisiana state",
	"tcu":     "texas christian",
	"smu":     "southern methodist",
	"byu":     "brigham young",
	"ucf":     "central florida",
	"vcu":     "virginia commonwealth",
	"ucla":    "california los angeles",
	"ucsb":    "california santa barbara",
	"unc":     "north carolina",
	"uva":     "virginia",
	"psu":     "penn state",
	"msu":     "michigan state",
	"iu":      "indiana",
	"ttu":     "texas tech",
	"wvu":     "west virginia",
	"uga":     "georgia",
	"uf":      "florida",
	"ut":      "texas",
	"ou":      "oklahoma",
	"gw":      "george washington",
	"gmu":     "george mason",
	"sju":     "st johns",
	"bc":      "boston college",
	"nd":      "notre dame",
	"gt":      "georgia tech",
}

var punctuation = strings.NewReplacer(".", "", "-", " ", "'", "")

// normalizeAnswer lower-cases, drops punctuation and collapses whitespace.
func normalizeAnswer(raw string) string {
	s := punctuation.Replace(strings.ToLower(strings.TrimSpace(raw)))
	return strings.Join(strings.Fields(s), " ")
}

func expand(s string) string {
	if full, ok := schoolAbbreviations[s]; ok {
		return full
	}
	return s
}

// MatchAnswer reports whether chosen names the player's origin. Case and
// surrounding whitespace never matter; known school abbreviations and the
// player's alternate answer are accepted too.
func MatchAnswer(chosen string, p domain.Player) bool {
	got := normalizeAnswer(chosen)
	if got == "" {
		return false
	}
	for _, candidate := range []string{p.Origin, p.AlternateAnswer} {
		want := normalizeAnswer(candidate)
		if want == "" {
			continue
		}
		if got == want || expand(got) == expand(want) {
			return true
		}
		if p.Type == domain.OriginCollege && collegeKey(got) == collegeKey(want) {
			return true
		}
	}
	return false
}

// collegeKey drops a leading "university of" so both spellings of a school compare equal.
func collegeKey(s string) string {
	return expand(strings.TrimPrefix(s, "university of "))
}

// answerDisplay is the correct answer as shown to the player.
func answerDisplay(p domain.Player) string {
	if p.AlternateAnswer != "" {
		return p.Origin + " or " + p.AlternateAnswer
	}
	return p.Origin
}
