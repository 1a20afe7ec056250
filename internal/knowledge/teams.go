package knowledge

import (
	"strings"

	"github.com/ppiankov/corefer/internal/model"
)

// DefaultTeams are the single-word sports team names known to clash
func DefaultTeams() []string {
	return []string{
		"49ers", "bears", "bengals", "bills", "broncos", "browns", "buccaneers", "cardinals",
		"chargers", "chiefs", "colts", "cowboys", "dolphins", "eagles", "falcons", "giants",
		"jaguars", "jets", "lions", "packers", "panthers", "patriots", "raiders", "rams",
		"ravens", "redskins", "saints", "seahawks", "steelers", "titans", "texans", "vikings",
	}
}

// Surface is the part of a mention the world-knowledge checks look at
type Surface struct {
	Type       model.MentionType
	EntityType model.EntityType
	Words      []string
}

// TeamID returns the team a mention names. Only single-word GPE or ORG
// names can name a team.
func (k *Knowledge) TeamID(s Surface) (string, bool) {
	if s.Type != model.MentionName || len(s.Words) != 1 {
		return "", false
	}
	if s.EntityType != model.EntityGPE && s.EntityType != model.EntityOrganization {
		return "", false
	}
	word := strings.ToLower(s.Words[0])
	if _, ok := k.teams[word]; !ok {
		return "", false
	}
	return word, true
}

// TeamClash reports whether the mention names a team and any member of
// the candidate entity names a different one
func (k *Knowledge) TeamClash(m Surface, members []Surface) bool {
	team, ok := k.TeamID(m)
	if !ok {
		return false
	}
	for _, other := range members {
		if otherTeam, ok := k.TeamID(other); ok && otherTeam != team {
			return true
		}
	}
	return false
}
