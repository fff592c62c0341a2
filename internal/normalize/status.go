package normalize

// CouldNotReach is the single label every could-not-reach wording collapses to.
const CouldNotReach = "Could not reach"

// couldNotReachFamily holds the folded wordings operators use for an
// unsuccessful call-back, in both worksheet languages.
var couldNotReachFamily = foldSet(
	"NO ANSWER (BUSY)",
	"Application closed (could not reach)",
	"Medical worker application",
	"Open card",
	"Could not reach",
	"НЕТ ОТВЕТА (ЗАНЯТО)",
	"Заявка закрыта (не дозвонились)",
	"Заявка медработника",
	"Открытая карточка",
	"Не дозвонились",
)

func foldSet(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[Fold(v)] = struct{}{}
	}
	return m
}

// Status canonicalizes an operator contact status. The could-not-reach family
// maps to CouldNotReach; anything else is returned trimmed.
func Status(s string) string {
	s = Clean(s)
	if s == "" {
		return ""
	}
	if _, ok := couldNotReachFamily[Fold(s)]; ok {
		return CouldNotReach
	}
	return s
}
