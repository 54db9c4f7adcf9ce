package scoring

// 머신 점수에 붙는 고정 사유 목록
var rationales = []string{
	"Great color combination!",
	"Trendy style and fit.",
	"Classic look with modern touches.",
	"Unique accessories enhance the outfit.",
	"Bold fashion choice!",
	"Needs more color contrast.",
	"Try adding some accessories.",
	"Consider a different pattern or texture.",
	"Outfit could use more layering.",
	"Simple and elegant!",
}

var rationaleSet = func() map[string]bool {
	set := make(map[string]bool, len(rationales))
	for _, r := range rationales {
		set[r] = true
	}
	return set
}()

// Rationales returns a copy of the rationale vocabulary.
func Rationales() []string {
	out := make([]string, len(rationales))
	copy(out, rationales)
	return out
}

func IsRationale(reason string) bool {
	return rationaleSet[reason]
}
