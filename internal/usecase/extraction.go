package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/xavierca1/zapvendas/internal/entity"
)

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmy name is\s+([a-zà-ÿ]+)`),
	regexp.MustCompile(`(?i)\bcall me\s+([a-zà-ÿ]+)`),
	regexp.MustCompile(`(?i)\bme llamo\s+([a-zà-ÿ]+)`),
}

// Loose introductions; "this is great" matches them too.
var tentativeNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bthis is\s+([a-zà-ÿ]+)`),
	regexp.MustCompile(`(?i)\bi['’]?m\s+([a-zà-ÿ]+)`),
	regexp.MustCompile(`(?i)\bi am\s+([a-zà-ÿ]+)`),
}

var cityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bi live in\s+([a-zà-ÿ][a-zà-ÿ .'-]*?)\s*(?:[.,!?;]|\band\b|\bbut\b|$)`),
	regexp.MustCompile(`(?i)\b(?:i['’]?m|i am) from\s+([a-zà-ÿ][a-zà-ÿ .'-]*?)\s*(?:[.,!?;]|\band\b|\bbut\b|$)`),
	regexp.MustCompile(`(?i)\b(?:located|based) in\s+([a-zà-ÿ][a-zà-ÿ .'-]*?)\s*(?:[.,!?;]|\band\b|\bbut\b|$)`),
	regexp.MustCompile(`(?i)\b(?:ship|deliver|send it) to\s+([a-zà-ÿ][a-zà-ÿ .'-]*?)\s*(?:[.,!?;]|\band\b|\bbut\b|$)`),
	regexp.MustCompile(`(?i)\bvivo en\s+([a-zà-ÿ][a-zà-ÿ .'-]*?)\s*(?:[.,!?;]|\by\b|$)`),
}

// Words that follow "I'm"/"this is" but are not names.
var nameStopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "interested": {}, "looking": {}, "just": {},
	"not": {}, "here": {}, "good": {}, "fine": {}, "ok": {}, "okay": {},
	"from": {}, "in": {}, "trying": {}, "going": {}, "asking": {}, "wondering": {},
	"sorry": {}, "sure": {}, "ready": {}, "still": {}, "also": {}, "so": {},
	"very": {}, "really": {}, "new": {}, "back": {}, "done": {}, "available": {},
	"great": {}, "happy": {}, "glad": {}, "excited": {}, "thinking": {}, "curious": {},
	"amazing": {}, "awesome": {}, "perfect": {}, "nice": {}, "cool": {}, "confused": {},
	"interesting": {}, "expensive": {}, "cheap": {}, "it": {}, "that": {}, "what": {},
	"my": {}, "your": {}, "for": {}, "with": {}, "on": {}, "at": {}, "to": {},
	"waiting": {}, "buying": {}, "ordering": {}, "calling": {}, "writing": {}, "busy": {},
	"tired": {}, "sad": {}, "well": {}, "thankful": {}, "grateful": {}, "satisfied": {},
	"unhappy": {}, "upset": {}, "disappointed": {}, "worried": {}, "afraid": {},
}

// ExtractCustomerInfo pulls a name and a city out of a free-form message.
// Fields without a match stay nil.
func ExtractCustomerInfo(message string) entity.ExtractedInfo {
	var info entity.ExtractedInfo

	if name, ok := matchName(namePatterns, message); ok {
		info.Name = &name
	} else if name, ok := matchName(tentativeNamePatterns, message); ok {
		info.Name = &name
		info.NameTentative = true
	}

	for _, re := range cityPatterns {
		m := re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		city := strings.TrimSpace(m[1])
		if city == "" {
			continue
		}
		info.City = &city
		break
	}

	return info
}

func matchName(patterns []*regexp.Regexp, message string) (string, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if _, stop := nameStopWords[strings.ToLower(candidate)]; stop || candidate == "" {
			continue
		}
		return capitalize(candidate), true
	}
	return "", false
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
