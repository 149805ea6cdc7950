package chat

import (
	"strings"
	"unicode"

	"github.com/bengkelhub/bengkel-booking/internal/config"
)

// minPrefixLen is the shortest keyword that also matches longer words
// ("servis" matches "servisnya"). Shorter keywords must match a whole word.
const minPrefixLen = 4

// Responder picks canned replies by keyword. Rules are tried in order and
// the first rule with a matching keyword wins.
type Responder struct {
	rules        []config.ChatRule
	defaultReply string
}

func NewResponder(cfg config.ChatConfig) *Responder {
	rules := make([]config.ChatRule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kws = append(kws, k)
			}
		}
		if len(kws) > 0 && r.Reply != "" {
			rules = append(rules, config.ChatRule{Keywords: kws, Reply: r.Reply})
		}
	}
	return &Responder{rules: rules, defaultReply: cfg.DefaultReply}
}

// Reply returns the auto-reply for msg, or the default reply. An empty
// result means no auto-reply is configured.
func (r *Responder) Reply(msg string) string {
	words := tokenize(msg)
	for _, rule := range r.rules {
		for _, kw := range rule.Keywords {
			if matches(words, kw) {
				return rule.Reply
			}
		}
	}
	return r.defaultReply
}

func matches(words []string, kw string) bool {
	for _, w := range words {
		if w == kw || (len(kw) >= minPrefixLen && strings.HasPrefix(w, kw)) {
			return true
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
