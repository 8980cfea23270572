package grammar

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"writing_assessor/internal/cefr"
	"writing_assessor/internal/document"
)

// check returns a short excerpt of the offending text, or "" if the rule
// does not fire on the sentence.
type check func(s document.Sentence, frame timeFrame) string

type rule struct {
	id          Rule
	level       cefr.Level
	severity    float64
	description string
	hint        string
	check       check
}

var battery = []rule{
	{
		id:          RuleAgreement,
		level:       cefr.A2,
		severity:    6,
		description: "Subject-verb agreement: the verb does not match its subject",
		hint:        `Check that each verb agrees with its subject ("she likes", "they were").`,
		check:       checkAgreement,
	},
	{
		id:          RuleArticle,
		level:       cefr.A2,
		severity:    5,
		description: "Article misuse: wrong choice of a/an or a missing article",
		hint:        `Use "an" before vowel sounds and "a" before consonant sounds, and put an article before singular countable nouns.`,
		check:       checkArticle,
	},
	{
		id:          RuleRepeatedWord,
		level:       cefr.A2,
		severity:    4,
		description: "Repeated word",
		hint:        "Proofread for words accidentally written twice.",
		check:       checkRepeatedWord,
	},
	{
		id:          RuleComparative,
		level:       cefr.A2,
		severity:    5,
		description: `Double comparative: "more" or "most" combined with an -er/-est form`,
		hint:        `Use either "more"/"most" or the -er/-est ending, not both.`,
		check:       checkComparative,
	},
	{
		id:          RulePunctuation,
		level:       cefr.A1,
		severity:    3,
		description: "Punctuation misuse around sentence boundaries",
		hint:        "End every sentence with a single full stop, question mark or exclamation mark, with no space before it.",
		check:       checkPunctuation,
	},
	{
		id:          RuleCapitalization,
		level:       cefr.A1,
		severity:    3,
		description: `Capitalization: sentences and the pronoun "I" need a capital letter`,
		hint:        `Start each sentence with a capital letter and always write "I" in upper case.`,
		check:       checkCapitalization,
	},
	{
		id:          RuleTense,
		level:       cefr.B1,
		severity:    7,
		description: "Verb tense does not match the time expression",
		hint:        `Keep the verb tense consistent with time expressions such as "yesterday" or "next week".`,
		check:       checkTense,
	},
	{
		id:          RuleNegation,
		level:       cefr.B1,
		severity:    5,
		description: "Double negative",
		hint:        `Use one negative per clause ("I don't know anything").`,
		check:       checkNegation,
	},
	{
		id:          RuleRunOn,
		level:       cefr.B1,
		severity:    6,
		description: "Run-on sentence: too many clauses without punctuation",
		hint:        "Split long chains of clauses into separate sentences or separate them with punctuation.",
		check:       checkRunOn,
	},
	{
		id:          RuleSubordinate,
		level:       cefr.B2,
		severity:    8,
		description: "Subordinate clause misuse",
		hint:        `Attach clauses starting with "because" or "although" to a main clause, and do not pair "although" with "but".`,
		check:       checkSubordinate,
	},
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var (
	thirdSingular = set("he", "she", "it")
	subjects      = set("i", "we", "you", "they", "he", "she")

	// Forms that are identical in the past (read, put, cut, ...) are left out.
	baseVerbs = set(
		"like", "love", "hate", "want", "need", "have", "do", "go", "come", "eat",
		"drink", "live", "work", "play", "think", "know", "make", "take", "see",
		"say", "get", "give", "find", "tell", "become", "leave", "begin", "buy",
		"teach", "learn", "use", "help", "start", "stop", "watch", "study", "walk",
		"talk", "write", "speak", "sleep", "try", "feel", "look", "seem", "enjoy",
		"cook", "visit", "finish", "wash", "prefer", "understand", "believe",
		"mean", "remember", "forget", "agree", "travel", "listen",
	)

	// Words after which a bare verb is grammatical ("does she like",
	// "let it go").
	licensors = set(
		"do", "does", "did", "can", "could", "will", "would", "shall", "should",
		"may", "might", "must", "cannot", "let", "make", "made", "makes", "help",
		"helps", "helped", "see", "saw", "watch", "watched", "hear", "heard",
	)

	wrongBe = set(
		"i is", "i are", "i has", "i does",
		"you is", "you was", "you has", "you does",
		"we is", "we was", "we has", "we does",
		"they is", "they was", "they has", "they does",
		"he are", "she are", "it are",
		"he don't", "she don't", "it don't",
	)

	irregularPast = set(
		"went", "ate", "saw", "was", "were", "did", "had", "came", "bought", "made",
		"took", "got", "gave", "found", "told", "left", "began", "taught",
		"thought", "knew", "wrote", "spoke", "slept", "drank", "felt", "met",
		"sat", "stood",
	)

	silentH           = []string{"hour", "honest", "honour", "honor", "heir"}
	consonantSoundPre = []string{"one", "once", "uni", "use", "usu", "uti", "eu"}

	takesArticle = set("have", "has", "had", "is", "was", "buy", "bought", "got", "need", "needs", "want", "wants")
	countable    = set(
		"car", "dog", "cat", "house", "book", "job", "problem", "computer", "bike",
		"phone", "brother", "sister", "friend", "question", "teacher", "student",
		"doctor", "ticket", "pen", "garden", "idea",
	)

	allowedRepeats = set("had", "that")

	comparatives = set(
		"better", "worse", "bigger", "smaller", "taller", "faster", "slower",
		"easier", "harder", "happier", "cheaper", "older", "younger", "higher",
		"lower", "larger", "longer", "shorter", "stronger", "weaker", "richer",
		"poorer", "simpler", "nicer", "best", "worst", "biggest", "smallest",
		"easiest", "happiest", "cheapest", "oldest", "youngest", "highest",
		"largest", "longest", "strongest", "simplest",
	)

	negativeFollowers = set("nothing", "nobody", "none", "nowhere", "no", "never", "neither")

	coordinators     = set("and", "but", "or", "so")
	fragmentStarters = set("because", "although", "though", "whereas", "since", "unless", "while")

	periods = set(
		"week", "month", "year", "night", "weekend", "summer", "winter", "spring",
		"autumn", "time", "monday", "tuesday", "wednesday", "thursday", "friday",
		"saturday", "sunday",
	)

	doubledMark  = regexp.MustCompile(`[,;:]\s*[,;:]|[.!?]{2,}`)
	spacedMark   = regexp.MustCompile(`\s+[,;:.!?]`)
	commaSubject = regexp.MustCompile(`(?i),\s*(?:i|you|he|she|it|we|they)\b`)
)

const (
	runOnClauses = 5
	runOnTokens  = 45
)

func excerpt(words []string, from, n int) string {
	end := min(len(words), from+n)
	return strings.Join(words[from:end], " ")
}

func checkAgreement(s document.Sentence, _ timeFrame) string {
	w := s.Lower
	for i := 0; i+1 < len(w); i++ {
		pair := w[i] + " " + w[i+1]
		if wrongBe[pair] {
			return pair
		}
		if !thirdSingular[w[i]] || !baseVerbs[w[i+1]] {
			continue
		}
		if i > 0 && (licensors[w[i-1]] || strings.HasSuffix(w[i-1], "n't")) {
			continue
		}
		return pair
	}
	return ""
}

func vowelSound(word string) bool {
	for _, p := range silentH {
		if strings.HasPrefix(word, p) {
			return true
		}
	}
	for _, p := range consonantSoundPre {
		if strings.HasPrefix(word, p) {
			return false
		}
	}
	return word != "" && strings.ContainsRune("aeiou", rune(word[0]))
}

func isAcronym(token string) bool {
	return utf8.RuneCountInString(token) > 1 && strings.ToUpper(token) == token
}

func startsWithLetter(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsLetter(r)
}

func checkArticle(s document.Sentence, _ timeFrame) string {
	w := s.Lower
	for i := 0; i+1 < len(w); i++ {
		next := w[i+1]
		if !startsWithLetter(next) || isAcronym(s.Tokens[i+1]) {
			continue
		}
		switch w[i] {
		case "a":
			// "Plan A is ..." uses the letter, not the article.
			if i > 0 && s.Tokens[i] == "A" {
				continue
			}
			if vowelSound(next) {
				return "a " + next
			}
		case "an":
			if !vowelSound(next) {
				return "an " + next
			}
		}
		if takesArticle[w[i]] && countable[next] {
			return w[i] + " " + next
		}
	}
	return ""
}

func checkRepeatedWord(s document.Sentence, _ timeFrame) string {
	w := s.Lower
	for i := 0; i+1 < len(w); i++ {
		if w[i] == w[i+1] && !allowedRepeats[w[i]] && startsWithLetter(w[i]) {
			return w[i] + " " + w[i+1]
		}
	}
	return ""
}

func checkComparative(s document.Sentence, _ timeFrame) string {
	w := s.Lower
	for i := 0; i+1 < len(w); i++ {
		if (w[i] == "more" || w[i] == "most") && comparatives[w[i+1]] {
			return w[i] + " " + w[i+1]
		}
	}
	return ""
}

func checkPunctuation(s document.Sentence, _ timeFrame) string {
	if s.Terminal == "" {
		return excerpt(s.Tokens, max(0, s.Len()-3), 3)
	}
	for _, m := range doubledMark.FindAllString(s.Text, -1) {
		switch m {
		case "...", "?!", "!?":
		default:
			return m
		}
	}
	if loc := spacedMark.FindStringIndex(s.Text); loc != nil {
		return strings.TrimSpace(s.Text[max(0, loc[0]-12):loc[1]])
	}
	return ""
}

func checkCapitalization(s document.Sentence, _ timeFrame) string {
	first, _ := utf8.DecodeRuneInString(s.Tokens[0])
	if unicode.IsLower(first) {
		return s.Tokens[0]
	}
	for _, t := range s.Tokens {
		if t == "i" || strings.HasPrefix(t, "i'") {
			return t
		}
	}
	return ""
}

type timeFrame int

const (
	frameNone timeFrame = iota
	framePast
	frameFuture
)

// ownFrame reads the time expressions of one sentence. marked is false when
// the sentence has none; a sentence with both past and future expressions is
// marked but has no frame.
func ownFrame(s document.Sentence) (frame timeFrame, marked bool) {
	past, future := false, false
	for i, w := range s.Lower {
		switch w {
		case "yesterday", "ago":
			past = true
		case "tomorrow":
			future = true
		case "last", "next":
			if i+1 < len(s.Lower) && periods[s.Lower[i+1]] {
				past = past || w == "last"
				future = future || w == "next"
			}
		}
	}
	switch {
	case past && future:
		return frameNone, true
	case past:
		return framePast, true
	case future:
		return frameFuture, true
	}
	return frameNone, false
}

// timeFrames resolves the frame each sentence is read in. An unmarked
// sentence inherits the frame of the sentence directly before it.
func timeFrames(sentences []document.Sentence) []timeFrame {
	out := make([]timeFrame, len(sentences))
	carried := frameNone
	for i, s := range sentences {
		frame, marked := ownFrame(s)
		if marked {
			out[i], carried = frame, frame
			continue
		}
		out[i], carried = carried, frameNone
	}
	return out
}

func presentForm(w string) bool {
	if baseVerbs[w] || w == "has" {
		return true
	}
	switch {
	case strings.HasSuffix(w, "ies"):
		return baseVerbs[strings.TrimSuffix(w, "ies")+"y"]
	case strings.HasSuffix(w, "es") && baseVerbs[strings.TrimSuffix(w, "es")]:
		return true
	case strings.HasSuffix(w, "s"):
		return baseVerbs[strings.TrimSuffix(w, "s")]
	}
	return false
}

func pastForm(w string) bool {
	if irregularPast[w] {
		return true
	}
	return len(w) >= 5 && strings.HasSuffix(w, "ed") && !strings.HasSuffix(w, "eed")
}

func checkTense(s document.Sentence, frame timeFrame) string {
	w := s.Lower
	for i := range w {
		switch frame {
		case framePast:
			if w[i] == "will" || strings.HasSuffix(w[i], "'ll") {
				return w[i]
			}
			if i > 0 && subjects[w[i-1]] && (w[i] == "am" || presentForm(w[i])) {
				return w[i-1] + " " + w[i]
			}
		case frameFuture:
			if i > 0 && subjects[w[i-1]] && pastForm(w[i]) {
				return w[i-1] + " " + w[i]
			}
		}
	}
	return ""
}

func isNegator(w string) bool {
	return w == "not" || w == "never" || w == "cannot" || strings.HasSuffix(w, "n't")
}

func checkNegation(s document.Sentence, _ timeFrame) string {
	w := s.Lower
	for i := range w {
		if !isNegator(w[i]) {
			continue
		}
		for j := i + 1; j < len(w) && j <= i+4; j++ {
			if negativeFollowers[w[j]] {
				return excerpt(w, i, j-i+1)
			}
		}
	}
	return ""
}

func checkRunOn(s document.Sentence, _ timeFrame) string {
	clauses := 1 + len(commaSubject.FindAllStringIndex(s.Text, -1))
	for _, w := range s.Lower {
		if coordinators[w] {
			clauses++
		}
	}
	long := s.Len() > runOnTokens && strings.Count(s.Text, ",") <= 1
	if clauses >= runOnClauses || long {
		return excerpt(s.Tokens, 0, 8) + " ..."
	}
	return ""
}

func checkSubordinate(s document.Sentence, _ timeFrame) string {
	w := s.Lower
	starter := fragmentStarters[w[0]] || (w[0] == "even" && len(w) > 1 && w[1] == "though")
	if starter && !strings.Contains(s.Text, ",") && s.Terminal != "?" {
		return excerpt(s.Tokens, 0, 5)
	}
	if s.Has("despite of") {
		return "despite of"
	}
	seenAlthough := false
	for _, t := range w {
		if t == "although" {
			seenAlthough = true
		}
		if seenAlthough && t == "but" {
			return "although ... but"
		}
	}
	return ""
}
