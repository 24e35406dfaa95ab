package fusion

// Categories is the canonical emotion category order. Argmax ties are broken
// by this order, so label selection is stable across runs.
var Categories = []string{
	"neutral", "joy", "sadness", "anger", "fear",
	"disgust", "surprise", "analytical", "thoughtful",
}

// emotionVocabulary maps each category to transcript keywords and filename
// hints. Filename hints score higher than transcript keywords because file
// naming is a deliberate editorial signal. Includes common Hindi and Tamil
// transliterations seen in multilingual dailies.
var emotionVocabulary = map[string]struct {
	keywords      []string
	filenameHints []string
}{
	"joy": {
		keywords: []string{
			"happy", "wonderful", "great", "excellent", "love", "excited", "wow",
			"amazing", "perfect", "laugh", "funny", "smile", "celebrate", "cheer",
			"wrap", "brilliant", "fantastic", "awesome", "haha", "khush", "mazaa",
			"badhiya", "magizhchi",
		},
		filenameHints: []string{"happy", "joy", "funny", "comedy", "laugh", "celebration", "party"},
	},
	"sadness": {
		keywords: []string{
			"sad", "terrible", "unhappy", "cry", "regret", "lost", "broken",
			"sorrow", "miss", "alone", "tear", "grief", "mourn", "depressed",
			"painful", "hurt", "dukh", "dard", "udaas", "sogam",
		},
		filenameHints: []string{"sad", "cry", "emotional", "tragic", "drama", "tears", "grief"},
	},
	"anger": {
		keywords: []string{
			"angry", "mad", "hate", "furious", "annoyed", "frustrated", "yell",
			"aggressive", "rage", "fight", "conflict", "argue", "shout", "damn",
			"gussa", "naraaz", "kobam",
		},
		filenameHints: []string{"angry", "rage", "fight", "conflict", "tense", "intense", "action"},
	},
	"fear": {
		keywords: []string{
			"scared", "afraid", "danger", "threat", "risk", "panic", "worry",
			"fear", "compromised", "horror", "terror", "creepy", "haunted",
			"nervous", "anxious", "darr", "payam", "bhayam",
		},
		filenameHints: []string{"scary", "horror", "fear", "dark", "thriller", "suspense"},
	},
	"disgust": {
		keywords: []string{
			"gross", "disgusting", "sick", "revolt", "nasty", "vile",
			"appalling", "yuck", "awful", "ghinauna", "veruppu",
		},
		filenameHints: []string{"disgust", "gross", "weird"},
	},
	"surprise": {
		keywords: []string{
			"whoa", "surprise", "sudden", "unexpected", "shook", "flash",
			"instant", "shock", "unbelievable", "omg", "achanak", "hairaan",
			"athirchi",
		},
		filenameHints: []string{"surprise", "shock", "reveal", "twist", "unexpected"},
	},
	"analytical": {
		keywords: []string{
			"monitor", "system", "data", "analysis", "technical", "calibrate",
			"status", "report", "coordinate", "verify", "screen", "code",
			"debug", "demo", "jaanch", "parikshan",
		},
		filenameHints: []string{"screen", "recording", "tutorial", "demo", "tech", "code", "debug"},
	},
	"thoughtful": {
		keywords: []string{
			"pensive", "contemplating", "considering", "listening", "hmm",
			"think", "thought", "maybe", "perhaps", "wonder", "curious",
			"sochna", "vichar", "yosidhai",
		},
		filenameHints: []string{"interview", "talk", "discuss", "conversation", "review"},
	},
}

// fallbackPool is rotated through when no signal scored at all. Selection is
// keyed by a stable fingerprint of the filename (sum of byte values mod pool
// size), never a random draw, so reruns reproduce the same label.
var fallbackPool = []string{"thoughtful", "joy", "analytical", "surprise", "sadness", "anger"}
