package expansion

// abbreviations maps a short form to the phrases it should also match.
// Lookup is bidirectional: each phrase maps back to its abbreviation.
var abbreviations = map[string][]string{
	// Legal / incident jargon
	"fir":  {"first information report", "first incident report", "police report", "complaint"},
	"cctv": {"closed circuit television", "security camera", "surveillance", "camera footage"},
	"rto":  {"regional transport office", "vehicle registration", "transport office"},

	// Technical terms
	"ui":  {"user interface", "interface", "screen", "display"},
	"ux":  {"user experience", "experience", "usability"},
	"api": {"application programming interface", "interface", "endpoint"},
	"db":  {"database", "data storage", "storage"},
	"ai":  {"artificial intelligence", "machine learning", "neural", "intelligent"},
	"ml":  {"machine learning", "learning", "model", "training"},

	// Video / media terms
	"hd":  {"high definition", "1080p", "high quality", "hq"},
	"4k":  {"ultra hd", "uhd", "2160p", "ultra high definition"},
	"fps": {"frames per second", "frame rate", "framerate"},
	"vfx": {"visual effects", "cgi", "special effects"},
	"sfx": {"sound effects", "audio effects"},

	// Common shorthand
	"asap": {"as soon as possible", "urgent", "immediately", "quickly"},
	"info": {"information", "details", "data"},
	"pic":  {"picture", "photo", "image", "photograph"},
	"vid":  {"video", "clip", "footage", "recording"},
}

// synonymGroups are closed groups of interchangeable terms: any member of a
// group expands to the whole group.
var synonymGroups = [][]string{
	// Emotions
	{"happy", "joyful", "cheerful", "delighted", "pleased", "glad", "elated"},
	{"sad", "unhappy", "sorrowful", "melancholy", "depressed", "gloomy", "dejected"},
	{"angry", "furious", "enraged", "irate", "mad", "upset", "annoyed", "irritated"},
	{"scared", "afraid", "frightened", "terrified", "fearful", "nervous", "anxious"},
	{"surprised", "shocked", "amazed", "astonished", "startled", "stunned"},
	{"hesitant", "unsure", "uncertain", "tentative", "reluctant"},

	// Actions
	{"walk", "walking", "stroll", "stride", "pace"},
	{"run", "running", "sprint", "dash", "rush"},
	{"talk", "talking", "speak", "speaking", "converse", "discuss"},
	{"fight", "fighting", "battle", "combat", "conflict", "brawl"},
	{"laugh", "laughing", "laughter", "chuckle", "giggle"},

	// Scene types
	{"indoor", "inside", "interior", "indoors"},
	{"outdoor", "outside", "exterior", "outdoors"},
	{"night", "nighttime", "dark", "evening", "nocturnal"},
	{"day", "daytime", "daylight", "morning", "afternoon"},

	// People and objects
	{"person", "people", "individual", "human", "someone"},
	{"car", "vehicle", "automobile", "auto"},
	{"phone", "mobile", "cellphone", "smartphone", "telephone"},
	{"computer", "laptop", "pc", "desktop", "workstation"},

	// Documents / reports
	{"report", "document", "file", "record", "documentation"},
	{"incident", "event", "occurrence", "happening", "situation"},
	{"complaint", "grievance", "issue", "problem", "concern"},

	// Audio / visual quality
	{"clear", "crisp", "sharp"},
	{"blurry", "fuzzy", "unclear", "hazy"},
	{"loud", "noisy", "audible"},
	{"quiet", "silent", "muted", "soft", "still"},
}

// synonymMap maps each term to the full set of its group (including itself).
// abbreviationMap is the bidirectional abbreviation lookup.
var (
	synonymMap      map[string]map[string]struct{}
	abbreviationMap map[string]map[string]struct{}
)

func init() {
	synonymMap = make(map[string]map[string]struct{})
	for _, group := range synonymGroups {
		for _, term := range group {
			set := synonymMap[term]
			if set == nil {
				set = make(map[string]struct{})
				synonymMap[term] = set
			}
			for _, other := range group {
				set[other] = struct{}{}
			}
		}
	}

	abbreviationMap = make(map[string]map[string]struct{})
	add := func(key, term string) {
		set := abbreviationMap[key]
		if set == nil {
			set = make(map[string]struct{})
			abbreviationMap[key] = set
		}
		set[term] = struct{}{}
	}
	for abbr, phrases := range abbreviations {
		add(abbr, abbr)
		for _, phrase := range phrases {
			add(abbr, phrase)
			add(phrase, abbr)
			add(phrase, phrase)
		}
	}
}
