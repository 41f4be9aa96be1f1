package textproc

// defaultStopwords is a standard english stopword list plus reporting verbs
// that carry no weight in narrative or contractual prose.
var defaultStopwords = []string{
	"a", "about", "above", "after", "again", "against", "ain", "all", "am",
	"an", "and", "any", "are", "aren", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can",
	"couldn", "d", "did", "didn", "do", "does", "doesn", "doing", "don",
	"down", "during", "each", "few", "for", "from", "further", "had", "hadn",
	"has", "hasn", "have", "haven", "having", "he", "her", "here", "hers",
	"herself", "him", "himself", "his", "how", "i", "if", "in", "into", "is",
	"isn", "it", "its", "itself", "just", "ll", "m", "ma", "me", "mightn",
	"more", "most", "mustn", "my", "myself", "needn", "no", "nor", "not",
	"now", "o", "of", "off", "on", "once", "only", "or", "other", "our",
	"ours", "ourselves", "out", "over", "own", "re", "s", "same", "shan",
	"she", "should", "shouldn", "so", "some", "such", "t", "than", "that",
	"the", "their", "theirs", "them", "themselves", "then", "there", "these",
	"they", "this", "those", "through", "to", "too", "under", "until", "up",
	"ve", "very", "was", "wasn", "we", "were", "weren", "what", "when",
	"where", "which", "while", "who", "whom", "why", "will", "with", "won",
	"wouldn", "y", "you", "your", "yours", "yourself", "yourselves",

	// reporting verbs
	"said", "say", "says", "telling", "told", "came", "come", "went", "go",
}

// defaultPreserveTerms are domain terms kept verbatim so stemming never
// collapses them into unrelated words.
var defaultPreserveTerms = []string{
	// business and legal vocabulary
	"liability", "contract", "agreement", "clause", "indemnification",
	"revenue", "financial", "security", "authentication", "compliance",
	"risk", "legal", "obligation", "breach", "damages",

	// scripture vocabulary for the built-in narrative corpus
	"lord", "god", "nephi", "faith", "righteousness", "commandment",
	"prayer", "spirit", "prophet", "scripture", "revelation",
}

// defaultSynonyms maps query terms to expansion candidates. Only the first
// entry of each list is appended during query expansion.
var defaultSynonyms = map[string][]string{
	"risk":          {"danger", "hazard", "threat", "exposure"},
	"legal":         {"law", "lawful", "juridical", "statutory"},
	"contract":      {"agreement", "pact", "deal", "covenant"},
	"financial":     {"monetary", "fiscal", "economic", "pecuniary"},
	"security":      {"safety", "protection", "safeguard", "defense"},
	"faith":         {"belief", "trust", "conviction", "devotion"},
	"righteousness": {"virtue", "morality", "goodness", "piety"},
	"lord":          {"god", "master", "sovereign", "almighty"},
}
