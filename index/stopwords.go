package index

// Stop words excluded from indexing; common function words carry little
// discriminative value.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "or": true, "will": true, "all": true, "can": true,
	"her": true, "his": true, "they": true, "we": true, "what": true, "which": true,
	"when": true, "who": true, "how": true, "been": true, "has": true, "had": true,
}

// IsStopword reports whether the given normalized token is a stopword.
func IsStopword(token string) bool {
	return stopWords[token]
}
