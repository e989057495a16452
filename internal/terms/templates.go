package terms

import "fmt"

// Term categories
const (
	CategoryDirect         = "direct"
	CategoryDiscussion     = "discussion"
	CategoryFrustration    = "frustration"
	CategoryRecommendation = "recommendation"
	CategoryGeneric        = "generic"
	CategoryEvergreen      = "evergreen"
)

// titleTemplates expand a content title into discovery queries, keyed by
// language then category. Languages without a table fall back to English;
// the generator prompt enforces the reply language regardless of the query
// language that surfaced the tweet.
var titleTemplates = map[string]map[string][]string{
	"en": {
		CategoryDirect:         {"where can I watch %s", "%s where to watch free"},
		CategoryDiscussion:     {"has anyone seen %s", "%s worth watching"},
		CategoryFrustration:    {"can't find %s anywhere", "%s not on netflix"},
		CategoryRecommendation: {"movies like %s", "what to watch after %s"},
	},
	"es": {
		CategoryDirect:         {"dónde puedo ver %s", "%s donde ver gratis"},
		CategoryDiscussion:     {"alguien ha visto %s", "%s vale la pena"},
		CategoryFrustration:    {"no encuentro %s", "%s no está en netflix"},
		CategoryRecommendation: {"películas como %s", "qué ver después de %s"},
	},
	"fr": {
		CategoryDirect:         {"où regarder %s", "%s où voir gratuit"},
		CategoryDiscussion:     {"quelqu'un a vu %s", "%s vaut le coup"},
		CategoryFrustration:    {"je trouve pas %s", "%s pas sur netflix"},
		CategoryRecommendation: {"films comme %s", "quoi regarder après %s"},
	},
	"de": {
		CategoryDirect:         {"wo kann ich %s schauen", "%s wo kostenlos sehen"},
		CategoryDiscussion:     {"hat jemand %s gesehen", "%s lohnt sich"},
		CategoryFrustration:    {"finde %s nirgendwo", "%s nicht auf netflix"},
		CategoryRecommendation: {"filme wie %s", "was schauen nach %s"},
	},
	"pt": {
		CategoryDirect:         {"onde posso assistir %s", "%s onde ver grátis"},
		CategoryDiscussion:     {"alguém viu %s", "%s vale a pena"},
		CategoryFrustration:    {"não acho %s em lugar nenhum", "%s não está na netflix"},
		CategoryRecommendation: {"filmes como %s", "o que assistir depois de %s"},
	},
}

// genericTemplates need no content title, so they survive a total
// content-source failure
var genericTemplates = map[string][]string{
	"en": {"best movies to stream right now", "good series to binge this week"},
	"es": {"mejores películas para ver ahora", "buenas series para maratonear"},
	"fr": {"meilleurs films à voir en ce moment", "bonnes séries à binge watcher"},
	"de": {"beste filme zum streamen gerade", "gute serien zum bingen"},
	"pt": {"melhores filmes para assistir agora", "boas séries para maratonar"},
}

// fallbackTerms is the hardcoded last resort when both the pool and every
// generation path come up empty
var fallbackTerms = []string{
	"where to watch movies online free",
	"best free streaming site",
	"netflix alternative free",
}

func templatesFor(lang string) map[string][]string {
	if t, ok := titleTemplates[lang]; ok {
		return t
	}
	return titleTemplates["en"]
}

func genericFor(lang string) []string {
	if g, ok := genericTemplates[lang]; ok {
		return g
	}
	return genericTemplates["en"]
}

func expand(template, title string) string {
	return fmt.Sprintf(template, title)
}
