// Package schedule holds the 24-hour region/language rotation table.
// The target for any instant is a pure function of the UTC hour, so every
// process observing the same clock agrees on the current slot.
package schedule

import "time"

// Slot is one hour's entry in the daily rotation
type Slot struct {
	Hour          int    `json:"hour"`
	Region        string `json:"region"`
	Location      string `json:"location"`
	LangCode      string `json:"lang_code"`
	ContentRegion string `json:"content_region"` // ISO country code for the content source
}

// Target is the resolved scheduling context for a given instant
type Target struct {
	Region        string   `json:"region"`
	Location      string   `json:"location"`
	LangCode      string   `json:"lang_code"`
	Language      string   `json:"language"`
	ContentRegion string   `json:"content_region"`
	Keywords      []string `json:"keywords"`
}

// dailySchedule maps each UTC hour to its target region. Exactly one entry
// per hour, index == hour.
var dailySchedule = [24]Slot{
	{0, "Los Angeles", "Los Angeles", "en", "US"},
	{1, "Mexico City", "Mexico City", "es", "MX"},
	{2, "Lima", "Lima", "es", "PE"},
	{3, "Buenos Aires", "Buenos Aires", "es", "AR"},
	{4, "São Paulo", "São Paulo", "pt", "BR"},
	{5, "Rio de Janeiro", "Rio de Janeiro", "pt", "BR"},
	{6, "Sydney", "Sydney", "en", "AU"},
	{7, "Melbourne", "Melbourne", "en", "AU"},
	{8, "Tokyo", "Tokyo", "ja", "JP"},
	{9, "Seoul", "Seoul", "ko", "KR"},
	{10, "Jakarta", "Jakarta", "id", "ID"},
	{11, "Singapore", "Singapore", "en", "SG"},
	{12, "Paris", "Paris", "fr", "FR"},
	{13, "Amsterdam", "Amsterdam", "nl", "NL"},
	{14, "Berlin", "Berlin", "de", "DE"},
	{15, "Warsaw", "Warsaw", "pl", "PL"},
	{16, "Rome", "Rome", "it", "IT"},
	{17, "Madrid", "Madrid", "es", "ES"},
	{18, "Lisbon", "Lisbon", "pt", "PT"},
	{19, "London", "London", "en", "GB"},
	{20, "Dublin", "Dublin", "en", "IE"},
	{21, "Toronto", "Toronto", "en", "CA"},
	{22, "New York", "New York", "en", "US"},
	{23, "Chicago", "Chicago", "en", "US"},
}

// langNames maps language codes to the names used in generator prompts
var langNames = map[string]string{
	"en": "English",
	"fr": "French",
	"de": "German",
	"es": "Spanish",
	"pt": "Portuguese",
	"it": "Italian",
	"nl": "Dutch",
	"pl": "Polish",
	"ja": "Japanese",
	"ko": "Korean",
	"id": "Indonesian",
}

// keywords holds the native-language discovery queries per language
var keywords = map[string][]string{
	"en": {
		`"where to watch" free`,
		`"best free streaming" site`,
		`"netflix alternative" free`,
		`"netflix too expensive"`,
		`"streaming site" no ads`,
	},
	"fr": {
		`"où regarder" film gratuit`,
		`"site streaming gratuit"`,
		`"alternative netflix gratuit"`,
		`"netflix trop cher"`,
	},
	"de": {
		`"wo kann ich schauen" kostenlos`,
		`"streaming seite kostenlos"`,
		`"netflix alternative kostenlos"`,
		`"netflix zu teuer"`,
	},
	"es": {
		`"dónde ver" películas gratis`,
		`"sitio streaming gratis"`,
		`"alternativa netflix gratis"`,
		`"netflix muy caro"`,
	},
	"pt": {
		`"onde assistir" filme grátis`,
		`"site streaming grátis"`,
		`"alternativa netflix grátis"`,
		`"netflix muito caro"`,
	},
	"it": {
		`"dove guardare" film gratis`,
		`"sito streaming gratuito"`,
		`"alternativa netflix gratis"`,
	},
	"nl": {
		`"waar kijken" gratis`,
		`"gratis streaming site"`,
		`"netflix alternatief gratis"`,
	},
	"pl": {
		`"gdzie oglądać" za darmo`,
		`"darmowy streaming"`,
		`"alternatywa netflix"`,
	},
	"ja": {
		"映画 無料 視聴",
		"無料 ストリーミング サイト",
		"Netflix 代替 無料",
		"どこで見れる 映画",
		"無料で映画を見る方法",
	},
	"ko": {
		"영화 무료 보기",
		"무료 스트리밍 사이트",
		"넷플릭스 대안 무료",
		"어디서 볼 수 있어",
		"드라마 무료 시청",
	},
	"id": {
		"nonton film gratis",
		"situs streaming gratis",
		"alternatif netflix gratis",
		"dimana nonton film",
	},
}

// CurrentTarget returns the target for the current UTC hour
func CurrentTarget() Target {
	return TargetAt(time.Now().UTC())
}

// TargetAt returns the target for the UTC hour of t
func TargetAt(t time.Time) Target {
	slot := dailySchedule[t.UTC().Hour()]
	return Target{
		Region:        slot.Region,
		Location:      slot.Location,
		LangCode:      slot.LangCode,
		Language:      LangName(slot.LangCode),
		ContentRegion: slot.ContentRegion,
		Keywords:      KeywordsFor(slot.LangCode),
	}
}

// LangName returns the display name for a language code, defaulting to English
func LangName(code string) string {
	if name, ok := langNames[code]; ok {
		return name
	}
	return "English"
}

// KeywordsFor returns the native discovery queries for a language code,
// falling back to English when the language has no list.
func KeywordsFor(code string) []string {
	if kw, ok := keywords[code]; ok {
		return kw
	}
	return keywords["en"]
}

// Languages returns all language codes with a keyword list
func Languages() []string {
	codes := make([]string, 0, len(keywords))
	for code := range keywords {
		codes = append(codes, code)
	}
	return codes
}
