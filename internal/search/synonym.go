package search

// Synonyms maps common recruitment-board abbreviations and phrasings to the
// wording used in notifications.
var Synonyms = map[string][]string{
	"rrb":           {"railway recruitment board", "railway", "railways"},
	"railway":       {"rrb", "railways"},
	"ssc":           {"staff selection commission"},
	"upsc":          {"union public service commission", "civil services"},
	"psc":           {"public service commission"},
	"ias":           {"civil services", "upsc"},
	"ibps":          {"institute of banking personnel selection", "bank po", "bank clerk"},
	"bank po":       {"probationary officer", "ibps po", "sbi po"},
	"sbi":           {"state bank of india"},
	"rbi":           {"reserve bank of india"},
	"cgl":           {"combined graduate level"},
	"chsl":          {"combined higher secondary level"},
	"mts":           {"multi tasking staff"},
	"gds":           {"gramin dak sevak", "postal"},
	"ntpc":          {"non technical popular categories", "national thermal power corporation"},
	"je":            {"junior engineer"},
	"aiims":         {"all india institute of medical sciences", "nursing officer"},
	"constable":     {"police constable", "sepoy"},
	"teacher":       {"tgt", "pgt", "prt", "lecturer"},
	"tgt":           {"trained graduate teacher"},
	"pgt":           {"post graduate teacher"},
	"10th":          {"matriculation", "ssc pass", "10th pass"},
	"12th":          {"intermediate", "higher secondary", "12th pass"},
	"clerk":         {"lower division clerk", "ldc", "junior assistant"},
	"data entry":    {"deo", "data entry operator"},
	"stenographer":  {"steno", "stenographer grade c", "stenographer grade d"},
	"apprentice":    {"trade apprentice", "act apprentice"},
	"defence":       {"army", "navy", "air force", "defense"},
	"defense":       {"defence"},
	"civil service": {"civil services", "upsc"},
}

func GetSynonyms(query string) []string {
	if query == "" {
		return []string{}
	}
	if v, ok := Synonyms[query]; ok {
		out := make([]string, 0, len(v))
		out = append(out, v...)
		return out
	}
	return []string{}
}
