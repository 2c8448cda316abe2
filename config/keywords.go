package config

// SpecialVariantKeywords are trim and performance markers that flag an advert
// (or a looked-up vehicle) as a special variant. Special variants are excluded
// from the published curves and only contribute to the per-make modifiers,
// because their depreciation behaviour differs materially from the standard
// lineup of the same make.
//
// Keywords of length <= 2 are matched on word boundaries only, so "st" does
// not fire inside "estate"; longer keywords match as substrings.
var SpecialVariantKeywords = []string{
	"rs",
	"st",
	"gt",
	"gti",
	"gtd",
	"vxr",
	"amg",
	"type r",
	"nismo",
	"cupra",
	"cosworth",
	"mustang",
	"econoline",
	"f150",
	"tts",
	"quadrifoglio",
	"john cooper works",
}

// GetSpecialVariantKeywords returns a copy of the keyword table so callers
// cannot mutate the shared configuration.
func GetSpecialVariantKeywords() []string {
	keywords := make([]string, len(SpecialVariantKeywords))
	copy(keywords, SpecialVariantKeywords)
	return keywords
}
