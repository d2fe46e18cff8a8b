package sources

import "strings"

// geneCancerKeywords maps gene symbols to the study-identifier keywords used
// to filter relevant cross-study registries. Curated per gene from the
// cancers each driver is most associated with.
var geneCancerKeywords = map[string][]string{
	"BRAF": {
		"skcm", // melanoma
		"thca", // thyroid
		"coad", // colorectal
		"lung",
		"glioma",
		"hairy_cell", // hairy cell leukemia
	},
	"KRAS": {
		"coad", // colorectal
		"paad", // pancreatic
		"lung",
		"stad",     // stomach
		"coadread", // colorectal adenocarcinoma
		"ampca",    // ampullary carcinoma
	},
	"TP53": {
		"brca", // breast
		"ov",   // ovarian
		"lung",
		"hnsc", // head/neck
		"lgg",  // lower grade glioma
		"gbm",  // glioblastoma
		"blca", // bladder
		"lihc", // liver
	},
	"EGFR": {
		"lung",
		"nsclc", // non-small cell lung cancer
		"gbm",   // glioblastoma
		"hnsc",  // head/neck
	},
	"PIK3CA": {
		"brca", // breast
		"hnsc", // head/neck
		"coad", // colorectal
		"ucec", // endometrial
	},
	"PTEN": {
		"prad", // prostate
		"gbm",  // glioblastoma
		"ucec", // endometrial
		"brca", // breast
	},
	"APC": {
		"coad", // colorectal
		"coadread",
		"stad", // stomach
	},
	"VHL": {
		"rcc",   // renal cell carcinoma
		"ccrcc", // clear cell RCC
		"kirc",  // kidney clear cell
	},
	"RB1": {
		"rbl",  // retinoblastoma
		"sclc", // small cell lung cancer
		"blca", // bladder
	},
	"BRCA1": {
		"brca", // breast
		"ov",   // ovarian
		"prad", // prostate
		"paad", // pancreatic
	},
	"BRCA2": {
		"brca", // breast
		"ov",   // ovarian
		"prad", // prostate
		"paad", // pancreatic
	},
	"ALK": {
		"lung",
		"nsclc", // non-small cell lung cancer
		"alcl",  // anaplastic large cell lymphoma
		"nbl",   // neuroblastoma
	},
	"MYC": {
		"burkitt", // Burkitt lymphoma
		"dlbcl",   // diffuse large B-cell lymphoma
		"mm",      // multiple myeloma
		"nbl",     // neuroblastoma
	},
	"NRAS": {
		"mel", // melanoma
		"skcm",
		"thca", // thyroid
		"aml",  // acute myeloid leukemia
	},
	"KIT": {
		"gist", // gastrointestinal stromal tumor
		"mel",  // melanoma
		"aml",  // acute myeloid leukemia
	},
}

// defaultCancerKeywords match the large pan-cancer cohorts and serve any
// gene absent from the curated map.
var defaultCancerKeywords = []string{"msk", "tcga", "metabric", "dfci", "broad"}

const (
	// maxStudiesPerGene caps how many matching studies are collected.
	maxStudiesPerGene = 20

	// maxStudiesQueried caps how many of the collected studies are
	// actually queried for mutations.
	maxStudiesQueried = 10
)

// CancerKeywords returns the study keywords for a gene, falling back to the
// pan-cancer defaults for genes outside the curated map.
func CancerKeywords(gene string) []string {
	if kw, ok := geneCancerKeywords[strings.ToUpper(gene)]; ok {
		return kw
	}
	return defaultCancerKeywords
}
