package ocr

import (
	"regexp"
)

var (
	reConfEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	reConfYear  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	reConfPhone = regexp.MustCompile(`\+?\d[\d ()-]{7,}\d`)
)

// heuristicConfidence scores recognised text by the résumé landmarks it contains.
func heuristicConfidence(txt string) float32 {
	score := float32(0.2)
	if reConfEmail.MatchString(txt) {
		score += 0.2
	}
	if reConfPhone.MatchString(txt) {
		score += 0.15
	}
	if reConfYear.MatchString(txt) {
		score += 0.15
	}
	if len(txt) > 400 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// blendConfidence weights tesseract's own word confidence over the heuristic when present.
func blendConfidence(ocrConf, heurConf float32) float32 {
	conf := heurConf
	if ocrConf > 0 {
		conf = 0.7*ocrConf + 0.3*heurConf
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}
