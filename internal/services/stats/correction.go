package stats

import (
	"math"

	"wakadash/internal/models"
)

// Correct scales a stats payload so its total matches an operator-supplied
// ground-truth hour count, compensating for the upstream all-time endpoint's
// known under-reporting. The transform is pure: the input payload is never
// mutated and a new payload is returned. When the reported total is zero the
// input is returned unchanged (no meaningful factor exists).
//
// Percents are left untouched: proportions are invariant under uniform
// scaling. Callers apply this at most once per payload; re-deriving a factor
// from an already-corrected payload would double-correct.
func Correct(payload *models.Stats, actualTotalHours float64) *models.Stats {
	if payload == nil || payload.TotalSeconds == 0 || actualTotalHours <= 0 {
		return payload
	}

	factor := actualTotalHours * 3600 / float64(payload.TotalSeconds)

	out := *payload
	out.TotalSeconds = scaleSeconds(payload.TotalSeconds, factor)
	out.HumanReadableTotal = models.HumanizeSeconds(out.TotalSeconds)
	out.IsCorrected = true
	out.CorrectionFactor = factor

	out.Languages = make([]models.LanguageStat, len(payload.Languages))
	for i, lang := range payload.Languages {
		scaled := scaleSeconds(lang.TotalSeconds, factor)
		out.Languages[i] = models.LanguageStat{
			Name:         lang.Name,
			TotalSeconds: scaled,
			Hours:        int(scaled / 3600),
			Minutes:      int((scaled % 3600) / 60),
			Percent:      lang.Percent,
			Text:         models.HumanizeSeconds(scaled),
		}
	}

	return &out
}

// ApplyOverride replaces the payload's total wholesale with an absolute hour
// count. Legacy path kept for configurations that predate Correct; the two
// must never be combined on one payload (config load enforces the mutual
// exclusion).
func ApplyOverride(payload *models.Stats, totalHours float64) *models.Stats {
	if payload == nil || totalHours <= 0 {
		return payload
	}

	out := *payload
	out.TotalSeconds = int64(math.Round(totalHours * 3600))
	out.HumanReadableTotal = models.HumanizeSeconds(out.TotalSeconds)
	out.Languages = append([]models.LanguageStat(nil), payload.Languages...)

	return &out
}

func scaleSeconds(seconds int64, factor float64) int64 {
	return int64(math.Round(float64(seconds) * factor))
}
