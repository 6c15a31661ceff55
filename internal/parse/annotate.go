package parse

import (
	"regexp"
	"strings"

	"github.com/ad-freiburg/question-generation/internal/model"
)

// annotationPattern matches inline mention annotations of the form
// [<name>|<category>|<original>].
var annotationPattern = regexp.MustCompile(`\[([^\]\[|]*?)\|([^\]\[|]*?)\|([^\]\[|]*?)\]`)

// Annotations extracts all mention annotations from a string, in order of
// appearance. Used by the filter and rater to re-read generated records.
func Annotations(s string, linked bool) []model.EntityMention {
	var mentions []model.EntityMention
	for _, groups := range annotationPattern.FindAllStringSubmatch(s, -1) {
		name, id := splitLinkedName(groups[1], linked)
		mentions = append(mentions, model.EntityMention{
			Name:       name,
			ExternalID: id,
			Category:   model.NormalizeCategory(groups[2]),
			Original:   groups[3],
		})
	}
	return mentions
}

// Mask replaces every mention annotation with mask, leaving the rest of the
// string untouched.
func Mask(s, mask string) string {
	return annotationPattern.ReplaceAllString(s, mask)
}

// Strip replaces every mention annotation with its original surface text.
func Strip(s string) string {
	return annotationPattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := annotationPattern.FindStringSubmatch(match)
		return strings.TrimSpace(groups[3])
	})
}
