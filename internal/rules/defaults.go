package rules

import "github.com/ad-freiburg/question-generation/internal/model"

// whenPrepositions are the prepositions that may govern a When-question.
// Phrases like "for 1992" or "since May" do not ask for a point in time.
var whenPrepositions = []string{"in", "at", "on", "by", "after", "before", "from"}

// Default returns the built-in rule table.
func Default() *Set {
	set, err := New(DefaultRoleLabels(), defaultRules())
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return set
}

func defaultRules() []Rule {
	return []Rule{
		// PERSON
		{ID: "person-subj-who", Category: model.CategoryPerson, Role: model.RoleSubject,
			Wh: "Who", Strategy: StrategyFrontNoInvert, Priority: 10},
		{ID: "person-dobj-who", Category: model.CategoryPerson, Role: model.RoleDirectObject,
			Wh: "Who", Strategy: StrategyFrontInvertAux, Priority: 10},
		{ID: "person-pobj-who", Category: model.CategoryPerson, Role: model.RolePrepObject,
			Wh: "Who", Strategy: StrategyFrontInvertAux, Priority: 10},
		{ID: "person-other-who", Category: model.CategoryPerson, Role: model.RoleOther,
			Wh: "Who", Strategy: StrategyReplaceInPlace, Priority: 0},

		// LOCATION
		{ID: "location-subj-what", Category: model.CategoryLocation, Role: model.RoleSubject,
			Wh: "What", Strategy: StrategyFrontNoInvert, Priority: 10},
		{ID: "location-dobj-where", Category: model.CategoryLocation, Role: model.RoleDirectObject,
			Wh: "Where", Strategy: StrategyFrontInvertAux, Priority: 10},
		{ID: "location-dobj-what", Category: model.CategoryLocation, Role: model.RoleDirectObject,
			Wh: "What", Strategy: StrategyFrontInvertAux, Priority: 4},
		{ID: "location-pobj-where", Category: model.CategoryLocation, Role: model.RolePrepObject,
			Wh: "Where", Strategy: StrategyFrontInvertAux, Priority: 10, DropPreposition: true},
		{ID: "location-other-what", Category: model.CategoryLocation, Role: model.RoleOther,
			Wh: "What", Strategy: StrategyReplaceInPlace, Priority: 0},

		// ORGANIZATION
		{ID: "org-subj-which", Category: model.CategoryOrganization, Role: model.RoleSubject,
			Wh: "Which organization", Strategy: StrategyFrontNoInvert, Priority: 20},
		{ID: "org-subj-who", Category: model.CategoryOrganization, Role: model.RoleSubject,
			Wh: "Who", Strategy: StrategyFrontNoInvert, Priority: 10},
		{ID: "org-dobj-which", Category: model.CategoryOrganization, Role: model.RoleDirectObject,
			Wh: "Which organization", Strategy: StrategyFrontInvertAux, Priority: 20},
		{ID: "org-dobj-what", Category: model.CategoryOrganization, Role: model.RoleDirectObject,
			Wh: "What", Strategy: StrategyFrontInvertAux, Priority: 10},
		{ID: "org-pobj-which", Category: model.CategoryOrganization, Role: model.RolePrepObject,
			Wh: "Which organization", Strategy: StrategyFrontInvertAux, Priority: 10},
		{ID: "org-other-what", Category: model.CategoryOrganization, Role: model.RoleOther,
			Wh: "What", Strategy: StrategyReplaceInPlace, Priority: 0},

		// DATE
		{ID: "date-subj-what", Category: model.CategoryDate, Role: model.RoleSubject,
			Wh: "What", Strategy: StrategyFrontNoInvert, Priority: 10},
		{ID: "date-dobj-when", Category: model.CategoryDate, Role: model.RoleDirectObject,
			Wh: "When", Strategy: StrategyFrontInvertAux, Priority: 10},
		{ID: "date-pobj-when", Category: model.CategoryDate, Role: model.RolePrepObject,
			Wh: "When", Strategy: StrategyFrontInvertAux, Priority: 10,
			DropPreposition: true, Prepositions: whenPrepositions},
		{ID: "date-other-when", Category: model.CategoryDate, Role: model.RoleOther,
			Wh: "When", Strategy: StrategyReplaceInPlace, Priority: 0},

		// NUMBER
		{ID: "number-subj-howmany", Category: model.CategoryNumber, Role: model.RoleSubject,
			Wh: "How many", Strategy: StrategyFrontNoInvert, Priority: 10},
		{ID: "number-dobj-howmany", Category: model.CategoryNumber, Role: model.RoleDirectObject,
			Wh: "How many", Strategy: StrategyFrontInvertAux, Priority: 10},
		{ID: "number-dobj-howmuch", Category: model.CategoryNumber, Role: model.RoleDirectObject,
			Wh: "How much", Strategy: StrategyFrontInvertAux, Priority: 5},
		{ID: "number-other-howmany", Category: model.CategoryNumber, Role: model.RoleOther,
			Wh: "How many", Strategy: StrategyReplaceInPlace, Priority: 0},

		// MISC also covers the Wikidata-identifier variant, whose category
		// is normalized to one of the fixed labels upstream.
		{ID: "misc-subj-what", Category: model.CategoryMisc, Role: model.RoleSubject,
			Wh: "What", Strategy: StrategyFrontNoInvert, Priority: 10},
		{ID: "misc-dobj-what", Category: model.CategoryMisc, Role: model.RoleDirectObject,
			Wh: "What", Strategy: StrategyFrontInvertAux, Priority: 10},
		{ID: "misc-pobj-what", Category: model.CategoryMisc, Role: model.RolePrepObject,
			Wh: "What", Strategy: StrategyFrontInvertAux, Priority: 10},
		{ID: "misc-appos-what", Category: model.CategoryMisc, Role: model.RoleAppositive,
			Wh: "What", Strategy: StrategyReplaceInPlace, Priority: 5},
		{ID: "misc-other-what", Category: model.CategoryMisc, Role: model.RoleOther,
			Wh: "What", Strategy: StrategyReplaceInPlace, Priority: 0},
	}
}
