// Package category assigns coarse category tags to events by keyword
// matching over their free text. It is pure and stateless.
package category

import "strings"

// fallback is applied when no keyword group matches.
const fallback = "Other"

type group struct {
	name     string
	keywords []string
}

// Groups are checked in order; an event keeps every tag that matches.
var groups = []group{
	{"Music", []string{
		"concert", "band", "music", "dj", "festival", "tour", "show",
		"symphony", "orchestra", "jazz", "rock", "pop", "hip hop",
		"rapper", "singer", "acoustic", "live music",
	}},
	{"Sports", []string{
		"game", "match", "warriors", "giants", "49ers", "sharks",
		"football", "basketball", "baseball", "hockey", "soccer",
		"nba", "nfl", "mlb", "nhl", "mls", "sport",
	}},
	{"Arts & Theater", []string{
		"theater", "theatre", "play", "musical", "opera", "ballet",
		"dance", "gallery", "exhibition", "art show", "performance",
		"drama", "comedy show", "improv", "stand-up",
	}},
	{"Food & Drink", []string{
		"food", "wine", "beer", "tasting", "restaurant", "dinner",
		"brunch", "cocktail", "brewery", "culinary", "cooking",
		"food truck", "farmers market",
	}},
	{"Community", []string{
		"community", "fundraiser", "charity", "volunteer", "local",
		"neighborhood", "town hall", "meetup", "gathering",
	}},
	{"Family", []string{
		"family", "kids", "children", "youth", "toddler", "baby",
		"story time", "playground", "zoo", "aquarium",
	}},
	{"Nightlife", []string{
		"nightclub", "club", "party", "rave", "lounge", "bar crawl",
		"late night", "after hours", "nightlife",
	}},
	{"Fitness & Wellness", []string{
		"yoga", "fitness", "workout", "run", "marathon", "cycling",
		"gym", "exercise", "wellness", "meditation", "health",
		"5k", "10k", "half marathon", "triathlon",
	}},
	{"Education", []string{
		"workshop", "class", "seminar", "lecture", "course",
		"training", "tutorial", "learn", "education", "conference",
	}},
	{"Business & Networking", []string{
		"business", "networking", "startup", "entrepreneur",
		"professional", "career", "job fair", "tech talk",
	}},
}

// Tags returns every category whose keyword list matches the combined
// title, description, and venue text, or ["Other"] when nothing matches.
// Overlapping matches are all kept.
func Tags(title, description, venue string) []string {
	text := strings.ToLower(title + " " + description + " " + venue)
	var tags []string
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(text, kw) {
				tags = append(tags, g.name)
				break
			}
		}
	}
	if len(tags) == 0 {
		tags = []string{fallback}
	}
	return tags
}
