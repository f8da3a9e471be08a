package result

import (
	"regexp"
	"strings"
)

// EventInfo is the structured form of a free-text event description.
type EventInfo struct {
	Distance string `json:"distance"`
	Stroke   Stroke `json:"stroke"`
	Course   Course `json:"course"`
	Event    string `json:"event"`
}

var distancePattern = regexp.MustCompile(`(?i)\d+\s*m`)

// strokeKeywords is checked in order; the first keyword contained in the
// event text decides the stroke.
var strokeKeywords = []struct {
	keyword string
	stroke  Stroke
}{
	{"freestyle", StrokeFreestyle},
	{"free", StrokeFreestyle},
	{"backstroke", StrokeBackstroke},
	{"back", StrokeBackstroke},
	{"breaststroke", StrokeBreaststroke},
	{"breast", StrokeBreaststroke},
	{"butterfly", StrokeButterfly},
	{"fly", StrokeButterfly},
	{"individual medley", StrokeIM},
	{"im", StrokeIM},
	{"medley", StrokeIM},
}

// ClassifyEvent extracts distance, stroke and course from an event description
// such as "100m Freestyle LCM".
//
// Course defaults to SCM. Long course markers ("long course", "lcm", or a
// literal "50m") are checked before short course markers, so text carrying
// both resolves to LCM.
func ClassifyEvent(raw string) EventInfo {
	event := strings.TrimSpace(raw)
	if event == "" {
		return EventInfo{Course: CourseSCM}
	}

	info := EventInfo{
		Distance: distancePattern.FindString(event),
		Stroke:   classifyStroke(event),
		Course:   classifyCourse(event),
		Event:    event,
	}
	return info
}

func classifyStroke(event string) Stroke {
	lower := strings.ToLower(event)
	for _, sk := range strokeKeywords {
		if strings.Contains(lower, sk.keyword) {
			return sk.stroke
		}
	}
	return StrokeUnknown
}

func classifyCourse(event string) Course {
	lower := strings.ToLower(event)

	switch {
	case strings.Contains(lower, "long course"),
		strings.Contains(lower, "lcm"),
		strings.Contains(event, "50m"):
		return CourseLCM
	case strings.Contains(lower, "short course"),
		strings.Contains(lower, "scm"),
		strings.Contains(event, "25m"):
		return CourseSCM
	}
	return CourseSCM
}
