package result

// Stroke is the classified swimming stroke of an event.
type Stroke string

const (
	StrokeUnknown      Stroke = ""
	StrokeFreestyle    Stroke = "Freestyle"
	StrokeBackstroke   Stroke = "Backstroke"
	StrokeBreaststroke Stroke = "Breaststroke"
	StrokeButterfly    Stroke = "Butterfly"
	StrokeIM           Stroke = "IM"
)

// Course is the pool length a time was swum in.
type Course string

const (
	CourseSCM Course = "SCM" // short course metres (25m pool)
	CourseLCM Course = "LCM" // long course metres (50m pool)
)

// Record is one athlete performance extracted from a results table row.
// Name and Time are always non-empty.
type Record struct {
	Name     string `json:"name"`
	Event    string `json:"event"`
	Distance string `json:"distance"`
	Stroke   Stroke `json:"stroke"`
	Course   Course `json:"course"`
	Time     string `json:"time"`
	Splits   string `json:"splits"`
	Club     string `json:"club"`
	Date     string `json:"date"`
}

// Key identifies the event a record counts towards for personal bests.
type Key struct {
	Distance string
	Stroke   Stroke
	Course   Course
}

// Key returns the personal-best grouping key for the record
func (r Record) Key() Key {
	return Key{Distance: r.Distance, Stroke: r.Stroke, Course: r.Course}
}

// Seconds returns the record's time in seconds.
// ok is false when the time is not a recognised race time.
func (r Record) Seconds() (float64, bool) {
	return ToSeconds(r.Time)
}

// NewRecord assembles a record from raw cell texts, classifying the event and
// normalizing the time.
func NewRecord(name, event, rawTime, splits, club, date string) Record {
	info := ClassifyEvent(event)
	t, _ := NormalizeTime(rawTime)

	return Record{
		Name:     name,
		Event:    info.Event,
		Distance: info.Distance,
		Stroke:   info.Stroke,
		Course:   info.Course,
		Time:     t,
		Splits:   splits,
		Club:     club,
		Date:     date,
	}
}
