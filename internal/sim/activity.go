package sim

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/blaisecz/health-simulator/internal/domain"
)

const (
	// Step-budget shares of the three event tiers.
	majorShare = 0.85
	minorShare = 0.12

	// collisionBuffer keeps minor movements away from already-placed events.
	collisionBuffer = 5 * time.Minute
	// minorPlacementRetries bounds placement attempts before an event is dropped.
	minorPlacementRetries = 10

	// nocturnalProbability gates the single allowed in-sleep minor event.
	nocturnalProbability = 0.25
	// sleepSharePercent caps how much of a day's total may fall inside
	// the sleep window.
	sleepSharePercent = 2

	defaultWakeOffset = 7*time.Hour + 30*time.Minute
)

// QualityBounds clamp the sleep-quality multiplier before it scales the
// day's step target. The minimum is a tunable: 0.6 keeps a terrible night
// from more than roughly halving the next day.
type QualityBounds struct {
	Min float64
	Max float64
}

// DefaultQualityBounds returns the standard clamp range.
func DefaultQualityBounds() QualityBounds {
	return QualityBounds{Min: 0.6, Max: 1.25}
}

// ActivityGenerator composes a day's step total bottom-up from discrete
// activity events in three tiers: major activities carry ~85% of the
// target, minor indoor movements ~12%, and micro fidgets the remainder.
// The previous night's sleep modulates the target and masks the sleep
// window.
type ActivityGenerator struct {
	quality    QualityBounds
	compliance *Compliance
}

// NewActivityGenerator creates an ActivityGenerator with the given quality
// clamp. A zero-value bounds falls back to DefaultQualityBounds.
func NewActivityGenerator(quality QualityBounds) *ActivityGenerator {
	if quality.Min <= 0 || quality.Max <= quality.Min {
		quality = DefaultQualityBounds()
	}
	return &ActivityGenerator{quality: quality, compliance: NewCompliance()}
}

// QualityFactor maps the prior night's sleep onto a bounded multiplier for
// the next day's step target: a smooth function of duration (ideal around
// 7.5h), awake-fragment count, and wake hour. A nil session returns the
// neutral factor 1.
func (g *ActivityGenerator) QualityFactor(sleep *domain.SleepData) float64 {
	if sleep == nil {
		return 1.0
	}

	hours := sleep.TotalSleepHours()
	durationFactor := 1.0 - 0.08*math.Abs(hours-7.5)

	fragmentFactor := 1.0 - 0.05*float64(sleep.AwakeCount())

	wakeHour := float64(sleep.WakeTime.Hour()) + float64(sleep.WakeTime.Minute())/60
	lateWakePenalty := 1.0
	if wakeHour > 9 {
		lateWakePenalty = 1.0 - 0.02*(wakeHour-9)
	}

	q := durationFactor * fragmentFactor * lateWakePenalty
	return g.compliance.ClampQuality(q, g.quality)
}

// activityEvent is one placed activity before flattening into increments.
type activityEvent struct {
	kind     string
	start    time.Time
	duration time.Duration
	steps    int
	activity domain.ActivityType
}

func (e activityEvent) end() time.Time {
	return e.start.Add(e.duration)
}

// Generate composes the step distribution for one day. sleep is the night
// ending on that morning and may be nil, in which case the archetype's
// unmodified step range is used and no nocturnal event is placed.
func (g *ActivityGenerator) Generate(profile *domain.PersonalizedProfile, date time.Time, sleep *domain.SleepData, rng *Rand) (domain.DailyStepDistribution, []domain.Issue) {
	day := Midnight(date)
	weekend := IsWeekend(day)

	raw := float64(rng.IntBetween(profile.MinSteps, profile.MaxSteps)) * profile.Intensity
	if weekend {
		raw *= profile.Pattern.WeekendMultiplier
	}
	raw *= g.QualityFactor(sleep)
	target := int(math.Round(raw))
	if target < 1 {
		target = 1
	}

	wake := day.Add(defaultWakeOffset)
	if sleep != nil && sleep.WakeTime.After(day) {
		wake = sleep.WakeTime
	}
	dayEnd := day.Add(23 * time.Hour)

	var issues []domain.Issue

	majors := g.composeMajors(profile, day, wake, weekend, target, rng)
	minors, dropped := g.composeMinors(profile, wake, dayEnd, majors, target, rng)
	if dropped > 0 {
		issues = append(issues, domain.Issue{
			Severity: domain.SeverityInfo,
			Code:     "minor_events_dropped",
			Date:     day,
			Detail:   fmt.Sprintf("%d minor movements dropped after %d placement retries", dropped, minorPlacementRetries),
		})
	}
	micros := g.composeMicros(wake, majors, rng)

	events := make([]activityEvent, 0, len(majors)+len(minors)+len(micros)+1)
	events = append(events, majors...)
	events = append(events, minors...)
	events = append(events, micros...)

	if sleep != nil {
		if e, ok := g.nocturnalEvent(sleep, day, target, rng); ok {
			events = append(events, e)
		}
	}

	balanceToTarget(events, target)

	increments := flatten(events)
	sort.Slice(increments, func(i, j int) bool {
		return increments[i].Timestamp.Before(increments[j].Timestamp)
	})

	dist := domain.DailyStepDistribution{
		Date:       day,
		Increments: increments,
	}
	dist.Hourly = bucketHourly(day, increments)
	dist.TotalSteps = sumIncrements(increments)
	return dist, issues
}

// composeMajors places the 1-4 large activities of the day. The evening
// activity is mandatory and absorbs whatever budget the optional events
// did not take, which is what pulls the day's total toward target.
func (g *ActivityGenerator) composeMajors(profile *domain.PersonalizedProfile, day, wake time.Time, weekend bool, target int, rng *Rand) []activityEvent {
	budget := int(float64(target) * majorShare)

	type candidate struct {
		event  activityEvent
		weight float64
	}
	var optionals []candidate

	// Morning exercise does not fit a night owl's morning.
	if profile.SleepType != domain.ChronotypeNightOwl && rng.Bool(0.4) {
		start := wake.Add(rng.DurationBetween(15*time.Minute, 2*time.Hour))
		activity := domain.ActivityWalking
		if rng.Bool(0.5) {
			activity = domain.ActivityRunning
		}
		optionals = append(optionals, candidate{
			event: activityEvent{
				kind:     "morning_exercise",
				start:    start,
				duration: rng.DurationBetween(20*time.Minute, 45*time.Minute),
				activity: activity,
			},
			weight: rng.Float64Between(0.8, 1.6),
		})
	}

	// Commute only happens on workdays.
	if !weekend && rng.Bool(0.8) {
		start := day.Add(rng.DurationBetween(7*time.Hour+45*time.Minute, 9*time.Hour+15*time.Minute))
		if start.Before(wake.Add(5 * time.Minute)) {
			start = wake.Add(5 * time.Minute)
		}
		optionals = append(optionals, candidate{
			event: activityEvent{
				kind:     "commute",
				start:    start,
				duration: rng.DurationBetween(10*time.Minute, 25*time.Minute),
				activity: domain.ActivityWalking,
			},
			weight: rng.Float64Between(0.6, 1.2),
		})
	}

	if rng.Bool(0.5) {
		optionals = append(optionals, candidate{
			event: activityEvent{
				kind:     "lunch_walk",
				start:    day.Add(rng.DurationBetween(12*time.Hour, 13*time.Hour+30*time.Minute)),
				duration: rng.DurationBetween(10*time.Minute, 30*time.Minute),
				activity: domain.ActivityWalking,
			},
			weight: rng.Float64Between(0.5, 1.0),
		})
	}

	// Optionals split at most 55% of the major budget between them.
	events := make([]activityEvent, 0, len(optionals)+1)
	optionalSteps := 0
	if len(optionals) > 0 {
		weightSum := 0.0
		for _, c := range optionals {
			weightSum += c.weight
		}
		pool := float64(budget) * 0.55
		for _, c := range optionals {
			e := c.event
			e.steps = int(pool * c.weight / weightSum)
			optionalSteps += e.steps
			events = append(events, e)
		}
	}

	evening := activityEvent{
		kind:     "evening_activity",
		start:    day.Add(rng.DurationBetween(18*time.Hour, 21*time.Hour)),
		duration: rng.DurationBetween(30*time.Minute, 90*time.Minute),
		steps:    budget - optionalSteps,
		activity: domain.ActivityWalking,
	}
	if evening.steps < 0 {
		evening.steps = 0
	}
	events = append(events, evening)

	// Push events apart so majors never overlap each other.
	sort.Slice(events, func(i, j int) bool { return events[i].start.Before(events[j].start) })
	for i := 1; i < len(events); i++ {
		floor := events[i-1].end().Add(collisionBuffer)
		if events[i].start.Before(floor) {
			events[i].start = floor
		}
	}
	return events
}

// composeMinors scatters short indoor movements across waking hours,
// avoiding a collision buffer around everything already placed. An event
// that cannot find a slot within the retry budget is dropped.
func (g *ActivityGenerator) composeMinors(profile *domain.PersonalizedProfile, wake, dayEnd time.Time, placed []activityEvent, target int, rng *Rand) ([]activityEvent, int) {
	budget := int(float64(target) * minorShare)
	count := rng.IntBetween(5, 15)
	if count < 1 {
		return nil, 0
	}
	average := budget / count
	if average < 1 {
		average = 1
	}

	kinds := []struct {
		kind     string
		activity domain.ActivityType
	}{
		{"bathroom", domain.ActivityWalking},
		{"water_break", domain.ActivityWalking},
		{"room_to_room", domain.ActivityWalking},
		{"short_walk", domain.ActivityWalking},
		{"stairs", domain.ActivityStairs},
	}

	occupied := append([]activityEvent(nil), placed...)
	var minors []activityEvent
	dropped := 0

	for i := 0; i < count; i++ {
		k := kinds[rng.IntBetween(0, len(kinds)-1)]
		e := activityEvent{
			kind:     k.kind,
			duration: rng.DurationBetween(time.Minute, 4*time.Minute),
			steps:    int(float64(average) * rng.Float64Between(0.5, 1.5)),
			activity: k.activity,
		}
		if e.steps < 1 {
			e.steps = 1
		}

		ok := false
		for attempt := 0; attempt < minorPlacementRetries; attempt++ {
			start := g.drawMinorStart(profile, wake, dayEnd, rng)
			if start.Add(e.duration).After(dayEnd) {
				continue
			}
			e.start = start
			if !collides(e, occupied) {
				ok = true
				break
			}
		}
		if !ok {
			dropped++
			continue
		}
		occupied = append(occupied, e)
		minors = append(minors, e)
	}
	return minors, dropped
}

// drawMinorStart picks a part of day by the archetype's weights, then a
// uniform time inside it. Everything lands at or after wake-up, so minor
// movements never fall inside the sleep window.
func (g *ActivityGenerator) drawMinorStart(profile *domain.PersonalizedProfile, wake, dayEnd time.Time, rng *Rand) time.Time {
	day := Midnight(wake)
	noon := day.Add(12 * time.Hour)
	evening := day.Add(17 * time.Hour)

	segStart, segEnd := wake, dayEnd
	roll := rng.Float64Between(0, 1)
	w := profile.Pattern
	switch {
	case roll < w.MorningWeight:
		segStart, segEnd = wake, noon
	case roll < w.MorningWeight+w.MiddayWeight:
		segStart, segEnd = noon, evening
	default:
		segStart, segEnd = evening, dayEnd
	}
	if segStart.Before(wake) {
		segStart = wake
	}
	if !segEnd.After(segStart) {
		segStart, segEnd = wake, dayEnd
	}
	return segStart.Add(rng.DurationBetween(0, segEnd.Sub(segStart)))
}

// composeMicros emits 1-15-step fidgets right after wake-up and hugging
// each major event, simulating device-motion noise.
func (g *ActivityGenerator) composeMicros(wake time.Time, majors []activityEvent, rng *Rand) []activityEvent {
	var micros []activityEvent

	emit := func(at time.Time) {
		micros = append(micros, activityEvent{
			kind:     "fidget",
			start:    at,
			duration: time.Minute,
			steps:    rng.IntBetween(1, 15),
			activity: domain.ActivityIdle,
		})
	}

	for i := 0; i < rng.IntBetween(2, 4); i++ {
		emit(wake.Add(rng.DurationBetween(0, 10*time.Minute)))
	}
	for _, m := range majors {
		emit(m.start.Add(-rng.DurationBetween(time.Minute, 4*time.Minute)))
		if rng.Bool(0.5) {
			emit(m.end().Add(rng.DurationBetween(time.Minute, 4*time.Minute)))
		}
	}
	return micros
}

// nocturnalEvent is the one rare exception allowed inside the sleep
// window: a bathroom trip, sized so it can never exceed the sleep-share
// cap on its own.
func (g *ActivityGenerator) nocturnalEvent(sleep *domain.SleepData, day time.Time, target int, rng *Rand) (activityEvent, bool) {
	if !rng.Bool(nocturnalProbability) {
		return activityEvent{}, false
	}
	allowed := target * sleepSharePercent / 100
	if allowed < 20 {
		return activityEvent{}, false
	}
	maxSteps := 50
	if allowed < maxSteps {
		maxSteps = allowed
	}

	windowStart := sleep.BedTime
	if windowStart.Before(day) {
		windowStart = day
	}
	windowStart = windowStart.Add(30 * time.Minute)
	windowEnd := sleep.WakeTime.Add(-30 * time.Minute)
	if !windowEnd.After(windowStart) {
		return activityEvent{}, false
	}

	return activityEvent{
		kind:     "nocturnal_bathroom",
		start:    windowStart.Add(rng.DurationBetween(0, windowEnd.Sub(windowStart))),
		duration: 2 * time.Minute,
		steps:    rng.IntBetween(20, maxSteps),
		activity: domain.ActivityWalking,
	}, true
}

// balanceToTarget settles the rounding and micro-tier drift onto the
// mandatory evening activity so the composed total converges to target.
func balanceToTarget(events []activityEvent, target int) {
	sum := 0
	eveningIdx := -1
	for i, e := range events {
		sum += e.steps
		if e.kind == "evening_activity" {
			eveningIdx = i
		}
	}
	if eveningIdx < 0 {
		return
	}
	adjusted := events[eveningIdx].steps + (target - sum)
	if adjusted < 0 {
		adjusted = 0
	}
	events[eveningIdx].steps = adjusted
}

// flatten spreads each event's steps across its duration in roughly
// five-minute increments tagged with the event's activity type.
func flatten(events []activityEvent) []domain.StepIncrement {
	var increments []domain.StepIncrement
	for _, e := range events {
		if e.steps <= 0 {
			continue
		}
		chunks := int(e.duration / (5 * time.Minute))
		if chunks < 1 {
			chunks = 1
		}
		if chunks > e.steps {
			chunks = e.steps
		}
		per := e.steps / chunks
		remainder := e.steps % chunks
		tick := e.duration / time.Duration(chunks)
		for i := 0; i < chunks; i++ {
			steps := per
			if i == 0 {
				steps += remainder
			}
			increments = append(increments, domain.StepIncrement{
				Timestamp:    e.start.Add(time.Duration(i) * tick),
				Steps:        steps,
				ActivityType: e.activity,
			})
		}
	}
	return increments
}

func collides(e activityEvent, placed []activityEvent) bool {
	start := e.start.Add(-collisionBuffer)
	end := e.end().Add(collisionBuffer)
	for _, p := range placed {
		if start.Before(p.end()) && p.start.Before(end) {
			return true
		}
	}
	return false
}

func bucketHourly(day time.Time, increments []domain.StepIncrement) []domain.HourlySteps {
	totals := map[int]int{}
	for _, inc := range increments {
		h := int(inc.Timestamp.Sub(day) / time.Hour)
		if h < 0 {
			h = 0
		}
		if h > 23 {
			h = 23
		}
		totals[h] += inc.Steps
	}

	hours := make([]int, 0, len(totals))
	for h := range totals {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	hourly := make([]domain.HourlySteps, 0, len(hours))
	for _, h := range hours {
		hourly = append(hourly, domain.HourlySteps{
			Hour:  h,
			Steps: totals[h],
			Start: day.Add(time.Duration(h) * time.Hour),
			End:   day.Add(time.Duration(h+1) * time.Hour),
		})
	}
	return hourly
}

func sumIncrements(increments []domain.StepIncrement) int {
	total := 0
	for _, inc := range increments {
		total += inc.Steps
	}
	return total
}
