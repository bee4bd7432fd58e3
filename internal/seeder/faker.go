package seeder

import (
	"fmt"
	"math/rand"
	"strings"
)

var (
	firstNames = []string{
		"John", "Jane", "Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry",
		"Isla", "Jack", "Kara", "Liam", "Maya", "Noah", "Olive", "Priya", "Quinn", "Ravi",
		"Sofia", "Tom", "Uma", "Victor", "Wendy", "Yusuf", "Zoe",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
		"Naidoo", "Botha", "Khumalo", "Nguyen", "Okafor", "Patel", "Schmidt", "Silva", "Taylor", "Walker",
	}
	workoutWords = []string{
		"Inferno", "Thunder", "Cardio", "Core", "Power", "Sprint", "Titan", "Cyclone",
		"Fury", "Pulse", "Summit", "Voltage", "Rocket", "Storm", "Blaze", "Ignite",
	}
	loremWords = []string{
		"strength", "tempo", "interval", "rest", "round", "push", "pull", "squat", "sprint", "hold",
		"breathe", "form", "core", "explosive", "steady", "recover", "engage", "drive", "control", "finish",
		"athletes", "coach", "focus", "pace", "effort", "stamina", "balance", "mobility", "power", "energy",
	}
)

const passwordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789!@#$%"

// DataGenerator produces fake identity and content values from a single
// injected random source. Values handed out for unique columns are
// remembered so a run never generates the same one twice.
type DataGenerator struct {
	rand    *rand.Rand
	counter int
	used    map[string]bool
}

func NewDataGenerator(r *rand.Rand) *DataGenerator {
	return &DataGenerator{
		rand: r,
		used: make(map[string]bool),
	}
}

// Reserve marks fixed values (demo emails, phones) as taken.
func (g *DataGenerator) Reserve(values ...string) {
	for _, v := range values {
		g.used[strings.ToLower(v)] = true
	}
}

func (g *DataGenerator) claim(v string) bool {
	key := strings.ToLower(v)
	if g.used[key] {
		return false
	}
	g.used[key] = true
	return true
}

// Between returns a uniform integer in [min, max].
func (g *DataGenerator) Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.rand.Intn(max-min+1)
}

func (g *DataGenerator) FirstName() string {
	return firstNames[g.rand.Intn(len(firstNames))]
}

func (g *DataGenerator) LastName() string {
	return lastNames[g.rand.Intn(len(lastNames))]
}

// Email returns an address not yet handed out in this run.
func (g *DataGenerator) Email(first, last, domain string) string {
	local := strings.ToLower(first + "." + last)
	for {
		g.counter++
		email := fmt.Sprintf("%s%d@%s", local, g.counter, domain)
		if g.claim(email) {
			return email
		}
	}
}

// OrdinalEmail is stable across runs, so a rerun hits the same keys.
func (g *DataGenerator) OrdinalEmail(prefix string, n int, domain string) string {
	email := fmt.Sprintf("%s%03d@%s", prefix, n, domain)
	g.claim(email)
	return email
}

func (g *DataGenerator) Phone() string {
	for {
		phone := fmt.Sprintf("+1-%03d-%03d-%04d", g.rand.Intn(1000), g.rand.Intn(1000), g.rand.Intn(10000))
		if g.claim(phone) {
			return phone
		}
	}
}

func (g *DataGenerator) Password() string {
	var b strings.Builder
	for i := 0; i < 10; i++ {
		b.WriteByte(passwordAlphabet[g.rand.Intn(len(passwordAlphabet))])
	}
	return b.String()
}

func (g *DataGenerator) Sentence(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = loremWords[g.rand.Intn(len(loremWords))]
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func (g *DataGenerator) Paragraph(sentences int) string {
	parts := make([]string, sentences)
	for i := range parts {
		parts[i] = g.Sentence(6 + g.rand.Intn(7))
	}
	return strings.Join(parts, " ")
}

// WorkoutName returns a name not yet handed out in this run.
func (g *DataGenerator) WorkoutName() string {
	base := workoutWords[g.rand.Intn(len(workoutWords))] + " Blast"
	if g.claim(base) {
		return base
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s %d", base, i)
		if g.claim(name) {
			return name
		}
	}
}

// OrdinalWorkoutName is stable across runs: the n-th name is always the same.
func (g *DataGenerator) OrdinalWorkoutName(n int) string {
	word := workoutWords[(n-1)%len(workoutWords)]
	name := word + " Blast"
	if round := (n - 1) / len(workoutWords); round > 0 {
		name = fmt.Sprintf("%s %d", name, round+1)
	}
	g.claim(name)
	return name
}

func pick[T any](r *rand.Rand, items []T) T {
	return items[r.Intn(len(items))]
}
