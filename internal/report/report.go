package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Lumos-Labs-HQ/gymseed/internal/seeder"
	"github.com/Lumos-Labs-HQ/gymseed/internal/types"
	"github.com/fatih/color"
)

const (
	rule        = "--------------------------------------------------"
	sampleLimit = 5
)

var roleLabels = map[types.Role]string{
	types.RoleAdmin:   "Admin",
	types.RoleCoach:   "Coach",
	types.RoleManager: "Manager",
	types.RoleMember:  "Member",
}

// Print writes the summary of a committed run to w.
func Print(w io.Writer, res *seeder.Result) {
	header := color.New(color.FgCyan, color.Bold)
	ok := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	ok.Fprintln(w, "\n✅  Seed complete!")
	fmt.Fprintln(w, rule)
	header.Fprintf(w, "Demo login accounts (all passwords = %s)\n", res.Password)
	fmt.Fprintln(w, rule)
	for _, d := range res.DemoUsers {
		fmt.Fprintf(w, "%-8s: %s (%s %s)\n", roleLabels[d.Role], d.Email, d.FirstName, d.LastName)
	}
	fmt.Fprintln(w, rule)

	if res.Roster != nil {
		fmt.Fprintf(w, "Total users   : %d\n", res.Roster.Total())
		for _, role := range types.Roles {
			fmt.Fprintf(w, "  ↳ %-10s: %d", string(role)+"s", len(res.Roster.IDs[role]))
			if skipped := res.Roster.Skipped[role]; skipped > 0 {
				dim.Fprintf(w, " (%d already present)", skipped)
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(w, "Workouts      : %d", len(res.WorkoutIDs))
	if res.WorkoutsSkipped > 0 {
		dim.Fprintf(w, " (%d already present)", res.WorkoutsSkipped)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Exercises     : %d new of %d in catalog\n", res.ExercisesCreated, res.ExercisesTotal)

	states := res.States()
	fmt.Fprintf(w, "Classes       : %d\n", len(res.Classes))
	fmt.Fprintf(w, "  ↳ past      : %d\n", states[types.StateEnded])
	fmt.Fprintf(w, "  ↳ ongoing   : %d\n", states[types.StateInProgress])
	fmt.Fprintf(w, "  ↳ soon (<%s): %d\n", shortDuration(res.Threshold), states[types.StateImminent])
	fmt.Fprintf(w, "  ↳ upcoming  : %d\n", states[types.StateFuture])
	fmt.Fprintf(w, "Bookings      : %d\n", len(res.Bookings))
	fmt.Fprintf(w, "Attendance    : %d\n", len(res.Attendance))
	fmt.Fprintln(w, rule)

	if len(res.Classes) == 0 {
		return
	}

	header.Fprintln(w, "Sample classes")
	perClass := make(map[int64]int, len(res.Classes))
	for _, b := range res.Bookings {
		perClass[b.ClassID]++
	}
	for _, c := range Samples(res.Classes, sampleLimit) {
		fmt.Fprintf(w, "  #%-3d %s %s  %3dm  %2d/%-2d booked  %s\n",
			c.ID, c.ScheduledDate(), c.ScheduledTime()[:5], c.DurationMinutes(),
			perClass[c.ID], c.Capacity, c.StateAt(res.Now, res.Threshold))
	}
	fmt.Fprintln(w, rule)
}

// Samples picks up to limit classes in start order, one per bucket first
// so every part of the schedule is represented.
func Samples(classes []types.Class, limit int) []types.Class {
	sorted := append([]types.Class(nil), classes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var out []types.Class
	seen := make(map[types.Bucket]bool)
	taken := make(map[int]bool)
	for i, c := range sorted {
		if len(out) == limit {
			break
		}
		if !seen[c.Bucket] {
			seen[c.Bucket] = true
			taken[i] = true
			out = append(out, c)
		}
	}
	for i, c := range sorted {
		if len(out) == limit {
			break
		}
		if !taken[i] {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func shortDuration(d time.Duration) string {
	if d%time.Minute == 0 {
		return fmt.Sprintf("%dm", int(d/time.Minute))
	}
	return d.String()
}
