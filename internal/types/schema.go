package types

const (
	TableUsers      = "users"
	TableUserRoles  = "userroles"
	TableAdmins     = "admins"
	TableCoaches    = "coaches"
	TableManagers   = "managers"
	TableMembers    = "members"
	TableWorkouts   = "workouts"
	TableExercises  = "exercises"
	TableClasses    = "classes"
	TableBookings   = "classbookings"
	TableAttendance = "classattendance"
)

// ClearScope selects which generated tables are wiped before a run.
type ClearScope string

const (
	ClearNone      ClearScope = "none"
	ClearSelective ClearScope = "selective"
	ClearFull      ClearScope = "full"
)

func (s ClearScope) Valid() bool {
	switch s {
	case ClearNone, ClearSelective, ClearFull:
		return true
	}
	return false
}

// Covers reports whether clearing with s removes rows of a table that is
// cleared from scope t upwards.
func (s ClearScope) Covers(t ClearScope) bool {
	switch t {
	case ClearSelective:
		return s == ClearSelective || s == ClearFull
	case ClearFull:
		return s == ClearFull
	}
	return false
}

type SchemaTable struct {
	Name         string
	Dependencies []string
	// ClearedBy is the narrowest scope that wipes the table. ClearNone
	// marks reference data that is never cleared.
	ClearedBy ClearScope
}

// GymSchema is the set of tables the seeder writes, with their foreign key
// dependencies.
var GymSchema = []SchemaTable{
	{Name: TableUsers, ClearedBy: ClearFull},
	{Name: TableUserRoles, Dependencies: []string{TableUsers}, ClearedBy: ClearFull},
	{Name: TableAdmins, Dependencies: []string{TableUsers}, ClearedBy: ClearFull},
	{Name: TableCoaches, Dependencies: []string{TableUsers}, ClearedBy: ClearFull},
	{Name: TableManagers, Dependencies: []string{TableUsers}, ClearedBy: ClearFull},
	{Name: TableMembers, Dependencies: []string{TableUsers}, ClearedBy: ClearFull},
	{Name: TableWorkouts, ClearedBy: ClearSelective},
	{Name: TableExercises, ClearedBy: ClearNone},
	{Name: TableClasses, Dependencies: []string{TableCoaches, TableAdmins, TableWorkouts}, ClearedBy: ClearSelective},
	{Name: TableBookings, Dependencies: []string{TableClasses, TableMembers}, ClearedBy: ClearSelective},
	{Name: TableAttendance, Dependencies: []string{TableBookings}, ClearedBy: ClearSelective},
}
