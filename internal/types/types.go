package types

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCoach   Role = "coach"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

// Roles lists every role in the order identities are seeded.
var Roles = []Role{RoleAdmin, RoleCoach, RoleManager, RoleMember}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoach, RoleManager, RoleMember:
		return true
	}
	return false
}

type MembershipStatus string

// MembershipApproved is the only membership_status value seeded members get.
const MembershipApproved MembershipStatus = "approved"

type WorkoutType string

const (
	WorkoutForTime WorkoutType = "FOR_TIME"
	WorkoutAMRAP   WorkoutType = "AMRAP"
	WorkoutTabata  WorkoutType = "TABATA"
	WorkoutEMOM    WorkoutType = "EMOM"
)

var WorkoutTypes = []WorkoutType{WorkoutForTime, WorkoutAMRAP, WorkoutTabata, WorkoutEMOM}

// ConflictPolicy decides what an insert does when it hits a natural key
// that already exists.
type ConflictPolicy int

const (
	// FailOnConflict surfaces the violation as ErrDuplicate.
	FailOnConflict ConflictPolicy = iota
	// SkipOnConflict leaves the existing row untouched and reports created=false.
	SkipOnConflict
)

type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	PasswordHash string
	Role         Role
}

// Profile is the role-specific subtype row of a user. Only the fields of
// the matching role are persisted.
type Profile struct {
	UserID        int64
	Role          Role
	Authorisation string
	Bio           string
	Status        MembershipStatus
	Credits       int
}

type Workout struct {
	ID      int64
	Name    string
	Content string
	Type    WorkoutType
}

type Exercise struct {
	Name        string
	Description string
}

type Booking struct {
	ClassID  int64
	MemberID int64
}

type Attendance struct {
	ClassID  int64
	MemberID int64
	Score    int
}

func (a Attendance) Booking() Booking {
	return Booking{ClassID: a.ClassID, MemberID: a.MemberID}
}
