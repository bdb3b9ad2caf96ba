package domain

import "time"

// Household is a shared ownership group.
type Household struct {
	HouseholdID string `json:"householdID"`
	Name        string `json:"name"`
	AuditFields
}

// HouseholdRole defines the possible roles a user can have within a household.
type HouseholdRole string

const (
	HouseholdAdmin  HouseholdRole = "ADMIN"
	HouseholdMember HouseholdRole = "MEMBER"
)

// HouseholdMembership represents the membership of a user in a household.
type HouseholdMembership struct {
	HouseholdID string        `json:"householdID"`
	UserID      string        `json:"userID"`
	Role        HouseholdRole `json:"role"`
	JoinedAt    time.Time     `json:"joinedAt"`
}
