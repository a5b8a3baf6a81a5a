package models

// EntityType classifies a stakeholder
type EntityType string

const (
	EntityAdvisor         EntityType = "advisor"
	EntityBusinessPartner EntityType = "business_partner"
	EntityLender          EntityType = "lender"
	EntityContact         EntityType = "contact"
	EntityProfessional    EntityType = "professional"
	EntityAttorney        EntityType = "attorney"
	EntityOther           EntityType = "other"
)

var entityTypeLabels = map[EntityType]string{
	EntityAdvisor:         "Advisor",
	EntityBusinessPartner: "Business Partner",
	EntityLender:          "Lender",
	EntityContact:         "Contact",
	EntityProfessional:    "Professional",
	EntityAttorney:        "Attorney",
	EntityOther:           "Other",
}

// Label returns the display name of the entity type
func (t EntityType) Label() string {
	if label, ok := entityTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

func (t EntityType) Valid() bool {
	_, ok := entityTypeLabels[t]
	return ok
}

// Stakeholder represents a person or organization tracked by the office
type Stakeholder struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	EntityType   EntityType `json:"entity_type"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Organization string     `json:"organization"`
	TrustRating  *int       `json:"trust_rating"`
	RiskRating   *int       `json:"risk_rating"`
	NotesText    string     `json:"notes_text"`
	CreatedAt    Timestamp  `json:"created_at"`
	UpdatedAt    Timestamp  `json:"updated_at"`
}

// StakeholderRef is the minimal view of a stakeholder joined onto other records
type StakeholderRef struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	EntityType EntityType `json:"entity_type"`
}

// Relationship is a directed, typed edge between two stakeholders.
// (FromStakeholderID, ToStakeholderID, RelationshipType) is unique.
type Relationship struct {
	ID                int64          `json:"id"`
	FromStakeholderID int64          `json:"from_stakeholder_id"`
	ToStakeholderID   int64          `json:"to_stakeholder_id"`
	RelationshipType  string         `json:"relationship_type"`
	Description       string         `json:"description"`
	From              StakeholderRef `json:"from_stakeholder"`
	To                StakeholderRef `json:"to_stakeholder"`
}

// ContactMethod is how an outreach happened
type ContactMethod string

const (
	MethodCall    ContactMethod = "call"
	MethodEmail   ContactMethod = "email"
	MethodText    ContactMethod = "text"
	MethodMeeting ContactMethod = "meeting"
	MethodOther   ContactMethod = "other"
)

var contactMethodLabels = map[ContactMethod]string{
	MethodCall:    "Call",
	MethodEmail:   "Email",
	MethodText:    "Text",
	MethodMeeting: "Meeting",
	MethodOther:   "Other",
}

func (m ContactMethod) Label() string {
	if label, ok := contactMethodLabels[m]; ok {
		return label
	}
	return string(m)
}

func (m ContactMethod) Valid() bool {
	_, ok := contactMethodLabels[m]
	return ok
}

// ContactLog records a single interaction with a stakeholder
type ContactLog struct {
	ID             int64          `json:"id"`
	StakeholderID  int64          `json:"stakeholder_id"`
	Date           Timestamp      `json:"date"`
	Method         ContactMethod  `json:"method"`
	Summary        string         `json:"summary"`
	FollowUpNeeded bool           `json:"follow_up_needed"`
	FollowUpDate   *Date          `json:"follow_up_date"`
	Stakeholder    StakeholderRef `json:"stakeholder"`
}
