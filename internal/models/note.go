package models

// NoteType classifies a note
type NoteType string

const (
	NoteCall        NoteType = "call"
	NoteEmail       NoteType = "email"
	NoteMeeting     NoteType = "meeting"
	NoteResearch    NoteType = "research"
	NoteLegalUpdate NoteType = "legal_update"
	NoteGeneral     NoteType = "general"
)

func (t NoteType) Valid() bool {
	switch t {
	case NoteCall, NoteEmail, NoteMeeting, NoteResearch, NoteLegalUpdate, NoteGeneral:
		return true
	}
	return false
}

// Note is a free-form record of a call, meeting or research. It links to any
// number of stakeholders, legal matters, tasks and properties.
type Note struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Date           Timestamp `json:"date"`
	NoteType       NoteType  `json:"note_type"`
	ParticipantIDs []int64   `json:"participant_ids"`
	StakeholderIDs []int64   `json:"stakeholder_ids"`
	LegalMatterIDs []int64   `json:"legal_matter_ids"`
	TaskIDs        []int64   `json:"task_ids"`
	PropertyIDs    []int64   `json:"property_ids"`
	CreatedAt      Timestamp `json:"created_at"`
	UpdatedAt      Timestamp `json:"updated_at"`
}
