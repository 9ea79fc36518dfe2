package seed

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// IDField is the natural key of every snapshot record; reconciliation
// matches on it and nothing else.
const IDField = "_id"

// Record is one loosely-typed snapshot record, as decoded from a snapshot
// file (raw) or after NormalizeRecord (normalized).
type Record map[string]interface{}

// ID returns the record's identifier, or "" if absent.
func (r Record) ID() string {
	id, _ := r[IDField].(string)
	return id
}

// EnsureID returns the record's identifier, assigning a fresh one first if
// the snapshot did not carry any.
func (r Record) EnsureID() string {
	if id := r.ID(); id != "" {
		return id
	}
	id := uuid.New().String()
	r[IDField] = id
	return id
}

// Source binds a collection to its snapshot file. Sources are fixed at
// startup; there is no runtime registration.
type Source struct {
	Name  string             // target collection name
	File  string             // snapshot filename inside the seeds FS
	Model func() interface{} // typed model checked right before each write; nil disables validation
}

// Sources returns all seedable collections, in seeding order.
func Sources() []Source {
	return []Source{
		{Name: "levels", File: "levels.json", Model: func() interface{} { return new(Level) }},
		{Name: "animals", File: "animals.json", Model: func() interface{} { return new(Animal) }},
		{Name: "quizzes", File: "quizzes.json", Model: func() interface{} { return new(Quiz) }},
		{Name: "experts", File: "experts.json", Model: func() interface{} { return new(Expert) }},
		{Name: "sponsors", File: "sponsors.json", Model: func() interface{} { return new(Sponsor) }},
	}
}

// Typed collection models. Snapshot records stay loosely typed through
// normalization and only convert to these at the store-write boundary,
// where they are validated.
type (
	Level struct {
		ID        string      `json:"_id" validate:"required"`
		Name      string      `json:"name" validate:"required"`
		MinPoints int         `json:"minPoints" validate:"gte=0"`
		Badge     null.String `json:"badge"`
		CreatedAt time.Time   `json:"createdAt"`
	}

	Animal struct {
		ID        string      `json:"_id" validate:"required"`
		Name      string      `json:"name" validate:"required"`
		Species   string      `json:"species" validate:"required"`
		Habitat   null.String `json:"habitat"`
		Diet      null.String `json:"diet"`
		Facts     []string    `json:"facts"`
		ImageURL  null.String `json:"imageUrl" validate:"omitempty,url"`
		CreatedAt time.Time   `json:"createdAt"`
	}

	Quiz struct {
		ID        string     `json:"_id" validate:"required"`
		Title     string     `json:"title" validate:"required"`
		AnimalID  string     `json:"animalId"`
		Points    int        `json:"points" validate:"gte=0"`
		Questions []Question `json:"questions" validate:"required,min=1,dive"`
		CreatedAt time.Time  `json:"createdAt"`
	}

	Question struct {
		Prompt  string   `json:"prompt" validate:"required"`
		Choices []string `json:"choices" validate:"required,min=2"`
		Answer  int      `json:"answer" validate:"gte=0"`
	}

	Expert struct {
		ID        string      `json:"_id" validate:"required"`
		Name      string      `json:"name" validate:"required"`
		Email     string      `json:"email" validate:"omitempty,email"`
		Specialty null.String `json:"specialty"`
		Bio       null.String `json:"bio"`
		CreatedAt time.Time   `json:"createdAt"`
	}

	Sponsor struct {
		ID        string      `json:"_id" validate:"required"`
		Name      string      `json:"name" validate:"required"`
		Website   null.String `json:"website" validate:"omitempty,url"`
		LogoURL   null.String `json:"logoUrl" validate:"omitempty,url"`
		CreatedAt time.Time   `json:"createdAt"`
	}
)

// Outcome statuses; terminal states of one source's seeding pass.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// Outcome is the terminal result of seeding one source.
// Insert-if-absent semantics can never update an existing record, so there
// is deliberately no "updated" tally.
type Outcome struct {
	Source  string
	Status  string
	Reason  string // skip reason or error message
	Existed int64  // records already in the collection when skipped
	Deleted int64  // records destroyed by a force-reset

	Inserted       int
	AlreadyPresent int
	Failed         int
}

// Report aggregates the outcomes of one bootstrap run. It is logged and
// discarded; nothing persists it.
type Report struct {
	Outcomes []Outcome
}

func (r Report) count(status string) int {
	var n int
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

func (r Report) Seeded() int  { return r.count(StatusSuccess) }
func (r Report) Skipped() int { return r.count(StatusSkipped) }
func (r Report) Errored() int { return r.count(StatusError) }
