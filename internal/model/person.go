package model

import "time"

// RelationshipType names an edge in the people graph
type RelationshipType string

const (
	RelationshipParent      RelationshipType = "parent"
	RelationshipChild       RelationshipType = "child"
	RelationshipGrandparent RelationshipType = "grandparent"
	RelationshipGrandchild  RelationshipType = "grandchild"
	RelationshipSpouse      RelationshipType = "spouse"
	RelationshipPartner     RelationshipType = "partner"
	RelationshipSibling     RelationshipType = "sibling"
	RelationshipAuntUncle   RelationshipType = "aunt_uncle"
	RelationshipNieceNephew RelationshipType = "niece_nephew"
	RelationshipCousin      RelationshipType = "cousin"
	RelationshipGuardian    RelationshipType = "guardian"
	RelationshipWard        RelationshipType = "ward"
	RelationshipFriend      RelationshipType = "friend"
	RelationshipColleague   RelationshipType = "colleague"
	RelationshipManager     RelationshipType = "manager"
	RelationshipReport      RelationshipType = "report"
	RelationshipMentor      RelationshipType = "mentor"
	RelationshipMentee      RelationshipType = "mentee"
)

// Relationship is a directed edge from the owning person to PersonID
type Relationship struct {
	PersonID string           `json:"person_id" yaml:"person_id"`
	Type     RelationshipType `json:"type" yaml:"type"`
}

// SharePermission is the access level of a sharing grant
type SharePermission string

const (
	ShareView SharePermission = "view"
	ShareEdit SharePermission = "edit"
)

// ShareGrant gives another account access to a person record
type ShareGrant struct {
	PersonID   string          `json:"person_id,omitempty" yaml:"person_id,omitempty"`
	Email      string          `json:"email,omitempty" yaml:"email,omitempty"`
	Permission SharePermission `json:"permission" yaml:"permission"`
}

// Person is a node in the relationship graph
type Person struct {
	ID        string     `json:"id" yaml:"id"`
	FirstName string     `json:"first_name" yaml:"first_name"`
	LastName  string     `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Nickname  string     `json:"nickname,omitempty" yaml:"nickname,omitempty"`
	Email     string     `json:"email,omitempty" yaml:"email,omitempty"`
	Phone     string     `json:"phone,omitempty" yaml:"phone,omitempty"`
	Birthday  *time.Time `json:"birthday,omitempty" yaml:"birthday,omitempty"`

	Relationships []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Groups        []string       `json:"groups,omitempty" yaml:"groups,omitempty"`
	Notes         []Comment      `json:"notes,omitempty" yaml:"notes,omitempty"`
	SharedWith    []ShareGrant   `json:"shared_with,omitempty" yaml:"shared_with,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// DisplayName returns the name used in activity entries
func (p *Person) DisplayName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// RelationshipTo returns the edge pointing at personID, if any
func (p *Person) RelationshipTo(personID string) (Relationship, bool) {
	for _, rel := range p.Relationships {
		if rel.PersonID == personID {
			return rel, true
		}
	}
	return Relationship{}, false
}

// Clone returns a deep copy of the person
func (p Person) Clone() Person {
	c := p
	c.Birthday = cloneTime(p.Birthday)
	if p.Relationships != nil {
		c.Relationships = append([]Relationship(nil), p.Relationships...)
	}
	c.Groups = cloneStrings(p.Groups)
	if p.Notes != nil {
		c.Notes = append([]Comment(nil), p.Notes...)
	}
	if p.SharedWith != nil {
		c.SharedWith = append([]ShareGrant(nil), p.SharedWith...)
	}
	return c
}
