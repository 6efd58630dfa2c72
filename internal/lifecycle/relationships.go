package lifecycle

import "github.com/t77yq/lifeos/internal/model"

var inverseRelationships = map[model.RelationshipType]model.RelationshipType{
	model.RelationshipParent:      model.RelationshipChild,
	model.RelationshipChild:       model.RelationshipParent,
	model.RelationshipGrandparent: model.RelationshipGrandchild,
	model.RelationshipGrandchild:  model.RelationshipGrandparent,
	model.RelationshipAuntUncle:   model.RelationshipNieceNephew,
	model.RelationshipNieceNephew: model.RelationshipAuntUncle,
	model.RelationshipGuardian:    model.RelationshipWard,
	model.RelationshipWard:        model.RelationshipGuardian,
	model.RelationshipManager:     model.RelationshipReport,
	model.RelationshipReport:      model.RelationshipManager,
	model.RelationshipMentor:      model.RelationshipMentee,
	model.RelationshipMentee:      model.RelationshipMentor,
	model.RelationshipSpouse:      model.RelationshipSpouse,
	model.RelationshipPartner:     model.RelationshipPartner,
	model.RelationshipSibling:     model.RelationshipSibling,
	model.RelationshipCousin:      model.RelationshipCousin,
	model.RelationshipFriend:      model.RelationshipFriend,
	model.RelationshipColleague:   model.RelationshipColleague,
}

// InverseRelationship returns the type of the mirrored edge. Custom types
// are treated as symmetric.
func InverseRelationship(t model.RelationshipType) model.RelationshipType {
	if inv, ok := inverseRelationships[t]; ok {
		return inv
	}
	return t
}

// EdgeChange is a pending change to the edge OwnerID -> TargetID
type EdgeChange struct {
	OwnerID  string
	TargetID string
	Type     model.RelationshipType
	Remove   bool
}

// ReciprocalsForAdd plans the mirrored edges for a newly added person.
// Targets that are missing, or that already point back at p, are skipped.
func ReciprocalsForAdd(p *model.Person, lookup Lookup) []EdgeChange {
	var changes []EdgeChange
	for _, rel := range p.Relationships {
		if rel.PersonID == p.ID {
			continue
		}
		target, ok := lookup.Person(rel.PersonID)
		if !ok {
			continue
		}
		if _, exists := target.RelationshipTo(p.ID); exists {
			continue
		}
		changes = append(changes, EdgeChange{
			OwnerID:  target.ID,
			TargetID: p.ID,
			Type:     InverseRelationship(rel.Type),
		})
	}
	return changes
}

// ReciprocalsForUpdate diffs old and updated by target id. All removals are
// returned before any upserts.
func ReciprocalsForUpdate(old, updated *model.Person, lookup Lookup) []EdgeChange {
	current := make(map[string]model.RelationshipType, len(updated.Relationships))
	for _, rel := range updated.Relationships {
		current[rel.PersonID] = rel.Type
	}

	var removals, upserts []EdgeChange
	for _, rel := range old.Relationships {
		if _, kept := current[rel.PersonID]; kept || rel.PersonID == updated.ID {
			continue
		}
		if _, ok := lookup.Person(rel.PersonID); !ok {
			continue
		}
		removals = append(removals, EdgeChange{
			OwnerID:  rel.PersonID,
			TargetID: updated.ID,
			Remove:   true,
		})
	}

	seen := make(map[string]bool, len(updated.Relationships))
	for _, rel := range updated.Relationships {
		if rel.PersonID == updated.ID || seen[rel.PersonID] {
			continue
		}
		seen[rel.PersonID] = true
		if _, ok := lookup.Person(rel.PersonID); !ok {
			continue
		}
		upserts = append(upserts, EdgeChange{
			OwnerID:  rel.PersonID,
			TargetID: updated.ID,
			Type:     InverseRelationship(current[rel.PersonID]),
		})
	}

	return append(removals, upserts...)
}

// ApplyEdge applies change to p, which must be the change owner. It reports
// whether p was modified.
func ApplyEdge(p *model.Person, change EdgeChange) bool {
	for i, rel := range p.Relationships {
		if rel.PersonID != change.TargetID {
			continue
		}
		if change.Remove {
			p.Relationships = append(p.Relationships[:i:i], p.Relationships[i+1:]...)
			return true
		}
		if rel.Type == change.Type {
			return false
		}
		p.Relationships[i].Type = change.Type
		return true
	}
	if change.Remove {
		return false
	}
	p.Relationships = append(p.Relationships, model.Relationship{
		PersonID: change.TargetID,
		Type:     change.Type,
	})
	return true
}
