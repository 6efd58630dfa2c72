package lifecycle

import "github.com/t77yq/lifeos/internal/model"

// Lookup resolves ids to entities. A missing id is reported with ok=false and
// is never an error: references in this model are weak.
//
// Returned pointers are read-only views owned by the caller's store.
type Lookup interface {
	Task(id string) (*model.Task, bool)
	Asset(id string) (*model.Asset, bool)
	Person(id string) (*model.Person, bool)
	ShoppingItem(id string) (*model.ShoppingItem, bool)
}
