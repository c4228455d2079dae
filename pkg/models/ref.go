package models

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ref is a reference to another record as it appears in write requests.
// Clients send either a bare id string ("65af...") or an object carrying an
// id field ({"id": "65af...", "name": ...}); both decode to the same value
// so everything past the JSON boundary deals in ObjectIDs only.
type Ref struct {
	ID primitive.ObjectID
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return fmt.Errorf("invalid id %q", s)
		}
		r.ID = oid
		return nil
	}

	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("reference must be an id string or an object with an id field")
	}
	if obj.ID == "" {
		return fmt.Errorf("reference object missing id field")
	}
	oid, err := primitive.ObjectIDFromHex(obj.ID)
	if err != nil {
		return fmt.Errorf("invalid id %q", obj.ID)
	}
	r.ID = oid
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID.Hex())
}

// IDs unwraps a slice of refs into bare ObjectIDs. Returns an empty,
// non-nil slice for empty input so book author lists never serialize as
// null in the store.
func IDs(refs []Ref) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}
