package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
)

// RelationInput is one requested person/role participation in a sacrament.
type RelationInput struct {
	PersonID uint `json:"persona_id"`
	RoleID   uint `json:"rol_sacramento_id"`
}

var errRelationsFormat = errors.New("formato de relaciones inválido")

// parseRelations normalizes the `relaciones` payload. The legacy frontend
// sends it either as a JSON array or as a JSON-encoded string containing an
// array; both are accepted here, once, so nothing downstream branches on
// shape. Absence or any other type is an error, an empty array is not.
func parseRelations(raw json.RawMessage) ([]RelationInput, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, errRelationsFormat
	}

	if trimmed[0] == '"' {
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return nil, errRelationsFormat
		}
		trimmed = bytes.TrimSpace([]byte(encoded))
	}

	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errRelationsFormat
	}

	var relations []RelationInput
	if err := json.Unmarshal(trimmed, &relations); err != nil {
		return nil, errRelationsFormat
	}
	return relations, nil
}
