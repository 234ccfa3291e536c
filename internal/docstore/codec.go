package docstore

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"
)

// Encode marshals an entity and strips its "id" field; the id is carried by
// the document key instead.
func Encode(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	data, err = sjson.DeleteBytes(data, "id")
	if err != nil {
		return nil, fmt.Errorf("failed to strip document id: %w", err)
	}

	return data, nil
}

// Decode splices the document key into the body as "id" and unmarshals it.
func Decode[T any](doc Document) (T, error) {
	var out T

	data := []byte(doc.Data)
	if len(data) == 0 {
		data = []byte("{}")
	}

	data, err := sjson.SetBytes(data, "id", doc.ID)
	if err != nil {
		return out, fmt.Errorf("failed to splice id into document %s: %w", doc.ID, err)
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("failed to decode document %s: %w", doc.ID, err)
	}

	return out, nil
}

// DecodeAll decodes every document it can. Documents that fail to decode are
// skipped and reported in errs, so one bad record never hides the rest.
func DecodeAll[T any](docs []Document) (out []T, errs []error) {
	out = make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := Decode[T](doc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, v)
	}
	return out, errs
}
