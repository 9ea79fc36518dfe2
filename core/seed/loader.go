package seed

import (
	"bytes"
	"encoding/json"
	"io/fs"

	"github.com/pkg/errors"
)

var (
	errSourceNotFound = errors.New("snapshot file not found")
	errSourceEmpty    = errors.New("snapshot holds no records")
)

// LoadSnapshot reads one snapshot file and returns its raw records in file
// order. An absent file, an empty file or well-formed JSON that is not a
// non-empty array all signal a skip (errSourceNotFound/errSourceEmpty);
// malformed content is a genuine error.
func LoadSnapshot(fsys fs.FS, filename string) ([]Record, error) {
	data, err := fs.ReadFile(fsys, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errSourceNotFound
		}
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errSourceEmpty
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}
	arr, ok := doc.([]interface{})
	if !ok || len(arr) == 0 {
		return nil, errSourceEmpty
	}

	records := make([]Record, 0, len(arr))
	for i, elem := range arr {
		m, ok := elem.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("parsing %s: record %d is not an object", filename, i)
		}
		records = append(records, Record(m))
	}
	return records, nil
}
