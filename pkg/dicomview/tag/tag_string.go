package tag

import (
	"encoding/json"
	"fmt"
)

// String returns the canonical form of the Tag (GGGGEEEE)
func (t Tag) String() string {
	return fmt.Sprintf("%04X%04X", t.Group, t.Element)
}

// Display returns the bracketed form of the Tag (GGGG,EEEE)
func (t Tag) Display() string {
	return fmt.Sprintf("(%04X,%04X)", t.Group, t.Element)
}

// MarshalJSON returns a JSON representation of the Tag
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the canonical form
func (t *Tag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedTagID, data)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
