package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CategorySet maps category names to their item collections while
// remembering creation order, so repeated saves of unchanged data stay
// byte-identical. Categories are created explicitly and never on first
// write.
type CategorySet struct {
	names []string
	items map[string]*Collection[CategoryItem]
}

func (s *CategorySet) ensure() {
	if s.items == nil {
		s.items = make(map[string]*Collection[CategoryItem])
	}
}

// Names returns all category names in creation order.
func (s *CategorySet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len reports the number of categories.
func (s *CategorySet) Len() int { return len(s.names) }

// Create inserts an empty category under name.
func (s *CategorySet) Create(name string) error {
	if name == "" {
		return fmt.Errorf("%w: category name must not be empty", ErrValidation)
	}
	s.ensure()
	if _, ok := s.items[name]; ok {
		return fmt.Errorf("%w: category %q", ErrConflict, name)
	}
	s.names = append(s.names, name)
	s.items[name] = &Collection[CategoryItem]{}
	return nil
}

// Delete removes the category and all its items irreversibly.
func (s *CategorySet) Delete(name string) error {
	if _, ok := s.items[name]; !ok {
		return fmt.Errorf("%w: category %q", ErrNotFound, name)
	}
	delete(s.items, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return nil
}

// Items returns the collection for name, or ErrNotFound. The category
// is never auto-created by any access path.
func (s *CategorySet) Items(name string) (*Collection[CategoryItem], error) {
	col, ok := s.items[name]
	if !ok {
		return nil, fmt.Errorf("%w: category %q", ErrNotFound, name)
	}
	return col, nil
}

// MarshalJSON encodes categories as a JSON object in creation order,
// {} when empty.
func (s *CategorySet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(s.items[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object token by token so that the original
// key order survives the round trip.
func (s *CategorySet) UnmarshalJSON(data []byte) error {
	s.names = nil
	s.items = make(map[string]*Collection[CategoryItem])

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("categories: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("categories: expected key, got %v", keyTok)
		}
		col := &Collection[CategoryItem]{}
		if err := dec.Decode(col); err != nil {
			return err
		}
		if _, exists := s.items[name]; !exists {
			s.names = append(s.names, name)
		}
		s.items[name] = col
	}
	_, err = dec.Token() // closing brace
	return err
}
