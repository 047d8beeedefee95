package dicom

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// display renders values for dumps; bulk data is reduced to its size
func display(v interface{}) interface{} {
	switch v := v.(type) {
	case *PixelData:
		return fmt.Sprintf("%d frames, %d bytes", v.NumFrames(), len(v.GetFlatData()))
	case []byte:
		if len(v) > 20 {
			return fmt.Sprintf("%d bytes", len(v))
		}
	case []string:
		return strings.Join(v, `\`)
	}
	return v
}

// String formats the element as "(gggg,eeee) VR Name: value"
func (e *Element) String() string {
	name := e.Tag.LookupName()
	if name == "" {
		name = "Unknown"
	}
	return fmt.Sprintf("%s %s %s: %v", e.Tag, e.VR, name, display(e.Value))
}

func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Tag   string      `json:"tag"`
		Name  string      `json:"name,omitempty"`
		VR    string      `json:"vr"`
		Value interface{} `json:"value"`
	}{
		Tag:   e.Tag.String(),
		Name:  e.Tag.LookupName(),
		VR:    string(e.VR),
		Value: display(e.Value),
	})
}

// Sorted returns the elements in ascending tag order
func (ds *Dataset) Sorted() []*Element {
	elements := make([]*Element, 0, len(ds.Elements))
	for _, elem := range ds.Elements {
		elements = append(elements, elem)
	}
	slices.SortFunc(elements, func(a, b *Element) int {
		switch {
		case a.Tag.Less(b.Tag):
			return -1
		case b.Tag.Less(a.Tag):
			return 1
		}
		return 0
	})
	return elements
}

// String lists one element per line in tag order
func (ds *Dataset) String() string {
	if ds == nil {
		return "<nil>"
	}
	var b strings.Builder
	for _, elem := range ds.Sorted() {
		b.WriteString(elem.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// MarshalJSON encodes the elements as an array in tag order
func (ds *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(ds.Sorted())
}
