package stomp

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AsMap decodes f.Body as a JSON object when f carries a
// "transformation" header equal to TransformationJSONMap
// (case-insensitive). ok is false if the header is
// absent or the body does not decode as a JSON object.
func (f *Frame) AsMap() (m map[string]string, ok bool) {
	transformation, present := f.Header(HKTransformation)
	if !present || !equalFoldJSONMap(transformation) {
		return nil, false
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(f.Body, &raw); err != nil {
		return nil, false
	}
	m = make(map[string]string, len(raw))
	for k, v := range raw {
		m[k] = fmt.Sprint(v)
	}
	return m, true
}

func equalFoldJSONMap(s string) bool {
	return strings.EqualFold(s, TransformationJSONMap)
}

// NewMapFrame builds a SEND-shaped Frame whose body is m encoded as a
// JSON object, with "transformation" set to TransformationJSONMap and
// "content-type" set to application/json.
func NewMapFrame(destination string, m map[string]string) (*Frame, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	f := NewFrame(SEND)
	f.Headers.Set(HKDestination, destination)
	f.Headers.Set(HKTransformation, TransformationJSONMap)
	f.Headers.Set(HKContentType, "application/json")
	f.Body = body
	return f, nil
}
