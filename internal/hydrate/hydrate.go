package hydrate

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Attribute carries the encoded page data on the single marker node of a
// server rendered page.
const Attribute = "data-ssr"

var ErrHydration = errors.New("hydration payload")

type Stage string

const (
	StageLocate      Stage = "locate"
	StageDecode      Stage = "decode"
	StageDeserialize Stage = "deserialize"
)

// DecodeError is fatal to hydration. Callers must not fall back to
// fetching the data instead.
type DecodeError struct {
	Stage Stage
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("hydration payload %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrHydration
}

var encoding = base64.RawURLEncoding

// Encode serializes value to JSON and then to unpadded URL-safe base64. The
// output only contains [A-Za-z0-9_-] and is never empty.
func Encode(value interface{}) (string, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("serialize hydration payload: %w", err)
	}

	return encoding.EncodeToString(payload), nil
}

// Decode is the inverse of Encode.
func Decode(text string, into interface{}) error {
	payload, err := encoding.DecodeString(text)
	if err != nil {
		return &DecodeError{Stage: StageDecode, Err: err}
	}
	if len(payload) == 0 {
		return &DecodeError{Stage: StageDecode, Err: errors.New("empty payload")}
	}

	if err := json.Unmarshal(payload, into); err != nil {
		return &DecodeError{Stage: StageDeserialize, Err: err}
	}

	return nil
}

// FromMarkup finds the marker node under root and decodes its payload.
// Exactly one marker node must exist.
func FromMarkup(root *goquery.Selection, into interface{}) error {
	if root == nil {
		return &DecodeError{Stage: StageLocate, Err: errors.New("no markup root")}
	}

	selector := "[" + Attribute + "]"
	markers := root.Find(selector)
	if root.Is(selector) {
		markers = markers.AddSelection(root)
	}

	if count := markers.Length(); count != 1 {
		if count == 0 {
			return &DecodeError{Stage: StageLocate, Err: errors.New("marker node not found")}
		}
		return &DecodeError{Stage: StageLocate, Err: fmt.Errorf("found %d marker nodes", count)}
	}

	text, ok := markers.Attr(Attribute)
	if !ok {
		return &DecodeError{Stage: StageLocate, Err: errors.New("marker attribute missing")}
	}

	return Decode(text, into)
}
