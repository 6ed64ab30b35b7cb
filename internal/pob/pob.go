package pob

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"pobbin/internal/model"
)

const maxDecodedSize = 16 << 20

var ErrInvalidCode = errors.New("invalid path of building code")

// Build is the part of an exported build the site shows without a full
// Path of Building parser.
type Build struct {
	Level           string
	ClassName       string
	AscendClassName string
	TargetVersion   string
	Notes           string
}

type document struct {
	XMLName xml.Name `xml:"PathOfBuilding"`
	Build   struct {
		Level           string `xml:"level,attr"`
		ClassName       string `xml:"className,attr"`
		AscendClassName string `xml:"ascendClassName,attr"`
		TargetVersion   string `xml:"targetVersion,attr"`
	} `xml:"Build"`
	Notes string `xml:"Notes"`
}

// Decode reads an export code: URL-safe base64 of a zlib stream of XML.
func Decode(code string) (Build, error) {
	compressed, err := decodeBase64(strings.Join(strings.Fields(code), ""))
	if err != nil {
		return Build{}, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}

	reader, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return Build{}, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(io.LimitReader(reader, maxDecodedSize))
	if err != nil {
		return Build{}, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}

	var doc document
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return Build{}, fmt.Errorf("%w: %v", ErrInvalidCode, err)
	}

	return Build{
		Level:           doc.Build.Level,
		ClassName:       doc.Build.ClassName,
		AscendClassName: doc.Build.AscendClassName,
		TargetVersion:   doc.Build.TargetVersion,
		Notes:           strings.TrimSpace(doc.Notes),
	}, nil
}

func decodeBase64(code string) ([]byte, error) {
	if code == "" {
		return nil, errors.New("empty code")
	}
	if strings.HasSuffix(code, "=") {
		return base64.URLEncoding.DecodeString(code)
	}
	return base64.RawURLEncoding.DecodeString(code)
}

// Ascendancy is the ascendancy name, or the class when none was chosen.
func (b Build) Ascendancy() string {
	if b.AscendClassName != "" && b.AscendClassName != "None" {
		return b.AscendClassName
	}
	return b.ClassName
}

func (b Build) Title() string {
	name := b.Ascendancy()
	if name == "" {
		return ""
	}
	if b.Level == "" {
		return name
	}
	return "Level " + b.Level + " " + name
}

func (b Build) Metadata() model.Metadata {
	return model.Metadata{
		Title:      b.Title(),
		Ascendancy: b.Ascendancy(),
		Version:    b.TargetVersion,
		Notes:      b.Notes,
	}
}
