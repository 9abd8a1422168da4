package musicxml

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"

	"github.com/pkg/errors"
)

// isLiaison reports whether an element named local under parent is a tie,
// a tied notation or a slur.
func isLiaison(parent, local string) bool {
	switch parent {
	case "note":
		return local == "tie"
	case "notations":
		return local == "tied" || local == "slur"
	}
	return false
}

// StripLiaisons copies a MusicXML document from r to w without ties, tied
// notations and slurs, and returns how many elements it dropped.
func StripLiaisons(r io.Reader, w io.Writer) (int, error) {
	dec := xml.NewDecoder(r)
	enc := xml.NewEncoder(w)
	var stack []string
	removed := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return removed, errors.Wrap(err, "could not parse musicxml")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			if isLiaison(parent, t.Name.Local) {
				removed++
				if err := dec.Skip(); err != nil {
					return removed, errors.Wrap(err, "could not skip element")
				}
				continue
			}
			stack = append(stack, t.Name.Local)
			tok = plainStart(t)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
			t.Name.Space = ""
			tok = t
		}

		if err := enc.EncodeToken(xml.CopyToken(tok)); err != nil {
			return removed, errors.Wrap(err, "could not write musicxml")
		}
	}
	return removed, errors.WithStack(enc.Flush())
}

// plainStart drops the namespace the decoder resolved so the encoder writes
// names back as they were.
func plainStart(t xml.StartElement) xml.StartElement {
	t = t.Copy()
	t.Name.Space = ""
	for i, a := range t.Attr {
		if a.Name.Space == "xmlns" {
			t.Attr[i].Name = xml.Name{Local: "xmlns:" + a.Name.Local}
		}
	}
	return t
}

// StripLiaisonsFile rewrites the file at path in place.
func StripLiaisonsFile(path string) (int, error) {
	in, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "could not read %v", path)
	}

	var out bytes.Buffer
	removed, err := StripLiaisons(bytes.NewReader(in), &out)
	if err != nil {
		return removed, errors.Wrapf(err, "could not strip %v", path)
	}
	return removed, errors.Wrapf(os.WriteFile(path, out.Bytes(), 0666), "could not write %v", path)
}
