package decl

import (
	"bytes"
	"errors"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"martianoff/enumdispatch/dispatcherr"
)

type (
	sumTypeJSON SumType
	variantJSON Variant
)

// jsonReader decodes declarations from one JSON document and resolves the
// byte offset of every decoded element to a line and column of that document.
type jsonReader struct {
	data  []byte
	lines []int // offsets of line starts
}

func newJSONReader(data []byte) *jsonReader {
	r := &jsonReader{data: data, lines: []int{0}}
	for i, c := range data {
		if c == '\n' {
			r.lines = append(r.lines, i+1)
		}
	}
	return r
}

func (r *jsonReader) decode(f *File) error {
	return json.Unmarshal(r.data, f, r.options(0))
}

// position converts a byte offset of the document to a position. Columns
// count runes.
func (r *jsonReader) position(offset int64) dispatcherr.Position {
	off := int(offset)
	line := sort.Search(len(r.lines), func(i int) bool { return r.lines[i] > off }) - 1
	start := r.lines[line]
	return dispatcherr.Position{Line: line + 1, Column: utf8.RuneCount(r.data[start:off]) + 1}
}

// options returns the unmarshal options for a decoder whose input starts at
// byte base of the document.
func (r *jsonReader) options(base int64) json.Options {
	return json.JoinOptions(
		json.RejectUnknownMembers(true),
		json.WithUnmarshalers(json.JoinUnmarshalers(
			json.UnmarshalFromFunc(func(dec *jsontext.Decoder, st *SumType) error {
				val, start, err := readValue(dec, base)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(val, (*sumTypeJSON)(st), r.options(start)); err != nil {
					return err
				}
				st.Pos = r.position(start + stringOffset(val, "name"))
				return nil
			}),
			json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *Variant) error {
				val, start, err := readValue(dec, base)
				if err != nil {
					return err
				}
				if err := json.Unmarshal(val, (*variantJSON)(v), r.options(start)); err != nil {
					return err
				}
				v.Pos = r.position(start + stringOffset(val, "name"))
				return nil
			}),
			json.UnmarshalFromFunc(func(dec *jsontext.Decoder, f *Fields) error {
				return r.decodeFields(dec, base, f)
			}),
			json.UnmarshalFromFunc(func(dec *jsontext.Decoder, a *Attribute) error {
				return r.decodeAttribute(dec, base, a)
			}),
		)),
	)
}

// decodeFields reads an array of types as unnamed fields, an object as named
// fields in member order and null as a unit variant.
func (r *jsonReader) decodeFields(dec *jsontext.Decoder, base int64, f *Fields) error {
	tok, err := dec.ReadToken()
	if err != nil {
		return err
	}
	switch tok.Kind() {
	case 'n':
		*f = Fields{Style: FieldsUnit}
		return nil
	case '[':
		*f = Fields{Style: FieldsUnnamed}
		for dec.PeekKind() != ']' {
			field, err := r.readField(dec, base)
			if err != nil {
				return err
			}
			f.List = append(f.List, field)
		}
	case '{':
		*f = Fields{Style: FieldsNamed}
		for dec.PeekKind() != '}' {
			name, err := dec.ReadToken()
			if err != nil {
				return err
			}
			field, err := r.readField(dec, base)
			if err != nil {
				return err
			}
			field.Name = name.String()
			f.List = append(f.List, field)
		}
	default:
		return errors.New("fields must be an array or an object")
	}
	// Consume the closing delimiter.
	_, err = dec.ReadToken()
	return err
}

func (r *jsonReader) readField(dec *jsontext.Decoder, base int64) (Field, error) {
	val, start, err := readValue(dec, base)
	if err != nil {
		return Field{}, err
	}
	if val.Kind() != '"' {
		return Field{}, errors.New("field type must be a string")
	}
	typ, err := jsontext.AppendUnquote(nil, val)
	if err != nil {
		return Field{}, err
	}
	return Field{Type: string(typ), Pos: r.position(start + 1)}, nil
}

// decodeAttribute reads an attribute written either as a string in Rust syntax
// or as an object with `path` and `text` members.
func (r *jsonReader) decodeAttribute(dec *jsontext.Decoder, base int64, a *Attribute) error {
	val, start, err := readValue(dec, base)
	if err != nil {
		return err
	}
	switch val.Kind() {
	case '"':
		s, err := jsontext.AppendUnquote(nil, val)
		if err != nil {
			return err
		}
		path, body, column, err := ParseAttribute(string(s))
		if err != nil {
			return err
		}
		bodyStart := runeIndex(string(s), column-1)
		*a = Attribute{Path: path, Text: body, Pos: r.position(start + int64(rawIndex(val, bodyStart)))}
	case '{':
		var raw struct {
			Path string `json:"path"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal(val, &raw, json.RejectUnknownMembers(true)); err != nil {
			return err
		}
		if raw.Path == "" {
			return errors.New("attribute without a path")
		}
		*a = Attribute{Path: raw.Path, Text: raw.Text, Pos: r.position(start + stringOffset(val, "text"))}
	default:
		return errors.New("attribute must be a string or an object")
	}
	return nil
}

// readValue reads the next value and returns it with the document offset it
// starts at.
func readValue(dec *jsontext.Decoder, base int64) (jsontext.Value, int64, error) {
	val, err := dec.ReadValue()
	if err != nil {
		return nil, 0, err
	}
	return val, base + dec.InputOffset() - int64(len(val)), nil
}

// stringOffset returns the offset within the object obj of the first
// character of the string member name, or 0 when there is none.
func stringOffset(obj jsontext.Value, name string) int64 {
	dec := jsontext.NewDecoder(bytes.NewReader(obj))
	if tok, err := dec.ReadToken(); err != nil || tok.Kind() != '{' {
		return 0
	}
	for dec.PeekKind() == '"' {
		member, err := dec.ReadToken()
		if err != nil {
			return 0
		}
		val, err := dec.ReadValue()
		if err != nil {
			return 0
		}
		if member.String() == name {
			start := dec.InputOffset() - int64(len(val))
			if val.Kind() == '"' {
				start++
			}
			return start
		}
	}
	return 0
}

// runeIndex returns the byte index of the n-th rune of s.
func runeIndex(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}

// rawIndex maps the byte index n of the unquoted form of the JSON string raw
// to the index of the same character in raw.
func rawIndex(raw []byte, n int) int {
	i := 1 // opening quote
	for n > 0 && i < len(raw)-1 {
		if raw[i] != '\\' {
			i++
			n--
			continue
		}
		if raw[i+1] != 'u' || i+6 > len(raw) {
			i += 2
			n--
			continue
		}
		r := hexRune(raw[i+2 : i+6])
		i += 6
		if utf8.ValidRune(r) {
			n -= utf8.RuneLen(r)
			continue
		}
		// A surrogate pair spells one rune in two escapes.
		if i+6 <= len(raw) && raw[i] == '\\' && raw[i+1] == 'u' {
			i += 6
			n -= 4
			continue
		}
		n -= utf8.RuneLen(utf8.RuneError)
	}
	return i
}

func hexRune(hex []byte) rune {
	v, err := strconv.ParseUint(string(hex), 16, 32)
	if err != nil {
		return utf8.RuneError
	}
	return rune(v)
}
