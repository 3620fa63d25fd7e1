package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Marshal produces compact canonical JSON for v. v is first encoded with
// encoding/json, so struct tags and MarshalJSON methods apply.
func Marshal(v any) ([]byte, error) {
	tree, err := decodeTree(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeValue(&buf, tree, "", ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Snapshot produces indented canonical JSON terminated by a newline. It is
// the on-disk form of chart specs and golden files.
func Snapshot(v any) ([]byte, error) {
	tree, err := decodeTree(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeValue(&buf, tree, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func decodeTree(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canon: encode: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("canon: decode: %w", err)
	}
	return tree, nil
}

func writeValue(buf *bytes.Buffer, v any, prefix, indent string) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case json.Number:
		buf.WriteString(val.String())
	case string:
		writeString(buf, val)
	case []any:
		return writeArray(buf, val, prefix, indent)
	case map[string]any:
		return writeObject(buf, val, prefix, indent)
	default:
		return fmt.Errorf("canon: unsupported type %T", v)
	}
	return nil
}

func writeArray(buf *bytes.Buffer, arr []any, prefix, indent string) error {
	if len(arr) == 0 {
		buf.WriteString("[]")
		return nil
	}
	inner := prefix + indent
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		newline(buf, inner, indent)
		if err := writeValue(buf, elem, inner, indent); err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
	}
	newline(buf, prefix, indent)
	buf.WriteByte(']')
	return nil
}

func writeObject(buf *bytes.Buffer, obj map[string]any, prefix, indent string) error {
	if len(obj) == 0 {
		buf.WriteString("{}")
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)

	inner := prefix + indent
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		newline(buf, inner, indent)
		writeString(buf, k)
		buf.WriteByte(':')
		if indent != "" {
			buf.WriteByte(' ')
		}
		if err := writeValue(buf, obj[k], inner, indent); err != nil {
			return fmt.Errorf("%q: %w", k, err)
		}
	}
	newline(buf, prefix, indent)
	buf.WriteByte('}')
	return nil
}

func newline(buf *bytes.Buffer, prefix, indent string) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(prefix)
}

const hexDigits = "0123456789abcdef"

// writeString writes s NFC-normalised, escaping only what RFC 8785 requires.
func writeString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r < 0x20:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexDigits[r>>4])
			buf.WriteByte(hexDigits[r&0xf])
		case r == utf8.RuneError && size == 1:
			buf.WriteString("\ufffd")
		default:
			buf.WriteString(s[i : i+size])
		}
		i += size
	}
	buf.WriteByte('"')
}

// compareUTF16 orders strings by UTF-16 code units. Byte order differs for
// characters above U+FFFF versus U+E000..U+FFFF.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
